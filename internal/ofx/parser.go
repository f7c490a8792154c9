// Package ofx reads OFX/QFX bank statements and imports them into the ledger.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/lifeos/internal/model"
)

// Line is one statement transaction.
type Line struct {
	Date      model.Date
	Amount    decimal.Decimal
	FITID     string
	Name      string
	Merchant  string
	Memo      string
	AccountID string
	TrnType   string
	Type      model.TransactionType
}

// Transaction returns the ledger transaction the line describes, posted to
// accountID under categoryID.
func (l Line) Transaction(accountID, categoryID string) model.Transaction {
	return model.Transaction{
		Date:       l.Date,
		Amount:     l.Amount,
		Name:       l.Merchant,
		CategoryID: categoryID,
		AccountID:  accountID,
		Type:       l.Type,
		Notes:      l.Memo,
	}
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, func(match string) string {
		return strings.ToUpper(match)
	})

	// Fix missing closing angle brackets in SGML-style OFX files
	// Match opening tags that are missing their closing bracket
	// Pattern: <TAGNAME at end of line (no > and no content after tag)
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX file and returns its statement lines.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]Line, error) {

	// Read and preprocess the content
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	processedContent := p.preprocessOFX(string(content))

	// Parse OFX response
	resp, err := ofxgo.ParseResponse(strings.NewReader(processedContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []Line
	var bankStmts, ccStmts int

	// Process bank messages
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			txns, err := p.processBankStatement(stmt)
			if err != nil {
				slog.Warn("Failed to process bank statement",
					"account", stmt.BankAcctFrom.AcctID,
					"error", err)
				continue
			}
			transactions = append(transactions, txns...)
		}
	}

	// Process credit card messages
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			txns, err := p.processCreditCardStatement(stmt)
			if err != nil {
				slog.Warn("Failed to process credit card statement",
					"account", stmt.CCAcctFrom.AcctID,
					"error", err)
				continue
			}
			transactions = append(transactions, txns...)
		}
	}

	slog.Debug("Parsed OFX file",
		"total_transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

// processBankStatement converts OFX bank transactions to statement lines.
func (p *Parser) processBankStatement(stmt *ofxgo.StatementResponse) ([]Line, error) {
	if stmt.BankTranList == nil {
		return nil, nil
	}
	return p.convertAll(stmt.BankTranList.Transactions, string(stmt.BankAcctFrom.AcctID))
}

// processCreditCardStatement converts OFX credit card transactions to statement lines.
func (p *Parser) processCreditCardStatement(stmt *ofxgo.CCStatementResponse) ([]Line, error) {
	if stmt.BankTranList == nil {
		return nil, nil
	}
	return p.convertAll(stmt.BankTranList.Transactions, string(stmt.CCAcctFrom.AcctID))
}

func (p *Parser) convertAll(txs []ofxgo.Transaction, accountID string) ([]Line, error) {
	lines := make([]Line, 0, len(txs))
	for _, ofxTx := range txs {
		line, err := p.convertTransaction(ofxTx, accountID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// convertTransaction converts an OFX transaction to a statement line.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, accountID string) (Line, error) {
	// OFX uses negative amounts for debits.
	amount, err := decimal.NewFromString(ofxTx.TrnAmt.FloatString(2))
	if err != nil {
		return Line{}, fmt.Errorf("transaction %s: invalid amount: %w", ofxTx.FiTID, err)
	}

	line := Line{
		FITID:     string(ofxTx.FiTID),
		Date:      model.DateOf(ofxTx.DtPosted.Time),
		Name:      string(ofxTx.Name),
		Merchant:  p.extractMerchantName(ofxTx),
		Memo:      strings.TrimSpace(string(ofxTx.Memo)),
		Amount:    amount.Abs(),
		AccountID: accountID,
		TrnType:   fmt.Sprintf("%v", ofxTx.TrnType), // e.g., DEBIT, CHECK, INT, FEE
		Type:      model.TypeExpense,
	}
	if amount.IsPositive() {
		line.Type = model.TypeIncome
	}
	if line.Merchant == "" {
		line.Merchant = line.TrnType
	}
	return line, nil
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner merchant name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	// Fall back to NAME field
	name := string(tx.Name)

	// Use MEMO field if NAME is generic
	if tx.Memo != "" && isGenericDescription(name) {
		// Sometimes MEMO has better merchant info
		name = string(tx.Memo)
	}

	// Basic cleanup
	name = strings.TrimSpace(name)

	// Remove common prefixes
	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}

	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Clean up date patterns like "MM/DD" at the beginning
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PURCHASE",
		"PAYMENT",
		"POS TRANSACTION",
		"CARD PURCHASE",
	}

	upperName := strings.ToUpper(name)
	for _, g := range generic {
		if upperName == g {
			return true
		}
	}
	return false
}

// GetAccounts extracts unique account IDs from the OFX file.
func (p *Parser) GetAccounts(ctx context.Context, reader io.Reader) ([]string, error) {
	// Read and preprocess the content
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	processedContent := p.preprocessOFX(string(content))

	resp, err := ofxgo.ParseResponse(strings.NewReader(processedContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	accountMap := make(map[string]bool)

	// Bank accounts
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			if stmt.BankAcctFrom.AcctID != "" {
				accountMap[string(stmt.BankAcctFrom.AcctID)] = true
			}
		}
	}

	// Credit card accounts
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			if stmt.CCAcctFrom.AcctID != "" {
				accountMap[string(stmt.CCAcctFrom.AcctID)] = true
			}
		}
	}

	// Convert to slice
	var accounts []string
	for acct := range accountMap {
		accounts = append(accounts, acct)
	}

	return accounts, nil
}
