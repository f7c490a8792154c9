package ofx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/lifeos/internal/common"
	"github.com/Veraticus/lifeos/internal/ledger"
	"github.com/Veraticus/lifeos/internal/model"
)

// Default categories for imported lines.
const (
	DefaultExpenseCategory = "outros"
	DefaultIncomeCategory  = "salario"
	InterestCategory       = "investimentos"
)

// Editor is the part of the transaction editor the importer drives.
type Editor interface {
	Open(existing *model.Transaction) (ledger.TransactionForm, error)
	Submit(ctx context.Context, form ledger.TransactionForm) (string, error)
	Cancel()
}

// ImportOptions configures an import run.
type ImportOptions struct {
	// Progress is called after each line is handled.
	Progress func(done, total int)
	// AccountID is the ledger account lines are posted to. When empty, the
	// statement's own account number is used.
	AccountID       string
	ExpenseCategory string
	IncomeCategory  string
	// Existing transactions are used to skip lines that were already imported.
	Existing []model.Transaction
}

// Rejection is a line the editor refused.
type Rejection struct {
	Err  error
	Line Line
}

// ImportResult summarizes an import run.
type ImportResult struct {
	Rejected   []Rejection
	Created    int
	Duplicates int
}

// Import submits every line through editor. Lines that fail validation are
// collected in the result; a storage failure stops the run.
func Import(ctx context.Context, editor Editor, lines []Line, opts ImportOptions) (ImportResult, error) {
	var result ImportResult

	seen := make(map[string]struct{}, len(opts.Existing)+len(lines))
	for i := range opts.Existing {
		seen[opts.Existing[i].GenerateHash()] = struct{}{}
	}

	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		accountID := opts.AccountID
		if accountID == "" {
			accountID = line.AccountID
		}
		tx := line.Transaction(accountID, categoryFor(line, opts))

		hash := tx.GenerateHash()
		if _, dup := seen[hash]; dup {
			result.Duplicates++
			report(opts, i+1, len(lines))
			continue
		}

		id, err := submit(ctx, editor, tx)
		switch {
		case err == nil && id == "":
			return result, common.ErrNoIdentity
		case err == nil:
			seen[hash] = struct{}{}
			result.Created++
		case isValidation(err):
			slog.Warn("Skipping statement line", "fitid", line.FITID, "error", err)
			result.Rejected = append(result.Rejected, Rejection{Line: line, Err: err})
		default:
			return result, fmt.Errorf("import line %s: %w", line.FITID, err)
		}
		report(opts, i+1, len(lines))
	}

	slog.Info("Imported statement",
		"created", result.Created,
		"duplicates", result.Duplicates,
		"rejected", len(result.Rejected))
	return result, nil
}

func submit(ctx context.Context, editor Editor, tx model.Transaction) (string, error) {
	if _, err := editor.Open(nil); err != nil {
		return "", err
	}
	id, err := editor.Submit(ctx, ledger.TransactionForm{
		Name:       tx.Name,
		Amount:     tx.Amount.String(),
		CategoryID: tx.CategoryID,
		AccountID:  tx.AccountID,
		Date:       tx.Date.String(),
		Type:       string(tx.Type),
		Notes:      tx.Notes,
	})
	if err != nil {
		editor.Cancel()
	}
	return id, err
}

func categoryFor(line Line, opts ImportOptions) string {
	switch strings.ToUpper(line.TrnType) {
	case "INT", "DIV":
		if line.Type == model.TypeIncome {
			return InterestCategory
		}
	}
	if line.Type == model.TypeIncome {
		if opts.IncomeCategory != "" {
			return opts.IncomeCategory
		}
		return DefaultIncomeCategory
	}
	if opts.ExpenseCategory != "" {
		return opts.ExpenseCategory
	}
	return DefaultExpenseCategory
}

func isValidation(err error) bool {
	var verr *ledger.ValidationError
	return errors.As(err, &verr)
}

func report(opts ImportOptions, done, total int) {
	if opts.Progress != nil {
		opts.Progress(done, total)
	}
}
