package model

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of money for a transaction or category.
type TransactionType string

const (
	// TypeIncome is money coming in.
	TypeIncome TransactionType = "income"
	// TypeExpense is money going out.
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction validation errors.
var (
	ErrEmptyName       = errors.New("name is required")
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrInvalidType     = errors.New("invalid type")
	ErrMissingCategory = errors.New("category is required")
	ErrMissingAccount  = errors.New("account is required")
	ErrMissingDate     = errors.New("date is required")
)

// Transaction is a single income or expense entry in the ledger.
type Transaction struct {
	CreatedAt  time.Time       `json:"createdAt"`
	Date       Date            `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	CategoryID string          `json:"category"`
	AccountID  string          `json:"account"`
	Type       TransactionType `json:"type"`
	Notes      string          `json:"notes,omitempty"`
}

// Validate checks the record-level rules of a transaction.
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, t.Type)
	}
	if t.CategoryID == "" {
		return ErrMissingCategory
	}
	if t.AccountID == "" {
		return ErrMissingAccount
	}
	if t.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// GenerateHash creates a stable hash for duplicate detection during imports.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s",
		t.Date.String(),
		t.Amount.String(),
		t.Name,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
