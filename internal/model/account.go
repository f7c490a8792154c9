package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType classifies where money is held.
type AccountType string

// Account types.
const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountInvestment AccountType = "investment"
	AccountCash       AccountType = "cash"
	AccountCredit     AccountType = "credit"
)

// AccountTypes lists the account types in display order.
var AccountTypes = []AccountType{
	AccountChecking,
	AccountSavings,
	AccountInvestment,
	AccountCash,
	AccountCredit,
}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	for _, known := range AccountTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Account holds a manually maintained balance. The balance is never derived
// from transactions; it only changes when the account itself is edited.
type Account struct {
	Balance decimal.Decimal `json:"balance"`
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Type    AccountType     `json:"type"`
	Color   string          `json:"color"`
}

// Validate checks the record-level rules of an account.
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if !a.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, a.Type)
	}
	return nil
}
