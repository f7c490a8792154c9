package model

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Goal validation errors.
var (
	ErrInvalidTarget  = errors.New("target amount must be greater than zero")
	ErrInvalidCurrent = errors.New("current amount cannot be negative")
)

// Goal is a savings target. CurrentAmount may exceed TargetAmount.
type Goal struct {
	Deadline      Date            `json:"deadline"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Color         string          `json:"color"`
}

// Validate checks the record-level rules of a goal.
func (g *Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if !g.TargetAmount.IsPositive() {
		return ErrInvalidTarget
	}
	if g.CurrentAmount.IsNegative() {
		return ErrInvalidCurrent
	}
	return nil
}
