package ledger

import (
	"context"
	"strings"

	"github.com/Veraticus/lifeos/internal/category"
	"github.com/Veraticus/lifeos/internal/model"
	"github.com/Veraticus/lifeos/internal/service"
)

// AccountForm is the editable state of an account.
type AccountForm struct {
	Name    string
	Type    string
	Balance string
	Color   string
}

// AccountEditor creates, edits and deletes accounts. Saving an account never
// touches transactions, and transactions never touch the balance.
type AccountEditor struct {
	base
}

// NewAccountEditor creates an account editor.
func NewAccountEditor(store service.DocumentStore, identity service.Identity, desk *Desk) *AccountEditor {
	return &AccountEditor{
		base: newBase(store, identity, desk, "account editor", service.CollectionAccounts),
	}
}

// Open starts editing existing, or a new account when existing is nil.
func (e *AccountEditor) Open(existing *model.Account) (AccountForm, error) {
	if existing == nil {
		if err := e.begin(""); err != nil {
			return AccountForm{}, err
		}
		return AccountForm{
			Type:    string(model.AccountChecking),
			Balance: "0",
			Color:   category.DefaultColor,
		}, nil
	}

	if err := e.begin(existing.ID); err != nil {
		return AccountForm{}, err
	}
	return AccountForm{
		Name:    existing.Name,
		Type:    string(existing.Type),
		Balance: existing.Balance.String(),
		Color:   orDefault(existing.Color, category.DefaultColor),
	}, nil
}

// Validate checks form and returns the account it describes. The balance may
// be negative.
func (e *AccountEditor) Validate(form AccountForm) (model.Account, error) {
	var a model.Account
	var err error

	if a.Name, err = required("name", form.Name); err != nil {
		return a, err
	}
	a.Type = model.AccountType(strings.TrimSpace(form.Type))
	if !a.Type.Valid() {
		return a, invalid("type", form.Type, model.ErrInvalidType)
	}
	if a.Balance, err = parseDecimal("balance", form.Balance); err != nil {
		return a, err
	}
	a.Color = orDefault(form.Color, category.DefaultColor)
	a.ID = e.editingID
	return a, nil
}

// Submit validates and writes the form, returning the record id.
func (e *AccountEditor) Submit(ctx context.Context, form AccountForm) (string, error) {
	if !e.open {
		return "", ErrNotOpen
	}
	a, err := e.Validate(form)
	if err != nil {
		return "", err
	}

	return e.write(ctx, service.Fields{
		"name":    a.Name,
		"type":    string(a.Type),
		"balance": a.Balance.String(),
		"color":   a.Color,
	})
}

// RequestDelete asks confirmer, then deletes existing.
func (e *AccountEditor) RequestDelete(ctx context.Context, existing model.Account, confirmer Confirmer) (DeleteOutcome, error) {
	return e.remove(ctx, existing.ID, existing.Name, confirmer)
}
