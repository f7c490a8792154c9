package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/Veraticus/lifeos/internal/category"
	"github.com/Veraticus/lifeos/internal/model"
	"github.com/Veraticus/lifeos/internal/service"
)

// TransactionForm is the editable state of a transaction.
type TransactionForm struct {
	Name       string
	Amount     string
	CategoryID string
	AccountID  string
	Date       string
	Type       string
	Notes      string
}

// CatalogFunc returns the current effective category catalog.
type CatalogFunc func() []model.Category

// TransactionEditor creates, edits and deletes transactions.
type TransactionEditor struct {
	catalog CatalogFunc
	now     func() time.Time
	base
}

// NewTransactionEditor creates a transaction editor. catalog is consulted on
// every submit so that the category check sees the latest customs.
func NewTransactionEditor(store service.DocumentStore, identity service.Identity, desk *Desk, catalog CatalogFunc) *TransactionEditor {
	if catalog == nil {
		catalog = func() []model.Category { return category.BuiltIn() }
	}
	return &TransactionEditor{
		base:    newBase(store, identity, desk, "transaction editor", service.CollectionTransactions),
		catalog: catalog,
		now:     time.Now,
	}
}

// SetClock replaces the clock used for the default date.
func (e *TransactionEditor) SetClock(now func() time.Time) {
	e.now = now
}

// Open starts editing existing, or a new transaction when existing is nil.
func (e *TransactionEditor) Open(existing *model.Transaction) (TransactionForm, error) {
	if existing == nil {
		if err := e.begin(""); err != nil {
			return TransactionForm{}, err
		}
		return TransactionForm{
			Date: model.DateOf(e.now()).String(),
			Type: string(model.TypeExpense),
		}, nil
	}

	if err := e.begin(existing.ID); err != nil {
		return TransactionForm{}, err
	}
	return TransactionForm{
		Name:       existing.Name,
		Amount:     existing.Amount.String(),
		CategoryID: existing.CategoryID,
		AccountID:  existing.AccountID,
		Date:       existing.Date.String(),
		Type:       string(existing.Type),
		Notes:      existing.Notes,
	}, nil
}

// Validate checks form and returns the transaction it describes.
func (e *TransactionEditor) Validate(form TransactionForm) (model.Transaction, error) {
	var t model.Transaction
	var err error

	if t.Name, err = required("name", form.Name); err != nil {
		return t, err
	}
	if t.Amount, err = parseDecimal("amount", form.Amount); err != nil {
		return t, err
	}
	if !t.Amount.IsPositive() {
		return t, invalid("amount", form.Amount, ErrOutOfRange)
	}

	t.Type = model.TransactionType(strings.TrimSpace(form.Type))
	if !t.Type.Valid() {
		return t, invalid("type", form.Type, model.ErrInvalidType)
	}

	if t.CategoryID, err = required("category", form.CategoryID); err != nil {
		return t, err
	}
	cat, ok := category.Lookup(t.CategoryID, e.catalog())
	if !ok {
		return t, invalid("category", t.CategoryID, ErrUnknownCategory)
	}
	if cat.Type != t.Type {
		return t, invalid("type", form.Type, ErrTypeMismatch)
	}

	if t.AccountID, err = required("account", form.AccountID); err != nil {
		return t, err
	}

	date, err := required("date", form.Date)
	if err != nil {
		return t, err
	}
	if t.Date, err = model.ParseDate(date); err != nil {
		return t, invalid("date", date, err)
	}

	t.Notes = strings.TrimSpace(form.Notes)
	t.ID = e.editingID
	return t, nil
}

// Submit validates and writes the form, returning the record id. Nothing is
// written when validation fails.
func (e *TransactionEditor) Submit(ctx context.Context, form TransactionForm) (string, error) {
	if !e.open {
		return "", ErrNotOpen
	}
	t, err := e.Validate(form)
	if err != nil {
		return "", err
	}

	return e.write(ctx, service.Fields{
		"name":     t.Name,
		"amount":   t.Amount.String(),
		"category": t.CategoryID,
		"account":  t.AccountID,
		"date":     t.Date.String(),
		"type":     string(t.Type),
		"notes":    t.Notes,
	})
}

// RequestDelete asks confirmer, then deletes existing.
func (e *TransactionEditor) RequestDelete(ctx context.Context, existing model.Transaction, confirmer Confirmer) (DeleteOutcome, error) {
	return e.remove(ctx, existing.ID, existing.Name, confirmer)
}
