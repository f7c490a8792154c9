package ledger

import (
	"context"
	"strings"

	"github.com/Veraticus/lifeos/internal/category"
	"github.com/Veraticus/lifeos/internal/model"
	"github.com/Veraticus/lifeos/internal/service"
)

// CategoryForm is the editable state of a custom category.
type CategoryForm struct {
	Name  string
	Color string
	Icon  string
	Type  string
}

// CategoryEditor adds custom categories. The custom set is append-only.
type CategoryEditor struct {
	base
}

// NewCategoryEditor creates a category editor.
func NewCategoryEditor(store service.DocumentStore, identity service.Identity, desk *Desk) *CategoryEditor {
	return &CategoryEditor{
		base: newBase(store, identity, desk, "category editor", service.CollectionCategories),
	}
}

// Open starts a new category. Existing categories cannot be edited.
func (e *CategoryEditor) Open(existing *model.Category) (CategoryForm, error) {
	if existing != nil {
		return CategoryForm{}, ErrCategoryAppendOnly
	}
	if err := e.begin(""); err != nil {
		return CategoryForm{}, err
	}
	return CategoryForm{
		Color: category.DefaultColor,
		Icon:  string(model.IconGeneric),
		Type:  string(model.TypeExpense),
	}, nil
}

// Validate checks form and returns the category it describes. Unknown icon
// names become the generic icon.
func (e *CategoryEditor) Validate(form CategoryForm) (model.Category, error) {
	var c model.Category
	var err error

	if c.Name, err = required("name", form.Name); err != nil {
		return c, err
	}
	c.Type = model.TransactionType(strings.TrimSpace(form.Type))
	if !c.Type.Valid() {
		return c, invalid("type", form.Type, model.ErrInvalidType)
	}
	c.Icon = model.ParseIcon(strings.TrimSpace(form.Icon))
	c.Color = orDefault(form.Color, category.DefaultColor)
	return c, nil
}

// Submit validates and creates the category, returning its id.
func (e *CategoryEditor) Submit(ctx context.Context, form CategoryForm) (string, error) {
	if !e.open {
		return "", ErrNotOpen
	}
	c, err := e.Validate(form)
	if err != nil {
		return "", err
	}

	return e.write(ctx, service.Fields{
		"name":  c.Name,
		"type":  string(c.Type),
		"color": c.Color,
		"icon":  string(c.Icon),
	})
}

// RequestDelete always fails: custom categories are append-only.
func (e *CategoryEditor) RequestDelete(context.Context, model.Category, Confirmer) (DeleteOutcome, error) {
	return DeleteCancelled, ErrCategoryAppendOnly
}
