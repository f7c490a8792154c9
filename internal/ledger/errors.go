// Package ledger implements the create, update and delete flows for
// transactions, accounts, goals, custom categories, tasks and journal entries.
package ledger

import (
	"context"
	"errors"
	"fmt"
)

// Editor errors.
var (
	ErrEditorBusy         = errors.New("another editor is already open")
	ErrNotOpen            = errors.New("editor is not open")
	ErrCategoryAppendOnly = errors.New("custom categories cannot be edited or deleted")
	ErrJournalAppendOnly  = errors.New("journal entries cannot be edited or deleted")
	ErrRequired           = errors.New("is required")
	ErrNotANumber         = errors.New("is not a number")
	ErrOutOfRange         = errors.New("is out of range")
	ErrUnknownCategory    = errors.New("is not a known category")
	ErrTypeMismatch       = errors.New("does not match the category type")
	ErrUnknownPriority    = errors.New("is not a known priority")
)

// ValidationError is a form problem found before anything is written.
type ValidationError struct {
	Err   error
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s %q %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field, value string, err error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Err: err}
}

// DeleteOutcome reports how a delete request ended.
type DeleteOutcome int

// Delete outcomes.
const (
	// DeleteCancelled means the user declined; nothing was written.
	DeleteCancelled DeleteOutcome = iota
	// DeleteConfirmed means the delete call was issued.
	DeleteConfirmed
	// DeleteSkipped means there was no signed-in user.
	DeleteSkipped
)

func (o DeleteOutcome) String() string {
	switch o {
	case DeleteConfirmed:
		return "confirmed"
	case DeleteSkipped:
		return "skipped"
	default:
		return "cancelled"
	}
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Always is a Confirmer that answers yes, for non-interactive use.
var Always = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// Never is a Confirmer that answers no.
var Never = ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })
