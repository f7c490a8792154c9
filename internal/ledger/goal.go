package ledger

import (
	"context"
	"strings"

	"github.com/Veraticus/lifeos/internal/category"
	"github.com/Veraticus/lifeos/internal/model"
	"github.com/Veraticus/lifeos/internal/service"
)

// GoalForm is the editable state of a goal.
type GoalForm struct {
	Name          string
	TargetAmount  string
	CurrentAmount string
	Deadline      string
	Color         string
}

// GoalEditor creates, edits and deletes goals.
type GoalEditor struct {
	base
}

// NewGoalEditor creates a goal editor.
func NewGoalEditor(store service.DocumentStore, identity service.Identity, desk *Desk) *GoalEditor {
	return &GoalEditor{
		base: newBase(store, identity, desk, "goal editor", service.CollectionGoals),
	}
}

// Open starts editing existing, or a new goal when existing is nil.
func (e *GoalEditor) Open(existing *model.Goal) (GoalForm, error) {
	if existing == nil {
		if err := e.begin(""); err != nil {
			return GoalForm{}, err
		}
		return GoalForm{CurrentAmount: "0", Color: category.DefaultColor}, nil
	}

	if err := e.begin(existing.ID); err != nil {
		return GoalForm{}, err
	}
	return GoalForm{
		Name:          existing.Name,
		TargetAmount:  existing.TargetAmount.String(),
		CurrentAmount: existing.CurrentAmount.String(),
		Deadline:      existing.Deadline.String(),
		Color:         orDefault(existing.Color, category.DefaultColor),
	}, nil
}

// Validate checks form and returns the goal it describes. The current amount
// may exceed the target.
func (e *GoalEditor) Validate(form GoalForm) (model.Goal, error) {
	var g model.Goal
	var err error

	if g.Name, err = required("name", form.Name); err != nil {
		return g, err
	}
	if g.TargetAmount, err = parseDecimal("target amount", form.TargetAmount); err != nil {
		return g, err
	}
	if !g.TargetAmount.IsPositive() {
		return g, invalid("target amount", form.TargetAmount, ErrOutOfRange)
	}
	if g.CurrentAmount, err = parseDecimal("current amount", form.CurrentAmount); err != nil {
		return g, err
	}
	if g.CurrentAmount.IsNegative() {
		return g, invalid("current amount", form.CurrentAmount, ErrOutOfRange)
	}

	if deadline := strings.TrimSpace(form.Deadline); deadline != "" {
		if g.Deadline, err = model.ParseDate(deadline); err != nil {
			return g, invalid("deadline", deadline, err)
		}
	}

	g.Color = orDefault(form.Color, category.DefaultColor)
	g.ID = e.editingID
	return g, nil
}

// Submit validates and writes the form, returning the record id.
func (e *GoalEditor) Submit(ctx context.Context, form GoalForm) (string, error) {
	if !e.open {
		return "", ErrNotOpen
	}
	g, err := e.Validate(form)
	if err != nil {
		return "", err
	}

	return e.write(ctx, service.Fields{
		"name":          g.Name,
		"targetAmount":  g.TargetAmount.String(),
		"currentAmount": g.CurrentAmount.String(),
		"deadline":      g.Deadline.String(),
		"color":         g.Color,
	})
}

// RequestDelete asks confirmer, then deletes existing.
func (e *GoalEditor) RequestDelete(ctx context.Context, existing model.Goal, confirmer Confirmer) (DeleteOutcome, error) {
	return e.remove(ctx, existing.ID, existing.Name, confirmer)
}
