package ledger

import (
	"context"
	"strings"

	"github.com/Veraticus/lifeos/internal/model"
	"github.com/Veraticus/lifeos/internal/service"
)

// TaskForm is the editable state of a task.
type TaskForm struct {
	Text     string
	Priority string
	Tag      string
}

// TaskEditor creates, edits, toggles and deletes tasks.
type TaskEditor struct {
	base
}

// NewTaskEditor creates a task editor.
func NewTaskEditor(store service.DocumentStore, identity service.Identity, desk *Desk) *TaskEditor {
	return &TaskEditor{
		base: newBase(store, identity, desk, "task editor", service.CollectionTasks),
	}
}

// Open starts editing existing, or a new task when existing is nil.
func (e *TaskEditor) Open(existing *model.Task) (TaskForm, error) {
	if existing == nil {
		if err := e.begin(""); err != nil {
			return TaskForm{}, err
		}
		return TaskForm{Priority: model.PriorityMedium, Tag: model.DefaultTaskTag}, nil
	}

	if err := e.begin(existing.ID); err != nil {
		return TaskForm{}, err
	}
	return TaskForm{
		Text:     existing.Text,
		Priority: orDefault(existing.Priority, model.PriorityMedium),
		Tag:      orDefault(existing.Tag, model.DefaultTaskTag),
	}, nil
}

// Validate checks form and returns the task it describes.
func (e *TaskEditor) Validate(form TaskForm) (model.Task, error) {
	var t model.Task
	var err error

	if t.Text, err = required("text", form.Text); err != nil {
		return t, err
	}
	t.Priority = strings.ToLower(orDefault(form.Priority, model.PriorityMedium))
	switch t.Priority {
	case model.PriorityHigh, model.PriorityMedium, model.PriorityLow:
	default:
		return t, invalid("priority", form.Priority, ErrUnknownPriority)
	}
	t.Tag = orDefault(form.Tag, model.DefaultTaskTag)
	t.ID = e.editingID
	return t, nil
}

// Submit validates and writes the form, returning the record id. New tasks
// start pending; editing never changes the completed flag.
func (e *TaskEditor) Submit(ctx context.Context, form TaskForm) (string, error) {
	if !e.open {
		return "", ErrNotOpen
	}
	t, err := e.Validate(form)
	if err != nil {
		return "", err
	}

	fields := service.Fields{
		"text":     t.Text,
		"priority": t.Priority,
		"tag":      t.Tag,
	}
	if e.editingID == "" {
		fields["completed"] = false
	}
	return e.write(ctx, fields)
}

// Toggle flips the completed flag of existing.
func (e *TaskEditor) Toggle(ctx context.Context, existing model.Task) error {
	return e.patch(ctx, existing.ID, service.Fields{"completed": !existing.Completed})
}

// RequestDelete asks confirmer, then deletes existing.
func (e *TaskEditor) RequestDelete(ctx context.Context, existing model.Task, confirmer Confirmer) (DeleteOutcome, error) {
	return e.remove(ctx, existing.ID, existing.Text, confirmer)
}
