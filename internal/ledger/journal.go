package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/Veraticus/lifeos/internal/model"
	"github.com/Veraticus/lifeos/internal/service"
)

// DefaultJournalDateLayout formats the display date of a new entry.
const DefaultJournalDateLayout = "02 Jan 2006"

// JournalForm is the editable state of a new journal entry.
type JournalForm struct {
	Content string
}

// JournalEditor writes journal entries. The journal is append-only.
type JournalEditor struct {
	now    func() time.Time
	layout string
	base
}

// NewJournalEditor creates a journal editor. An empty layout uses
// DefaultJournalDateLayout.
func NewJournalEditor(store service.DocumentStore, identity service.Identity, desk *Desk, layout string) *JournalEditor {
	if layout == "" {
		layout = DefaultJournalDateLayout
	}
	return &JournalEditor{
		base:   newBase(store, identity, desk, "journal editor", service.CollectionJournal),
		now:    time.Now,
		layout: layout,
	}
}

// SetClock replaces the clock used for the display date.
func (e *JournalEditor) SetClock(now func() time.Time) {
	e.now = now
}

// Open starts a new entry. Existing entries cannot be edited.
func (e *JournalEditor) Open(existing *model.JournalEntry) (JournalForm, error) {
	if existing != nil {
		return JournalForm{}, ErrJournalAppendOnly
	}
	if err := e.begin(""); err != nil {
		return JournalForm{}, err
	}
	return JournalForm{}, nil
}

// Submit writes the entry as typed, stamped with today's display date.
func (e *JournalEditor) Submit(ctx context.Context, form JournalForm) (string, error) {
	if !e.open {
		return "", ErrNotOpen
	}
	if strings.TrimSpace(form.Content) == "" {
		return "", invalid("content", "", ErrRequired)
	}

	return e.write(ctx, service.Fields{
		"content":     form.Content,
		"dateDisplay": e.now().Format(e.layout),
	})
}

// RequestDelete always fails: the journal is append-only.
func (e *JournalEditor) RequestDelete(context.Context, model.JournalEntry, Confirmer) (DeleteOutcome, error) {
	return DeleteCancelled, ErrJournalAppendOnly
}
