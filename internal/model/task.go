package model

import (
	"strings"
	"time"
)

// Task priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// DefaultTaskTag is the tag given to tasks created without one.
const DefaultTaskTag = "general"

// Task is one to-do item.
type Task struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Priority  string    `json:"priority"`
	Tag       string    `json:"tag"`
	Completed bool      `json:"completed"`
}

// Validate checks the record-level rules of a task.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Text) == "" {
		return ErrEmptyName
	}
	return nil
}

// JournalEntry is one free-text diary entry. DateDisplay is fixed when the
// entry is written.
type JournalEntry struct {
	CreatedAt   time.Time `json:"createdAt"`
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	DateDisplay string    `json:"dateDisplay"`
}
