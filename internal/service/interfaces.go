// Package service defines the ports between the core and its collaborators.
package service

import (
	"context"
	"time"
)

// Collection names. Every collection lives under the signed-in user's path.
const (
	CollectionTransactions = "transactions"
	CollectionAccounts     = "accounts"
	CollectionGoals        = "goals"
	CollectionCategories   = "categories"
	CollectionWorkoutPlans = "workout_plans"
	CollectionWorkoutLogs  = "workout_logs"
	CollectionTasks        = "tasks"
	CollectionJournal      = "journal"
)

// TimestampLayout is the fixed-width layout stores use for server timestamps,
// so that timestamps sort lexicographically.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Fields is the field map of a stored document.
type Fields map[string]any

// Document is one stored record.
type Document struct {
	Fields Fields
	ID     string
}

// Snapshot is a full, ordered materialization of one collection. A snapshot
// with a non-nil Err ends its stream.
type Snapshot struct {
	Err       error
	Documents []Document
}

// Query selects the ordering and window of a subscription.
type Query struct {
	OrderBy    string
	Limit      int
	Descending bool
}

type serverTimestamp struct{}

// ServerTimestamp may be used as a field value; the store replaces it with its
// own commit time.
var ServerTimestamp any = serverTimestamp{}

// IsServerTimestamp reports whether v is the server timestamp sentinel.
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// DocumentStore is the change-feed-capable document store.
type DocumentStore interface {
	// Subscribe pushes a full snapshot of path now and after every commit that
	// touches it. The channel is closed when ctx is done or the stream fails.
	Subscribe(ctx context.Context, path string, query Query) (<-chan Snapshot, error)
	// Create stores a new document and returns its generated id.
	Create(ctx context.Context, path string, fields Fields) (string, error)
	// Update overwrites the supplied fields of an existing document.
	Update(ctx context.Context, path, id string, fields Fields) error
	// Delete removes a document.
	Delete(ctx context.Context, path, id string) error
}

// User is a signed-in identity.
type User struct {
	ID   string
	Name string
}

// CollectionPath returns the user-scoped path of a collection.
func CollectionPath(user User, collection string) string {
	return "users/" + user.ID + "/" + collection
}

// Identity is the authentication collaborator.
type Identity interface {
	// Current returns the signed-in user, if any.
	Current() (User, bool)
	// OnChange registers a callback for sign-in and sign-out. The returned
	// function unregisters it.
	OnChange(fn func(user User, signedIn bool)) (cancel func())
	// SignOut ends the current session.
	SignOut(ctx context.Context) error
}

// RetryOptions configures retry behavior for storage operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
