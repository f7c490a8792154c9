// Package testutil provides an in-memory store with a signed-in user and
// helpers for waiting on asynchronous snapshots.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/lifeos/internal/identity"
	"github.com/Veraticus/lifeos/internal/service"
	"github.com/Veraticus/lifeos/internal/storage"
)

// DefaultTimeout bounds every wait helper.
const DefaultTimeout = 2 * time.Second

// TestUser is the identity every fixture signs in as.
var TestUser = service.User{ID: "test-user", Name: "Test User"}

// Fixture bundles the collaborators most tests need.
type Fixture struct {
	Ctx      context.Context
	Store    *storage.MemoryStore
	Identity *identity.Session
	User     service.User
}

// NewFixture creates a memory store and a session signed in as TestUser.
// Everything is released when the test ends.
//
// Example:
//
//	fx := testutil.NewFixture(t)
//	id := fx.Seed(t, service.CollectionGoals, service.Fields{"name": "Trip"})
func NewFixture(t *testing.T) *Fixture {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	store := storage.NewMemoryStore()

	t.Cleanup(func() {
		cancel()
		_ = store.Close()
	})

	return &Fixture{
		Ctx:      ctx,
		Store:    store,
		Identity: identity.NewSignedInSession(TestUser),
		User:     TestUser,
	}
}

// Path returns the signed-in user's path for collection.
func (f *Fixture) Path(collection string) string {
	return service.CollectionPath(f.User, collection)
}

// Seed writes a document directly to the store and returns its id.
func (f *Fixture) Seed(t *testing.T, collection string, fields service.Fields) string {
	t.Helper()

	id, err := f.Store.Create(f.Ctx, f.Path(collection), fields)
	if err != nil {
		t.Fatalf("failed to seed %s: %v", collection, err)
	}
	return id
}

// Doc returns a stored document of the signed-in user's collection.
func (f *Fixture) Doc(t *testing.T, collection, id string) service.Fields {
	t.Helper()

	doc, ok := f.Store.Get(f.Path(collection), id)
	if !ok {
		t.Fatalf("document %s/%s not found", collection, id)
	}
	return doc.Fields
}

// Docs returns every stored document of the signed-in user's collection in
// insertion order.
func (f *Fixture) Docs(t *testing.T, collection string) []service.Document {
	t.Helper()

	ch, err := f.Store.Subscribe(f.Ctx, f.Path(collection), service.Query{})
	if err != nil {
		t.Fatalf("failed to read %s: %v", collection, err)
	}
	snap := Next(t, ch)
	if snap.Err != nil {
		t.Fatalf("failed to read %s: %v", collection, snap.Err)
	}
	return snap.Documents
}

// Next returns the next value from ch.
func Next[T any](t *testing.T, ch <-chan T) T {
	t.Helper()

	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return v
	case <-time.After(DefaultTimeout):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

// WaitFor reads from ch until a value satisfies cond.
func WaitFor[T any](t *testing.T, ch <-chan T, cond func(T) bool) T {
	t.Helper()

	timeout := time.After(DefaultTimeout)
	for {
		select {
		case v, ok := <-ch:
			if !ok {
				t.Fatal("channel closed before condition was met")
			}
			if cond(v) {
				return v
			}
		case <-timeout:
			t.Fatal("timed out waiting for condition")
		}
	}
}

// WaitClosed fails the test unless ch is closed within the timeout.
func WaitClosed[T any](t *testing.T, ch <-chan T) {
	t.Helper()

	timeout := time.After(DefaultTimeout)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("timed out waiting for channel to close")
			return
		}
	}
}
