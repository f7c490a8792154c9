package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/lifeos/internal/common"
	"github.com/Veraticus/lifeos/internal/service"
)

// Operation names reported to a failure hook and counted by Calls.
const (
	OpSubscribe = "subscribe"
	OpLoad      = "load"
	OpCreate    = "create"
	OpUpdate    = "update"
	OpDelete    = "delete"
)

// FailureFunc decides whether an operation on path should fail.
type FailureFunc func(op, path string) error

// MemoryStore is an in-process DocumentStore. It backs tests and the
// --memory mode of the CLI.
type MemoryStore struct {
	collections map[string]map[string]storedDoc
	calls       map[string]int
	hub         *feedHub
	fail        FailureFunc
	now         func() time.Time
	seq         int64
	mu          sync.RWMutex
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		collections: make(map[string]map[string]storedDoc),
		calls:       make(map[string]int),
		now:         time.Now,
	}
	s.hub = newFeedHub(s.load)
	return s
}

// SetClock replaces the clock used to resolve server timestamps.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SetFailure installs a hook consulted before every operation. A nil hook
// clears it. Live subscriptions are woken so a failing load surfaces at once.
func (s *MemoryStore) SetFailure(fn FailureFunc) {
	s.mu.Lock()
	s.fail = fn
	s.mu.Unlock()
	s.hub.publishAll()
}

// Calls returns how many times op was attempted.
func (s *MemoryStore) Calls(op string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[op]
}

// Subscribers returns the number of live subscriptions on path.
func (s *MemoryStore) Subscribers(path string) int {
	return s.hub.active(path)
}

// Close ends every live subscription.
func (s *MemoryStore) Close() error {
	s.hub.shutdown()
	return nil
}

// Subscribe implements service.DocumentStore.
func (s *MemoryStore) Subscribe(ctx context.Context, path string, q service.Query) (<-chan service.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validatePath(path); err != nil {
		return nil, err
	}
	if err := s.check(OpSubscribe, path); err != nil {
		return nil, err
	}
	return s.hub.subscribe(ctx, path, q), nil
}

// Create implements service.DocumentStore.
func (s *MemoryStore) Create(ctx context.Context, path string, fields service.Fields) (string, error) {
	if err := validateWrite(ctx, path, fields); err != nil {
		return "", err
	}
	if err := s.check(OpCreate, path); err != nil {
		return "", err
	}

	s.mu.Lock()
	normalized, err := normalizeFields(fields, s.now())
	if err != nil {
		s.mu.Unlock()
		return "", err
	}
	id := uuid.New().String()
	s.seq++
	if s.collections[path] == nil {
		s.collections[path] = make(map[string]storedDoc)
	}
	s.collections[path][id] = storedDoc{id: id, fields: normalized, seq: s.seq}
	s.mu.Unlock()

	s.hub.publish(path)
	return id, nil
}

// Update implements service.DocumentStore.
func (s *MemoryStore) Update(ctx context.Context, path, id string, fields service.Fields) error {
	if err := validateWrite(ctx, path, fields); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if err := s.check(OpUpdate, path); err != nil {
		return err
	}

	s.mu.Lock()
	doc, ok := s.collections[path][id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("document %s/%s: %w", path, id, common.ErrNotFound)
	}
	normalized, err := normalizeFields(fields, s.now())
	if err != nil {
		s.mu.Unlock()
		return err
	}
	doc.fields = mergeFields(doc.fields, normalized)
	s.collections[path][id] = doc
	s.mu.Unlock()

	s.hub.publish(path)
	return nil
}

// Delete implements service.DocumentStore.
func (s *MemoryStore) Delete(ctx context.Context, path, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePath(path); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if err := s.check(OpDelete, path); err != nil {
		return err
	}

	s.mu.Lock()
	if _, ok := s.collections[path][id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("document %s/%s: %w", path, id, common.ErrNotFound)
	}
	delete(s.collections[path], id)
	s.mu.Unlock()

	s.hub.publish(path)
	return nil
}

// Get returns a single document.
func (s *MemoryStore) Get(path, id string) (service.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.collections[path][id]
	if !ok {
		return service.Document{}, false
	}
	return service.Document{ID: doc.id, Fields: copyFields(doc.fields)}, true
}

// Len returns the number of documents in path.
func (s *MemoryStore) Len(path string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[path])
}

func (s *MemoryStore) load(_ context.Context, path string, q service.Query) ([]service.Document, error) {
	if err := s.check(OpLoad, path); err != nil {
		return nil, err
	}

	s.mu.RLock()
	docs := make([]storedDoc, 0, len(s.collections[path]))
	for _, d := range s.collections[path] {
		docs = append(docs, d)
	}
	s.mu.RUnlock()

	return orderDocuments(docs, q), nil
}

func (s *MemoryStore) check(op, path string) error {
	s.mu.Lock()
	s.calls[op]++
	fail := s.fail
	s.mu.Unlock()

	if fail == nil {
		return nil
	}
	return fail(op, path)
}
