// Package feed mirrors identity-scoped document collections as typed snapshot streams.
package feed

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Veraticus/lifeos/internal/service"
)

// Subscription is a live, typed view of one collection. Each value received
// from Snapshots is the complete ordered collection, replacing the previous one.
type Subscription[T any] struct {
	out        chan []T
	done       chan struct{}
	cancel     context.CancelFunc
	collection string
	once       sync.Once
}

// Subscribe opens a subscription on the current user's collection. Without a
// signed-in identity, or when the store refuses the subscription, the returned
// subscription is already closed.
func Subscribe[T any](ctx context.Context, store service.DocumentStore, id service.Identity, collection string, q service.Query) *Subscription[T] {
	user, ok := id.Current()
	if !ok {
		slog.Debug("No identity, skipping subscription", "collection", collection)
		return closed[T](collection)
	}

	path := service.CollectionPath(user, collection)
	streamCtx, cancel := context.WithCancel(ctx)
	stream, err := store.Subscribe(streamCtx, path, q)
	if err != nil {
		cancel()
		slog.Error("Failed to subscribe", "path", path, "error", err)
		return closed[T](collection)
	}

	s := &Subscription[T]{
		out:        make(chan []T, 1),
		done:       make(chan struct{}),
		cancel:     cancel,
		collection: collection,
	}
	go s.forward(path, stream)
	return s
}

func closed[T any](collection string) *Subscription[T] {
	s := &Subscription[T]{
		out:        make(chan []T),
		done:       make(chan struct{}),
		cancel:     func() {},
		collection: collection,
	}
	close(s.out)
	close(s.done)
	return s
}

// Snapshots delivers full snapshots in commit order. A slow reader only sees
// the latest one. The channel is closed when the subscription ends.
func (s *Subscription[T]) Snapshots() <-chan []T {
	return s.out
}

// Done is closed once the subscription has ended.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Collection returns the collection name this subscription mirrors.
func (s *Subscription[T]) Collection() string {
	return s.collection
}

// Close cancels the underlying stream. It is safe to call more than once.
func (s *Subscription[T]) Close() {
	s.once.Do(s.cancel)
}

func (s *Subscription[T]) forward(path string, stream <-chan service.Snapshot) {
	defer close(s.done)
	defer close(s.out)
	defer s.Close()

	for snap := range stream {
		if snap.Err != nil {
			slog.Error("Subscription ended", "path", path, "error", snap.Err)
			return
		}
		s.publish(decode[T](path, snap.Documents))
	}
}

// publish replaces any unread snapshot with items. forward is the only
// sender, so the second send cannot block.
func (s *Subscription[T]) publish(items []T) {
	select {
	case s.out <- items:
		return
	default:
	}
	select {
	case <-s.out:
	default:
	}
	s.out <- items
}

func decode[T any](path string, docs []service.Document) []T {
	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := service.Decode(doc, &item); err != nil {
			slog.Warn("Skipping malformed document", "path", path, "id", doc.ID, "error", err)
			continue
		}
		items = append(items, item)
	}
	return items
}
