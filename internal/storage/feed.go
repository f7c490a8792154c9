package storage

import (
	"context"
	"sync"

	"github.com/Veraticus/lifeos/internal/service"
)

// loadFunc reads the current ordered contents of a collection.
type loadFunc func(ctx context.Context, path string, q service.Query) ([]service.Document, error)

// feedHub fans commits out to live subscriptions. Each subscription has its
// own goroutine which reloads the collection when woken, so a slow consumer
// only ever sees the latest state and never blocks a writer.
type feedHub struct {
	subs map[string]map[*feedSub]struct{}
	done chan struct{}
	load loadFunc
	mu   sync.Mutex
	once sync.Once
}

type feedSub struct {
	wake  chan struct{}
	out   chan service.Snapshot
	query service.Query
}

func newFeedHub(load loadFunc) *feedHub {
	return &feedHub{
		subs: make(map[string]map[*feedSub]struct{}),
		done: make(chan struct{}),
		load: load,
	}
}

func (h *feedHub) subscribe(ctx context.Context, path string, q service.Query) <-chan service.Snapshot {
	sub := &feedSub{
		query: q,
		wake:  make(chan struct{}, 1),
		out:   make(chan service.Snapshot),
	}
	sub.wake <- struct{}{}

	h.mu.Lock()
	if h.subs[path] == nil {
		h.subs[path] = make(map[*feedSub]struct{})
	}
	h.subs[path][sub] = struct{}{}
	h.mu.Unlock()

	go h.run(ctx, path, sub)
	return sub.out
}

func (h *feedHub) run(ctx context.Context, path string, sub *feedSub) {
	defer close(sub.out)
	defer h.remove(path, sub)

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			return
		case <-sub.wake:
		}

		docs, err := h.load(ctx, path, sub.query)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			select {
			case sub.out <- service.Snapshot{Err: err}:
			case <-ctx.Done():
			case <-h.done:
			}
			return
		}

		select {
		case sub.out <- service.Snapshot{Documents: docs}:
		case <-ctx.Done():
			return
		case <-h.done:
			return
		}
	}
}

func (h *feedHub) remove(path string, sub *feedSub) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[path], sub)
	if len(h.subs[path]) == 0 {
		delete(h.subs, path)
	}
}

// publish wakes every subscription on path.
func (h *feedHub) publish(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[path] {
		select {
		case sub.wake <- struct{}{}:
		default:
		}
	}
}

// publishAll wakes every subscription.
func (h *feedHub) publishAll() {
	h.mu.Lock()
	paths := make([]string, 0, len(h.subs))
	for path := range h.subs {
		paths = append(paths, path)
	}
	h.mu.Unlock()
	for _, path := range paths {
		h.publish(path)
	}
}

// active returns the number of live subscriptions on path.
func (h *feedHub) active(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[path])
}

// shutdown ends every subscription.
func (h *feedHub) shutdown() {
	h.once.Do(func() { close(h.done) })
}
