// Package identity holds the signed-in user for the running process.
package identity

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Veraticus/lifeos/internal/service"
)

// Session is an in-process implementation of service.Identity.
type Session struct {
	listeners map[int]func(service.User, bool)
	user      service.User
	next      int
	mu        sync.Mutex
	signedIn  bool
}

// NewSession creates a signed-out session.
func NewSession() *Session {
	return &Session{listeners: make(map[int]func(service.User, bool))}
}

// NewSignedInSession creates a session already signed in as user.
func NewSignedInSession(user service.User) *Session {
	s := NewSession()
	s.user = user
	s.signedIn = true
	return s
}

// Current implements service.Identity.
func (s *Session) Current() (service.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.signedIn
}

// SignIn switches the session to user and notifies listeners.
func (s *Session) SignIn(user service.User) {
	s.mu.Lock()
	if s.signedIn && s.user == user {
		s.mu.Unlock()
		return
	}
	s.user = user
	s.signedIn = true
	listeners := s.snapshot()
	s.mu.Unlock()

	slog.Debug("Signed in", "user", user.ID)
	for _, fn := range listeners {
		fn(user, true)
	}
}

// SignOut implements service.Identity.
func (s *Session) SignOut(_ context.Context) error {
	s.mu.Lock()
	if !s.signedIn {
		s.mu.Unlock()
		return nil
	}
	s.user = service.User{}
	s.signedIn = false
	listeners := s.snapshot()
	s.mu.Unlock()

	slog.Debug("Signed out")
	for _, fn := range listeners {
		fn(service.User{}, false)
	}
	return nil
}

// OnChange implements service.Identity.
func (s *Session) OnChange(fn func(service.User, bool)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Session) snapshot() []func(service.User, bool) {
	out := make([]func(service.User, bool), 0, len(s.listeners))
	for i := 0; i < s.next; i++ {
		if fn, ok := s.listeners[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}
