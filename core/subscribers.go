package core

import (
	"sync"

	"github.com/google/uuid"
)

type subscriber[F any] struct {
	id uuid.UUID
	fn F
}

// Subscribers is an ordered list of callbacks keyed by subscription handle.
// The zero value is ready to use and safe for concurrent use.
type Subscribers[F any] struct {
	mu   sync.RWMutex
	subs []subscriber[F]
	fns  []F // copy-on-write view handed out by Snapshot
}

// Subscribe appends fn and returns its handle.
func (s *Subscribers[F]) Subscribe(fn F) uuid.UUID {
	id := uuid.New()
	s.mu.Lock()
	s.subs = append(s.subs, subscriber[F]{id: id, fn: fn})
	s.rebuild()
	s.mu.Unlock()
	return id
}

// Unsubscribe removes the callback registered under id. It reports whether
// anything was removed.
func (s *Subscribers[F]) Unsubscribe(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			s.rebuild()
			return true
		}
	}
	return false
}

// Snapshot returns the callbacks in subscription order. The slice must
// not be modified.
func (s *Subscribers[F]) Snapshot() []F {
	s.mu.RLock()
	fns := s.fns
	s.mu.RUnlock()
	return fns
}

// Len returns the number of subscriptions.
func (s *Subscribers[F]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// rebuild must be called with mu held.
func (s *Subscribers[F]) rebuild() {
	if len(s.subs) == 0 {
		s.fns = nil
		return
	}
	fns := make([]F, len(s.subs))
	for i, sub := range s.subs {
		fns[i] = sub.fn
	}
	s.fns = fns
}
