// Package store provides a minimal reactive state container.
//
// A Store holds one mutable state value behind a read/write lock. All
// writes go through Commit, which applies a named mutation under the
// write lock and then notifies subscribers. Notification replaces
// framework-level reactivity: readers that need to react to changes
// subscribe explicitly and recompute from the current state.
package store

import (
	"sync"
	"sync/atomic"
)

// subscriberID is the global counter for subscriber identifiers.
var subscriberID atomic.Uint64

// subscriber pairs a callback with a unique identifier so it can be
// removed without comparing function values.
type subscriber struct {
	id uint64
	fn func(mutation string)
}

// Store is a reactive container for a single state value.
//
// Mutations are applied under the write lock, so no two mutations
// interleave mid-execution. Subscribers are notified after the lock is
// released using a copied subscriber list, so a callback may subscribe
// or unsubscribe without deadlocking.
type Store[S any] struct {
	mu    sync.RWMutex
	state S

	subMu sync.RWMutex
	subs  []subscriber
}

// New creates a Store holding the given initial state.
func New[S any](initial S) *Store[S] {
	return &Store[S]{state: initial}
}

// Commit applies fn to the state under the write lock, then notifies
// subscribers with the mutation name. fn must not retain the state
// value beyond the call.
func (s *Store[S]) Commit(mutation string, fn func(S)) {
	s.mu.Lock()
	fn(s.state)
	s.mu.Unlock()

	s.notify(mutation)
}

// View runs fn with the current state under the read lock. fn must
// treat the state as read-only and must not retain it.
func (s *Store[S]) View(fn func(S)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

// Subscribe registers fn to be called after every committed mutation,
// with the mutation name. It returns a cancel function that removes
// the subscription.
func (s *Store[S]) Subscribe(fn func(mutation string)) (cancel func()) {
	sub := subscriber{id: subscriberID.Add(1), fn: fn}

	s.subMu.Lock()
	s.subs = append(s.subs, sub)
	s.subMu.Unlock()

	return func() { s.unsubscribe(sub.id) }
}

func (s *Store[S]) unsubscribe(id uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for i, existing := range s.subs {
		if existing.id == id {
			// Remove by swapping with the last element (order doesn't matter)
			s.subs[i] = s.subs[len(s.subs)-1]
			s.subs = s.subs[:len(s.subs)-1]
			return
		}
	}
}

// notify calls every subscriber with the mutation name.
// Uses copy-before-notify to avoid holding the lock during callbacks.
func (s *Store[S]) notify(mutation string) {
	s.subMu.RLock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	for _, sub := range subs {
		sub.fn(mutation)
	}
}
