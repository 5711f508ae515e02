package cache

import (
	"slices"
	"sync"
)

// Snapshot is a mutex-guarded container holding the last-known-good copy of a
// collection. Readers share the lock; Replace holds it exclusively, so a Load
// sees either the previous or the new collection in full.
type Snapshot[T any] struct {
	mu      sync.RWMutex
	items   []T
	version uint64
}

// NewSnapshot constructs an empty Snapshot.
func NewSnapshot[T any]() *Snapshot[T] {
	return &Snapshot[T]{items: []T{}}
}

func (s *Snapshot[T]) lockR() func() {
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Snapshot[T]) lockW() func() {
	s.mu.Lock()
	return s.mu.Unlock
}

// Load implements Cache.Load.
func (s *Snapshot[T]) Load() []T {
	unlock := s.lockR()
	defer unlock()

	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Replace implements Cache.Replace. items is copied, so the caller may keep
// mutating its slice afterwards.
func (s *Snapshot[T]) Replace(items []T) {
	next := slices.Clone(items)
	if next == nil {
		next = []T{}
	}

	unlock := s.lockW()
	defer unlock()
	s.items = next
	s.version++
}

// Len implements Cache.Len.
func (s *Snapshot[T]) Len() int {
	unlock := s.lockR()
	defer unlock()
	return len(s.items)
}

// Version implements Cache.Version.
func (s *Snapshot[T]) Version() uint64 {
	unlock := s.lockR()
	defer unlock()
	return s.version
}

// Ensure Snapshot implements Cache at compile time.
var _ Cache[any] = (*Snapshot[any])(nil)
