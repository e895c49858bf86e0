// Package observe provides the small set of primitives the dashboard uses to
// run queries in the background and publish their results: observable slots,
// a bounded worker pool and a serial delivery loop.
package observe

import "sync"

// Slot is an observable cell holding at most one value. The zero value is an
// empty slot ready to use.
type Slot[T any] struct {
	mu     sync.RWMutex
	value  T
	set    bool
	nextID int
	subs   map[int]func(T)
}

// Get returns the current value and whether one has been set.
func (s *Slot[T]) Get() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.set
}

// Set stores v and notifies subscribers synchronously on the caller's
// goroutine.
func (s *Slot[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	s.set = true
	subs := make([]func(T), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

// Subscribe registers fn to be called on every Set. If the slot already holds
// a value fn is called immediately with it. The returned func unsubscribes.
func (s *Slot[T]) Subscribe(fn func(T)) (cancel func()) {
	s.mu.Lock()
	if s.subs == nil {
		s.subs = make(map[int]func(T))
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	v, set := s.value, s.set
	s.mu.Unlock()

	if set {
		fn(v)
	}
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
