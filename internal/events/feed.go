package events

import (
	"slices"
	"sync"
)

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Feed delivers published values to subscribers in the order they
// subscribed. Callbacks run synchronously on the publishing goroutine
type Feed[T any] struct {
	mu          sync.RWMutex
	subscribers []subscriber[T]
	nextID      uint64
	replay      bool
	last        T
	hasLast     bool
}

// NewFeed creates a Feed. With replay set, a new subscriber is called at
// once with the most recently published value, if there is one
func NewFeed[T any](replay bool) *Feed[T] {
	return &Feed[T]{replay: replay}
}

// Subscribe registers fn and returns a function that removes it again.
// The returned function is safe to call more than once
func (f *Feed[T]) Subscribe(fn func(T)) func() {
	if fn == nil {
		panic("Feed: callback cannot be nil")
	}

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subscribers = append(f.subscribers, subscriber[T]{id: id, fn: fn})
	last, sendLast := f.last, f.replay && f.hasLast
	f.mu.Unlock()

	if sendLast {
		fn(last)
	}

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.subscribers = slices.DeleteFunc(f.subscribers, func(s subscriber[T]) bool { return s.id == id })
	}
}

// Publish calls every subscriber with value. Subscribers added or removed
// by a callback take effect from the next Publish
func (f *Feed[T]) Publish(value T) {
	f.mu.Lock()
	if f.replay {
		f.last, f.hasLast = value, true
	}
	subs := slices.Clone(f.subscribers)
	f.mu.Unlock()

	for _, s := range subs {
		s.fn(value)
	}
}

// Last returns the most recent value when the feed replays
func (f *Feed[T]) Last() (T, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.last, f.hasLast
}

// SubscriberCount returns the number of registered callbacks
func (f *Feed[T]) SubscriberCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers)
}
