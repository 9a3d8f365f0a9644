// Package history keeps a bounded undo/redo stack of immutable snapshots
package history

import (
	"reflect"
	"time"
)

// DefaultCapacity is the number of snapshots kept before the oldest is evicted
const DefaultCapacity = 100

// History is a linear undo/redo stack. Entries are stored by value and
// must not be mutated after being committed
type History[T any] struct {
	entries  []T
	cursor   int // index of the current entry, -1 when empty
	capacity int
	equal    func(a, b T) bool

	window  time.Duration
	now     func() time.Time
	lastKey string
	lastAt  time.Time
}

// Option configures a History
type Option[T any] func(*History[T])

// WithCapacity sets the maximum number of entries. Values below 1 are ignored
func WithCapacity[T any](n int) Option[T] {
	return func(h *History[T]) {
		if n > 0 {
			h.capacity = n
		}
	}
}

// WithEqual replaces the default reflect.DeepEqual comparison
func WithEqual[T any](equal func(a, b T) bool) Option[T] {
	return func(h *History[T]) {
		if equal != nil {
			h.equal = equal
		}
	}
}

// WithCoalesceWindow sets how close keyed commits must be to merge
func WithCoalesceWindow[T any](d time.Duration) Option[T] {
	return func(h *History[T]) {
		h.window = d
	}
}

// WithClock replaces time.Now
func WithClock[T any](now func() time.Time) Option[T] {
	return func(h *History[T]) {
		if now != nil {
			h.now = now
		}
	}
}

// New creates an empty History
func New[T any](opts ...Option[T]) *History[T] {
	h := &History[T]{
		cursor:   -1,
		capacity: DefaultCapacity,
		equal:    func(a, b T) bool { return reflect.DeepEqual(a, b) },
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Reset drops every entry and starts over from initial
func (h *History[T]) Reset(initial T) {
	h.entries = []T{initial}
	h.cursor = 0
	h.lastKey = ""
}

// Commit pushes v and discards any redo entries. Committing a value equal
// to the current entry does nothing and returns false
func (h *History[T]) Commit(v T) bool {
	return h.commit(v, "")
}

// CommitKeyed is Commit, except that consecutive commits sharing a
// non-empty key within the coalescing window replace the newest entry
// instead of pushing a new one. Used for bursts such as repeated key
// nudges of the same value
func (h *History[T]) CommitKeyed(v T, key string) bool {
	return h.commit(v, key)
}

func (h *History[T]) commit(v T, key string) bool {
	if h.cursor >= 0 && h.equal(h.entries[h.cursor], v) {
		return false
	}
	now := h.now()

	if key != "" && h.window > 0 && key == h.lastKey && h.cursor > 0 && h.cursor == len(h.entries)-1 && now.Sub(h.lastAt) <= h.window {
		h.entries[h.cursor] = v
		h.lastAt = now
		// a burst that returns to where it started leaves nothing to undo
		if h.equal(h.entries[h.cursor-1], v) {
			h.entries = h.entries[:h.cursor]
			h.cursor--
			h.lastKey = ""
		}
		return true
	}

	h.entries = append(h.entries[:h.cursor+1], v)
	h.cursor = len(h.entries) - 1
	if len(h.entries) > h.capacity {
		drop := len(h.entries) - h.capacity
		h.entries = append([]T(nil), h.entries[drop:]...)
		h.cursor -= drop
	}
	h.lastKey = key
	h.lastAt = now
	return true
}

// Undo steps back one entry and returns it
func (h *History[T]) Undo() (T, bool) {
	if !h.CanUndo() {
		var zero T
		return zero, false
	}
	h.cursor--
	h.lastKey = ""
	return h.entries[h.cursor], true
}

// Redo steps forward one entry and returns it
func (h *History[T]) Redo() (T, bool) {
	if !h.CanRedo() {
		var zero T
		return zero, false
	}
	h.cursor++
	h.lastKey = ""
	return h.entries[h.cursor], true
}

func (h *History[T]) CanUndo() bool {
	return h.cursor > 0
}

func (h *History[T]) CanRedo() bool {
	return h.cursor >= 0 && h.cursor < len(h.entries)-1
}

// Current returns the entry under the cursor
func (h *History[T]) Current() (T, bool) {
	if h.cursor < 0 {
		var zero T
		return zero, false
	}
	return h.entries[h.cursor], true
}

// Len returns the number of stored entries
func (h *History[T]) Len() int {
	return len(h.entries)
}
