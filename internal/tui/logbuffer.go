package tui

import (
	"strings"
	"sync"

	"github.com/lowaak/smart-trainer/workout-builder/internal/events"
)

// maxLogLines bounds the lines kept for the log panel
const maxLogLines = 1000

// LogBuffer is an io.Writer keeping the most recent log lines for display.
// Each complete line is published on Lines
type LogBuffer struct {
	mu      sync.RWMutex
	lines   []string
	partial string
	limit   int

	Lines *events.Feed[string]
}

// NewLogBuffer creates a buffer holding up to limit lines; 0 means the
// default of 1000
func NewLogBuffer(limit int) *LogBuffer {
	if limit <= 0 {
		limit = maxLogLines
	}
	return &LogBuffer{
		limit: limit,
		Lines: events.NewFeed[string](false),
	}
}

// Write splits p into lines. A trailing fragment without a newline is held
// back until the rest of the line arrives
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	text := b.partial + string(p)
	parts := strings.Split(text, "\n")
	b.partial = parts[len(parts)-1]
	complete := parts[:len(parts)-1]

	b.lines = append(b.lines, complete...)
	if len(b.lines) > b.limit {
		// Remove oldest lines, keep the most recent limit
		b.lines = append([]string(nil), b.lines[len(b.lines)-b.limit:]...)
	}
	b.mu.Unlock()

	for _, line := range complete {
		b.Lines.Publish(line)
	}
	return len(p), nil
}

// Tail returns the last n lines
func (b *LogBuffer) Tail(n int) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if n <= 0 {
		return []string{}
	}
	n = min(n, len(b.lines))
	result := make([]string, n)
	copy(result, b.lines[len(b.lines)-n:])
	return result
}

// Len returns the number of lines held
func (b *LogBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}
