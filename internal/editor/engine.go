// Package editor holds the workout editing engine: the current workout,
// its selection and drag session, the duration-mode policy and the
// undo history
package editor

import (
	"log"
	"time"

	"github.com/lowaak/smart-trainer/workout-builder/internal/events"
	"github.com/lowaak/smart-trainer/workout-builder/internal/geometry"
	"github.com/lowaak/smart-trainer/workout-builder/internal/history"
	"github.com/lowaak/smart-trainer/workout-builder/internal/metrics"
	"github.com/lowaak/smart-trainer/workout-builder/internal/workout"
)

// Snapshot is a consistent, read-only view of the engine state handed to
// renderers. The Items slice is shared and must not be modified
type Snapshot struct {
	Workout        workout.Workout
	Selection      []string
	Zones          metrics.Distribution
	TargetDuration int
	DurationMode   DurationMode
	FTP            int
	Snapping       bool
	CanUndo        bool
	CanRedo        bool
	Dragging       bool
}

// Remaining returns the seconds left before the target duration is reached
func (s Snapshot) Remaining() int {
	return s.TargetDuration - s.Workout.Stats.Duration
}

// Engine owns a workout being edited. It is driven synchronously from a
// single goroutine and is not safe for concurrent use
type Engine struct {
	cfg    Config
	logger *log.Logger
	ids    workout.IDGenerator
	now    func() time.Time

	current   workout.Workout
	selection []string
	session   *EditSession
	history   *history.History[workout.Workout]
	changes   *events.Feed[Snapshot]
}

// Option configures an Engine
type Option func(*Engine)

// WithIDGenerator replaces the UUID generator, mostly for tests
func WithIDGenerator(gen workout.IDGenerator) Option {
	return func(e *Engine) {
		if gen != nil {
			e.ids = gen
		}
	}
}

// WithClock replaces time.Now for nudge coalescing
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an engine holding an empty workout
func New(cfg Config, logger *log.Logger, opts ...Option) *Engine {
	if logger == nil {
		panic("Engine: logger cannot be nil")
	}

	e := &Engine{
		cfg:     cfg.normalized(),
		logger:  logger,
		ids:     workout.UUIDGenerator{},
		now:     time.Now,
		changes: events.NewFeed[Snapshot](false),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.history = history.New(
		history.WithCapacity[workout.Workout](e.cfg.HistoryCapacity),
		history.WithEqual(workout.Equal),
		history.WithCoalesceWindow[workout.Workout](e.cfg.CoalesceWindow),
		history.WithClock[workout.Workout](e.now),
	)
	e.recompute()
	e.history.Reset(e.current)
	e.settle()
	return e
}

// Load replaces the workout wholesale. Selection, any drag in progress
// and the undo history are discarded
func (e *Engine) Load(w workout.Workout) {
	e.session = nil
	e.selection = nil
	e.current = workout.Workout{
		Meta:  clampMeta(w.Meta),
		Items: workout.Sanitize(w.Items, e.ids),
	}
	e.recompute()
	e.history.Reset(e.current)

	e.growTarget(e.current.Items)
	e.settle()

	e.logger.Printf("Engine: Workout '%s' loaded (%d items, %ds)", e.current.Meta.Name, len(e.current.Items), e.current.Stats.Duration)
	e.notify()
}

// Workout returns the current workout with up to date stats
func (e *Engine) Workout() workout.Workout {
	return e.current
}

// Config returns the current settings
func (e *Engine) Config() Config {
	return e.cfg
}

// Snapshot returns the full engine state for rendering
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Workout:        e.current,
		Selection:      e.Selection(),
		Zones:          metrics.ZoneDistribution(e.current.Items),
		TargetDuration: e.cfg.TargetDuration,
		DurationMode:   e.cfg.DurationMode,
		FTP:            e.cfg.FTP,
		Snapping:       e.cfg.Snap.Enabled,
		CanUndo:        e.CanUndo(),
		CanRedo:        e.CanRedo(),
		Dragging:       e.session != nil,
	}
}

// ZoneDistribution returns the seconds spent in each power zone
func (e *Engine) ZoneDistribution() metrics.Distribution {
	return metrics.ZoneDistribution(e.current.Items)
}

// OnChange registers fn to receive a snapshot after every state change.
// The returned function unsubscribes
func (e *Engine) OnChange(fn func(Snapshot)) func() {
	return e.changes.Subscribe(fn)
}

// SetFTP changes the reference power. Only the stats change
func (e *Engine) SetFTP(ftp int) bool {
	ftp = geometry.ClampFTP(ftp)
	if ftp == e.cfg.FTP {
		return false
	}
	e.cfg.FTP = ftp
	e.recompute()
	e.logger.Printf("Engine: FTP set to %d W", ftp)
	e.notify()
	return true
}

// SetSnapping turns drag snapping on or off
func (e *Engine) SetSnapping(enabled bool) bool {
	if e.cfg.Snap.Enabled == enabled {
		return false
	}
	e.cfg.Snap.Enabled = enabled
	e.logger.Printf("Engine: Snapping enabled: %v", enabled)
	e.notify()
	return true
}

// SetTargetDuration sets the target in fixed mode. In auto mode the
// target follows the content and the call is ignored
func (e *Engine) SetTargetDuration(seconds int) bool {
	if e.cfg.DurationMode == DurationAuto {
		e.logger.Printf("Engine: Ignoring target duration in auto mode")
		return false
	}
	seconds = geometry.ClampTargetDuration(seconds)
	if seconds == e.cfg.TargetDuration {
		return false
	}
	e.cfg.TargetDuration = seconds
	e.logger.Printf("Engine: Target duration set to %ds", seconds)
	e.notify()
	return true
}

// SetDurationMode switches between fixed and auto. Going to fixed keeps
// the current target; going to auto derives it from the content
func (e *Engine) SetDurationMode(mode DurationMode) bool {
	if mode != DurationFixed && mode != DurationAuto {
		return false
	}
	if mode == e.cfg.DurationMode {
		return false
	}
	e.cfg.DurationMode = mode
	e.settle()
	e.logger.Printf("Engine: Duration mode set to %s (target %ds)", mode, e.cfg.TargetDuration)
	e.notify()
	return true
}

// Undo restores the previous workout. Refused while dragging
func (e *Engine) Undo() bool {
	if e.session != nil {
		return false
	}
	prev, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.restore(prev)
	e.logger.Printf("Engine: Undo")
	return true
}

// Redo re-applies the last undone change. Refused while dragging
func (e *Engine) Redo() bool {
	if e.session != nil {
		return false
	}
	next, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.restore(next)
	e.logger.Printf("Engine: Redo")
	return true
}

func (e *Engine) CanUndo() bool {
	return e.session == nil && e.history.CanUndo()
}

func (e *Engine) CanRedo() bool {
	return e.session == nil && e.history.CanRedo()
}

func (e *Engine) restore(w workout.Workout) {
	e.current = w
	e.recompute()
	e.pruneSelection()
	e.settle()
	e.notify()
}

// apply installs a new item tree, records it in history and settles the
// target duration. key groups nudges for coalescing
func (e *Engine) apply(items []workout.Item, key string) {
	e.current.Items = items
	e.recompute()
	e.pruneSelection()
	if key == "" {
		e.history.Commit(e.current)
	} else {
		e.history.CommitKeyed(e.current, key)
	}
	e.settle()
	e.notify()
}

func (e *Engine) recompute() {
	e.current.Stats = metrics.Compute(e.current.Items, e.cfg.FTP)
}

func (e *Engine) notify() {
	if e.changes.SubscriberCount() == 0 {
		return
	}
	e.changes.Publish(e.Snapshot())
}

func clampMeta(m workout.Metadata) workout.Metadata {
	m.Name = geometry.ClampText(m.Name)
	m.Author = geometry.ClampText(m.Author)
	m.Category = geometry.ClampText(m.Category)
	m.Description = geometry.ClampText(m.Description)
	m.SportType = geometry.ClampText(m.SportType)
	return m
}
