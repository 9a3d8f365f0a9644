package editor

import (
	"github.com/lowaak/smart-trainer/workout-builder/internal/geometry"
	"github.com/lowaak/smart-trainer/workout-builder/internal/workout"
)

// Handle is the part of a block being dragged
type Handle int

const (
	HandleDuration     Handle = iota // right edge
	HandlePowerStart                 // left end of the top edge
	HandlePowerEnd                   // right end of the top edge
	HandlePowerUniform               // whole top edge
)

func (h Handle) String() string {
	switch h {
	case HandleDuration:
		return "duration"
	case HandlePowerStart:
		return "power-start"
	case HandlePowerEnd:
		return "power-end"
	case HandlePowerUniform:
		return "power"
	default:
		return "unknown"
	}
}

func (h Handle) valid() bool {
	return h >= HandleDuration && h <= HandlePowerUniform
}

// SessionState tells whether a drag is in progress
type SessionState int

const (
	StateIdle SessionState = iota
	StateDragging
)

func (s SessionState) String() string {
	if s == StateDragging {
		return "dragging"
	}
	return "idle"
}

// DragStart describes a pointer-down on a block handle. Y grows downwards,
// as on screen. The scales convert pixels to seconds and percent of FTP
type DragStart struct {
	BlockID          string
	Handle           Handle
	X, Y             float64
	PixelsPerSecond  float64
	PixelsPerPercent float64
}

// EditSession is the state of a drag in progress. Every candidate value
// is derived from Baseline, never from the previous move
type EditSession struct {
	DragStart
	Baseline workout.Block

	baselineItems []workout.Item
}

// State returns the current session state
func (e *Engine) State() SessionState {
	if e.session != nil {
		return StateDragging
	}
	return StateIdle
}

// Session returns the drag in progress, if any
func (e *Engine) Session() (EditSession, bool) {
	if e.session == nil {
		return EditSession{}, false
	}
	return *e.session, true
}

// BeginDrag starts dragging a handle of a block. Refused when a drag is
// already in progress or the block does not exist
func (e *Engine) BeginDrag(start DragStart) bool {
	if e.session != nil || !start.Handle.valid() {
		return false
	}
	b, ok := workout.FindBlock(e.current.Items, start.BlockID)
	if !ok {
		return false
	}
	e.session = &EditSession{
		DragStart:     start,
		Baseline:      b,
		baselineItems: e.current.Items,
	}
	e.logger.Printf("Engine: Drag started on %s (%s)", b.ID, start.Handle)
	e.notify()
	return true
}

// DragTo moves the pointer to x, y. The dragged value is recomputed from the
// baseline plus the total pointer travel, then snapped, clamped and capped
func (e *Engine) DragTo(x, y float64) bool {
	s := e.session
	if s == nil {
		return false
	}
	candidate := e.dragCandidate(s, x, y)
	if cur, ok := workout.FindBlock(e.current.Items, candidate.ID); ok && cur == candidate {
		return false
	}
	items, _ := workout.ReplaceBlock(s.baselineItems, candidate)
	e.current.Items = items
	e.recompute()
	e.notify()
	return true
}

// EndDrag finishes the drag, recording it as a single history entry
func (e *Engine) EndDrag() bool {
	s := e.session
	if s == nil {
		return false
	}
	e.session = nil
	changed := !workout.ItemsEqual(e.current.Items, s.baselineItems)
	if changed {
		e.history.Commit(e.current)
	}
	e.settle()
	e.logger.Printf("Engine: Drag ended on %s (changed: %v)", s.BlockID, changed)
	e.notify()
	return changed
}

// CancelDrag abandons the drag and restores the pre-drag workout
func (e *Engine) CancelDrag() bool {
	s := e.session
	if s == nil {
		return false
	}
	e.session = nil
	e.current.Items = s.baselineItems
	e.recompute()
	e.logger.Printf("Engine: Drag cancelled on %s", s.BlockID)
	e.notify()
	return true
}

func (e *Engine) dragCandidate(s *EditSession, x, y float64) workout.Block {
	base := s.Baseline
	b := base

	if s.Handle == HandleDuration {
		raw := float64(base.Duration) + geometry.PixelsToDuration(x-s.X, s.PixelsPerSecond)
		d := geometry.ClampDuration(e.snapDuration(raw))
		b.Duration = e.capDuration(s.baselineItems, base.ID, base.Duration, d)
		return b
	}

	delta := geometry.PixelsToPower(s.Y-y, s.PixelsPerPercent)
	handle := s.Handle
	if !base.IsRamp() {
		handle = HandlePowerUniform
	}
	switch handle {
	case HandlePowerStart:
		b.PowerStart = e.dragPower(base.PowerStart + delta)
	case HandlePowerEnd:
		b.PowerEnd = e.dragPower(base.PowerEnd + delta)
	default:
		b.PowerStart = e.dragPower(base.PowerStart + delta)
		if base.IsRamp() {
			shift := b.PowerStart - base.PowerStart
			b.PowerEnd = geometry.ClampPower(geometry.RoundPower(base.PowerEnd + shift))
		}
	}
	return b
}

func (e *Engine) snapDuration(seconds float64) int {
	if e.cfg.Snap.Enabled {
		return geometry.SnapDuration(seconds, e.cfg.Snap)
	}
	return geometry.RoundDuration(seconds)
}

func (e *Engine) dragPower(power float64) float64 {
	if e.cfg.Snap.Enabled {
		return geometry.ClampPower(geometry.SnapPower(power, e.cfg.Snap))
	}
	return geometry.ClampPower(geometry.RoundPower(power))
}
