package editor

import (
	"github.com/lowaak/smart-trainer/workout-builder/internal/geometry"
	"github.com/lowaak/smart-trainer/workout-builder/internal/workout"
)

// autoTarget rounds used up to the next AutoFitStep, at least one step
func autoTarget(used int) int {
	steps := (used + AutoFitStep - 1) / AutoFitStep
	return geometry.ClampTargetDuration(max(steps, 1) * AutoFitStep)
}

// settle re-derives the target in auto mode. Never called mid-drag
func (e *Engine) settle() {
	if e.cfg.DurationMode != DurationAuto || e.session != nil {
		return
	}
	e.cfg.TargetDuration = autoTarget(e.current.Stats.Duration)
}

// remaining returns the free seconds under a fixed target
func (e *Engine) remaining(items []workout.Item) int {
	return e.cfg.TargetDuration - workout.TotalDuration(items)
}

// fits reports whether items respect the duration policy
func (e *Engine) fits(items []workout.Item) bool {
	return e.cfg.DurationMode == DurationAuto || workout.TotalDuration(items) <= e.cfg.TargetDuration
}

// capDuration limits a grown block duration so the workout stays within a
// fixed target. The block keeps at least its current length and never drops
// below MinCappedDuration. Shrinking edits and auto mode pass through
func (e *Engine) capDuration(items []workout.Item, id string, oldSeconds, newSeconds int) int {
	if e.cfg.DurationMode != DurationFixed || newSeconds <= oldSeconds {
		return newSeconds
	}
	mult := workout.RepeatMultiplier(items, id)
	others := workout.TotalDuration(items) - oldSeconds*mult
	allowed := (e.cfg.TargetDuration - others) / mult
	return min(newSeconds, max(allowed, MinCappedDuration, oldSeconds))
}
