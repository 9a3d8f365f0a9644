package editor

import (
	"github.com/lowaak/smart-trainer/workout-builder/internal/geometry"
	"github.com/lowaak/smart-trainer/workout-builder/internal/workout"
)

// Keyboard nudge steps
const (
	NudgeDurationStep      = 15 // seconds
	NudgeDurationLargeStep = 60
	NudgePowerStep         = 0.05 // FTP fraction
	NudgePowerLargeStep    = 0.10
)

// NudgeDuration lengthens (sign > 0) or shortens (sign < 0) a block by one
// step. Repeated nudges of the same block share one history entry while
// they arrive within the coalescing window
func (e *Engine) NudgeDuration(id string, large bool, sign int) bool {
	if e.busy("NudgeDuration") || sign == 0 {
		return false
	}
	old, ok := workout.FindBlock(e.current.Items, id)
	if !ok {
		return false
	}
	step := NudgeDurationStep
	if large {
		step = NudgeDurationLargeStep
	}

	b := old
	b.Duration = geometry.ClampDuration(old.Duration + sign/abs(sign)*step)
	b.Duration = e.capDuration(e.current.Items, id, old.Duration, b.Duration)
	return e.nudge(b, "duration:"+id)
}

// NudgePower raises (sign > 0) or lowers (sign < 0) the whole block power
// by one step. A ramp keeps its shape unless a bound is hit
func (e *Engine) NudgePower(id string, large bool, sign int) bool {
	if e.busy("NudgePower") || sign == 0 {
		return false
	}
	old, ok := workout.FindBlock(e.current.Items, id)
	if !ok {
		return false
	}
	step := NudgePowerStep
	if large {
		step = NudgePowerLargeStep
	}
	delta := float64(sign/abs(sign)) * step

	b := old
	b.PowerStart = geometry.ClampPower(geometry.RoundPower(old.PowerStart + delta))
	if old.IsRamp() {
		b.PowerEnd = geometry.ClampPower(geometry.RoundPower(old.PowerEnd + delta))
	}
	return e.nudge(b, "power:"+id)
}

func (e *Engine) nudge(b workout.Block, key string) bool {
	items, changed := workout.ReplaceBlock(e.current.Items, b)
	if !changed {
		return false
	}
	e.apply(items, key)
	return true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
