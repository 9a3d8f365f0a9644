// Package metrics derives training-load numbers from a workout tree.
//
// Normalized Power treats each block's effective power as instantaneous
// power, NP = sqrt(mean(p^2)) over the flattened workout, rather than the
// 30 second rolling average used for recorded rides. TSS comes from the
// same sum as duration * p^2 / 36 per block. This simplification is
// intentional
package metrics

import (
	"math"

	"github.com/lowaak/smart-trainer/workout-builder/internal/workout"
)

// FreeRidePower is the assumed effort of a free ride block
const FreeRidePower = 0.50

// tssDivisor turns duration * p^2 into TSS: one hour at FTP scores 100
const tssDivisor = 36.0

// EffectivePower returns the FTP fraction a block counts as
func EffectivePower(b workout.Block) float64 {
	switch {
	case b.Kind == workout.KindFreeRide:
		return FreeRidePower
	case b.Kind.IsRampShaped() || b.IsRamp():
		return (b.PowerStart + b.EndPower()) / 2
	default:
		return b.PowerStart
	}
}

// Compute derives the workout stats for the given FTP. It is pure:
// identical input yields identical output
func Compute(items []workout.Item, ftp int) workout.Stats {
	var (
		total    int
		weighted float64 // sum of duration * p^2
		tss      float64
		work     float64 // joules
	)
	for b := range workout.Flatten(items) {
		p := EffectivePower(b)
		d := float64(b.Duration)
		total += b.Duration
		weighted += d * p * p
		tss += d * p * p / tssDivisor
		work += p * float64(ftp) * d
	}

	stats := workout.Stats{
		Duration:   total,
		TSS:        int(math.Round(tss)),
		Kilojoules: work / 1000,
	}
	if total > 0 {
		stats.NormalizedPower = math.Sqrt(weighted/float64(total)) * float64(ftp)
	}
	if ftp > 0 {
		stats.IntensityFactor = stats.NormalizedPower / float64(ftp)
	}
	return stats
}
