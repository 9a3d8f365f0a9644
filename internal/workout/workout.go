package workout

import (
	"slices"

	"github.com/lowaak/smart-trainer/workout-builder/internal/geometry"
)

// BlockKind defines the shape of a workout block
type BlockKind string

const (
	KindSteady   BlockKind = "steady"
	KindWarmup   BlockKind = "warmup"
	KindCooldown BlockKind = "cooldown"
	KindRamp     BlockKind = "ramp"
	KindFreeRide BlockKind = "freeride"
)

// AllBlockKinds lists the kinds in display order
var AllBlockKinds = []BlockKind{KindSteady, KindWarmup, KindCooldown, KindRamp, KindFreeRide}

// Valid reports whether k is one of the known kinds
func (k BlockKind) Valid() bool {
	return slices.Contains(AllBlockKinds, k)
}

// IsRampShaped reports whether blocks of this kind may carry an end power
func (k BlockKind) IsRampShaped() bool {
	return k == KindWarmup || k == KindCooldown || k == KindRamp
}

// DisplayName returns a human readable name for the kind
func (k BlockKind) DisplayName() string {
	switch k {
	case KindSteady:
		return "Steady"
	case KindWarmup:
		return "Warmup"
	case KindCooldown:
		return "Cooldown"
	case KindRamp:
		return "Ramp"
	case KindFreeRide:
		return "Free Ride"
	default:
		return string(k)
	}
}

// Item is either a Block or a RepeatGroup. The set of implementations is
// closed; consumers switch on the concrete type
type Item interface {
	ItemID() string
	// Seconds is the time the item occupies in the workout, repeats included
	Seconds() int
	isItem()
}

// Block represents a single interval in a workout
type Block struct {
	ID         string
	Kind       BlockKind
	Duration   int     // Duration in seconds
	PowerStart float64 // Starting power as FTP multiplier (e.g., 0.75 = 75% FTP)
	PowerEnd   float64 // Ending power for ramps; 0 means constant PowerStart
	Cadence    int     // Target cadence in RPM (0 means no specific target)
	Text       string  // Coaching note
}

func (b Block) ItemID() string { return b.ID }
func (b Block) Seconds() int   { return b.Duration }
func (Block) isItem()          {}

// IsRamp reports whether the block changes power over its duration
func (b Block) IsRamp() bool {
	return b.PowerEnd > 0
}

// EndPower returns the power at the end of the block
func (b Block) EndPower() float64 {
	if b.IsRamp() {
		return b.PowerEnd
	}
	return b.PowerStart
}

// PowerAt returns the interpolated target at t seconds into the block
func (b Block) PowerAt(t float64) float64 {
	if !b.IsRamp() || b.Duration <= 0 {
		return b.PowerStart
	}
	progress := min(max(t/float64(b.Duration), 0), 1)
	return b.PowerStart + (b.PowerEnd-b.PowerStart)*progress
}

// RepeatGroup repeats an ordered list of blocks RepeatCount times
type RepeatGroup struct {
	ID          string
	RepeatCount int
	Blocks      []Block // a single iteration
}

func (g RepeatGroup) ItemID() string { return g.ID }
func (g RepeatGroup) Seconds() int   { return g.IterationSeconds() * g.RepeatCount }
func (RepeatGroup) isItem()          {}

// IterationSeconds returns the duration of one pass through the blocks
func (g RepeatGroup) IterationSeconds() int {
	total := 0
	for _, b := range g.Blocks {
		total += b.Duration
	}
	return total
}

// Metadata describes a workout
type Metadata struct {
	Name        string
	Author      string
	Category    string
	Description string
	SportType   string
}

// Stats holds values derived from the items and the FTP. They are never
// edited directly
type Stats struct {
	Duration        int // seconds
	TSS             int
	IntensityFactor float64
	NormalizedPower float64 // watts
	Kilojoules      float64
}

// Workout represents a structured workout
type Workout struct {
	Meta  Metadata
	Items []Item
	Stats Stats
}

// TotalDuration returns the total duration of all items in the workout
func (w Workout) TotalDuration() int {
	return TotalDuration(w.Items)
}

// Equal compares metadata and items. Stats are ignored since they follow
// from the items
func Equal(a, b Workout) bool {
	return a.Meta == b.Meta && ItemsEqual(a.Items, b.Items)
}

// ItemsEqual compares two item lists structurally, ids included
func ItemsEqual(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		switch x := a[i].(type) {
		case Block:
			y, ok := b[i].(Block)
			if !ok || x != y {
				return false
			}
		case RepeatGroup:
			y, ok := b[i].(RepeatGroup)
			if !ok || x.ID != y.ID || x.RepeatCount != y.RepeatCount || !slices.Equal(x.Blocks, y.Blocks) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Normalize clamps every field of b into its valid range. Only ramp-shaped
// kinds keep an end power
func Normalize(b Block) Block {
	if !b.Kind.Valid() {
		b.Kind = KindSteady
	}
	b.Duration = geometry.ClampDuration(b.Duration)
	b.PowerStart = geometry.ClampPower(b.PowerStart)
	if b.PowerEnd > 0 && b.Kind.IsRampShaped() {
		b.PowerEnd = geometry.ClampPower(b.PowerEnd)
	} else {
		b.PowerEnd = 0
	}
	b.Cadence = geometry.ClampCadence(b.Cadence)
	b.Text = geometry.ClampText(b.Text)
	return b
}
