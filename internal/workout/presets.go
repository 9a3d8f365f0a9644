package workout

import "slices"

const minute = 60

// NewBlock returns a block of the given kind with sensible defaults
func NewBlock(kind BlockKind, id string) Block {
	b := Block{ID: id, Kind: kind}
	switch kind {
	case KindWarmup:
		b.Duration, b.PowerStart, b.PowerEnd = 10*minute, 0.40, 0.75
	case KindCooldown:
		b.Duration, b.PowerStart, b.PowerEnd = 10*minute, 0.75, 0.40
	case KindRamp:
		b.Duration, b.PowerStart, b.PowerEnd = 5*minute, 0.60, 0.90
	case KindFreeRide:
		b.Duration, b.PowerStart = 10*minute, 0.50
	default:
		b.Kind = KindSteady
		b.Duration, b.PowerStart = 5*minute, 0.75
	}
	return b
}

// Preset is a named interval set that can be dropped into a workout
type Preset struct {
	Name        string
	DisplayName string
	RepeatCount int
	Blocks      []Block // one iteration, ids left empty
}

// Build materialises the preset. Multi-block or repeated presets become a
// RepeatGroup, a single block stays a Block
func (p Preset) Build(gen IDGenerator) Item {
	if len(p.Blocks) == 1 && p.RepeatCount <= 1 {
		b := p.Blocks[0]
		b.ID = gen.NewID()
		return b
	}
	return Reassign(RepeatGroup{RepeatCount: p.RepeatCount, Blocks: slices.Clone(p.Blocks)}, gen)
}

// Seconds returns the duration the preset adds to a workout
func (p Preset) Seconds() int {
	return RepeatGroup{RepeatCount: max(p.RepeatCount, 1), Blocks: p.Blocks}.Seconds()
}

// AllPresets defines the interval sets offered by the editor
var AllPresets = []Preset{
	{
		Name:        "threshold-5x5",
		DisplayName: "5x5 Threshold",
		RepeatCount: 5,
		Blocks: []Block{
			{Kind: KindSteady, Duration: 5 * minute, PowerStart: 1.00, Cadence: 90},
			{Kind: KindSteady, Duration: 3 * minute, PowerStart: 0.50, Cadence: 90},
		},
	},
	{
		Name:        "vo2max-4x4",
		DisplayName: "VO2max 4x4",
		RepeatCount: 4,
		Blocks: []Block{
			{Kind: KindSteady, Duration: 4 * minute, PowerStart: 1.20, Cadence: 90},
			{Kind: KindSteady, Duration: 4 * minute, PowerStart: 0.50, Cadence: 90},
		},
	},
	{
		Name:        "sweet-spot-3x10",
		DisplayName: "Sweet Spot 3x10",
		RepeatCount: 3,
		Blocks: []Block{
			{Kind: KindSteady, Duration: 10 * minute, PowerStart: 0.90},
			{Kind: KindSteady, Duration: 5 * minute, PowerStart: 0.55},
		},
	},
	{
		Name:        "thirty-thirty",
		DisplayName: "30/30s",
		RepeatCount: 8,
		Blocks: []Block{
			{Kind: KindSteady, Duration: 30, PowerStart: 1.20},
			{Kind: KindSteady, Duration: 30, PowerStart: 0.50},
		},
	},
	{
		Name:        "over-unders",
		DisplayName: "Over-Unders",
		RepeatCount: 4,
		Blocks: []Block{
			{Kind: KindSteady, Duration: 2 * minute, PowerStart: 0.95},
			{Kind: KindSteady, Duration: 1 * minute, PowerStart: 1.05},
		},
	},
	{
		Name:        "ramp-test",
		DisplayName: "Ramp Test",
		RepeatCount: 1,
		Blocks: []Block{
			{Kind: KindRamp, Duration: 20 * minute, PowerStart: 0.50, PowerEnd: 1.40},
		},
	},
}

// GetPreset returns a preset by name
func GetPreset(name string) (Preset, bool) {
	for _, p := range AllPresets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
