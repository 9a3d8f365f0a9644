package workout

// Template is a complete workout that can be loaded as a starting point
type Template struct {
	Name  string
	Meta  Metadata
	Items []Item // ids left empty
}

// Build returns the template as a workout with fresh ids
func (t Template) Build(gen IDGenerator) Workout {
	items := make([]Item, len(t.Items))
	for i, it := range t.Items {
		items[i] = Reassign(it, gen)
	}
	return Workout{Meta: t.Meta, Items: items}
}

func steady(seconds int, power float64) Block {
	return Block{Kind: KindSteady, Duration: seconds, PowerStart: power, Cadence: 90}
}

func ramp(kind BlockKind, seconds int, from, to float64) Block {
	return Block{Kind: kind, Duration: seconds, PowerStart: from, PowerEnd: to, Cadence: 90}
}

func repeat(count int, blocks ...Block) RepeatGroup {
	return RepeatGroup{RepeatCount: count, Blocks: blocks}
}

func meta(name, category, description string) Metadata {
	return Metadata{Name: name, Author: "Smart Trainer", Category: category, Description: description, SportType: "bike"}
}

// AllTemplates defines the built-in workouts
var AllTemplates = []Template{
	{
		Name: "endurance-30",
		Meta: meta("30 Min Endurance", "Endurance", "Steady zone 2 riding."),
		Items: []Item{
			steady(5*minute, 0.50), // Warmup
			steady(20*minute, 0.65),
			steady(5*minute, 0.50), // Cooldown
		},
	},
	{
		Name: "ftp-test-20",
		Meta: meta("20 Min FTP Test", "Test", "Aim for the highest power you can hold for 20 minutes."),
		Items: []Item{
			steady(5*minute, 0.50),
			steady(3*minute, 0.70), // Opener
			steady(2*minute, 0.50),
			steady(20*minute, 1.05),
			steady(5*minute, 0.40),
		},
	},
	{
		Name: "threshold-5x5",
		Meta: meta("5x5 Threshold Intervals", "Threshold", "Five threshold efforts with short recoveries."),
		Items: []Item{
			steady(5*minute, 0.50),
			repeat(4, steady(5*minute, 1.00), steady(3*minute, 0.50)),
			steady(5*minute, 1.00),
			steady(5*minute, 0.50),
		},
	},
	{
		Name: "recovery-spin",
		Meta: meta("Recovery Spin", "Recovery", "Easy spinning with gentle ramps."),
		Items: []Item{
			ramp(KindWarmup, 10*minute, 0.40, 0.45),
			steady(25*minute, 0.45),
			ramp(KindCooldown, 10*minute, 0.45, 0.35),
		},
	},
	{
		Name: "vo2max-4x4",
		Meta: meta("VO2max 4x4", "VO2max", "Four hard efforts at 120% FTP."),
		Items: []Item{
			steady(10*minute, 0.50),
			repeat(3, steady(4*minute, 1.20), steady(4*minute, 0.50)),
			steady(4*minute, 1.20),
			steady(10*minute, 0.50),
		},
	},
	{
		Name: "intervals-30",
		Meta: meta("Intervals - 30m", "Tempo", "Sub-threshold intervals."),
		Items: []Item{
			steady(3*minute, 0.65),
			steady(5*minute, 0.90),
			steady(3*minute, 0.65),
			repeat(3, steady(4*minute, 0.90), steady(3*minute, 0.65)),
		},
	},
	{
		Name: "intervals-60",
		Meta: meta("Intervals - 60m", "Tempo", "Eight sub-threshold intervals."),
		Items: []Item{
			steady(3*minute, 0.65),
			steady(5*minute, 0.90),
			steady(3*minute, 0.65),
			repeat(7, steady(4*minute, 0.90), steady(3*minute, 0.65)),
		},
	},
}

// GetTemplate returns a template by name
func GetTemplate(name string) (Template, bool) {
	for _, t := range AllTemplates {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}
