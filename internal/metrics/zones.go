package metrics

import (
	"math"

	"github.com/lowaak/smart-trainer/workout-builder/internal/workout"
)

// ZoneCount is the number of power zones
const ZoneCount = 6

const zoneEpsilon = 1e-9

// Zone is a band of power expressed as FTP fractions. Lower is inclusive,
// Upper exclusive
type Zone struct {
	Number int
	Name   string
	Lower  float64
	Upper  float64
}

// Zones are the fixed training zones
var Zones = [ZoneCount]Zone{
	{Number: 1, Name: "Recovery", Lower: 0, Upper: 0.55},
	{Number: 2, Name: "Endurance", Lower: 0.55, Upper: 0.75},
	{Number: 3, Name: "Tempo", Lower: 0.75, Upper: 0.90},
	{Number: 4, Name: "Threshold", Lower: 0.90, Upper: 1.05},
	{Number: 5, Name: "VO2max", Lower: 1.05, Upper: 1.20},
	{Number: 6, Name: "Anaerobic", Lower: 1.20, Upper: math.Inf(1)},
}

// ZoneFor returns the index into Zones for an FTP fraction
func ZoneFor(power float64) int {
	for i := ZoneCount - 1; i > 0; i-- {
		if power >= Zones[i].Lower-zoneEpsilon {
			return i
		}
	}
	return 0
}

// Distribution holds seconds spent in each zone
type Distribution [ZoneCount]int

// Total returns the seconds accounted for across all zones
func (d Distribution) Total() int {
	total := 0
	for _, s := range d {
		total += s
	}
	return total
}

// ZoneDistribution buckets the workout's time into zones. Ramps are
// sampled at the middle of every second so a ramp crossing a boundary is
// split between zones. Free ride blocks have no target and count nowhere
func ZoneDistribution(items []workout.Item) Distribution {
	var dist Distribution
	for _, it := range items {
		switch v := it.(type) {
		case workout.Block:
			dist.add(blockZones(v), 1)
		case workout.RepeatGroup:
			var once Distribution
			for _, b := range v.Blocks {
				once.add(blockZones(b), 1)
			}
			dist.add(once, v.RepeatCount)
		}
	}
	return dist
}

func (d *Distribution) add(other Distribution, times int) {
	for i, s := range other {
		d[i] += s * times
	}
}

func blockZones(b workout.Block) Distribution {
	var dist Distribution
	switch {
	case b.Kind == workout.KindFreeRide:
	case b.IsRamp():
		for s := range b.Duration {
			dist[ZoneFor(b.PowerAt(float64(s)+0.5))]++
		}
	default:
		dist[ZoneFor(b.PowerStart)] += b.Duration
	}
	return dist
}
