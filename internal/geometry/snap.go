package geometry

import "math"

const (
	DefaultDurationIncrement = 15   // seconds
	DefaultPowerIncrement    = 0.05 // 5% FTP

	// DurationSnapTolerance is how close (seconds) a value must be to a
	// common duration to snap onto it
	DurationSnapTolerance = 5
	// PowerSnapTolerance is how close (FTP fraction) a value must be to a
	// zone boundary to snap onto it
	PowerSnapTolerance = 0.02

	powerResolution = 1e4
	epsilon         = 1e-9
)

// SnapConfig controls how dragged values are snapped
type SnapConfig struct {
	Enabled            bool
	DurationThresholds []int     // common durations in seconds
	DurationIncrement  int       // fallback rounding step in seconds
	PowerBoundaries    []float64 // zone boundaries as FTP fractions
	PowerIncrement     float64   // fallback rounding step as FTP fraction
}

// DefaultSnapConfig returns snapping with the common interval lengths and
// the power zone boundaries
func DefaultSnapConfig() SnapConfig {
	return SnapConfig{
		Enabled:            true,
		DurationThresholds: []int{30, 60, 90, 120, 180, 240, 300, 360, 480, 600, 720, 900, 1200, 1800, 2400, 3600},
		DurationIncrement:  DefaultDurationIncrement,
		PowerBoundaries:    []float64{0.55, 0.75, 0.90, 1.05, 1.20, 1.50},
		PowerIncrement:     DefaultPowerIncrement,
	}
}

// SnapDuration snaps seconds onto the closest common duration within
// DurationSnapTolerance, otherwise onto the nearest multiple of the
// configured increment. A rounded value that lands near a common duration
// is pulled onto it, so snapping a snapped value never moves it
func SnapDuration(value float64, cfg SnapConfig) int {
	if t, ok := nearestThreshold(value, cfg.DurationThresholds); ok {
		return t
	}
	inc := cfg.DurationIncrement
	if inc <= 0 {
		inc = DefaultDurationIncrement
	}
	rounded := int(math.Round(value/float64(inc))) * inc
	if t, ok := nearestThreshold(float64(rounded), cfg.DurationThresholds); ok {
		return t
	}
	return rounded
}

// SnapPower snaps an FTP fraction onto the closest zone boundary within
// PowerSnapTolerance, otherwise onto the nearest multiple of the
// configured increment. Like SnapDuration it re-checks the boundaries after
// rounding
func SnapPower(value float64, cfg SnapConfig) float64 {
	if b, ok := nearestBoundary(value, cfg.PowerBoundaries); ok {
		return b
	}
	inc := cfg.PowerIncrement
	if inc <= 0 {
		inc = DefaultPowerIncrement
	}
	rounded := cleanPower(math.Round(value/inc) * inc)
	if b, ok := nearestBoundary(rounded, cfg.PowerBoundaries); ok {
		return b
	}
	return rounded
}

func nearestThreshold(value float64, thresholds []int) (int, bool) {
	best, bestDist := 0, math.Inf(1)
	for _, t := range thresholds {
		d := math.Abs(value - float64(t))
		if d <= DurationSnapTolerance && d < bestDist {
			best, bestDist = t, d
		}
	}
	return best, !math.IsInf(bestDist, 1)
}

func nearestBoundary(value float64, boundaries []float64) (float64, bool) {
	best, bestDist := 0.0, math.Inf(1)
	for _, b := range boundaries {
		d := math.Abs(value - b)
		if d <= PowerSnapTolerance+epsilon && d < bestDist {
			best, bestDist = b, d
		}
	}
	return best, !math.IsInf(bestDist, 1)
}

// RoundDuration rounds to whole seconds. Used when snapping is off
func RoundDuration(value float64) int {
	return int(math.Round(value))
}

// RoundPower rounds to whole percent. Used when snapping is off
func RoundPower(value float64) float64 {
	return math.Round(value*100) / 100
}

// cleanPower strips float noise such as 0.8500000000000001
func cleanPower(value float64) float64 {
	return math.Round(value*powerResolution) / powerResolution
}
