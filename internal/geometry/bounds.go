package geometry

import (
	"math"
	"unicode/utf8"
)

// Hard bounds for every editable workout value
const (
	MinDuration       = 15 // seconds
	MinPower          = 0.20
	MaxPower          = 2.00
	MinCadence        = 30 // rpm
	MaxCadence        = 150
	MaxTextLength     = 250 // characters
	MinRepeatCount    = 1
	MaxRepeatCount    = 99
	MinFTP            = 50 // watts
	MaxFTP            = 500
	MinTargetDuration = 300 // seconds
	MaxTargetDuration = 28800
)

// ClampDuration returns seconds raised to MinDuration
func ClampDuration(seconds int) int {
	return max(seconds, MinDuration)
}

// ClampPower keeps an FTP fraction inside [MinPower, MaxPower], treating NaN
// as the lower bound
func ClampPower(power float64) float64 {
	if math.IsNaN(power) || power < MinPower {
		return MinPower
	}
	if power > MaxPower {
		return MaxPower
	}
	return power
}

// ClampCadence keeps a cadence target inside [MinCadence, MaxCadence]; zero
// or negative input means "no target" and yields 0
func ClampCadence(rpm int) int {
	if rpm <= 0 {
		return 0
	}
	return min(max(rpm, MinCadence), MaxCadence)
}

// ClampRepeatCount keeps a group's repeats inside [MinRepeatCount, MaxRepeatCount]
func ClampRepeatCount(n int) int {
	return min(max(n, MinRepeatCount), MaxRepeatCount)
}

// ClampFTP keeps the reference power inside [MinFTP, MaxFTP]
func ClampFTP(watts int) int {
	return min(max(watts, MinFTP), MaxFTP)
}

// ClampTargetDuration keeps a target inside [MinTargetDuration, MaxTargetDuration]
func ClampTargetDuration(seconds int) int {
	return min(max(seconds, MinTargetDuration), MaxTargetDuration)
}

// ClampText truncates a coaching note to MaxTextLength characters
func ClampText(text string) string {
	if utf8.RuneCountInString(text) <= MaxTextLength {
		return text
	}
	return string([]rune(text)[:MaxTextLength])
}
