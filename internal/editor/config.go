package editor

import (
	"fmt"
	"strings"
	"time"

	"github.com/lowaak/smart-trainer/workout-builder/internal/geometry"
	"github.com/lowaak/smart-trainer/workout-builder/internal/history"
)

// DurationMode decides what happens when content outgrows the target duration
type DurationMode string

const (
	// DurationFixed caps edits at the target duration
	DurationFixed DurationMode = "fixed"
	// DurationAuto never caps and re-derives the target after each edit
	DurationAuto DurationMode = "auto"
)

// ParseDurationMode accepts "fixed" or "auto", case insensitive
func ParseDurationMode(s string) (DurationMode, error) {
	switch DurationMode(strings.ToLower(strings.TrimSpace(s))) {
	case DurationFixed:
		return DurationFixed, nil
	case DurationAuto:
		return DurationAuto, nil
	default:
		return "", fmt.Errorf("invalid duration mode %q (want fixed or auto)", s)
	}
}

// Default values
const (
	DefaultFTP            = 220
	DefaultTargetDuration = 3600
	DefaultCoalesceWindow = time.Second

	// MinCappedDuration is the shortest a block gets shortened to when a
	// fixed target caps an edit
	MinCappedDuration = 60
	// AutoFitStep is the granularity of the auto-derived target
	AutoFitStep = 300
)

// Config holds the engine settings. Values out of range are clamped by New
type Config struct {
	FTP             int
	Snap            geometry.SnapConfig
	TargetDuration  int
	DurationMode    DurationMode
	HistoryCapacity int
	CoalesceWindow  time.Duration
}

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() Config {
	return Config{
		FTP:             DefaultFTP,
		Snap:            geometry.DefaultSnapConfig(),
		TargetDuration:  DefaultTargetDuration,
		DurationMode:    DurationFixed,
		HistoryCapacity: history.DefaultCapacity,
		CoalesceWindow:  DefaultCoalesceWindow,
	}
}

func (c Config) normalized() Config {
	c.FTP = geometry.ClampFTP(c.FTP)
	c.TargetDuration = geometry.ClampTargetDuration(c.TargetDuration)
	if c.DurationMode != DurationAuto {
		c.DurationMode = DurationFixed
	}
	if c.HistoryCapacity <= 0 {
		c.HistoryCapacity = history.DefaultCapacity
	}
	if c.CoalesceWindow < 0 {
		c.CoalesceWindow = 0
	}
	return c
}
