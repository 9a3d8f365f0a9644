package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/rivo/tview"

	"github.com/lowaak/smart-trainer/workout-builder/internal/editor"
	"github.com/lowaak/smart-trainer/workout-builder/internal/metrics"
	"github.com/lowaak/smart-trainer/workout-builder/internal/workout"
)

// zoneColors are the tview color names used for zones 1 to 6
var zoneColors = [metrics.ZoneCount]string{"gray", "blue", "green", "yellow", "orange", "red"}

const freeRideColor = "purple"

// formatDuration formats seconds as "1h 5m", "20 min" or "4:30"
func formatDuration(seconds int) string {
	minutes := seconds / 60
	if minutes >= 60 {
		hours := minutes / 60
		mins := minutes % 60
		if mins > 0 {
			return fmt.Sprintf("%dh %dm", hours, mins)
		}
		return fmt.Sprintf("%dh", hours)
	}
	if seconds%60 == 0 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds%60)
}

// formatDurationMMSS formats seconds as a clock, hours folded into minutes
func formatDurationMMSS(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func percent(power float64) int {
	return int(math.Round(power * 100))
}

// formatPower describes a block's target as percent of FTP and watts
func formatPower(b workout.Block, ftp int) string {
	watts := func(p float64) int { return int(math.Round(p * float64(ftp))) }
	if b.Kind == workout.KindFreeRide {
		return "free ride"
	}
	if b.IsRamp() {
		return fmt.Sprintf("%d%% -> %d%% (%d-%d W)", percent(b.PowerStart), percent(b.PowerEnd), watts(b.PowerStart), watts(b.PowerEnd))
	}
	return fmt.Sprintf("%d%% (%d W)", percent(b.PowerStart), watts(b.PowerStart))
}

func zoneColor(b workout.Block) string {
	if b.Kind == workout.KindFreeRide {
		return freeRideColor
	}
	return zoneColors[metrics.ZoneFor(metrics.EffectivePower(b))]
}

// structureLines lists the items, one per line, with the cursor and the
// selection marked
func structureLines(s editor.Snapshot, cursor string) []string {
	selected := make(map[string]bool, len(s.Selection))
	for _, id := range s.Selection {
		selected[id] = true
	}
	marker := func(id string) string {
		m := "  "
		if id == cursor {
			m = "> "
		}
		if selected[id] {
			return m + "[yellow]*[white]"
		}
		return m + " "
	}

	blockLine := func(prefix string, b workout.Block) string {
		return fmt.Sprintf("%s[%s]%-9s[white] %7s  %s", prefix, zoneColor(b), b.Kind.DisplayName(), formatDuration(b.Duration), formatPower(b, s.FTP))
	}

	var lines []string
	for i, it := range s.Workout.Items {
		switch v := it.(type) {
		case workout.Block:
			lines = append(lines, blockLine(fmt.Sprintf("%s%2d. ", marker(v.ID), i+1), v))
		case workout.RepeatGroup:
			lines = append(lines, fmt.Sprintf("%s%2d. [aqua]Repeat x%d[white]  %s each, %s total",
				marker(v.ID), i+1, v.RepeatCount, formatDuration(v.IterationSeconds()), formatDuration(v.Seconds())))
			for j, b := range v.Blocks {
				lines = append(lines, blockLine(fmt.Sprintf("%s    %c. ", marker(b.ID), 'a'+rune(j%26)), b))
			}
		}
	}
	if len(lines) == 0 {
		lines = append(lines, "[gray]Empty workout. Press a, w, c, r or f to add a block.[white]")
	}
	return lines
}

// column is one horizontal cell of the power profile
type column struct {
	ID       string
	Power    float64
	FreeRide bool
	Zone     int
}

// profileColumns samples the ridden profile at the middle of width equal
// time slices
func profileColumns(items []workout.Item, width int) []column {
	total := workout.TotalDuration(items)
	if width <= 0 || total <= 0 {
		return nil
	}

	type segment struct {
		start int
		block workout.Block
	}
	var segments []segment
	start := 0
	for b := range workout.Flatten(items) {
		segments = append(segments, segment{start: start, block: b})
		start += b.Duration
	}

	cols := make([]column, width)
	seg := 0
	for i := range cols {
		t := (float64(i) + 0.5) * float64(total) / float64(width)
		for seg < len(segments)-1 && float64(segments[seg+1].start) <= t {
			seg++
		}
		b := segments[seg].block
		p := b.PowerAt(t - float64(segments[seg].start))
		if b.Kind == workout.KindFreeRide {
			p = metrics.FreeRidePower
		}
		cols[i] = column{ID: b.ID, Power: p, FreeRide: b.Kind == workout.KindFreeRide, Zone: metrics.ZoneFor(p)}
	}
	return cols
}

// profileBars scales the column powers to bar heights of at most height
// rows. Every column gets at least one row so easy blocks stay visible
func profileBars(cols []column, height int) []int {
	scale := 1.2
	for _, c := range cols {
		scale = max(scale, c.Power)
	}
	bars := make([]int, len(cols))
	for i, c := range cols {
		bars[i] = min(height, max(1, int(math.Round(c.Power/scale*float64(height)))))
	}
	return bars
}

func (c column) color() string {
	if c.FreeRide {
		return freeRideColor
	}
	return zoneColors[c.Zone]
}

// zoneBars renders one bar per zone with the time spent in it
func zoneBars(d metrics.Distribution, width int) []string {
	total := d.Total()
	lines := make([]string, 0, metrics.ZoneCount)
	for i, z := range metrics.Zones {
		filled := 0
		if total > 0 {
			filled = int(math.Round(float64(d[i]) / float64(total) * float64(width)))
		}
		lines = append(lines, fmt.Sprintf("Z%d %-9s [%s]%s[gray]%s[white] %s",
			z.Number, z.Name, zoneColors[i], strings.Repeat("█", filled), strings.Repeat("░", max(width-filled, 0)), formatDurationMMSS(d[i])))
	}
	return lines
}

// metricsText summarises the workout stats and editor settings
func metricsText(s editor.Snapshot) string {
	st := s.Workout.Stats
	remaining := s.Remaining()
	remainingColor := "green"
	if remaining <= 0 {
		remainingColor = "red"
	}

	name := s.Workout.Meta.Name
	if name == "" {
		name = "Untitled"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[yellow]%s[white]\n\n", tview.Escape(name))
	fmt.Fprintf(&sb, "Duration:  %s / %s (%s)\n", formatDurationMMSS(st.Duration), formatDurationMMSS(s.TargetDuration), s.DurationMode)
	fmt.Fprintf(&sb, "Remaining: [%s]%s[white]\n", remainingColor, formatDurationMMSS(max(remaining, 0)))
	fmt.Fprintf(&sb, "TSS:       %d\n", st.TSS)
	fmt.Fprintf(&sb, "IF:        %.2f\n", st.IntensityFactor)
	fmt.Fprintf(&sb, "NP:        %.0f W\n", st.NormalizedPower)
	fmt.Fprintf(&sb, "Work:      %.0f kJ\n", st.Kilojoules)
	fmt.Fprintf(&sb, "FTP:       %d W\n", s.FTP)
	fmt.Fprintf(&sb, "Snapping:  %s\n", onOff(s.Snapping))
	fmt.Fprintf(&sb, "Undo/Redo: %s / %s", onOff(s.CanUndo), onOff(s.CanRedo))
	return sb.String()
}

func onOff(b bool) string {
	if b {
		return "[green]on[white]"
	}
	return "[gray]off[white]"
}

var helpText = "[yellow]a/w/c/r/f[white] add  [yellow]←→[white] duration  [yellow]↑↓[white] power  [yellow]Tab[white] cursor  " +
	"[yellow]Space[white] select  [yellow]x[white] delete  [yellow]d[white] duplicate  [yellow]g/G[white] group  [yellow]+/-[white] repeats  " +
	"[yellow]" + tview.Escape("[ ]") + "[white] move  [yellow]u/U[white] undo/redo  [yellow]m[white] mode  [yellow]s[white] snap  [yellow]p[white] preset  " +
	"[yellow]Ctrl-S[white] save  [yellow]q[white] quit"
