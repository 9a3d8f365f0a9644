package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lowaak/smart-trainer/workout-builder/internal/editor"
	"github.com/lowaak/smart-trainer/workout-builder/internal/metrics"
	"github.com/lowaak/smart-trainer/workout-builder/internal/workout"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <name>",
		Short: "Print metrics and the zone distribution of a workout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.resolveWorkout(a.store(), args[0])
			if err != nil {
				return err
			}
			engine := editor.New(a.settings.Editor, a.logger)
			engine.Load(w)
			writeStats(cmd.OutOrStdout(), engine.Snapshot())
			return nil
		},
	}
}

var zoneAttrs = [metrics.ZoneCount]color.Attribute{
	color.FgWhite, color.FgBlue, color.FgGreen, color.FgYellow, color.FgHiRed, color.FgRed,
}

func writeStats(out io.Writer, s editor.Snapshot) {
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	w := s.Workout
	fmt.Fprintf(out, "\n%s\n", green(strings.ToUpper(w.Meta.Name)))
	if w.Meta.Description != "" {
		fmt.Fprintf(out, "%s: %s\n", cyan("Description"), w.Meta.Description)
	}
	if w.Meta.Category != "" {
		fmt.Fprintf(out, "%s: %s\n", cyan("Category"), w.Meta.Category)
	}
	fmt.Fprintln(out, strings.Repeat("=", 60))

	st := w.Stats
	fmt.Fprintf(out, "%s: %s\n", cyan("Duration"), clock(st.Duration))
	fmt.Fprintf(out, "%s: %d\n", cyan("TSS"), st.TSS)
	fmt.Fprintf(out, "%s: %.2f\n", cyan("IF"), st.IntensityFactor)
	fmt.Fprintf(out, "%s: %.0f W\n", cyan("NP"), st.NormalizedPower)
	fmt.Fprintf(out, "%s: %.0f kJ\n", cyan("Work"), st.Kilojoules)
	fmt.Fprintf(out, "%s: %d W\n", cyan("FTP"), s.FTP)

	fmt.Fprintf(out, "\n%s\n", yellow("Zones"))
	fmt.Fprintln(out, strings.Repeat("-", 60))
	total := s.Zones.Total()
	for i, z := range metrics.Zones {
		share := 0.0
		if total > 0 {
			share = float64(s.Zones[i]) / float64(total)
		}
		bar := color.New(zoneAttrs[i]).Sprint(strings.Repeat("#", int(share*30+0.5)))
		fmt.Fprintf(out, "Z%d %-10s %8s %5.1f%% %s\n", z.Number, z.Name, clock(s.Zones[i]), share*100, bar)
	}

	fmt.Fprintf(out, "\n%s\n", yellow("Blocks"))
	fmt.Fprintln(out, strings.Repeat("-", 60))
	for i, it := range w.Items {
		switch v := it.(type) {
		case workout.Block:
			fmt.Fprintf(out, "%2d. %s\n", i+1, describeBlock(v))
		case workout.RepeatGroup:
			fmt.Fprintf(out, "%2d. %s x%d\n", i+1, cyan("Repeat"), v.RepeatCount)
			for _, b := range v.Blocks {
				fmt.Fprintf(out, "      %s\n", describeBlock(b))
			}
		}
	}
}

func describeBlock(b workout.Block) string {
	var power string
	switch {
	case b.Kind == workout.KindFreeRide:
		power = "free ride"
	case b.IsRamp():
		power = fmt.Sprintf("%.0f%% -> %.0f%% FTP", b.PowerStart*100, b.PowerEnd*100)
	default:
		power = fmt.Sprintf("%.0f%% FTP", b.PowerStart*100)
	}
	line := fmt.Sprintf("%-9s %8s  %s", b.Kind.DisplayName(), clock(b.Duration), power)
	if b.Cadence > 0 {
		line += fmt.Sprintf(" @ %d rpm", b.Cadence)
	}
	return line
}

// clock formats seconds as h:mm:ss, or m:ss under an hour
func clock(seconds int) string {
	h, m, s := seconds/3600, seconds/60%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
