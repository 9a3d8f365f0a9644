package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lowaak/smart-trainer/workout-builder/internal/workout"
)

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the built-in workout templates and interval presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			writeTemplates(cmd.OutOrStdout())
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the workouts saved in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.store()
			names, err := store.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintf(out, "No saved workouts in %s\n", store.Dir())
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}

func writeTemplates(out io.Writer) {
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(out, "\n%s\n", green("TEMPLATES"))
	fmt.Fprintln(out, strings.Repeat("=", 60))
	for _, t := range workout.AllTemplates {
		fmt.Fprintf(out, "%-16s %-26s %8s  %s\n", cyan(t.Name), t.Meta.Name, clock(workout.TotalDuration(t.Items)), yellow(t.Meta.Category))
	}

	fmt.Fprintf(out, "\n%s\n", green("INTERVAL PRESETS"))
	fmt.Fprintln(out, strings.Repeat("=", 60))
	for _, p := range workout.AllPresets {
		fmt.Fprintf(out, "%-16s %-26s %8s\n", cyan(p.Name), p.DisplayName, clock(p.Seconds()))
	}
}
