package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rivo/tview"
	"github.com/spf13/cobra"

	"github.com/lowaak/smart-trainer/workout-builder/internal/editor"
	"github.com/lowaak/smart-trainer/workout-builder/internal/safego"
	"github.com/lowaak/smart-trainer/workout-builder/internal/tui"
	"github.com/lowaak/smart-trainer/workout-builder/internal/workout"
)

func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit [name]",
		Short: "Open the editor on a saved workout, a template or a blank workout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.store()

			w := workout.Workout{Meta: workout.Metadata{Name: "Untitled", SportType: "bike"}}
			if len(args) == 1 {
				var err error
				if w, err = a.resolveWorkout(store, args[0]); err != nil {
					return err
				}
			}

			// Mirror the log into the UI's log panel
			logs := tui.NewLogBuffer(0)
			a.logger.SetOutput(io.MultiWriter(a.logger.Writer(), logs))

			engine := editor.New(a.settings.Editor, a.logger)
			engine.Load(w)

			tviewApp := tview.NewApplication()
			controller := tui.NewController(a.logger, engine, store, tviewApp.Stop)
			view := tui.NewView(a.logger, tviewApp, engine, controller, logs)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			done := make(chan struct{})
			defer close(done)
			safego.Go(a.logger, func() {
				select {
				case <-ctx.Done():
					a.logger.Println("Main: Signal received, stopping editor")
					view.Stop()
				case <-done:
				}
			})

			a.logger.Printf("Main: Editing '%s'", w.Meta.Name)
			err := view.Run()
			view.Shutdown()
			if err != nil {
				return fmt.Errorf("editor failed: %w", err)
			}
			return nil
		},
	}
}
