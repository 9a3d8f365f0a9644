package main

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lowaak/smart-trainer/workout-builder/internal/applog"
	"github.com/lowaak/smart-trainer/workout-builder/internal/config"
	"github.com/lowaak/smart-trainer/workout-builder/internal/library"
	"github.com/lowaak/smart-trainer/workout-builder/internal/workout"
)

// app carries what every command needs once flags are parsed
type app struct {
	viper    *viper.Viper
	settings config.Settings
	logger   *log.Logger
	closer   io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{viper: config.New()}

	root := &cobra.Command{
		Use:          "workout-builder",
		Short:        "Build structured indoor cycling workouts in the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newEditCmd(a),
		newStatsCmd(a),
		newTemplatesCmd(),
		newListCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	settings, err := config.Load(a.viper, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.settings = settings
	a.logger, a.closer = applog.New(settings.Log)
	a.logger.Printf("Main: %s starting (ftp %d W, target %ds, mode %s, library %s)",
		cmd.CommandPath(), settings.Editor.FTP, settings.Editor.TargetDuration, settings.Editor.DurationMode, settings.Library)
	return nil
}

func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	a.logger.Println("Main: Exiting")
	return a.closer.Close()
}

func (a *app) store() *library.Store {
	return library.NewStore(a.settings.Library, a.logger)
}

// resolveWorkout finds name in the library first, then among the built-in
// templates
func (a *app) resolveWorkout(store *library.Store, name string) (workout.Workout, error) {
	if store.Exists(name) {
		return store.Load(name)
	}
	if t, ok := workout.GetTemplate(name); ok {
		a.logger.Printf("Main: Using built-in template %s", name)
		return t.Build(workout.UUIDGenerator{}), nil
	}
	return workout.Workout{}, fmt.Errorf("%q is neither a saved workout nor a template: %w", name, library.ErrWorkoutNotFound)
}
