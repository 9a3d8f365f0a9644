// Package config resolves settings from defaults, an optional YAML file,
// WORKOUT_BUILDER_* environment variables and command line flags, in
// increasing order of precedence
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lowaak/smart-trainer/workout-builder/internal/applog"
	"github.com/lowaak/smart-trainer/workout-builder/internal/editor"
	"github.com/lowaak/smart-trainer/workout-builder/internal/library"
)

// EnvPrefix prefixes every environment variable, e.g. WORKOUT_BUILDER_FTP
const EnvPrefix = "WORKOUT_BUILDER"

// Keys
const (
	KeyFTP             = "ftp"
	KeySnap            = "snap"
	KeyTargetDuration  = "target_duration"
	KeyDurationMode    = "duration_mode"
	KeyHistoryCapacity = "history.capacity"
	KeyCoalesceWindow  = "history.coalesce_window"
	KeyLibrary         = "library"
	KeyLogFile         = "log.file"
	KeyLogMaxSize      = "log.max_size_mb"
	KeyLogMaxBackups   = "log.max_backups"
	KeyLogMaxAge       = "log.max_age_days"
)

// FlagConfig names the flag pointing at an explicit config file
const FlagConfig = "config"

// flag name -> key
var flagKeys = map[string]string{
	"ftp":             KeyFTP,
	"snap":            KeySnap,
	"target-duration": KeyTargetDuration,
	"duration-mode":   KeyDurationMode,
	"library":         KeyLibrary,
	"log-file":        KeyLogFile,
}

// Settings is the resolved configuration
type Settings struct {
	Editor  editor.Config
	Library string
	Log     applog.Options
}

// DefaultFile returns ~/.smart-trainer/workout-builder.yaml
func DefaultFile() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".smart-trainer", "workout-builder.yaml")
}

// New returns a viper instance with defaults and environment binding
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	d := editor.DefaultConfig()
	v.SetDefault(KeyFTP, d.FTP)
	v.SetDefault(KeySnap, d.Snap.Enabled)
	v.SetDefault(KeyTargetDuration, d.TargetDuration)
	v.SetDefault(KeyDurationMode, string(d.DurationMode))
	v.SetDefault(KeyHistoryCapacity, d.HistoryCapacity)
	v.SetDefault(KeyCoalesceWindow, d.CoalesceWindow)
	v.SetDefault(KeyLibrary, library.DefaultDir())
	v.SetDefault(KeyLogFile, applog.DefaultFile())
	v.SetDefault(KeyLogMaxSize, 5)
	v.SetDefault(KeyLogMaxBackups, 3)
	v.SetDefault(KeyLogMaxAge, 28)
}

// RegisterFlags adds the configuration flags to fs
func RegisterFlags(fs *pflag.FlagSet) {
	d := editor.DefaultConfig()
	fs.String(FlagConfig, "", "config file (default "+DefaultFile()+")")
	fs.Int("ftp", d.FTP, "functional threshold power in watts")
	fs.Bool("snap", d.Snap.Enabled, "snap dragged values to common durations and zone boundaries")
	fs.Int("target-duration", d.TargetDuration, "target workout duration in seconds")
	fs.String("duration-mode", string(d.DurationMode), "duration mode: fixed or auto")
	fs.String("library", library.DefaultDir(), "directory holding saved workouts")
	fs.String("log-file", applog.DefaultFile(), "log file, empty to disable logging")
}

// BindFlags binds the flags registered by RegisterFlags to their keys.
// Only flags set on the command line override other sources
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// ReadFile merges a YAML config file. With an empty path the default file
// is read when it exists; an explicit path must exist
func ReadFile(v *viper.Viper, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultFile()
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return nil
}

// Resolve builds Settings from v
func Resolve(v *viper.Viper) (Settings, error) {
	mode, err := editor.ParseDurationMode(v.GetString(KeyDurationMode))
	if err != nil {
		return Settings{}, err
	}
	window := v.GetDuration(KeyCoalesceWindow)
	if window < 0 {
		return Settings{}, fmt.Errorf("invalid %s: %v", KeyCoalesceWindow, window)
	}

	cfg := editor.DefaultConfig()
	cfg.FTP = v.GetInt(KeyFTP)
	cfg.Snap.Enabled = v.GetBool(KeySnap)
	cfg.TargetDuration = v.GetInt(KeyTargetDuration)
	cfg.DurationMode = mode
	cfg.HistoryCapacity = v.GetInt(KeyHistoryCapacity)
	cfg.CoalesceWindow = window

	return Settings{
		Editor:  cfg,
		Library: v.GetString(KeyLibrary),
		Log: applog.Options{
			File:       v.GetString(KeyLogFile),
			MaxSizeMB:  v.GetInt(KeyLogMaxSize),
			MaxBackups: v.GetInt(KeyLogMaxBackups),
			MaxAgeDays: v.GetInt(KeyLogMaxAge),
		},
	}, nil
}

// Load is the usual sequence: bind flags, read the file named by
// --config (or the default one) and resolve
func Load(v *viper.Viper, fs *pflag.FlagSet) (Settings, error) {
	if err := BindFlags(v, fs); err != nil {
		return Settings{}, err
	}
	path := ""
	if f := fs.Lookup(FlagConfig); f != nil {
		path = f.Value.String()
	}
	if err := ReadFile(v, path); err != nil {
		return Settings{}, err
	}
	return Resolve(v)
}
