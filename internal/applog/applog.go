// Package applog builds the application logger. Output goes to a rotated
// file so it never draws over the terminal UI
package applog

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the log file rotation
type Options struct {
	File       string // empty discards all output
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFile returns ~/.smart-trainer/workout-builder.log
func DefaultFile() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".smart-trainer", "workout-builder.log")
}

// New returns a logger writing to the configured file and a closer for it
func New(opts Options) (*log.Logger, io.Closer) {
	if opts.File == "" {
		return log.New(io.Discard, "", 0), nopCloser{}
	}
	w := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}
	return log.New(w, "", log.LstdFlags|log.Lmicroseconds), w
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
