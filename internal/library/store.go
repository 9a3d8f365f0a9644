// Package library keeps saved workouts as YAML files in a directory
package library

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/lowaak/smart-trainer/workout-builder/internal/workout"
)

const fileExt = ".yaml"

// ErrWorkoutNotFound is returned by Load for names with no file
var ErrWorkoutNotFound = errors.New("workout not found")

// DefaultDir returns ~/.smart-trainer/workouts
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".smart-trainer", "workouts")
}

// Store reads and writes workout files
type Store struct {
	dir    string
	logger *log.Logger
}

// NewStore creates a store over dir. The directory is created on first save
func NewStore(dir string, logger *log.Logger) *Store {
	if logger == nil {
		panic("Library: logger cannot be nil")
	}
	if dir == "" {
		dir = DefaultDir()
	}
	return &Store{dir: dir, logger: logger}
}

// Dir returns the directory backing the store
func (s *Store) Dir() string {
	return s.dir
}

// Save writes w under a file named after its slug and returns the path.
// An existing file with the same name is replaced
func (s *Store) Save(w workout.Workout) (string, error) {
	data, err := Encode(w)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create library directory: %w", err)
	}

	path := s.path(Slug(w.Meta.Name))
	tmp, err := os.CreateTemp(s.dir, ".save-*")
	if err != nil {
		return "", fmt.Errorf("failed to save workout: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to save workout: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to save workout: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to save workout: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to save workout: %w", err)
	}

	s.logger.Printf("Library: save %s (%d items)", path, len(w.Items))
	return path, nil
}

// Load reads a workout by name. The name may be a slug, a display name
// or a file name
func (s *Store) Load(name string) (workout.Workout, error) {
	path := s.path(Slug(strings.TrimSuffix(name, fileExt)))
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return workout.Workout{}, fmt.Errorf("%s: %w", name, ErrWorkoutNotFound)
	}
	if err != nil {
		return workout.Workout{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	w, err := Decode(data)
	if err != nil {
		return workout.Workout{}, fmt.Errorf("%s: %w", path, err)
	}
	s.logger.Printf("Library: load %s -> '%s' (%d items)", path, w.Meta.Name, len(w.Items))
	return w, nil
}

// List returns the slugs of all saved workouts, sorted. A missing
// directory is an empty library
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list library: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != fileExt || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), fileExt))
	}
	slices.Sort(names)
	return names, nil
}

// Exists reports whether a workout with that name is saved
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.path(Slug(strings.TrimSuffix(name, fileExt))))
	return err == nil
}

func (s *Store) path(slug string) string {
	return filepath.Join(s.dir, slug+fileExt)
}

// Slug turns a workout name into a file name: lower case letters and
// digits separated by single dashes
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return "untitled"
	}
	return b.String()
}
