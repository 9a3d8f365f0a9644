package library

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/smart-trainer/workout-builder/internal/workout"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func sampleWorkout() workout.Workout {
	return workout.Workout{
		Meta: workout.Metadata{Name: "Tuesday Threshold", Author: "coach", Category: "Threshold", SportType: "bike"},
		Items: []workout.Item{
			workout.Block{ID: "w", Kind: workout.KindWarmup, Duration: 600, PowerStart: 0.4, PowerEnd: 0.75, Cadence: 90},
			workout.RepeatGroup{ID: "g", RepeatCount: 3, Blocks: []workout.Block{
				{ID: "on", Kind: workout.KindSteady, Duration: 300, PowerStart: 1.0, Text: "hold it"},
				{ID: "off", Kind: workout.KindSteady, Duration: 180, PowerStart: 0.5},
			}},
			workout.Block{ID: "f", Kind: workout.KindFreeRide, Duration: 300, PowerStart: 0.5},
		},
		Stats: workout.Stats{Duration: 2340, TSS: 50},
	}
}

func TestNewStore(t *testing.T) {
	assert.Panics(t, func() { NewStore(t.TempDir(), nil) })

	s := NewStore("", testLogger())
	assert.Equal(t, DefaultDir(), s.Dir())
}

func TestStore_SaveLoad(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "workouts"), testLogger())
	w := sampleWorkout()

	path, err := s.Save(w)
	require.NoError(t, err)
	assert.Equal(t, "tuesday-threshold.yaml", filepath.Base(path))

	for _, name := range []string{"tuesday-threshold", "Tuesday Threshold", "tuesday-threshold.yaml"} {
		got, err := s.Load(name)
		require.NoError(t, err, name)
		assert.True(t, workout.Equal(w, got), name)
		assert.Zero(t, got.Stats, "stats are recomputed, never read")
	}
	assert.True(t, s.Exists("Tuesday Threshold"))
}

func TestStore_SaveFileMode(t *testing.T) {
	s := NewStore(t.TempDir(), testLogger())

	path, err := s.Save(sampleWorkout())
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestStore_SaveReplaces(t *testing.T) {
	s := NewStore(t.TempDir(), testLogger())
	w := sampleWorkout()
	_, err := s.Save(w)
	require.NoError(t, err)

	w.Meta.Author = "someone else"
	_, err = s.Save(w)
	require.NoError(t, err)

	got, err := s.Load("tuesday-threshold")
	require.NoError(t, err)
	assert.Equal(t, "someone else", got.Meta.Author)

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"tuesday-threshold"}, names, "no temp files left behind")
}

func TestStore_LoadMissing(t *testing.T) {
	s := NewStore(t.TempDir(), testLogger())
	_, err := s.Load("nothing")
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
	assert.False(t, s.Exists("nothing"))
}

func TestStore_LoadInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("items: [type: nested"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "odd.yaml"), []byte("name: odd\nitems:\n  - type: segment\n"), 0644))

	s := NewStore(dir, testLogger())
	_, err := s.Load("broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrWorkoutNotFound)

	_, err = s.Load("odd")
	assert.ErrorContains(t, err, `unknown type "segment"`)
}

func TestStore_List(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing"), testLogger())
	names, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, name := range []string{"Zwift Classic", "alpha", "Mid Week"} {
		w := sampleWorkout()
		w.Meta.Name = name
		_, err := s.Save(w)
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("x"), 0644))

	names, err = s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid-week", "zwift-classic"}, names)
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Tuesday Threshold", "tuesday-threshold"},
		{"  5x5 -- VO2max!! ", "5x5-vo2max"},
		{"Über Sweet Spot", "über-sweet-spot"},
		{"", "untitled"},
		{"***", "untitled"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.in), tt.in)
	}
}

func TestDecode(t *testing.T) {
	data := []byte(`
name: Hand written
items:
  - duration: 300
    power: 0.6
  - type: repeat
    repeat: 4
    blocks:
      - kind: steady
        duration: 60
        power: 1.2
      - duration: 60
        power: 0.5
  - type: block
    kind: ramp
    duration: 600
    power: 0.5
    power_end: 0.8
`)
	w, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "Hand written", w.Meta.Name)
	require.Len(t, w.Items, 3)

	first := w.Items[0].(workout.Block)
	assert.Equal(t, workout.KindSteady, first.Kind)
	g := w.Items[1].(workout.RepeatGroup)
	assert.Equal(t, 4, g.RepeatCount)
	assert.Len(t, g.Blocks, 2)
	assert.Equal(t, 300+480+600, workout.TotalDuration(w.Items))

	_, err = Decode([]byte("items:\n  - type: repeat\n    blocks:\n      - type: repeat\n"))
	assert.ErrorContains(t, err, "repeat groups can only hold blocks")
}

func TestEncode_WritesStats(t *testing.T) {
	data, err := Encode(sampleWorkout())
	require.NoError(t, err)
	assert.Contains(t, string(data), "stats:")
	assert.Contains(t, string(data), "type: repeat")
	assert.Contains(t, string(data), "power_end: 0.75")

	w := sampleWorkout()
	w.Stats = workout.Stats{}
	data, err = Encode(w)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stats:")
}
