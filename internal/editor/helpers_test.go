package editor

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lowaak/smart-trainer/workout-builder/internal/workout"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func fixedTarget(seconds int) func(*Config) {
	return func(c *Config) {
		c.DurationMode = DurationFixed
		c.TargetDuration = seconds
	}
}

func autoMode(c *Config) {
	c.DurationMode = DurationAuto
}

func newTestEngine(t *testing.T, opts ...func(*Config)) (*Engine, *fakeClock) {
	t.Helper()
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	clock := &fakeClock{t: time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)}
	e := New(cfg, log.New(io.Discard, "", 0),
		WithIDGenerator(&workout.SequenceGenerator{Prefix: "id"}),
		WithClock(clock.Now),
	)
	return e, clock
}

func steadyBlock(id string, seconds int, power float64) workout.Block {
	return workout.Block{ID: id, Kind: workout.KindSteady, Duration: seconds, PowerStart: power}
}

func rampBlock(id string, seconds int, from, to float64) workout.Block {
	return workout.Block{ID: id, Kind: workout.KindRamp, Duration: seconds, PowerStart: from, PowerEnd: to}
}

func group(id string, count int, blocks ...workout.Block) workout.RepeatGroup {
	return workout.RepeatGroup{ID: id, RepeatCount: count, Blocks: blocks}
}

func load(e *Engine, items ...workout.Item) {
	e.Load(workout.Workout{Meta: workout.Metadata{Name: "Test"}, Items: items})
}

func mustBlock(t *testing.T, e *Engine, id string) workout.Block {
	t.Helper()
	b, ok := workout.FindBlock(e.Workout().Items, id)
	require.True(t, ok, "block %s not found", id)
	return b
}
