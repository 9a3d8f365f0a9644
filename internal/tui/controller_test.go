package tui

import (
	"errors"
	"io"
	"log"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/smart-trainer/workout-builder/internal/editor"
	"github.com/lowaak/smart-trainer/workout-builder/internal/workout"
)

type fakeSaver struct {
	saved []workout.Workout
	err   error
}

func (s *fakeSaver) Save(w workout.Workout) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, w)
	return "/tmp/workouts/test.yaml", nil
}

func newTestEngine(opts ...func(*editor.Config)) *editor.Engine {
	cfg := editor.DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return editor.New(cfg, log.New(io.Discard, "", 0),
		editor.WithIDGenerator(&workout.SequenceGenerator{Prefix: "id"}))
}

func autoMode(c *editor.Config) {
	c.DurationMode = editor.DurationAuto
}

func steady(id string, seconds int, power float64) workout.Block {
	return workout.Block{ID: id, Kind: workout.KindSteady, Duration: seconds, PowerStart: power}
}

func newTestController(e *editor.Engine, items ...workout.Item) (*Controller, *fakeSaver, *int) {
	if len(items) > 0 {
		e.Load(workout.Workout{Meta: workout.Metadata{Name: "Test"}, Items: items})
	}
	saver := &fakeSaver{}
	quits := 0
	c := NewController(log.New(io.Discard, "", 0), e, saver, func() { quits++ })
	return c, saver, &quits
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func shifted(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModShift)
}

func char(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func press(t *testing.T, c *Controller, events ...*tcell.EventKey) {
	t.Helper()
	for _, ev := range events {
		require.True(t, c.HandleKey(ev), "key %v not handled", ev.Name())
	}
}

func TestNewController_PanicsOnNil(t *testing.T) {
	e := newTestEngine()
	assert.PanicsWithValue(t, "Controller: logger cannot be nil", func() {
		NewController(nil, e, nil, nil)
	})
	assert.PanicsWithValue(t, "Controller: engine cannot be nil", func() {
		NewController(log.New(io.Discard, "", 0), nil, nil, nil)
	})
}

func TestController_AddBlockKeys(t *testing.T) {
	e := newTestEngine()
	c, _, _ := newTestController(e)
	assert.Equal(t, "", c.Cursor())

	press(t, c, char('a'), char('w'))

	items := e.Workout().Items
	require.Len(t, items, 2)
	assert.Equal(t, workout.KindSteady, items[0].(workout.Block).Kind)
	assert.Equal(t, workout.KindWarmup, items[1].(workout.Block).Kind)
	assert.Equal(t, "id2", c.Cursor())

	// inserts land after the cursor
	press(t, c, key(tcell.KeyBacktab), char('f'))
	assert.Equal(t, []string{"id1", "id3", "id2"}, workout.IDs(e.Workout().Items))
	assert.Equal(t, "id3", c.Cursor())
}

func TestController_AddBlockRefusedWhenFull(t *testing.T) {
	e := newTestEngine(func(cfg *editor.Config) { cfg.TargetDuration = 600 })
	c, _, _ := newTestController(e, steady("a", 600, 0.6))

	press(t, c, char('a'))
	assert.Len(t, e.Workout().Items, 1)
	assert.Contains(t, c.Status(), "No room left")
}

func TestController_Nudges(t *testing.T) {
	e := newTestEngine()
	c, _, _ := newTestController(e, steady("b", 300, 0.75))
	require.Equal(t, "b", c.Cursor())

	press(t, c, key(tcell.KeyRight))
	assert.Equal(t, 315, e.Workout().Items[0].(workout.Block).Duration)
	press(t, c, shifted(tcell.KeyRight))
	assert.Equal(t, 375, e.Workout().Items[0].(workout.Block).Duration)
	press(t, c, key(tcell.KeyLeft))
	assert.Equal(t, 360, e.Workout().Items[0].(workout.Block).Duration)

	press(t, c, key(tcell.KeyUp))
	assert.InDelta(t, 0.80, e.Workout().Items[0].(workout.Block).PowerStart, 1e-9)
	press(t, c, shifted(tcell.KeyDown))
	assert.InDelta(t, 0.70, e.Workout().Items[0].(workout.Block).PowerStart, 1e-9)
}

func TestController_CursorMovement(t *testing.T) {
	e := newTestEngine()
	c, _, _ := newTestController(e,
		steady("a", 60, 0.5),
		workout.RepeatGroup{ID: "g", RepeatCount: 2, Blocks: []workout.Block{steady("b", 60, 1), steady("c", 60, 0.5)}},
		steady("d", 60, 0.5),
	)
	assert.Equal(t, "d", c.Cursor(), "starts on the last item")

	press(t, c, key(tcell.KeyTab))
	assert.Equal(t, "d", c.Cursor(), "clamped at the end")

	press(t, c, key(tcell.KeyBacktab))
	assert.Equal(t, "c", c.Cursor())
	press(t, c, char('k'), char('k'))
	assert.Equal(t, "g", c.Cursor())
	press(t, c, char('j'))
	assert.Equal(t, "b", c.Cursor())
}

func TestController_Selection(t *testing.T) {
	e := newTestEngine()
	c, _, _ := newTestController(e, steady("a", 60, 0.5), steady("b", 60, 0.6), steady("c", 60, 0.7))

	press(t, c, char(' '), key(tcell.KeyBacktab), char(' '))
	assert.Equal(t, []string{"c", "b"}, e.Selection())

	press(t, c, char(' '))
	assert.Equal(t, []string{"c"}, e.Selection(), "space toggles")

	press(t, c, key(tcell.KeyBacktab), key(tcell.KeyEnter))
	assert.Equal(t, []string{"a"}, e.Selection(), "enter replaces")
}

func TestController_Delete(t *testing.T) {
	e := newTestEngine()
	c, _, _ := newTestController(e, steady("a", 60, 0.5), steady("b", 60, 0.6), steady("c", 60, 0.7))

	press(t, c, char('x'))
	assert.Equal(t, []string{"a", "b"}, workout.IDs(e.Workout().Items), "cursor item without selection")
	assert.Equal(t, "b", c.Cursor())

	press(t, c, key(tcell.KeyBacktab), char(' '), key(tcell.KeyTab), char(' '), char('x'))
	assert.Empty(t, e.Workout().Items, "whole selection")
	assert.Equal(t, "", c.Cursor())
}

func TestController_Duplicate(t *testing.T) {
	e := newTestEngine()
	c, _, _ := newTestController(e, steady("a", 60, 0.5))

	press(t, c, char('d'))
	assert.Equal(t, []string{"a", "id1"}, workout.IDs(e.Workout().Items))
	assert.Equal(t, "id1", c.Cursor())
}

func TestController_GroupAndRepeats(t *testing.T) {
	e := newTestEngine()
	c, _, _ := newTestController(e, steady("a", 60, 0.5), steady("b", 60, 0.6), steady("c", 60, 0.7))

	press(t, c, char('g'))
	items := e.Workout().Items
	require.Len(t, items, 3)
	g, ok := items[2].(workout.RepeatGroup)
	require.True(t, ok)
	assert.Equal(t, DefaultRepeatCount, g.RepeatCount)
	assert.Equal(t, g.ID, c.Cursor())

	press(t, c, char('+'), char('+'))
	assert.Equal(t, 4, e.Workout().Items[2].(workout.RepeatGroup).RepeatCount)
	press(t, c, char('-'))
	assert.Equal(t, 3, e.Workout().Items[2].(workout.RepeatGroup).RepeatCount)

	// repeat keys work from a child block too
	press(t, c, key(tcell.KeyTab), char('+'))
	assert.Equal(t, 4, e.Workout().Items[2].(workout.RepeatGroup).RepeatCount)

	press(t, c, char('G'))
	items = e.Workout().Items
	require.Len(t, items, 3)
	_, isBlock := items[2].(workout.Block)
	assert.True(t, isBlock)
	assert.Equal(t, items[2].ItemID(), c.Cursor())
	assert.Equal(t, 180, e.Workout().Stats.Duration)
}

func TestController_GroupSelection(t *testing.T) {
	e := newTestEngine()
	c, _, _ := newTestController(e, steady("a", 60, 0.5), steady("b", 60, 0.6), steady("c", 60, 0.7))

	press(t, c, char(' '), key(tcell.KeyBacktab), char(' '), char('g'))
	items := e.Workout().Items
	require.Len(t, items, 2)
	g := items[1].(workout.RepeatGroup)
	assert.Len(t, g.Blocks, 2)
	assert.Equal(t, 60+120*DefaultRepeatCount, e.Workout().Stats.Duration)
}

func TestController_Move(t *testing.T) {
	e := newTestEngine()
	c, _, _ := newTestController(e, steady("a", 60, 0.5), steady("b", 60, 0.6), steady("c", 60, 0.7))

	press(t, c, char('['))
	assert.Equal(t, []string{"a", "c", "b"}, workout.IDs(e.Workout().Items))
	press(t, c, char('['))
	assert.Equal(t, []string{"c", "a", "b"}, workout.IDs(e.Workout().Items))
	press(t, c, char(']'))
	assert.Equal(t, []string{"a", "c", "b"}, workout.IDs(e.Workout().Items))
	assert.Equal(t, "c", c.Cursor())
}

func TestController_UndoRedo(t *testing.T) {
	e := newTestEngine()
	c, _, _ := newTestController(e)

	press(t, c, char('a'))
	require.Len(t, e.Workout().Items, 1)

	press(t, c, char('u'))
	assert.Empty(t, e.Workout().Items)
	assert.Equal(t, "", c.Cursor())

	press(t, c, char('U'))
	assert.Len(t, e.Workout().Items, 1)
	assert.Equal(t, "id1", c.Cursor())

	press(t, c, char('u'), key(tcell.KeyCtrlR))
	assert.Len(t, e.Workout().Items, 1)
}

func TestController_Toggles(t *testing.T) {
	e := newTestEngine()
	c, _, _ := newTestController(e, steady("a", 600, 0.5))

	press(t, c, char('m'))
	assert.Equal(t, editor.DurationAuto, e.Config().DurationMode)
	assert.Equal(t, 600, e.Config().TargetDuration)
	press(t, c, char('m'))
	assert.Equal(t, editor.DurationFixed, e.Config().DurationMode)

	require.True(t, e.Config().Snap.Enabled)
	press(t, c, char('s'))
	assert.False(t, e.Config().Snap.Enabled)
	assert.Equal(t, "Snapping off", c.Status())
	press(t, c, char('s'))
	assert.True(t, e.Config().Snap.Enabled)
}

func TestController_PresetsCycle(t *testing.T) {
	require.GreaterOrEqual(t, len(workout.AllPresets), 2)
	e := newTestEngine(autoMode)
	c, _, _ := newTestController(e)

	press(t, c, char('p'), char('p'))

	items := e.Workout().Items
	require.Len(t, items, 2)
	assert.Equal(t, workout.AllPresets[0].Seconds(), items[0].Seconds())
	assert.Equal(t, workout.AllPresets[1].Seconds(), items[1].Seconds())
	assert.Equal(t, items[1].ItemID(), c.Cursor())
	assert.Contains(t, c.Status(), workout.AllPresets[1].DisplayName)
}

func TestController_PresetRefusedByTarget(t *testing.T) {
	e := newTestEngine(func(cfg *editor.Config) { cfg.TargetDuration = 600 })
	c, _, _ := newTestController(e)

	press(t, c, char('p'))
	assert.Empty(t, e.Workout().Items)
	assert.Contains(t, c.Status(), "does not fit")
}

func TestController_Save(t *testing.T) {
	e := newTestEngine()
	c, saver, _ := newTestController(e, steady("a", 60, 0.5))

	press(t, c, key(tcell.KeyCtrlS))
	require.Len(t, saver.saved, 1)
	assert.Equal(t, "Test", saver.saved[0].Meta.Name)
	assert.Equal(t, "Saved to /tmp/workouts/test.yaml", c.Status())

	saver.err = errors.New("disk full")
	press(t, c, key(tcell.KeyCtrlS))
	assert.Equal(t, "Save failed: disk full", c.Status())

	noSave := NewController(log.New(io.Discard, "", 0), e, nil, nil)
	noSave.HandleKey(key(tcell.KeyCtrlS))
	assert.Equal(t, "Saving is not available", noSave.Status())
}

func TestController_Quit(t *testing.T) {
	e := newTestEngine()
	c, _, quits := newTestController(e)

	press(t, c, char('q'), key(tcell.KeyEscape))
	assert.Equal(t, 2, *quits)
}

func TestController_UnknownKeys(t *testing.T) {
	e := newTestEngine()
	c, _, _ := newTestController(e)

	assert.False(t, c.HandleKey(char('z')))
	assert.False(t, c.HandleKey(key(tcell.KeyF1)))
}
