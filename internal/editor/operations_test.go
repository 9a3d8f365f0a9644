package editor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/smart-trainer/workout-builder/internal/workout"
)

func TestAddBlock_RefusedWhenFixedTargetIsFull(t *testing.T) {
	e, _ := newTestEngine(t, fixedTarget(600))
	load(e, steadyBlock("a", 600, 0.7))
	before := e.Workout()

	id, ok := e.AddBlock(workout.KindSteady)
	assert.False(t, ok)
	assert.Empty(t, id)
	assert.True(t, workout.Equal(before, e.Workout()))
	assert.False(t, e.CanUndo())
}

func TestAddBlock_ShrinksToRemainingTime(t *testing.T) {
	e, _ := newTestEngine(t, fixedTarget(600))
	load(e, steadyBlock("a", 500, 0.7))

	id, ok := e.AddBlock(workout.KindSteady)
	require.True(t, ok)
	assert.Equal(t, "id1", id)
	assert.Equal(t, 100, mustBlock(t, e, id).Duration)
	assert.Equal(t, []string{id}, e.Selection())
	assert.Equal(t, 600, e.Workout().Stats.Duration)

	_, ok = e.AddBlock(workout.KindSteady)
	assert.False(t, ok)
}

func TestAddBlock_RefusedBelowMinimumDuration(t *testing.T) {
	e, _ := newTestEngine(t, fixedTarget(600))
	load(e, steadyBlock("a", 590, 0.7))

	_, ok := e.AddBlock(workout.KindRamp)
	assert.False(t, ok)
}

func TestAddBlock_FixedTargetKeepsCappedFloor(t *testing.T) {
	e, _ := newTestEngine(t, fixedTarget(600))
	load(e, steadyBlock("a", 570, 0.7))

	_, ok := e.AddBlock(workout.KindSteady)
	assert.False(t, ok)
	assert.Equal(t, 570, e.Workout().Stats.Duration)

	load(e, steadyBlock("a", 540, 0.7))
	id, ok := e.AddBlock(workout.KindSteady)
	require.True(t, ok)
	assert.Equal(t, MinCappedDuration, mustBlock(t, e, id).Duration)
	assert.Equal(t, 600, e.Workout().Stats.Duration)
}

func TestAddBlock_AfterSelectionJoinsGroup(t *testing.T) {
	e, _ := newTestEngine(t, fixedTarget(600))
	load(e, group("g", 3, steadyBlock("b", 60, 1.0), steadyBlock("c", 60, 0.5)))
	require.True(t, e.SelectBlock("b", false))

	id, ok := e.AddBlock(workout.KindSteady)
	require.True(t, ok)
	// 240 s left, shared by three repeats
	assert.Equal(t, 80, mustBlock(t, e, id).Duration)
	assert.Equal(t, []string{"g", "b", id, "c"}, workout.IDs(e.Workout().Items))
	assert.Equal(t, 600, e.Workout().Stats.Duration)
}

func TestAddBlock_AutoModeRefitsTarget(t *testing.T) {
	e, _ := newTestEngine(t, autoMode)

	_, ok := e.AddBlock(workout.KindSteady)
	require.True(t, ok)
	assert.Equal(t, 300, e.Snapshot().TargetDuration)

	id, ok := e.AddBlock(workout.KindWarmup)
	require.True(t, ok)
	warmup := mustBlock(t, e, id)
	assert.Equal(t, 600, warmup.Duration)
	assert.InDelta(t, 0.40, warmup.PowerStart, 1e-9)
	assert.InDelta(t, 0.75, warmup.PowerEnd, 1e-9)
	assert.Equal(t, 900, e.Snapshot().TargetDuration)
}

func TestUpdateBlock(t *testing.T) {
	e, _ := newTestEngine(t)
	load(e, rampBlock("r", 300, 0.6, 0.9))

	power := 5.0
	cadence := 10
	text := strings.Repeat("x", 300)
	require.True(t, e.UpdateBlock("r", BlockUpdate{PowerStart: &power, Cadence: &cadence, Text: &text}))
	r := mustBlock(t, e, "r")
	assert.Equal(t, 2.0, r.PowerStart)
	assert.Equal(t, 30, r.Cadence)
	assert.Len(t, r.Text, 250)

	steady := workout.KindSteady
	require.True(t, e.UpdateBlock("r", BlockUpdate{Kind: &steady}))
	assert.False(t, mustBlock(t, e, "r").IsRamp(), "steady blocks drop their end power")

	assert.False(t, e.UpdateBlock("r", BlockUpdate{Kind: &steady}), "no change")
	assert.False(t, e.UpdateBlock("missing", BlockUpdate{Cadence: &cadence}))
}

func TestUpdateBlock_DurationCappedByFixedTarget(t *testing.T) {
	e, _ := newTestEngine(t, fixedTarget(600))
	load(e, steadyBlock("a", 300, 0.7), steadyBlock("b", 200, 0.7))

	d := 600
	require.True(t, e.UpdateBlock("a", BlockUpdate{Duration: &d}))
	assert.Equal(t, 400, mustBlock(t, e, "a").Duration)

	d = 350
	require.True(t, e.UpdateBlock("a", BlockUpdate{Duration: &d}))
	assert.Equal(t, 350, mustBlock(t, e, "a").Duration, "shrinking is never capped")
}

func TestUpdateBlock_CapKeepsMinimumLength(t *testing.T) {
	e, _ := newTestEngine(t, fixedTarget(600))
	load(e, steadyBlock("a", 30, 0.7), steadyBlock("b", 570, 0.7))

	d := 120
	require.True(t, e.UpdateBlock("a", BlockUpdate{Duration: &d}))
	assert.Equal(t, 60, mustBlock(t, e, "a").Duration)
}

func TestUpdateBlock_AutoModeIsNotCapped(t *testing.T) {
	e, _ := newTestEngine(t, autoMode)
	load(e, steadyBlock("a", 300, 0.7))

	d := 1000
	require.True(t, e.UpdateBlock("a", BlockUpdate{Duration: &d}))
	assert.Equal(t, 1000, mustBlock(t, e, "a").Duration)
	assert.Equal(t, 1200, e.Snapshot().TargetDuration)
}

func TestDeleteSelected(t *testing.T) {
	e, _ := newTestEngine(t)
	load(e, steadyBlock("a", 300, 0.5), group("g", 3, steadyBlock("b", 60, 1.1), steadyBlock("c", 30, 0.5)), steadyBlock("d", 120, 0.6))

	assert.False(t, e.DeleteSelected(), "empty selection")

	e.SelectBlock("b", false)
	e.SelectBlock("c", true)
	require.True(t, e.DeleteSelected())
	assert.Equal(t, []string{"a", "d"}, workout.IDs(e.Workout().Items), "group removed with its last child")
	assert.Empty(t, e.Selection())

	require.True(t, e.Undo())
	assert.Equal(t, []string{"a", "g", "b", "c", "d"}, workout.IDs(e.Workout().Items))
}

func TestDeleteItem(t *testing.T) {
	e, _ := newTestEngine(t)
	load(e, steadyBlock("a", 300, 0.5), steadyBlock("b", 300, 0.5))
	e.SelectBlock("a", false)

	require.True(t, e.DeleteItem("a"))
	assert.Empty(t, e.Selection())
	assert.False(t, e.DeleteItem("a"))
}

func TestDuplicateBlock(t *testing.T) {
	e, _ := newTestEngine(t, fixedTarget(600))
	load(e, group("g", 3, steadyBlock("b", 60, 1.0), steadyBlock("c", 30, 0.5)))

	id, ok := e.DuplicateBlock("b")
	require.True(t, ok)
	assert.Equal(t, []string{"g", "b", id, "c"}, workout.IDs(e.Workout().Items))
	assert.Equal(t, 450, e.Workout().Stats.Duration)

	_, ok = e.DuplicateBlock("b")
	assert.False(t, ok, "another 180 s does not fit")

	_, ok = e.DuplicateBlock("missing")
	assert.False(t, ok)
}

func TestDuplicateBlock_AutoMode(t *testing.T) {
	e, _ := newTestEngine(t, autoMode)
	load(e, steadyBlock("a", 300, 0.5))

	_, ok := e.DuplicateBlock("a")
	require.True(t, ok)
	assert.Equal(t, 600, e.Snapshot().TargetDuration)
}

func TestMoveBlock(t *testing.T) {
	e, _ := newTestEngine(t)
	load(e, steadyBlock("a", 300, 0.5), steadyBlock("b", 300, 0.6), steadyBlock("c", 300, 0.7))

	require.True(t, e.MoveBlock("c", 0))
	assert.Equal(t, []string{"c", "a", "b"}, workout.IDs(e.Workout().Items))
	assert.False(t, e.MoveBlock("c", 0))
	assert.False(t, e.MoveBlock("missing", 0))
}

func TestCreateRepeatGroup_ExtendsFixedTarget(t *testing.T) {
	e, _ := newTestEngine(t, fixedTarget(600))
	load(e, steadyBlock("a", 300, 0.5), steadyBlock("b", 60, 1.2), steadyBlock("c", 60, 0.5))
	e.SelectBlock("c", false)
	e.SelectBlock("b", true)

	groupID, ok := e.CreateRepeatGroupFromSelection(4)
	require.True(t, ok)
	assert.Equal(t, "id1", groupID)
	assert.Equal(t, []string{"a", "id1", "b", "c"}, workout.IDs(e.Workout().Items))
	assert.Equal(t, 780, e.Workout().Stats.Duration)
	assert.Equal(t, 780, e.Snapshot().TargetDuration)
	assert.Equal(t, []string{groupID}, e.Selection())

	_, ok = e.CreateRepeatGroup([]string{"b"}, 2)
	assert.False(t, ok, "already grouped")
}

func TestUngroupRepeat(t *testing.T) {
	e, _ := newTestEngine(t)
	load(e, group("g", 5, steadyBlock("b", 60, 1.2), steadyBlock("c", 60, 0.5)))

	require.True(t, e.UngroupRepeat("g"))
	assert.Equal(t, []string{"id1", "id2"}, workout.IDs(e.Workout().Items))
	assert.Equal(t, []string{"id1", "id2"}, e.Selection())
	assert.Equal(t, 120, e.Workout().Stats.Duration)

	assert.False(t, e.UngroupRepeat("id1"))
}

func TestUpdateRepeatCount(t *testing.T) {
	e, _ := newTestEngine(t, fixedTarget(600))
	load(e, steadyBlock("a", 300, 0.5), group("g", 2, steadyBlock("b", 60, 1.2), steadyBlock("c", 60, 0.5)))

	require.True(t, e.UpdateRepeatCount("g", 5))
	assert.Equal(t, 900, e.Workout().Stats.Duration)
	assert.Equal(t, 900, e.Snapshot().TargetDuration, "repeats extend a fixed target")

	require.True(t, e.UpdateRepeatCount("g", 500))
	assert.Equal(t, 99, e.Workout().Items[1].(workout.RepeatGroup).RepeatCount)

	assert.False(t, e.UpdateRepeatCount("a", 3))
}

func TestInsertPreset(t *testing.T) {
	e, _ := newTestEngine(t)

	id, ok := e.InsertPreset("thirty-thirty")
	require.True(t, ok)
	g, isGroup := e.Workout().Items[0].(workout.RepeatGroup)
	require.True(t, isGroup)
	assert.Equal(t, id, g.ID)
	assert.Equal(t, 480, e.Workout().Stats.Duration)

	_, ok = e.InsertPreset("nope")
	assert.False(t, ok)
}

func TestInsertPreset_RefusedWhenItDoesNotFit(t *testing.T) {
	e, _ := newTestEngine(t, fixedTarget(600))
	load(e, steadyBlock("a", 300, 0.5))

	_, ok := e.InsertPreset("threshold-5x5")
	assert.False(t, ok)
	assert.Len(t, e.Workout().Items, 1)
}

func TestLoadTemplate(t *testing.T) {
	e, _ := newTestEngine(t)

	require.True(t, e.LoadTemplate("ftp-test-20"))
	w := e.Workout()
	assert.Equal(t, "20 Min FTP Test", w.Meta.Name)
	assert.Equal(t, 2100, w.Stats.Duration)
	assert.True(t, e.CanUndo())

	require.True(t, e.Undo())
	assert.Empty(t, e.Workout().Items)
	assert.Empty(t, e.Workout().Meta.Name)

	assert.False(t, e.LoadTemplate("nope"))
}

func TestUpdateMeta(t *testing.T) {
	e, _ := newTestEngine(t)
	load(e, steadyBlock("a", 300, 0.5))

	meta := workout.Metadata{Name: "Tuesday", Author: "me", SportType: "bike"}
	require.True(t, e.UpdateMeta(meta))
	assert.Equal(t, meta, e.Workout().Meta)
	assert.False(t, e.UpdateMeta(meta))

	require.True(t, e.Undo())
	assert.Equal(t, "Test", e.Workout().Meta.Name)
}
