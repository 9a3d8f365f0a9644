// Package tui is the terminal front end of the workout builder. The
// Controller turns key presses into editor.Engine calls; the View renders
// engine snapshots with tview
package tui

import (
	"fmt"
	"log"
	"slices"

	"github.com/gdamore/tcell/v2"

	"github.com/lowaak/smart-trainer/workout-builder/internal/editor"
	"github.com/lowaak/smart-trainer/workout-builder/internal/workout"
)

// Saver persists a workout and returns where it went
type Saver interface {
	Save(w workout.Workout) (string, error)
}

// DefaultRepeatCount is used when a selection is turned into a group
const DefaultRepeatCount = 2

// kindKeys maps the add-block keys to block kinds
var kindKeys = map[rune]workout.BlockKind{
	'a': workout.KindSteady,
	'w': workout.KindWarmup,
	'c': workout.KindCooldown,
	'r': workout.KindRamp,
	'f': workout.KindFreeRide,
}

// Controller handles user input for the editor. It keeps a cursor over
// the item tree; most keys act on the item under the cursor
type Controller struct {
	logger *log.Logger
	engine *editor.Engine
	saver  Saver
	quit   func()

	cursor     string
	nextPreset int
	status     string
}

// NewController creates a controller over engine. saver may be nil, in
// which case saving is unavailable. quit is called on q or Esc
func NewController(logger *log.Logger, engine *editor.Engine, saver Saver, quit func()) *Controller {
	if logger == nil {
		panic("Controller: logger cannot be nil")
	}
	if engine == nil {
		panic("Controller: engine cannot be nil")
	}
	if quit == nil {
		quit = func() {}
	}

	c := &Controller{
		logger: logger,
		engine: engine,
		saver:  saver,
		quit:   quit,
	}
	c.fixCursor()
	return c
}

// Cursor returns the id of the item under the cursor, "" when empty
func (c *Controller) Cursor() string {
	return c.cursor
}

// Status returns the last feedback message for the status line
func (c *Controller) Status() string {
	return c.status
}

// HandleKey applies the action bound to event and reports whether the key
// was consumed
func (c *Controller) HandleKey(event *tcell.EventKey) bool {
	c.fixCursor()
	large := event.Modifiers()&tcell.ModShift != 0

	switch event.Key() {
	case tcell.KeyLeft:
		c.NudgeDuration(large, -1)
	case tcell.KeyRight:
		c.NudgeDuration(large, 1)
	case tcell.KeyUp:
		c.NudgePower(large, 1)
	case tcell.KeyDown:
		c.NudgePower(large, -1)
	case tcell.KeyTab:
		c.MoveCursor(1)
	case tcell.KeyBacktab:
		c.MoveCursor(-1)
	case tcell.KeyEnter:
		c.Select(false)
	case tcell.KeyCtrlR:
		c.Redo()
	case tcell.KeyCtrlS:
		c.Save()
	case tcell.KeyEscape:
		c.Quit()
	case tcell.KeyRune:
		return c.handleRune(event.Rune())
	default:
		return false
	}
	return true
}

func (c *Controller) handleRune(r rune) bool {
	if kind, ok := kindKeys[r]; ok {
		c.AddBlock(kind)
		return true
	}

	switch r {
	case ' ':
		c.Select(true)
	case 'x':
		c.Delete()
	case 'd':
		c.Duplicate()
	case 'g':
		c.Group()
	case 'G':
		c.Ungroup()
	case '+', '=':
		c.ChangeRepeatCount(1)
	case '-':
		c.ChangeRepeatCount(-1)
	case '[':
		c.Move(-1)
	case ']':
		c.Move(1)
	case 'u':
		c.Undo()
	case 'U':
		c.Redo()
	case 'm':
		c.ToggleDurationMode()
	case 's':
		c.ToggleSnapping()
	case 'p':
		c.InsertNextPreset()
	case 'j':
		c.MoveCursor(1)
	case 'k':
		c.MoveCursor(-1)
	case 'q':
		c.Quit()
	default:
		return false
	}
	return true
}

// MoveCursor steps the cursor through the items in document order
func (c *Controller) MoveCursor(step int) {
	ids := workout.IDs(c.engine.Workout().Items)
	if len(ids) == 0 {
		c.cursor = ""
		return
	}
	i := slices.Index(ids, c.cursor)
	if i < 0 {
		c.cursor = ids[0]
		return
	}
	c.cursor = ids[min(max(i+step, 0), len(ids)-1)]
}

// Select selects the cursor item, toggling it into the selection when
// additive is set
func (c *Controller) Select(additive bool) {
	if c.cursor == "" {
		return
	}
	c.engine.SelectBlock(c.cursor, additive)
}

// AddBlock inserts a block of the given kind after the cursor
func (c *Controller) AddBlock(kind workout.BlockKind) {
	c.focusCursor()
	id, ok := c.engine.AddBlock(kind)
	if !ok {
		c.setStatus("No room left for a %s block", kind.DisplayName())
		return
	}
	c.cursor = id
	c.setStatus("Added %s", kind.DisplayName())
}

// NudgeDuration lengthens or shortens the block under the cursor
func (c *Controller) NudgeDuration(large bool, sign int) {
	if !c.engine.NudgeDuration(c.cursor, large, sign) {
		c.setStatus("Duration unchanged")
		return
	}
	c.status = ""
}

// NudgePower raises or lowers the block under the cursor
func (c *Controller) NudgePower(large bool, sign int) {
	if !c.engine.NudgePower(c.cursor, large, sign) {
		c.setStatus("Power unchanged")
		return
	}
	c.status = ""
}

// Delete removes the selection, or the cursor item when nothing is selected
func (c *Controller) Delete() {
	var ok bool
	if len(c.engine.Selection()) > 0 {
		ok = c.engine.DeleteSelected()
	} else {
		ok = c.engine.DeleteItem(c.cursor)
	}
	if ok {
		c.fixCursor()
		c.setStatus("Deleted")
	}
}

// Duplicate copies the item under the cursor
func (c *Controller) Duplicate() {
	id, ok := c.engine.DuplicateBlock(c.cursor)
	if !ok {
		c.setStatus("Cannot duplicate here")
		return
	}
	c.cursor = id
	c.setStatus("Duplicated")
}

// Group wraps the selected blocks, or the cursor block, in a repeat group
func (c *Controller) Group() {
	if len(c.engine.Selection()) == 0 {
		c.focusCursor()
	}
	id, ok := c.engine.CreateRepeatGroupFromSelection(DefaultRepeatCount)
	if !ok {
		c.setStatus("Only top level blocks can be grouped")
		return
	}
	c.cursor = id
	c.setStatus("Created repeat group")
}

// Ungroup dissolves the group under the cursor
func (c *Controller) Ungroup() {
	id, ok := c.groupAtCursor()
	if !ok || !c.engine.UngroupRepeat(id) {
		return
	}
	if sel := c.engine.Selection(); len(sel) > 0 {
		c.cursor = sel[0]
	}
	c.setStatus("Ungrouped")
}

// ChangeRepeatCount adds delta repeats to the group under the cursor
func (c *Controller) ChangeRepeatCount(delta int) {
	id, ok := c.groupAtCursor()
	if !ok {
		return
	}
	it, _ := workout.FindItem(c.engine.Workout().Items, id)
	if c.engine.UpdateRepeatCount(id, it.(workout.RepeatGroup).RepeatCount+delta) {
		c.status = ""
	}
}

// Move shifts the cursor item one position within its container
func (c *Controller) Move(step int) {
	items := c.engine.Workout().Items
	loc, ok := workout.Locate(items, c.cursor)
	if !ok {
		return
	}
	pos := loc.Index
	if loc.InGroup() {
		pos = loc.Child
	}
	c.engine.MoveBlock(c.cursor, pos+step)
}

func (c *Controller) Undo() {
	if c.engine.Undo() {
		c.fixCursor()
		c.setStatus("Undo")
	}
}

func (c *Controller) Redo() {
	if c.engine.Redo() {
		c.fixCursor()
		c.setStatus("Redo")
	}
}

// ToggleDurationMode switches between a fixed and an auto target
func (c *Controller) ToggleDurationMode() {
	mode := editor.DurationAuto
	if c.engine.Config().DurationMode == editor.DurationAuto {
		mode = editor.DurationFixed
	}
	c.engine.SetDurationMode(mode)
	c.setStatus("Duration mode: %s", mode)
}

// ToggleSnapping turns drag snapping on or off
func (c *Controller) ToggleSnapping() {
	enabled := !c.engine.Config().Snap.Enabled
	c.engine.SetSnapping(enabled)
	if enabled {
		c.setStatus("Snapping on")
	} else {
		c.setStatus("Snapping off")
	}
}

// InsertNextPreset inserts the next interval preset in the catalogue
// after the cursor. Each press moves on to the following preset
func (c *Controller) InsertNextPreset() {
	if len(workout.AllPresets) == 0 {
		return
	}
	p := workout.AllPresets[c.nextPreset%len(workout.AllPresets)]
	c.nextPreset++

	c.focusCursor()
	id, ok := c.engine.InsertPreset(p.Name)
	if !ok {
		c.setStatus("%s does not fit the target", p.DisplayName)
		return
	}
	c.cursor = id
	c.setStatus("Inserted %s", p.DisplayName)
}

// Save writes the workout through the saver
func (c *Controller) Save() {
	if c.saver == nil {
		c.setStatus("Saving is not available")
		return
	}
	path, err := c.saver.Save(c.engine.Workout())
	if err != nil {
		c.logger.Printf("Controller: Failed to save workout: %v", err)
		c.setStatus("Save failed: %v", err)
		return
	}
	c.setStatus("Saved to %s", path)
}

// Quit asks the application to stop
func (c *Controller) Quit() {
	c.logger.Println("Controller: Quit requested")
	c.quit()
}

// focusCursor makes the cursor item the only selection so inserts land
// right after it
func (c *Controller) focusCursor() {
	if c.cursor != "" && !c.engine.IsSelected(c.cursor) {
		c.engine.SelectBlock(c.cursor, false)
	}
}

// groupAtCursor returns the group under the cursor or the group holding
// the cursor block
func (c *Controller) groupAtCursor() (string, bool) {
	items := c.engine.Workout().Items
	loc, ok := workout.Locate(items, c.cursor)
	if !ok {
		return "", false
	}
	g, isGroup := items[loc.Index].(workout.RepeatGroup)
	if !isGroup {
		return "", false
	}
	return g.ID, true
}

// fixCursor keeps the cursor on an existing item
func (c *Controller) fixCursor() {
	items := c.engine.Workout().Items
	if _, ok := workout.Locate(items, c.cursor); ok {
		return
	}
	if sel := c.engine.Selection(); len(sel) > 0 {
		c.cursor = sel[len(sel)-1]
		return
	}
	c.cursor = ""
	if len(items) > 0 {
		c.cursor = items[len(items)-1].ItemID()
	}
}

func (c *Controller) setStatus(format string, args ...any) {
	c.status = fmt.Sprintf(format, args...)
	c.logger.Printf("Controller: %s", c.status)
}
