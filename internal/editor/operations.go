package editor

import (
	"github.com/lowaak/smart-trainer/workout-builder/internal/geometry"
	"github.com/lowaak/smart-trainer/workout-builder/internal/workout"
)

// BlockUpdate lists the fields to change on a block. Nil fields are kept
type BlockUpdate struct {
	Kind       *workout.BlockKind
	Duration   *int
	PowerStart *float64
	PowerEnd   *float64
	Cadence    *int
	Text       *string
}

// AddBlock inserts a block with the kind's defaults after the last selected
// item, or at the end. Under a fixed target the block is shortened to the
// remaining time, and the add is refused when less than MinCappedDuration
// is left so a capped block is never shorter than a capped edit
func (e *Engine) AddBlock(kind workout.BlockKind) (string, bool) {
	if e.busy("AddBlock") {
		return "", false
	}
	items := e.current.Items
	after := e.anchor()
	b := workout.NewBlock(kind, "")

	if e.cfg.DurationMode == DurationFixed {
		room := e.remaining(items) / workout.RepeatMultiplier(items, after)
		if room < MinCappedDuration {
			e.logger.Printf("Engine: Cannot add %s block - no time left (target %ds)", b.Kind, e.cfg.TargetDuration)
			return "", false
		}
		b.Duration = min(b.Duration, room)
	}

	b.ID = e.ids.NewID()
	e.selectOnly(b.ID)
	e.apply(workout.InsertAfter(items, after, b), "")
	e.logger.Printf("Engine: Added %s block %s (%ds)", b.Kind, b.ID, b.Duration)
	return b.ID, true
}

// UpdateBlock changes the given fields of a block. Values are clamped and a
// longer duration is capped by a fixed target
func (e *Engine) UpdateBlock(id string, u BlockUpdate) bool {
	if e.busy("UpdateBlock") {
		return false
	}
	old, ok := workout.FindBlock(e.current.Items, id)
	if !ok {
		return false
	}

	b := old
	if u.Kind != nil {
		b.Kind = *u.Kind
	}
	if u.Duration != nil {
		b.Duration = *u.Duration
	}
	if u.PowerStart != nil {
		b.PowerStart = *u.PowerStart
	}
	if u.PowerEnd != nil {
		b.PowerEnd = *u.PowerEnd
	}
	if u.Cadence != nil {
		b.Cadence = *u.Cadence
	}
	if u.Text != nil {
		b.Text = *u.Text
	}
	b = workout.Normalize(b)
	b.Duration = e.capDuration(e.current.Items, id, old.Duration, b.Duration)

	items, changed := workout.ReplaceBlock(e.current.Items, b)
	if !changed {
		return false
	}
	e.apply(items, "")
	return true
}

// DeleteSelected removes every selected item
func (e *Engine) DeleteSelected() bool {
	if e.busy("DeleteSelected") || len(e.selection) == 0 {
		return false
	}
	items, changed := workout.Delete(e.current.Items, e.selection...)
	if !changed {
		return false
	}
	count := len(e.selection)
	e.selection = nil
	e.apply(items, "")
	e.logger.Printf("Engine: Deleted %d selected items", count)
	return true
}

// DeleteItem removes a single block or group
func (e *Engine) DeleteItem(id string) bool {
	if e.busy("DeleteItem") {
		return false
	}
	items, changed := workout.Delete(e.current.Items, id)
	if !changed {
		return false
	}
	e.apply(items, "")
	e.logger.Printf("Engine: Deleted %s", id)
	return true
}

// DuplicateBlock inserts a copy of a block or group right after it. The
// copy is refused when it would not fit a fixed target
func (e *Engine) DuplicateBlock(id string) (string, bool) {
	if e.busy("DuplicateBlock") {
		return "", false
	}
	items, newID, ok := workout.Duplicate(e.current.Items, id, e.ids)
	if !ok {
		return "", false
	}
	if !e.fits(items) {
		e.logger.Printf("Engine: Cannot duplicate %s - exceeds target %ds", id, e.cfg.TargetDuration)
		return "", false
	}
	e.selectOnly(newID)
	e.apply(items, "")
	return newID, true
}

// MoveBlock moves an item to index within its container
func (e *Engine) MoveBlock(id string, index int) bool {
	if e.busy("MoveBlock") {
		return false
	}
	items, moved := workout.Move(e.current.Items, id, index)
	if !moved {
		return false
	}
	e.apply(items, "")
	return true
}

// CreateRepeatGroup wraps top-level blocks into a repeat group. A fixed
// target grows to fit the repeats rather than truncating them
func (e *Engine) CreateRepeatGroup(ids []string, count int) (string, bool) {
	if e.busy("CreateRepeatGroup") {
		return "", false
	}
	items, groupID, ok := workout.Group(e.current.Items, ids, count, e.ids)
	if !ok {
		e.logger.Printf("Engine: Cannot group %v", ids)
		return "", false
	}
	e.growTarget(items)
	e.selectOnly(groupID)
	e.apply(items, "")
	e.logger.Printf("Engine: Created repeat group %s with %d blocks", groupID, len(ids))
	return groupID, true
}

// CreateRepeatGroupFromSelection groups the selected blocks
func (e *Engine) CreateRepeatGroupFromSelection(count int) (string, bool) {
	return e.CreateRepeatGroup(e.Selection(), count)
}

// UngroupRepeat replaces a group with a single iteration of its blocks
func (e *Engine) UngroupRepeat(id string) bool {
	if e.busy("UngroupRepeat") {
		return false
	}
	items, blockIDs, ok := workout.Ungroup(e.current.Items, id, e.ids)
	if !ok {
		return false
	}
	e.selectOnly(blockIDs...)
	e.apply(items, "")
	e.logger.Printf("Engine: Ungrouped %s", id)
	return true
}

// UpdateRepeatCount sets a group's repeat count. Under a fixed target the
// target is extended instead of refusing the extra repeats
func (e *Engine) UpdateRepeatCount(id string, count int) bool {
	if e.busy("UpdateRepeatCount") {
		return false
	}
	items, changed := workout.SetRepeatCount(e.current.Items, id, count)
	if !changed {
		return false
	}
	e.growTarget(items)
	e.apply(items, "")
	return true
}

// InsertPreset inserts a named interval preset after the selection
func (e *Engine) InsertPreset(name string) (string, bool) {
	if e.busy("InsertPreset") {
		return "", false
	}
	p, ok := workout.GetPreset(name)
	if !ok {
		e.logger.Printf("Engine: Unknown preset %q", name)
		return "", false
	}
	item := p.Build(e.ids)
	items := workout.InsertAfter(e.current.Items, e.anchor(), item)
	if !e.fits(items) {
		e.logger.Printf("Engine: Cannot insert preset %s - exceeds target %ds", name, e.cfg.TargetDuration)
		return "", false
	}
	e.selectOnly(item.ItemID())
	e.apply(items, "")
	e.logger.Printf("Engine: Inserted preset %s", name)
	return item.ItemID(), true
}

// LoadTemplate replaces the workout with a built-in template. Unlike Load
// the replacement can be undone
func (e *Engine) LoadTemplate(name string) bool {
	if e.busy("LoadTemplate") {
		return false
	}
	t, ok := workout.GetTemplate(name)
	if !ok {
		e.logger.Printf("Engine: Unknown template %q", name)
		return false
	}
	w := t.Build(e.ids)
	e.current.Meta = w.Meta
	e.selection = nil
	e.growTarget(w.Items)
	e.apply(w.Items, "")
	e.logger.Printf("Engine: Template %s loaded", name)
	return true
}

// UpdateMeta replaces the workout metadata
func (e *Engine) UpdateMeta(meta workout.Metadata) bool {
	if e.busy("UpdateMeta") {
		return false
	}
	meta = clampMeta(meta)
	if meta == e.current.Meta {
		return false
	}
	e.current.Meta = meta
	e.apply(e.current.Items, "")
	return true
}

// growTarget extends a fixed target to cover items
func (e *Engine) growTarget(items []workout.Item) {
	if e.cfg.DurationMode != DurationFixed {
		return
	}
	if used := workout.TotalDuration(items); used > e.cfg.TargetDuration {
		e.cfg.TargetDuration = geometry.ClampTargetDuration(used)
		e.logger.Printf("Engine: Target duration extended to %ds", e.cfg.TargetDuration)
	}
}

func (e *Engine) busy(op string) bool {
	if e.session == nil {
		return false
	}
	e.logger.Printf("Engine: %s refused while dragging", op)
	return true
}
