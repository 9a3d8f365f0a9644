package workout

import (
	"iter"
	"slices"

	"github.com/lowaak/smart-trainer/workout-builder/internal/geometry"
)

// Every mutating function in this file returns a new slice and leaves its
// input untouched, so a []Item can be shared freely between snapshots

// Location addresses an item in the tree. Child is -1 for top-level items
type Location struct {
	Index int
	Child int
}

// InGroup reports whether the location points inside a repeat group
func (l Location) InGroup() bool {
	return l.Child >= 0
}

// Locate finds the position of id anywhere in the tree
func Locate(items []Item, id string) (Location, bool) {
	if id == "" {
		return Location{}, false
	}
	for i, it := range items {
		if it.ItemID() == id {
			return Location{Index: i, Child: -1}, true
		}
		if g, ok := it.(RepeatGroup); ok {
			for j, b := range g.Blocks {
				if b.ID == id {
					return Location{Index: i, Child: j}, true
				}
			}
		}
	}
	return Location{}, false
}

// FindItem returns the item with the given id, top level or inside a group
func FindItem(items []Item, id string) (Item, bool) {
	loc, ok := Locate(items, id)
	if !ok {
		return nil, false
	}
	if loc.InGroup() {
		return items[loc.Index].(RepeatGroup).Blocks[loc.Child], true
	}
	return items[loc.Index], true
}

// FindBlock returns the block with the given id
func FindBlock(items []Item, id string) (Block, bool) {
	it, ok := FindItem(items, id)
	if !ok {
		return Block{}, false
	}
	b, ok := it.(Block)
	return b, ok
}

// RepeatMultiplier returns how many times the item with id is played: the
// repeat count of its group for children, 1 otherwise
func RepeatMultiplier(items []Item, id string) int {
	loc, ok := Locate(items, id)
	if !ok || !loc.InGroup() {
		return 1
	}
	return items[loc.Index].(RepeatGroup).RepeatCount
}

// Flatten yields the blocks in the order they are ridden, with every group
// expanded RepeatCount times
func Flatten(items []Item) iter.Seq[Block] {
	return func(yield func(Block) bool) {
		for _, it := range items {
			switch v := it.(type) {
			case Block:
				if !yield(v) {
					return
				}
			case RepeatGroup:
				for range v.RepeatCount {
					for _, b := range v.Blocks {
						if !yield(b) {
							return
						}
					}
				}
			}
		}
	}
}

// TotalDuration sums the duration of the items, repeats included
func TotalDuration(items []Item) int {
	total := 0
	for _, it := range items {
		total += it.Seconds()
	}
	return total
}

// IDs lists every id in document order; a group's id precedes its children
func IDs(items []Item) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ItemID())
		if g, ok := it.(RepeatGroup); ok {
			for _, b := range g.Blocks {
				ids = append(ids, b.ID)
			}
		}
	}
	return ids
}

// Insert places item at index. Out of range indexes append
func Insert(items []Item, index int, item Item) []Item {
	if index < 0 || index > len(items) {
		index = len(items)
	}
	out := make([]Item, 0, len(items)+1)
	out = append(out, items[:index]...)
	out = append(out, item)
	return append(out, items[index:]...)
}

// InsertAfter places item right after afterID. A block inserted after a
// group child joins that group; anything else lands on the top level.
// An unknown or empty afterID appends
func InsertAfter(items []Item, afterID string, item Item) []Item {
	loc, ok := Locate(items, afterID)
	if !ok {
		return Insert(items, len(items), item)
	}
	if b, isBlock := item.(Block); isBlock && loc.InGroup() {
		g := items[loc.Index].(RepeatGroup)
		g.Blocks = slices.Insert(slices.Clone(g.Blocks), loc.Child+1, b)
		return replaceAt(items, loc.Index, g)
	}
	return Insert(items, loc.Index+1, item)
}

// Delete removes every item whose id is listed. A group left without
// children is removed as well
func Delete(items []Item, ids ...string) ([]Item, bool) {
	remove := make(map[string]bool, len(ids))
	for _, id := range ids {
		remove[id] = true
	}

	out := make([]Item, 0, len(items))
	changed := false
	for _, it := range items {
		if remove[it.ItemID()] {
			changed = true
			continue
		}
		g, ok := it.(RepeatGroup)
		if !ok {
			out = append(out, it)
			continue
		}
		kept := make([]Block, 0, len(g.Blocks))
		for _, b := range g.Blocks {
			if remove[b.ID] {
				continue
			}
			kept = append(kept, b)
		}
		switch {
		case len(kept) == len(g.Blocks):
			out = append(out, g)
		case len(kept) == 0:
			changed = true
		default:
			changed = true
			g.Blocks = kept
			out = append(out, g)
		}
	}
	if !changed {
		return items, false
	}
	return out, true
}

// Duplicate inserts a copy of the item right after the original. The copy
// and, for groups, its children get fresh ids
func Duplicate(items []Item, id string, ids IDGenerator) ([]Item, string, bool) {
	loc, ok := Locate(items, id)
	if !ok {
		return items, "", false
	}
	if loc.InGroup() {
		g := items[loc.Index].(RepeatGroup)
		b := g.Blocks[loc.Child]
		b.ID = ids.NewID()
		g.Blocks = slices.Insert(slices.Clone(g.Blocks), loc.Child+1, b)
		return replaceAt(items, loc.Index, g), b.ID, true
	}
	dup := Reassign(items[loc.Index], ids)
	return Insert(items, loc.Index+1, dup), dup.ItemID(), true
}

// Move shifts an item to index within its container (the top level, or
// its group). The index is clamped to the container
func Move(items []Item, id string, index int) ([]Item, bool) {
	loc, ok := Locate(items, id)
	if !ok {
		return items, false
	}
	if loc.InGroup() {
		g := items[loc.Index].(RepeatGroup)
		blocks, moved := moveWithin(g.Blocks, loc.Child, index)
		if !moved {
			return items, false
		}
		g.Blocks = blocks
		return replaceAt(items, loc.Index, g), true
	}
	return moveWithin(items, loc.Index, index)
}

// Group wraps the listed top-level blocks into a new RepeatGroup placed
// where the first of them was. Unselected items keep their order. Unknown
// ids, groups and group children make the call a no-op
func Group(items []Item, ids []string, repeatCount int, gen IDGenerator) ([]Item, string, bool) {
	if len(ids) == 0 {
		return items, "", false
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		loc, ok := Locate(items, id)
		if !ok || loc.InGroup() {
			return items, "", false
		}
		if _, isBlock := items[loc.Index].(Block); !isBlock {
			return items, "", false
		}
		want[id] = true
	}

	g := RepeatGroup{ID: gen.NewID(), RepeatCount: geometry.ClampRepeatCount(repeatCount)}
	out := make([]Item, 0, len(items))
	pos := -1
	for _, it := range items {
		if !want[it.ItemID()] {
			out = append(out, it)
			continue
		}
		g.Blocks = append(g.Blocks, it.(Block))
		if pos < 0 {
			pos = len(out)
			out = append(out, nil)
		}
	}
	out[pos] = g
	return out, g.ID, true
}

// Ungroup replaces a group with one iteration of its children, each with a
// fresh id
func Ungroup(items []Item, groupID string, gen IDGenerator) ([]Item, []string, bool) {
	loc, ok := Locate(items, groupID)
	if !ok || loc.InGroup() {
		return items, nil, false
	}
	g, isGroup := items[loc.Index].(RepeatGroup)
	if !isGroup {
		return items, nil, false
	}
	out := make([]Item, 0, len(items)+len(g.Blocks)-1)
	out = append(out, items[:loc.Index]...)
	newIDs := make([]string, 0, len(g.Blocks))
	for _, b := range g.Blocks {
		b.ID = gen.NewID()
		newIDs = append(newIDs, b.ID)
		out = append(out, b)
	}
	out = append(out, items[loc.Index+1:]...)
	return out, newIDs, true
}

// ReplaceBlock swaps in b for the block with the same id
func ReplaceBlock(items []Item, b Block) ([]Item, bool) {
	loc, ok := Locate(items, b.ID)
	if !ok {
		return items, false
	}
	if loc.InGroup() {
		g := items[loc.Index].(RepeatGroup)
		if g.Blocks[loc.Child] == b {
			return items, false
		}
		g.Blocks = slices.Clone(g.Blocks)
		g.Blocks[loc.Child] = b
		return replaceAt(items, loc.Index, g), true
	}
	old, isBlock := items[loc.Index].(Block)
	if !isBlock || old == b {
		return items, false
	}
	return replaceAt(items, loc.Index, b), true
}

// SetRepeatCount changes a group's repeat count, clamped to the valid range
func SetRepeatCount(items []Item, groupID string, count int) ([]Item, bool) {
	loc, ok := Locate(items, groupID)
	if !ok || loc.InGroup() {
		return items, false
	}
	g, isGroup := items[loc.Index].(RepeatGroup)
	count = geometry.ClampRepeatCount(count)
	if !isGroup || g.RepeatCount == count {
		return items, false
	}
	g.RepeatCount = count
	return replaceAt(items, loc.Index, g), true
}

// Reassign returns a copy of item with fresh ids throughout
func Reassign(item Item, gen IDGenerator) Item {
	switch v := item.(type) {
	case Block:
		v.ID = gen.NewID()
		return v
	case RepeatGroup:
		v.ID = gen.NewID()
		blocks := make([]Block, len(v.Blocks))
		for i, b := range v.Blocks {
			b.ID = gen.NewID()
			blocks[i] = b
		}
		v.Blocks = blocks
		return v
	}
	return item
}

// Sanitize prepares items coming from outside the engine: every block is
// normalized, repeat counts are clamped, empty groups are dropped and
// missing or duplicated ids are replaced
func Sanitize(items []Item, gen IDGenerator) []Item {
	seen := make(map[string]bool)
	fresh := func(id string) string {
		if id == "" || seen[id] {
			id = gen.NewID()
		}
		seen[id] = true
		return id
	}

	out := make([]Item, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case Block:
			v = Normalize(v)
			v.ID = fresh(v.ID)
			out = append(out, v)
		case RepeatGroup:
			if len(v.Blocks) == 0 {
				continue
			}
			v.ID = fresh(v.ID)
			v.RepeatCount = geometry.ClampRepeatCount(v.RepeatCount)
			blocks := make([]Block, len(v.Blocks))
			for i, b := range v.Blocks {
				b = Normalize(b)
				b.ID = fresh(b.ID)
				blocks[i] = b
			}
			v.Blocks = blocks
			out = append(out, v)
		}
	}
	return out
}

func replaceAt(items []Item, i int, it Item) []Item {
	out := slices.Clone(items)
	out[i] = it
	return out
}

func moveWithin[T any](s []T, from, to int) ([]T, bool) {
	to = min(max(to, 0), len(s)-1)
	if from == to {
		return s, false
	}
	out := slices.Clone(s)
	v := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, v), true
}
