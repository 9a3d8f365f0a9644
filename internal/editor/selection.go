package editor

import (
	"slices"

	"github.com/lowaak/smart-trainer/workout-builder/internal/workout"
)

// SelectBlock selects id. Additive selection toggles membership, otherwise
// the selection is replaced. Unknown ids are ignored
func (e *Engine) SelectBlock(id string, additive bool) bool {
	if _, ok := workout.FindItem(e.current.Items, id); !ok {
		return false
	}
	switch {
	case !additive:
		if len(e.selection) == 1 && e.selection[0] == id {
			return false
		}
		e.selection = []string{id}
	case slices.Contains(e.selection, id):
		e.selection = slices.DeleteFunc(slices.Clone(e.selection), func(s string) bool { return s == id })
	default:
		e.selection = append(slices.Clone(e.selection), id)
	}
	e.notify()
	return true
}

// SelectRange selects every id between from and to in document order,
// both ends included. The selection is left alone if either id is unknown
func (e *Engine) SelectRange(from, to string) bool {
	ids := workout.IDs(e.current.Items)
	i, j := slices.Index(ids, from), slices.Index(ids, to)
	if i < 0 || j < 0 {
		return false
	}
	if i > j {
		i, j = j, i
	}
	e.selection = slices.Clone(ids[i : j+1])
	e.notify()
	return true
}

// ClearSelection empties the selection
func (e *Engine) ClearSelection() bool {
	if len(e.selection) == 0 {
		return false
	}
	e.selection = nil
	e.notify()
	return true
}

// Selection returns the selected ids in the order they were selected
func (e *Engine) Selection() []string {
	return slices.Clone(e.selection)
}

// IsSelected reports whether id is part of the selection
func (e *Engine) IsSelected(id string) bool {
	return slices.Contains(e.selection, id)
}

// pruneSelection forgets ids that are no longer in the tree
func (e *Engine) pruneSelection() {
	if len(e.selection) == 0 {
		return
	}
	e.selection = slices.DeleteFunc(slices.Clone(e.selection), func(id string) bool {
		_, ok := workout.Locate(e.current.Items, id)
		return !ok
	})
}

// anchor is where new items are inserted: after the last selected item
func (e *Engine) anchor() string {
	if len(e.selection) == 0 {
		return ""
	}
	return e.selection[len(e.selection)-1]
}

// selectOnly replaces the selection without notifying
func (e *Engine) selectOnly(ids ...string) {
	e.selection = slices.Clone(ids)
}
