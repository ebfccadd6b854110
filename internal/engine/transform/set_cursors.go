package transform

import "github.com/alefore/edge-sub003/internal/engine/cursor"

// SetCursors replaces r.Cursors wholesale (spec §4.E.10): used to toggle
// multi-cursor mode and to seed the cursor set from a mark collection.
// Its undo is another SetCursors restoring the prior set.
type SetCursors struct {
	Set *cursor.Set
}

func (t *SetCursors) Clone() Transformation {
	if t.Set == nil {
		return &SetCursors{}
	}
	return &SetCursors{Set: t.Set.Clone()}
}

func (t *SetCursors) Apply(r *Result) {
	var prior *cursor.Set
	if r.Cursors != nil {
		prior = r.Cursors.Clone()
	}

	if t.Set == nil {
		r.Cursors = nil
	} else {
		r.Cursors = t.Set.Clone()
		r.Cursor = r.Cursors.Current()
	}

	r.Success = true
	r.MadeProgress = prior == nil || !prior.Equals(r.Cursors)
	r.ModifiedBuffer = false
	r.UndoStack.Push(&SetCursors{Set: prior})
}
