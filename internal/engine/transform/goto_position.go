package transform

import "github.com/alefore/edge-sub003/internal/engine/position"

// GotoPosition sets the cursor to Pos (spec §4.E.1); it never fails and
// its undo is GotoPosition(old cursor).
type GotoPosition struct {
	Pos position.LineColumn
}

func (t *GotoPosition) Clone() Transformation {
	return &GotoPosition{Pos: t.Pos}
}

func (t *GotoPosition) Apply(r *Result) {
	old := r.Cursor
	r.Cursor = position.AdjustLineColumn(r.Content, t.Pos)
	r.Success = true
	r.MadeProgress = old != r.Cursor
	r.UndoStack.Push(&GotoPosition{Pos: old})
}
