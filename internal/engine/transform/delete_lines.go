package transform

import (
	"github.com/alefore/edge-sub003/internal/engine/position"
	"github.com/alefore/edge-sub003/internal/modifiers"
)

// DeleteLinesOptions configures DeleteLines (spec §4.E.4).
type DeleteLinesOptions struct {
	Modifiers         modifiers.Modifiers
	CopyToPasteBuffer bool
}

// DeleteLines removes Modifiers.Repetitions lines starting at the
// cursor, decomposed per-line into a character-range deletion honoring
// BoundaryBegin/End and StructureRange.
type DeleteLines struct {
	Options DeleteLinesOptions
}

func (t *DeleteLines) Clone() Transformation {
	return &DeleteLines{Options: t.Options}
}

func (t *DeleteLines) Apply(r *Result) {
	reps := t.Options.Modifiers.Repetitions
	if reps < 1 {
		reps = 1
	}
	origin := r.Cursor
	undo := NewTransformationStack()
	anyProgress := false
	anyModified := false

	for i := 0; i < reps; i++ {
		if r.Cursor.Line >= r.Content.Size() {
			break
		}
		lineRange := modifiers.FindPartialRange(r.Content, modifiers.Modifiers{
			Structure:     modifiers.StructureLine,
			Direction:     modifiers.Forwards,
			Repetitions:   1,
			BoundaryBegin: t.Options.Modifiers.BoundaryBegin,
			BoundaryEnd:   t.Options.Modifiers.BoundaryEnd,
		}, position.LineColumn{Line: r.Cursor.Line})

		begin, end := lineRange.Begin, lineRange.End
		wholeLine := true
		switch t.Options.Modifiers.StructureRange {
		case modifiers.RangeBeginToCursor:
			end = position.LineColumn{Line: r.Cursor.Line, Column: r.Cursor.Column}
			wholeLine = false
		case modifiers.RangeCursorToEnd:
			begin = position.LineColumn{Line: r.Cursor.Line, Column: r.Cursor.Column}
			wholeLine = false
		}
		if !begin.Less(end) {
			continue
		}

		deletedLine := r.Content.Get(r.Cursor.Line)
		if t.Options.Modifiers.DeleteType == modifiers.PreserveContents {
			extracted := readSpan(r.Content, begin, end)
			if t.Options.CopyToPasteBuffer {
				appendToDeleteBuffer(r, extracted)
			}
			r.Cursor = origin
			continue
		}

		extracted := deleteSpan(r.Content, begin, end)
		if t.Options.CopyToPasteBuffer {
			appendToDeleteBuffer(r, extracted)
		}
		undo.Add(&InsertBuffer{Options: InsertBufferOptions{
			Contents:      extracted,
			Repetitions:   1,
			FinalPosition: FinalPositionStart,
		}})
		anyProgress = true
		anyModified = true
		r.Cursor = begin

		if wholeLine && r.Mode == Final && r.ActivateHandler != nil {
			if id, ok := deletedLine.ActivateOnEnter().ID(); ok {
				r.ActivateHandler(id, 'd')
			}
		}
	}

	r.Success = true
	r.MadeProgress = anyProgress
	r.ModifiedBuffer = anyModified
	r.UndoStack.Push(undo)
}
