package transform

import (
	"github.com/alefore/edge-sub003/internal/engine/content"
	"github.com/alefore/edge-sub003/internal/engine/position"
	"github.com/alefore/edge-sub003/internal/modifiers"
)

// FinalPosition selects where the cursor lands after InsertBuffer: at the
// start of the inserted span or its end.
type FinalPosition uint8

const (
	FinalPositionEnd FinalPosition = iota
	FinalPositionStart
)

// InsertBufferOptions configures InsertBuffer (spec §4.E.2).
type InsertBufferOptions struct {
	Contents      *content.Content
	Repetitions   int
	FinalPosition FinalPosition
	InsertionMode modifiers.InsertionMode
}

// InsertBuffer inserts Options.Contents Options.Repetitions times at the
// cursor.
type InsertBuffer struct {
	Options InsertBufferOptions
}

func (t *InsertBuffer) Clone() Transformation {
	return &InsertBuffer{Options: t.Options}
}

func (t *InsertBuffer) Apply(r *Result) {
	reps := t.Options.Repetitions
	if reps < 1 {
		reps = 1
	}
	origin := r.Cursor
	cur := origin
	for i := 0; i < reps; i++ {
		cur = insertSpanAt(r.Content, cur, t.Options.Contents)
	}
	insertedEnd := cur

	var replaced *content.Content
	if t.Options.InsertionMode == modifiers.InsertionReplace {
		deleteEnd := insertedEnd
		width := countChars(t.Options.Contents) * reps
		deleteEnd = advanceChars(r.Content, insertedEnd, width)
		replaced = deleteSpan(r.Content, insertedEnd, deleteEnd)
	}

	r.Success = true
	r.MadeProgress = origin != insertedEnd
	r.ModifiedBuffer = true

	undo := NewTransformationStack()
	if replaced != nil && replaced.Size() > 0 {
		undo.Add(&InsertBuffer{Options: InsertBufferOptions{
			Contents:      replaced,
			Repetitions:   1,
			FinalPosition: FinalPositionStart,
		}})
	}
	undo.Add(&deleteRange{Begin: origin, End: insertedEnd})
	r.UndoStack.Push(undo)

	if t.Options.FinalPosition == FinalPositionStart {
		r.Cursor = origin
	} else {
		r.Cursor = insertedEnd
	}
}

// countChars returns the total rune count across every line of c,
// counting line breaks between lines (but not after the last line).
func countChars(c *content.Content) int {
	n := 0
	for i := 0; i < c.Size(); i++ {
		if i > 0 {
			n++
		}
		n += c.Get(i).Length()
	}
	return n
}

// advanceChars walks n characters forward from pos, crossing lines.
func advanceChars(c *content.Content, pos position.LineColumn, n int) position.LineColumn {
	for n > 0 {
		remaining := c.Get(pos.Line).Length() - pos.Column
		if n <= remaining {
			pos.Column += n
			return pos
		}
		n -= remaining + 1
		if pos.Line+1 >= c.Size() {
			pos.Column = c.Get(pos.Line).Length()
			return pos
		}
		pos.Line++
		pos.Column = 0
	}
	return pos
}

// deleteRange is an internal undo-building-block transformation: delete
// exactly [Begin, End) and, on undo, restore the removed text.
type deleteRange struct {
	Begin, End position.LineColumn
}

func (t *deleteRange) Clone() Transformation {
	return &deleteRange{Begin: t.Begin, End: t.End}
}

func (t *deleteRange) Apply(r *Result) {
	removed := deleteSpan(r.Content, t.Begin, t.End)
	r.Success = true
	r.MadeProgress = removed.Size() > 1 || removed.Get(0).Length() > 0
	r.ModifiedBuffer = r.MadeProgress
	r.Cursor = t.Begin
	r.UndoStack.Push(&InsertBuffer{Options: InsertBufferOptions{
		Contents:      removed,
		Repetitions:   1,
		FinalPosition: FinalPositionStart,
	}})
}
