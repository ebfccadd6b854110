package transform

import (
	"testing"

	"github.com/alefore/edge-sub003/internal/engine/content"
	"github.com/alefore/edge-sub003/internal/engine/cursor"
	"github.com/alefore/edge-sub003/internal/engine/position"
	"github.com/alefore/edge-sub003/internal/modifiers"
)

func TestGotoPositionMovesAndUndoes(t *testing.T) {
	c := content.FromString("alpha\nbeta")
	r := NewResult(c, position.LineColumn{}, Final)

	tr := &GotoPosition{Pos: position.LineColumn{Line: 1, Column: 2}}
	tr.Apply(r)
	if r.Cursor != (position.LineColumn{Line: 1, Column: 2}) {
		t.Fatalf("expected cursor at 1:2, got %v", r.Cursor)
	}
	if !r.MadeProgress {
		t.Fatalf("expected progress")
	}

	undo := r.UndoStack.AsTransformation()
	undo.Apply(r)
	if r.Cursor != (position.LineColumn{}) {
		t.Fatalf("expected undo to restore origin, got %v", r.Cursor)
	}
}

func TestInsertBufferInsertsAtCursor(t *testing.T) {
	c := content.FromString("ac")
	r := NewResult(c, position.LineColumn{Line: 0, Column: 1}, Final)

	tr := &InsertBuffer{Options: InsertBufferOptions{
		Contents: content.FromString("b"),
	}}
	tr.Apply(r)

	if got := c.Get(0).String(); got != "abc" {
		t.Fatalf("expected \"abc\", got %q", got)
	}
	if !r.ModifiedBuffer {
		t.Fatalf("expected modified buffer")
	}
}

func TestDeleteCharactersRemovesAndUndoes(t *testing.T) {
	c := content.FromString("abcdef")
	r := NewResult(c, position.LineColumn{Line: 0, Column: 1}, Final)

	m := modifiers.Default().WithRepetitions(3)
	tr := &DeleteCharacters{Options: DeleteCharactersOptions{Modifiers: m}}
	tr.Apply(r)

	if got := c.Get(0).String(); got != "aef" {
		t.Fatalf("expected \"aef\", got %q", got)
	}

	undo := r.UndoStack.AsTransformation()
	undo.Apply(r)
	if got := c.Get(0).String(); got != "abcdef" {
		t.Fatalf("expected undo to restore \"abcdef\", got %q", got)
	}
}

func TestDeleteCharactersPreserveContentsDoesNotMutate(t *testing.T) {
	c := content.FromString("abcdef")
	r := NewResult(c, position.LineColumn{Line: 0, Column: 0}, Final)

	m := modifiers.Default().WithRepetitions(3)
	m.DeleteType = modifiers.PreserveContents
	m.CopyToPasteBuffer = true
	tr := &DeleteCharacters{Options: DeleteCharactersOptions{Modifiers: m}}
	tr.Apply(r)

	if got := c.Get(0).String(); got != "abcdef" {
		t.Fatalf("expected buffer untouched, got %q", got)
	}
	if r.ModifiedBuffer {
		t.Fatalf("expected ModifiedBuffer=false for a yank")
	}
	if r.DeleteBuffer == nil || r.DeleteBuffer.Get(0).String() != "abc" {
		t.Fatalf("expected paste buffer to hold \"abc\"")
	}
	if r.Cursor != (position.LineColumn{Line: 0, Column: 0}) {
		t.Fatalf("expected cursor to stay put in Final mode, got %v", r.Cursor)
	}
}

func TestDeleteLinesRemovesWholeLine(t *testing.T) {
	c := content.FromString("a\nb\nc")
	r := NewResult(c, position.LineColumn{Line: 1}, Final)

	m := modifiers.Default()
	tr := &DeleteLines{Options: DeleteLinesOptions{Modifiers: m}}
	tr.Apply(r)

	if c.Size() != 2 || c.Get(0).String() != "a" || c.Get(1).String() != "c" {
		t.Fatalf("expected lines [a c], got size=%d", c.Size())
	}

	undo := r.UndoStack.AsTransformation()
	undo.Apply(r)
	if c.Size() != 3 || c.Get(1).String() != "b" {
		t.Fatalf("expected undo to restore line b, got size=%d", c.Size())
	}
}

func TestDeleteSpansMultipleLines(t *testing.T) {
	c := content.FromString("alpha\nbeta\ngamma")
	r := NewResult(c, position.LineColumn{Line: 0, Column: 2}, Final)

	tr := &Delete{Modifiers: modifiers.Modifiers{
		Structure:   modifiers.StructureLine,
		Direction:   modifiers.Forwards,
		Repetitions: 1,
	}}
	tr.Apply(r)

	if c.Size() != 2 {
		t.Fatalf("expected one line folded away, got size=%d", c.Size())
	}
}

func TestSwitchCaseFlipsRangeAndUndoes(t *testing.T) {
	c := content.FromString("Hello")
	r := NewResult(c, position.LineColumn{}, Final)

	m := modifiers.Default().WithRepetitions(5)
	tr := &SwitchCase{Modifiers: m}
	tr.Apply(r)

	if got := c.Get(0).String(); got != "hELLO" {
		t.Fatalf("expected \"hELLO\", got %q", got)
	}

	undo := r.UndoStack.AsTransformation()
	undo.Apply(r)
	if got := c.Get(0).String(); got != "Hello" {
		t.Fatalf("expected undo to restore \"Hello\", got %q", got)
	}
}

func TestMoveByLineClampsColumn(t *testing.T) {
	c := content.FromString("alpha\nbc")
	r := NewResult(c, position.LineColumn{Line: 0, Column: 4}, Final)

	tr := &Move{Modifiers: modifiers.Modifiers{Structure: modifiers.StructureLine, Direction: modifiers.Forwards, Repetitions: 1}}
	tr.Apply(r)

	if r.Cursor.Line != 1 || r.Cursor.Column != 2 {
		t.Fatalf("expected cursor clamped to 1:2, got %v", r.Cursor)
	}
}

func TestMoveByWordAdvances(t *testing.T) {
	c := content.FromString("alpha beta")
	r := NewResult(c, position.LineColumn{}, Final)

	tr := &Move{Modifiers: modifiers.Modifiers{Structure: modifiers.StructureWord, Direction: modifiers.Forwards, Repetitions: 1}}
	tr.Apply(r)

	if r.Cursor.Column == 0 {
		t.Fatalf("expected cursor to advance past first word, got %v", r.Cursor)
	}
}

func TestMoveByBufferUsesSwitchBufferCallback(t *testing.T) {
	c := content.FromString("x")
	r := NewResult(c, position.LineColumn{}, Final)
	calls := 0
	r.SwitchBuffer = func(dir modifiers.Direction) bool {
		calls++
		return true
	}

	tr := &Move{Modifiers: modifiers.Modifiers{Structure: modifiers.StructureBuffer, Direction: modifiers.Forwards, Repetitions: 2}}
	tr.Apply(r)

	if calls != 2 {
		t.Fatalf("expected 2 switch-buffer calls, got %d", calls)
	}
	if !r.Success {
		t.Fatalf("expected success")
	}
}

func TestTransformationStackUndoesInReverseOrder(t *testing.T) {
	c := content.FromString("a")
	r := NewResult(c, position.LineColumn{}, Final)

	stack := NewTransformationStack(
		&InsertBuffer{Options: InsertBufferOptions{Contents: content.FromString("X")}},
		&GotoPosition{Pos: position.LineColumn{Column: 2}},
	)
	stack.Apply(r)

	if got := c.Get(0).String(); got != "Xa" {
		t.Fatalf("expected \"Xa\", got %q", got)
	}

	undo := r.UndoStack.AsTransformation()
	undo.Apply(r)
	if got := c.Get(0).String(); got != "a" {
		t.Fatalf("expected undo to restore \"a\", got %q", got)
	}
}

func TestApplyRepetitionsStopsWhenNoProgress(t *testing.T) {
	c := content.FromString("ab")
	r := NewResult(c, position.LineColumn{Line: 0, Column: 0}, Final)

	m := modifiers.Default()
	m.LineEndBehavior = modifiers.LineEndStop
	tr := &ApplyRepetitions{
		Repetitions: 5,
		Inner:       &DeleteCharacters{Options: DeleteCharactersOptions{Modifiers: m}},
	}
	tr.Apply(r)

	if got := c.Get(0).String(); got != "" {
		t.Fatalf("expected line fully deleted, got %q", got)
	}
}

func TestSetCursorsReplacesAndUndoes(t *testing.T) {
	c := content.FromString("a\nb")
	r := NewResult(c, position.LineColumn{}, Final)

	newSet := cursor.NewSet(position.LineColumn{Line: 1, Column: 0})
	tr := &SetCursors{Set: newSet}
	tr.Apply(r)

	if r.Cursors.Current() != (position.LineColumn{Line: 1}) {
		t.Fatalf("expected cursor set updated, got %v", r.Cursors.Current())
	}

	undo := r.UndoStack.AsTransformation()
	undo.Apply(r)
	if r.Cursors != nil {
		t.Fatalf("expected undo to restore the prior (nil) cursor set")
	}
}

func TestWithDirectionOverridesInnerForOneApplyThenRestores(t *testing.T) {
	c := content.FromString("abc")
	r := NewResult(c, position.LineColumn{Line: 0, Column: 1}, Final)

	move := &Move{Modifiers: modifiers.Default().WithDirection(modifiers.Forwards)}
	tr := &WithDirection{Direction: modifiers.Backwards, Inner: move}
	tr.Apply(r)

	if r.Cursor != (position.LineColumn{Line: 0, Column: 0}) {
		t.Fatalf("expected the overridden backwards move to land on 0:0, got %v", r.Cursor)
	}
	if move.Modifiers.Direction != modifiers.Forwards {
		t.Fatalf("expected Inner's own Direction restored to Forwards after Apply, got %v", move.Modifiers.Direction)
	}
}

func TestSetRepetitionsOverridesInnerRepetitionCount(t *testing.T) {
	c := content.FromString("abcde")
	r := NewResult(c, position.LineColumn{Line: 0, Column: 0}, Final)

	move := &Move{Modifiers: modifiers.Default().WithRepetitions(1)}
	tr := &SetRepetitions{Repetitions: 3, Inner: move}
	tr.Apply(r)

	if r.Cursor != (position.LineColumn{Line: 0, Column: 3}) {
		t.Fatalf("expected the overridden 3-character move to land on 0:3, got %v", r.Cursor)
	}
	if move.Modifiers.Repetitions != 1 {
		t.Fatalf("expected Inner's own Repetitions restored to 1 after Apply, got %d", move.Modifiers.Repetitions)
	}
}
