package history

import (
	"testing"

	"github.com/alefore/edge-sub003/internal/engine/content"
	"github.com/alefore/edge-sub003/internal/engine/position"
	"github.com/alefore/edge-sub003/internal/engine/transform"
)

func applyAndPush(h *History, r *transform.Result, t transform.Transformation) {
	r.UndoStack = transform.NewStack()
	t.Apply(r)
	h.Push(r.UndoStack.AsTransformation(), r.ModifiedBuffer)
}

func TestPushThenUndoRestoresBuffer(t *testing.T) {
	c := content.FromString("a")
	r := transform.NewResult(c, position.LineColumn{Column: 1}, transform.Final)
	h := New(0)

	applyAndPush(h, r, &transform.InsertBuffer{Options: transform.InsertBufferOptions{
		Contents: content.FromString("b"),
	}})
	if got := c.Get(0).String(); got != "ab" {
		t.Fatalf("expected \"ab\", got %q", got)
	}

	if err := h.Undo(OnlyUndoTheLast, 1, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Get(0).String(); got != "a" {
		t.Fatalf("expected undo to restore \"a\", got %q", got)
	}
	if !h.CanRedo() {
		t.Fatalf("expected a redo entry after undo")
	}
}

func TestRedoReappliesOriginal(t *testing.T) {
	c := content.FromString("a")
	r := transform.NewResult(c, position.LineColumn{Column: 1}, transform.Final)
	h := New(0)

	applyAndPush(h, r, &transform.InsertBuffer{Options: transform.InsertBufferOptions{
		Contents: content.FromString("b"),
	}})
	if err := h.Undo(OnlyUndoTheLast, 1, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h.Redo(OnlyUndoTheLast, 1, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Get(0).String(); got != "ab" {
		t.Fatalf("expected redo to restore \"ab\", got %q", got)
	}
}

func TestUndoOnEmptyHistoryReturnsError(t *testing.T) {
	c := content.FromString("a")
	r := transform.NewResult(c, position.LineColumn{}, transform.Final)
	h := New(0)

	if err := h.Undo(OnlyUndoTheLast, 1, r); err != ErrNothingToUndo {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestSkipIrrelevantCountsOnlyModifyingEntries(t *testing.T) {
	c := content.FromString("ab")
	r := transform.NewResult(c, position.LineColumn{}, transform.Final)
	h := New(0)

	// A modifying insert, followed by a pure cursor move (does not
	// modify the buffer) that becomes the most recently pushed entry.
	applyAndPush(h, r, &transform.InsertBuffer{Options: transform.InsertBufferOptions{
		Contents: content.FromString("X"),
	}})
	applyAndPush(h, r, &transform.GotoPosition{Pos: position.LineColumn{Column: 0}})

	if got := c.Get(0).String(); got != "Xab" {
		t.Fatalf("expected \"Xab\" before undo, got %q", got)
	}

	// Undoing 1 "modifying" repetition should walk past the most-recent
	// goto entry (it doesn't count) down to the insert (which does),
	// undoing both along the way.
	if err := h.Undo(SkipIrrelevant, 1, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.CanUndo() {
		t.Fatalf("expected both entries undone, past should be empty")
	}
	if got := c.Get(0).String(); got != "ab" {
		t.Fatalf("expected buffer restored to \"ab\", got %q", got)
	}
}

func TestGroupCollapsesIntoOneUndoEntry(t *testing.T) {
	c := content.FromString("a")
	r := transform.NewResult(c, position.LineColumn{Column: 1}, transform.Final)
	h := New(0)

	h.BeginGroup()
	applyAndPush(h, r, &transform.InsertBuffer{Options: transform.InsertBufferOptions{
		Contents: content.FromString("b"),
	}})
	applyAndPush(h, r, &transform.InsertBuffer{Options: transform.InsertBufferOptions{
		Contents: content.FromString("c"),
	}})
	h.EndGroup()

	if got := c.Get(0).String(); got != "abc" {
		t.Fatalf("expected \"abc\", got %q", got)
	}
	if h.PastLen() != 1 {
		t.Fatalf("expected the group to collapse into a single past entry, got %d", h.PastLen())
	}

	if err := h.Undo(OnlyUndoTheLast, 1, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Get(0).String(); got != "a" {
		t.Fatalf("expected one undo to revert the whole group, got %q", got)
	}
}

func TestPushClearsFuture(t *testing.T) {
	c := content.FromString("a")
	r := transform.NewResult(c, position.LineColumn{Column: 1}, transform.Final)
	h := New(0)

	applyAndPush(h, r, &transform.InsertBuffer{Options: transform.InsertBufferOptions{
		Contents: content.FromString("b"),
	}})
	h.Undo(OnlyUndoTheLast, 1, r)
	if !h.CanRedo() {
		t.Fatalf("expected a redo entry available")
	}

	applyAndPush(h, r, &transform.InsertBuffer{Options: transform.InsertBufferOptions{
		Contents: content.FromString("z"),
	}})
	if h.CanRedo() {
		t.Fatalf("expected future to be cleared after a new push")
	}
}
