package transform

import (
	"github.com/alefore/edge-sub003/internal/engine/content"
	"github.com/alefore/edge-sub003/internal/engine/cursor"
	"github.com/alefore/edge-sub003/internal/engine/marks"
	"github.com/alefore/edge-sub003/internal/engine/position"
	"github.com/alefore/edge-sub003/internal/modifiers"
)

// Mode distinguishes a real application (Final) from a preview one that
// may be visually rendered (e.g. underlined) but whose side effects a
// caller may revert without touching undo history.
type Mode uint8

const (
	Final Mode = iota
	Preview
)

// Result is threaded through every Transformation.Apply call (spec
// §4.E). Content is the buffer contents being mutated in place; Cursor
// is both input (where to apply) and output (where the cursor ends up).
type Result struct {
	Content *content.Content
	Cursor  position.LineColumn
	Mode    Mode

	Success        bool
	MadeProgress   bool
	ModifiedBuffer bool

	UndoStack *Stack

	// DeleteBuffer accumulates text extracted by delete-like
	// transformations; it becomes the paste buffer when
	// CopyToPasteBuffer is requested.
	DeleteBuffer *content.Content

	// The fields below carry the editor-wide state a handful of Move
	// structures need (page/mark/buffer) that a pure content.Content
	// cannot supply on its own. All are optional; Move degrades to
	// Success=false, MadeProgress=false if the field a given structure
	// needs is nil.

	// ViewHeight/MarginRatio freeze the page-scroll line count (spec
	// §4.E.6 "frozen at the beginning of the operation").
	ViewHeight  int
	MarginRatio float64

	// Marks and BufferName let Move(structure=mark) walk the mark table
	// for this buffer.
	Marks      *marks.Table
	BufferName string

	// SwitchBuffer lets Move(structure=buffer) ask the owning editor to
	// change the active buffer; it reports whether a switch happened.
	SwitchBuffer func(dir modifiers.Direction) bool

	// ActivateHandler is invoked with a line's activate-on-enter id and
	// an argument rune when DeleteLines removes a whole line carrying
	// one, in Final mode (spec §4.E.4 — used to remove subordinate
	// buffers when deleting them from a listing).
	ActivateHandler func(id uint64, arg rune)

	// Cursors is the buffer's active named cursor set, consulted and
	// replaced by SetCursors (spec §4.E.10). Optional: nil if the caller
	// isn't threading multi-cursor state through this application.
	Cursors *cursor.Set
}

// NewResult builds a Result ready for a single transformation
// application, starting at cursor with an empty undo stack.
func NewResult(c *content.Content, cursor position.LineColumn, mode Mode) *Result {
	return &Result{
		Content:   c,
		Cursor:    cursor,
		Mode:      mode,
		Success:   true,
		UndoStack: NewStack(),
	}
}

// PageLineCount derives the page-structure screen-lines distance from the
// frozen view height and margin ratio (spec §4.E.6), matching
// structure_move.cc's ComputePageMoveLines: the margin ratio is clamped to
// leave at least a 0.2 fraction of the view as page lines, so a single
// screen_lines count (not yet the final move distance) results.
func (r *Result) PageLineCount() int {
	ratio := 1 - 2*r.MarginRatio
	if ratio < 0.2 {
		ratio = 0.2
	}
	return int(ratio * float64(r.ViewHeight))
}
