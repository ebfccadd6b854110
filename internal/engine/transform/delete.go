package transform

import "github.com/alefore/edge-sub003/internal/modifiers"

// Delete is the region-scoped delete dispatcher (spec §4.E.5): it calls
// FindPartialRange to derive the span to remove, then removes it.
// Internally this is a single span removal rather than the
// GotoPosition+DeleteLines+DeleteCharacters decomposition described for
// the multi-line case; the observable effect (text removed, cursor
// placement, undo, paste buffer) is identical since deleteSpan already
// handles ranges crossing any number of lines.
type Delete struct {
	Modifiers modifiers.Modifiers
}

func (t *Delete) Clone() Transformation {
	return &Delete{Modifiers: t.Modifiers}
}

// GetModifiers and SetModifiers implement ModifiersCarrier.
func (t *Delete) GetModifiers() modifiers.Modifiers  { return t.Modifiers }
func (t *Delete) SetModifiers(m modifiers.Modifiers) { t.Modifiers = m }

func (t *Delete) Apply(r *Result) {
	origin := r.Cursor
	rng := modifiers.FindPartialRange(r.Content, t.Modifiers, origin)

	if t.Modifiers.DeleteType == modifiers.PreserveContents {
		extracted := readSpan(r.Content, rng.Begin, rng.End)
		if t.Modifiers.CopyToPasteBuffer {
			appendToDeleteBuffer(r, extracted)
		}
		r.Success = true
		r.MadeProgress = false
		r.ModifiedBuffer = false
		r.UndoStack.Push(&noop{})
		r.Cursor = origin
		return
	}

	extracted := deleteSpan(r.Content, rng.Begin, rng.End)
	if t.Modifiers.CopyToPasteBuffer {
		appendToDeleteBuffer(r, extracted)
	}

	r.Success = true
	r.MadeProgress = rng.Begin != rng.End
	r.ModifiedBuffer = r.MadeProgress
	r.UndoStack.Push(&InsertBuffer{Options: InsertBufferOptions{
		Contents:      extracted,
		Repetitions:   1,
		FinalPosition: FinalPositionStart,
	}})

	if r.Mode == Preview {
		r.Cursor = origin
		return
	}
	r.Cursor = rng.Begin
}
