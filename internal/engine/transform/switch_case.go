package transform

import (
	"github.com/alefore/edge-sub003/internal/engine/line"
	"github.com/alefore/edge-sub003/internal/modifiers"
)

// SwitchCase flips the case of every character in the range FindPartialRange
// derives from Modifiers (spec §4.E.7). Its own inverse is another
// SwitchCase over the same range, since flipping case twice is identity
// for the alphabetic characters it touches.
type SwitchCase struct {
	Modifiers modifiers.Modifiers
}

func (t *SwitchCase) Clone() Transformation {
	return &SwitchCase{Modifiers: t.Modifiers}
}

// GetModifiers and SetModifiers implement ModifiersCarrier.
func (t *SwitchCase) GetModifiers() modifiers.Modifiers  { return t.Modifiers }
func (t *SwitchCase) SetModifiers(m modifiers.Modifiers) { t.Modifiers = m }

func (t *SwitchCase) Apply(r *Result) {
	origin := r.Cursor
	rng := modifiers.FindPartialRange(r.Content, t.Modifiers, origin)

	changed := false
	for l := rng.Begin.Line; l <= rng.End.Line && l < r.Content.Size(); l++ {
		cur := r.Content.Get(l)
		begin := 0
		if l == rng.Begin.Line {
			begin = rng.Begin.Column
		}
		end := cur.Length()
		if l == rng.End.Line {
			end = rng.End.Column
		}
		if begin >= end {
			continue
		}

		text := []rune(cur.String())
		lineChanged := false
		for col := begin; col < end && col < len(text); col++ {
			flipped := switchRuneCase(text[col])
			if flipped != text[col] {
				text[col] = flipped
				lineChanged = true
			}
		}
		if !lineChanged {
			continue
		}
		// Per-column styling modifiers are not carried across a case flip.
		updated := line.New(string(text), nil).
			WithActivateOnEnter(cur.ActivateOnEnter())
		if err := r.Content.SetLine(l, updated); err == nil {
			changed = true
		}
	}

	r.Success = true
	r.MadeProgress = changed
	r.ModifiedBuffer = changed
	r.UndoStack.Push(&SwitchCase{Modifiers: t.Modifiers})

	if r.Mode == Preview {
		r.Cursor = origin
		return
	}
	r.Cursor = rng.Begin
}

func switchRuneCase(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return r - ('a' - 'A')
	case r >= 'A' && r <= 'Z':
		return r + ('a' - 'A')
	default:
		return r
	}
}
