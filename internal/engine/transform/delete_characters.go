package transform

import (
	"github.com/alefore/edge-sub003/internal/engine/content"
	"github.com/alefore/edge-sub003/internal/engine/position"
	"github.com/alefore/edge-sub003/internal/modifiers"
)

// DeleteCharactersOptions configures DeleteCharacters (spec §4.E.3).
type DeleteCharactersOptions struct {
	Modifiers         modifiers.Modifiers
	CopyToPasteBuffer bool
	LineEndBehavior   modifiers.LineEndBehavior
}

// DeleteCharacters deletes Modifiers.Repetitions characters in
// Modifiers.Direction starting at the cursor. A newline counts as one
// character.
type DeleteCharacters struct {
	Options DeleteCharactersOptions
}

func (t *DeleteCharacters) Clone() Transformation {
	return &DeleteCharacters{Options: t.Options}
}

func (t *DeleteCharacters) Apply(r *Result) {
	reps := t.Options.Modifiers.Repetitions
	if reps < 1 {
		reps = 1
	}
	origin := r.Cursor
	end := origin
	for i := 0; i < reps; i++ {
		next := end
		if t.Options.Modifiers.Direction == modifiers.Forwards {
			if t.Options.LineEndBehavior == modifiers.LineEndStop && next.Column >= r.Content.Get(next.Line).Length() {
				break
			}
			stepOneChar(r.Content, modifiers.Forwards, &next)
		} else {
			if t.Options.LineEndBehavior == modifiers.LineEndStop && next.Column == 0 {
				break
			}
			stepOneChar(r.Content, modifiers.Backwards, &next)
		}
		if next == end {
			break
		}
		end = next
	}

	begin, finish := origin, end
	if finish.Less(begin) {
		begin, finish = finish, begin
	}

	// PreserveContents ("yank"): capture the text without mutating the
	// buffer, matching spec's "non-destructive yank" description.
	if t.Options.Modifiers.DeleteType == modifiers.PreserveContents {
		captured := readSpan(r.Content, begin, finish)
		if t.Options.CopyToPasteBuffer {
			appendToDeleteBuffer(r, captured)
		}
		r.Success = true
		r.MadeProgress = false
		r.ModifiedBuffer = false
		r.UndoStack.Push(&noop{})
		if r.Mode == Final {
			r.Cursor = origin
		} else {
			r.Cursor = finish
		}
		return
	}

	deleted := deleteSpan(r.Content, begin, finish)
	if t.Options.CopyToPasteBuffer {
		appendToDeleteBuffer(r, deleted)
	}

	r.Success = true
	r.MadeProgress = begin != finish
	r.ModifiedBuffer = r.MadeProgress

	finalPos := FinalPositionStart
	if t.Options.Modifiers.Direction == modifiers.Backwards {
		finalPos = FinalPositionEnd
	}
	r.UndoStack.Push(&InsertBuffer{Options: InsertBufferOptions{
		Contents:      deleted,
		Repetitions:   1,
		FinalPosition: finalPos,
	}})
	r.Cursor = begin
}

func stepOneChar(c *content.Content, dir modifiers.Direction, p *position.LineColumn) {
	if dir == modifiers.Forwards {
		atEnd := p.Line == c.Size()-1 && p.Column >= c.Get(p.Line).Length()
		if atEnd {
			return
		}
		if p.Column >= c.Get(p.Line).Length() {
			p.Line++
			p.Column = 0
			return
		}
		p.Column++
		return
	}
	if p.Line == 0 && p.Column == 0 {
		return
	}
	if p.Column == 0 {
		p.Line--
		p.Column = c.Get(p.Line).Length()
		return
	}
	p.Column--
}
