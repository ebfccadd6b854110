package input

import (
	"github.com/alefore/edge-sub003/internal/engine/position"
	"github.com/alefore/edge-sub003/internal/engine/transform"
	"github.com/alefore/edge-sub003/internal/input/key"
	"github.com/alefore/edge-sub003/internal/modifiers"
)

// FindMode is one-shot (spec §4.K): the next keystroke seeks forward or
// backward to that character on the current line, repeated
// ctx.Modifiers.Repetitions times, and control returns to the previous
// mode regardless of whether the seek found anything.
type FindMode struct {
	Direction modifiers.Direction
}

func NewFindMode(dir modifiers.Direction) *FindMode {
	return &FindMode{Direction: dir}
}

func (f *FindMode) ProcessInput(ev key.Event, ctx *Context) bool {
	defer ctx.Editor.SetMode(ctx.Editor.PreviousMode())

	if !ev.IsRune() {
		return false
	}

	buf := ctx.Editor.CurrentBuffer()
	active := buf.Cursors.Active()
	if active == nil {
		return false
	}
	origin := active.Current()
	text := []rune(buf.Content.Get(origin.Line).String())

	reps := ctx.Modifiers.Repetitions
	if reps < 1 {
		reps = 1
	}
	col := origin.Column
	found := false
	for i := 0; i < reps; i++ {
		next, ok := seekRuneOnLine(text, col, ev.Rune, f.Direction)
		if !ok {
			break
		}
		col = next
		found = true
	}
	if !found {
		return false
	}
	ctx.Editor.ApplyTransformation(&transform.GotoPosition{
		Pos: position.LineColumn{Line: origin.Line, Column: col},
	})
	return true
}

func seekRuneOnLine(text []rune, from int, target rune, dir modifiers.Direction) (int, bool) {
	if dir == modifiers.Forwards {
		for i := from + 1; i < len(text); i++ {
			if text[i] == target {
				return i, true
			}
		}
		return 0, false
	}
	for i := from - 1; i >= 0; i-- {
		if text[i] == target {
			return i, true
		}
	}
	return 0, false
}
