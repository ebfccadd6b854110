package input

import "github.com/alefore/edge-sub003/internal/input/key"

// RepeatMode accumulates digits into the repetitions modifier; any
// non-digit is forwarded to Inner (spec §4.K). A leading "0" does not
// start a count (it is itself a command, e.g. "goto column 0"), matching
// the usual modal-editor convention; "0" after other digits have already
// accumulated is a literal zero digit.
type RepeatMode struct {
	Inner     InputMode
	acc       int
	hasDigits bool
}

func NewRepeatMode(inner InputMode) *RepeatMode {
	return &RepeatMode{Inner: inner}
}

func (r *RepeatMode) ProcessInput(ev key.Event, ctx *Context) bool {
	if ev.IsRune() && ev.Rune >= '0' && ev.Rune <= '9' {
		if ev.Rune != '0' || r.hasDigits {
			r.acc = r.acc*10 + int(ev.Rune-'0')
			r.hasDigits = true
			return true
		}
	}
	if r.hasDigits {
		ctx.Modifiers = ctx.Modifiers.WithRepetitions(r.acc)
		r.acc = 0
		r.hasDigits = false
	}
	return r.Inner.ProcessInput(ev, ctx)
}
