package input

import (
	"strings"

	"github.com/alefore/edge-sub003/internal/engine/content"
	"github.com/alefore/edge-sub003/internal/engine/position"
	"github.com/alefore/edge-sub003/internal/engine/transform"
	"github.com/alefore/edge-sub003/internal/input/key"
	"github.com/alefore/edge-sub003/internal/modifiers"
)

// ScrollBehavior handles arrow keys while in InsertMode (spec §4.K
// "arrows delegate to a ScrollBehavior").
type ScrollBehavior interface {
	OnArrow(k key.Key, ctx *Context) bool
}

// InsertMode turns keystrokes into InsertBuffer/DeleteCharacters
// transformations (spec §4.K). TransformKeyboardText, when set, is
// applied to each inserted character before it becomes an
// InsertBuffer; NewLineHandler, CompletionHandler, and EscapeHandler
// default to ordinary newline insertion, no-op (not consumed), and
// nothing respectively when left nil.
type InsertMode struct {
	TransformKeyboardText func(string) string
	NewLineHandler        func(ctx *Context)
	CompletionHandler     func(ctx *Context) bool
	EscapeHandler         func(ctx *Context)
	Scroll                ScrollBehavior

	// LineSuffixSuperfluous names characters trimmed from the end of the
	// current line when the mode closes (spec's
	// "line_suffix_superfluous_characters"), e.g. trailing spaces left
	// by auto-indent.
	LineSuffixSuperfluous string
}

func (m *InsertMode) ProcessInput(ev key.Event, ctx *Context) bool {
	switch ev.Key {
	case key.KeyEscape:
		m.close(ctx)
		return true
	case key.KeyEnter:
		if m.NewLineHandler != nil {
			m.NewLineHandler(ctx)
		} else {
			ctx.Editor.ApplyTransformation(&transform.InsertBuffer{
				Options: transform.InsertBufferOptions{
					Contents:    content.FromString("\n"),
					Repetitions: 1,
				},
			})
		}
		return true
	case key.KeyTab:
		if m.CompletionHandler != nil {
			return m.CompletionHandler(ctx)
		}
		return false
	case key.KeyBackspace:
		ctx.Editor.ApplyTransformation(&transform.DeleteCharacters{
			Options: transform.DeleteCharactersOptions{
				Modifiers: modifiers.Default().WithDirection(modifiers.Backwards).WithRepetitions(1),
			},
		})
		return true
	case key.KeyUp, key.KeyDown, key.KeyLeft, key.KeyRight:
		if m.Scroll != nil {
			return m.Scroll.OnArrow(ev.Key, ctx)
		}
		return false
	}

	if !ev.IsRune() {
		return false
	}
	text := string(ev.Rune)
	if m.TransformKeyboardText != nil {
		text = m.TransformKeyboardText(text)
	}
	if text == "" {
		return true
	}
	ctx.Editor.ApplyTransformation(&transform.InsertBuffer{
		Options: transform.InsertBufferOptions{
			Contents:    content.FromString(text),
			Repetitions: 1,
		},
	})
	return true
}

func (m *InsertMode) close(ctx *Context) {
	m.trimSuperfluousSuffix(ctx)
	if m.EscapeHandler != nil {
		m.EscapeHandler(ctx)
	}
	ctx.Editor.SetMode(ctx.Editor.PreviousMode())
}

func (m *InsertMode) trimSuperfluousSuffix(ctx *Context) {
	if m.LineSuffixSuperfluous == "" {
		return
	}
	buf := ctx.Editor.CurrentBuffer()
	active := buf.Cursors.Active()
	if active == nil {
		return
	}
	pos := active.Current()
	text := []rune(buf.Content.Get(pos.Line).String())
	trimmed := []rune(strings.TrimRight(string(text), m.LineSuffixSuperfluous))
	if len(trimmed) == len(text) {
		return
	}
	ctx.Editor.ApplyTransformation(&transform.GotoPosition{
		Pos: position.LineColumn{Line: pos.Line, Column: len(trimmed)},
	})
	ctx.Editor.ApplyTransformation(&transform.DeleteCharacters{
		Options: transform.DeleteCharactersOptions{
			Modifiers: modifiers.Default().
				WithDirection(modifiers.Forwards).
				WithRepetitions(len(text) - len(trimmed)),
		},
	})
}
