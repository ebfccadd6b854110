// Package input implements InputMode/Commands (spec §4.K): the
// polymorphic keystroke consumers an editor dispatches to, plus the
// command table they invoke. Grounded on keystorm's internal/input/mode
// package for the Mode/EditorState split (a minimal read-and-command
// interface the host editor implements, so this package never imports
// internal/editor and no import cycle results), adapted from a
// register-of-named-modes manager into the composable wrapper modes
// spec.md itself describes (RepeatMode wraps FindMode wraps MapMode,
// etc.) rather than keystorm's flat normal/insert/visual registry.
package input

import (
	"github.com/alefore/edge-sub003/internal/buffer"
	"github.com/alefore/edge-sub003/internal/engine/history"
	"github.com/alefore/edge-sub003/internal/engine/transform"
	"github.com/alefore/edge-sub003/internal/modifiers"
)

// EditorState is the surface a Command or InputMode needs from the host
// editor. internal/editor implements it; defining it here (rather than
// importing internal/editor) avoids a cycle, the same structural choice
// keystorm's mode.EditorState interface makes.
type EditorState interface {
	// CurrentBuffer returns the buffer modes and commands operate on.
	CurrentBuffer() *buffer.Buffer

	// CurrentBufferName returns the name the current buffer is
	// registered under, for status messages and CloseBuffer.
	CurrentBufferName() string

	// CloseBuffer removes name from the buffer table, calling save
	// first if the buffer is dirty (spec §4.H "PrepareToClose"); save
	// may be nil if the buffer has no save strategy.
	CloseBuffer(name string, save func() error) error

	// RequestExit records the process exit code the surrounding event
	// loop should use once it observes ExitRequested (spec §4.L's "an
	// exit value").
	RequestExit(code int)

	// ApplyTransformation runs t against the current buffer's content
	// and active cursor, pushing its inverse onto the buffer's history,
	// and reports the result.
	ApplyTransformation(t transform.Transformation) *transform.Result

	// Undo and Redo walk the current buffer's history (spec §4.F),
	// moving the cursor to the result. Commands bound to undo/redo keys
	// call these instead of building a transform.Result by hand.
	Undo(quantifier history.Mode, repetitions int) (*transform.Result, error)
	Redo(quantifier history.Mode, repetitions int) (*transform.Result, error)

	// SetMode installs m as the active InputMode.
	SetMode(m InputMode)

	// PreviousMode returns the mode active before the current one, for
	// one-shot modes (FindMode) and Escape handlers (InsertMode) to
	// return control to.
	PreviousMode() InputMode

	// ScheduleWork defers fn to run on a later editor tick (spec §5's
	// pending-work queue), used by commands whose effect should not run
	// synchronously inside key dispatch (e.g. a completion popup).
	ScheduleWork(fn func())
}

// Context carries per-keystroke state threaded through InputMode and
// Command (spec's "process_input(char, editor)"; Editor here is
// EditorState, and Modifiers/Register generalize the single "char"
// argument to the full modifier bundle a command may consult).
type Context struct {
	Editor    EditorState
	Modifiers modifiers.Modifiers

	// Register names the destination for yank/delete/macro operations
	// (spec's "'\"', 'a'-'z'" register namespace); 0 means the
	// unnamed/default register.
	Register rune
}

// NewContext returns a Context with default modifiers and the unnamed
// register.
func NewContext(editor EditorState) *Context {
	return &Context{Editor: editor, Modifiers: modifiers.Default()}
}
