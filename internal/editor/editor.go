// Package editor implements Editor (spec §4.L): process-wide state
// binding the buffer table, the global mark table, the status line, a
// position stack for jump-back, and the pending-work queue described in
// spec §5's concurrency model. Grounded on keystorm's top-level wiring
// (an editor-shaped struct owning a buffer table plus a mode manager)
// generalized to this module's name->buffer table and redirect-mode
// dispatch, and supplemented per SPEC_FULL.md against
// original_source/src/editor.h's buffer table and status-line fields.
package editor

import (
	"fmt"
	"sync"

	"github.com/alefore/edge-sub003/internal/buffer"
	"github.com/alefore/edge-sub003/internal/engine/cursor"
	"github.com/alefore/edge-sub003/internal/engine/history"
	"github.com/alefore/edge-sub003/internal/engine/marks"
	"github.com/alefore/edge-sub003/internal/engine/position"
	"github.com/alefore/edge-sub003/internal/engine/transform"
	"github.com/alefore/edge-sub003/internal/input"
	"github.com/alefore/edge-sub003/internal/input/key"
	"github.com/alefore/edge-sub003/internal/modifiers"
)

// StatusKind classifies the single status-line message (spec §4.L).
type StatusKind uint8

const (
	StatusInformation StatusKind = iota
	StatusWarning
	StatusPrompt
)

// Jump is one entry of the position stack (spec's "a position stack (for
// jump back)"; SPEC_FULL.md's module L supplement grounded in
// original_source/src/editor.h's buffer table, fleshed out into
// PushJump/PopJump since spec.md names the feature but not its shape).
type Jump struct {
	BufferName string
	Position   position.LineColumn
}

// Editor is process-wide state (spec §4.L).
type Editor struct {
	mu sync.Mutex

	buffers       map[string]*buffer.Buffer
	order         []string // insertion order, for deterministic listing
	currentBuffer string

	marks *marks.Table

	statusKind StatusKind
	statusText string

	jumps []Jump

	handlingInterrupts bool
	pendingSignals     []int

	pending []func()

	redrawReady     bool
	hardRedrawReady bool

	exitValue    int
	exitRequested bool

	// modes holds each buffer's current InputMode, keyed by buffer name
	// (kept here rather than on buffer.Buffer to avoid that package
	// importing this one's sibling internal/input).
	modes    map[string]input.InputMode
	prevMode map[string]input.InputMode
	redirect input.InputMode

	defaultMode func(e *Editor, bufferName string) input.InputMode

	modifiersState modifiers.Modifiers
}

// New creates an empty Editor. defaultMode, if non-nil, is called to
// construct the initial InputMode for every buffer added via AddBuffer;
// if nil, buffers start with no mode (ProcessInput becomes a no-op until
// SetMode is called for them).
func New(defaultMode func(e *Editor, bufferName string) input.InputMode) *Editor {
	return &Editor{
		buffers:        map[string]*buffer.Buffer{},
		marks:          marks.NewTable(),
		modes:          map[string]input.InputMode{},
		prevMode:       map[string]input.InputMode{},
		defaultMode:    defaultMode,
		modifiersState: modifiers.Default(),
	}
}

// AddBuffer registers b under name, sharing the editor's global mark
// table, and makes it current if it is the first buffer added.
func (e *Editor) AddBuffer(name string, b *buffer.Buffer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.buffers[name]; !exists {
		e.order = append(e.order, name)
	}
	e.buffers[name] = b
	b.Marks = e.marks
	if e.currentBuffer == "" {
		e.currentBuffer = name
	}
	if e.defaultMode != nil {
		e.modes[name] = e.defaultMode(e, name)
	}
}

// Buffer returns the buffer registered under name.
func (e *Editor) Buffer(name string) (*buffer.Buffer, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.buffers[name]
	return b, ok
}

// BufferNames returns every registered buffer name in insertion order.
func (e *Editor) BufferNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// SetCurrentBuffer switches the distinguished current buffer.
func (e *Editor) SetCurrentBuffer(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.buffers[name]; !ok {
		return fmt.Errorf("editor: unknown buffer %q", name)
	}
	e.currentBuffer = name
	return nil
}

// CurrentBufferName returns the name of the distinguished current
// buffer, or "" if none is set.
func (e *Editor) CurrentBufferName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentBuffer
}

// CurrentBuffer implements input.EditorState: returns the distinguished
// current buffer, or nil if no buffer is registered.
func (e *Editor) CurrentBuffer() *buffer.Buffer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buffers[e.currentBuffer]
}

// Marks returns the editor-wide mark table every buffer shares.
func (e *Editor) Marks() *marks.Table {
	return e.marks
}

// CloseBuffer removes name from the table after calling its
// PrepareToClose/Close sequence (spec §4.H). save, which may be nil, is
// forwarded to Buffer.Close. If PrepareToClose refuses, the buffer is
// not removed and the explanation is returned as an error.
func (e *Editor) CloseBuffer(name string, save func() error) error {
	e.mu.Lock()
	b, ok := e.buffers[name]
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("editor: unknown buffer %q", name)
	}
	if ok, explanation := b.PrepareToClose(); !ok {
		return fmt.Errorf("editor: cannot close %q: %s", name, explanation)
	}
	if err := b.Close(save); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.buffers, name)
	delete(e.modes, name)
	delete(e.prevMode, name)
	for i, n := range e.order {
		if n == name {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	if e.currentBuffer == name {
		e.currentBuffer = ""
		if len(e.order) > 0 {
			e.currentBuffer = e.order[0]
		}
	}
	return nil
}

// SetStatus sets the status-line message (spec §4.L).
func (e *Editor) SetStatus(kind StatusKind, text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.statusKind = kind
	e.statusText = text
}

// Status returns the current status-line kind and text.
func (e *Editor) Status() (StatusKind, string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.statusKind, e.statusText
}

// PushJump records pos as a jump-back target for the named buffer.
func (e *Editor) PushJump(bufferName string, pos position.LineColumn) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jumps = append(e.jumps, Jump{BufferName: bufferName, Position: pos})
}

// PopJump removes and returns the most recent jump, if any.
func (e *Editor) PopJump() (Jump, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.jumps) == 0 {
		return Jump{}, false
	}
	j := e.jumps[len(e.jumps)-1]
	e.jumps = e.jumps[:len(e.jumps)-1]
	return j, true
}

// ApplyTransformation implements input.EditorState: applies t against
// the current buffer's content. If the ambient CursorsAffected modifier is
// All and the buffer's multiple_cursors variable is set, t is cloned and
// applied once per cursor in the active set (spec §4.E "Application
// semantics"); otherwise only the active cursor is used. Either way, a
// single merged UndoHistory entry is pushed.
func (e *Editor) ApplyTransformation(t transform.Transformation) *transform.Result {
	b := e.CurrentBuffer()
	if b == nil {
		r := transform.NewResult(nil, position.LineColumn{}, transform.Final)
		r.Success = false
		return r
	}

	active := b.Cursors.Active()
	if e.Modifiers().CursorsAffected == modifiers.CursorsAll && b.Variables.Bool(buffer.VarMultipleCursors) {
		return e.applyToAllCursors(b, active, t)
	}

	r := transform.NewResult(b.Content, active.Current(), transform.Final)
	r.Marks = e.marks
	r.BufferName = e.CurrentBufferName()
	r.Cursors = active
	t.Apply(r)
	active.SetCurrent(r.Cursor)
	if r.ModifiedBuffer {
		b.MarkDirty()
		e.RequestRedraw()
	}
	b.History.Push(r.UndoStack.AsTransformation(), r.ModifiedBuffer)
	return r
}

// applyToAllCursors clones t once per cursor in set, applying each clone
// starting at that cursor's own (pre-edit) position via
// Tracker.ApplyToCursors. DelayTransformations defers rebasing every
// known cursor set until all clones have run, so each clone sees its
// cursor's original position rather than one already shifted by an
// earlier clone's edit; the deferred rebase then cross-corrects every
// cursor (including the ones just moved) for every clone's mutations at
// once. All per-clone undo stacks are merged into a single history entry.
func (e *Editor) applyToAllCursors(b *buffer.Buffer, set *cursor.Set, t transform.Transformation) *transform.Result {
	merged := transform.NewResult(b.Content, set.Current(), transform.Final)
	merged.Success = true
	combined := transform.NewStack()

	token := b.Cursors.DelayTransformations()
	b.Cursors.ApplyToCursors(set, func(pos position.LineColumn) position.LineColumn {
		clone := t.Clone()
		r := transform.NewResult(b.Content, pos, transform.Final)
		r.Marks = e.marks
		r.BufferName = e.CurrentBufferName()
		r.Cursors = set
		clone.Apply(r)
		combined.Push(r.UndoStack.AsTransformation())
		merged.Success = merged.Success && r.Success
		merged.MadeProgress = merged.MadeProgress || r.MadeProgress
		merged.ModifiedBuffer = merged.ModifiedBuffer || r.ModifiedBuffer
		return r.Cursor
	})
	token.Release()

	merged.Cursor = set.Current()
	merged.UndoStack = combined
	if merged.ModifiedBuffer {
		b.MarkDirty()
		e.RequestRedraw()
	}
	b.History.Push(combined.AsTransformation(), merged.ModifiedBuffer)
	return merged
}

// Undo walks the current buffer's history backwards (spec §4.F), applying
// repetitions undo entries under quantifier and moving the cursor to the
// result. Returns history.ErrNothingToUndo if the buffer has no past.
func (e *Editor) Undo(quantifier history.Mode, repetitions int) (*transform.Result, error) {
	return e.moveHistory(quantifier, repetitions, true)
}

// Redo is the mirror of Undo, walking the current buffer's history forward.
func (e *Editor) Redo(quantifier history.Mode, repetitions int) (*transform.Result, error) {
	return e.moveHistory(quantifier, repetitions, false)
}

func (e *Editor) moveHistory(quantifier history.Mode, repetitions int, undo bool) (*transform.Result, error) {
	b := e.CurrentBuffer()
	if b == nil {
		r := transform.NewResult(nil, position.LineColumn{}, transform.Final)
		r.Success = false
		return r, history.ErrNothingToUndo
	}
	active := b.Cursors.Active()
	r := transform.NewResult(b.Content, active.Current(), transform.Final)
	r.Marks = e.marks
	r.BufferName = e.CurrentBufferName()

	var err error
	if undo {
		err = b.History.Undo(quantifier, repetitions, r)
	} else {
		err = b.History.Redo(quantifier, repetitions, r)
	}
	if err != nil {
		return r, err
	}

	active.SetCurrent(r.Cursor)
	if r.ModifiedBuffer {
		b.MarkDirty()
		e.RequestRedraw()
	}
	return r, nil
}

// SetMode implements input.EditorState. If a redirect mode is active
// (SetRedirectMode), SetMode installs the redirect itself; otherwise it
// installs the current buffer's mode.
func (e *Editor) SetMode(m input.InputMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.redirect != nil {
		e.redirect = m
		return
	}
	name := e.currentBuffer
	e.prevMode[name] = e.modes[name]
	e.modes[name] = m
}

// PreviousMode implements input.EditorState.
func (e *Editor) PreviousMode() input.InputMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prevMode[e.currentBuffer]
}

// CurrentMode returns the mode bound to the current buffer (ignoring any
// active redirect), for status reporting and tests that need to observe
// a one-shot mode (FindMode) handing control back.
func (e *Editor) CurrentMode() input.InputMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.modes[e.currentBuffer]
}

// SetRedirectMode installs m as a global override that receives every
// keystroke ahead of the current buffer's own mode (spec §4.L
// "process_input(key) forwards to the active mode (redirect if set,
// else the current buffer's mode)"), e.g. a global PromptMode answering
// a yes/no confirmation.
func (e *Editor) SetRedirectMode(m input.InputMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.redirect = m
}

// ClearRedirectMode removes the redirect, returning dispatch to the
// current buffer's own mode.
func (e *Editor) ClearRedirectMode() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.redirect = nil
}

// ProcessInput forwards ev to the active mode: the redirect if one is
// set, else the current buffer's own mode (spec §4.L). ctx.Modifiers
// seeds from, and is written back to, the editor's persistent modifier
// state so that "sticky" fields (Structure, Direction) set by one
// keystroke (e.g. a structure-selector command) are still in effect for
// the next one, while a command that consumes them calls
// ctx.Modifiers.ResetSoft() before returning.
func (e *Editor) ProcessInput(ev key.Event) bool {
	e.mu.Lock()
	redirect := e.redirect
	name := e.currentBuffer
	mode := e.modes[name]
	e.mu.Unlock()

	ctx := input.NewContext(e)
	ctx.Modifiers = e.Modifiers()

	var consumed bool
	switch {
	case redirect != nil:
		consumed = redirect.ProcessInput(ev, ctx)
	case mode != nil:
		consumed = mode.ProcessInput(ev, ctx)
	default:
		return false
	}

	e.SetModifiers(ctx.Modifiers)
	return consumed
}

// Modifiers returns the persistent modifier state carried between
// keystrokes (spec §4.J's "sticky" fields).
func (e *Editor) Modifiers() modifiers.Modifiers {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.modifiersState
}

// SetModifiers replaces the persistent modifier state.
func (e *Editor) SetModifiers(m modifiers.Modifiers) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.modifiersState = m
}

// ScheduleWork implements input.EditorState: appends fn to the pending
// work queue (spec §5 "schedule_pending_work").
func (e *Editor) ScheduleWork(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = append(e.pending, fn)
}

// RunPendingWork drains the deferred closure list FIFO (spec §4.L
// "run_pending_work drains the deferred closure list") and reports
// whether the queue is now idle — the surrounding event loop uses this
// for sleep budgeting (spec §5).
func (e *Editor) RunPendingWork() (idle bool) {
	for {
		e.mu.Lock()
		if len(e.pending) == 0 {
			e.mu.Unlock()
			return true
		}
		fn := e.pending[0]
		e.pending = e.pending[1:]
		e.mu.Unlock()
		fn()
	}
}

// RequestRedraw/RequestHardRedraw set the ready bits a renderer consults
// before repainting; ConsumeRedraw atomically reads and clears both.
func (e *Editor) RequestRedraw() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.redrawReady = true
}

func (e *Editor) RequestHardRedraw() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.redrawReady = true
	e.hardRedrawReady = true
}

// ConsumeRedraw reports and clears whether a redraw (soft, hard) is due.
func (e *Editor) ConsumeRedraw() (redraw, hard bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	redraw, hard = e.redrawReady, e.hardRedrawReady
	e.redrawReady, e.hardRedrawReady = false, false
	return redraw, hard
}

// SetHandlingInterrupts toggles the flag that tells the signal-handling
// goroutine whether Ctrl-C should interrupt a running subprocess (true)
// or request editor exit (false).
func (e *Editor) SetHandlingInterrupts(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlingInterrupts = v
}

func (e *Editor) HandlingInterrupts() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.handlingInterrupts
}

// NotifySignal records an OS signal number for later draining by
// DrainSignals (spec §5: "pending signals" are collected off the
// blocking-read path and handled on the main thread).
func (e *Editor) NotifySignal(sig int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pendingSignals = append(e.pendingSignals, sig)
}

// DrainSignals returns and clears every signal recorded since the last
// call.
func (e *Editor) DrainSignals() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.pendingSignals
	e.pendingSignals = nil
	return out
}

// RequestExit sets the process exit value (spec §4.L "an exit value").
func (e *Editor) RequestExit(code int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.exitValue = code
	e.exitRequested = true
}

// ExitValue reports whether exit was requested and, if so, its code.
func (e *Editor) ExitValue() (code int, requested bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exitValue, e.exitRequested
}
