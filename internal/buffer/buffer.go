package buffer

import (
	"fmt"
	"os"
	"sync"

	"github.com/alefore/edge-sub003/internal/engine/content"
	"github.com/alefore/edge-sub003/internal/engine/cursor"
	"github.com/alefore/edge-sub003/internal/engine/history"
	"github.com/alefore/edge-sub003/internal/engine/line"
	"github.com/alefore/edge-sub003/internal/engine/marks"
	"github.com/alefore/edge-sub003/internal/engine/parsetree"
	"github.com/alefore/edge-sub003/internal/subprocess"
)

// Buffer binds modules A-G plus variables, a subprocess, an environment,
// key bindings, and the reload state machine (spec §3's Buffer bullet,
// §4.H). All fields that are touched from more than one goroutine go
// through their own owning type's mutex (Content, Cursors, History,
// Marks, Variables); reloadMachine and the subprocess pointer have their
// own mutex here.
type Buffer struct {
	Name string
	Path string

	Content   *content.Content
	Cursors   *cursor.Tracker
	Parse     *parsetree.Engine
	History   *history.History
	Marks     *marks.Table
	Variables *Variables

	// Environment binds names to script values for the embedded
	// language (spec's "environment: name -> script value"). Kept as
	// map[string]any here since internal/script's Value type is built
	// against this surface, not the other way around.
	environmentMu sync.Mutex
	environment   map[string]any

	// KeyBindings layers buffer-local overrides over the editor's
	// default command table; both map a key sequence string to a
	// command name that internal/input resolves.
	keyBindingsMu sync.Mutex
	keyBindings   map[string]string

	subprocessMu sync.Mutex
	subprocess   *subprocess.Reader

	reload reloadMachine

	dirtyMu sync.Mutex
	dirty   bool

	lastParserName string
}

// New constructs a Buffer per spec §4.H, wiring C/D/F/G against the
// given or a fresh Content.
func New(opts Options) *Buffer {
	c := opts.Contents
	if c == nil {
		c = content.New()
	}
	maxUndo := opts.MaxUndoEntries

	b := &Buffer{
		Name:        opts.Name,
		Path:        opts.Path,
		Content:     c,
		Cursors:     cursor.NewTracker(c),
		History:     history.New(maxUndo),
		Marks:       opts.Marks,
		environment: map[string]any{},
		keyBindings: map[string]string{},
	}
	if b.Marks == nil {
		b.Marks = marks.NewTable()
	}
	b.Variables = NewVariables(b.onTreeParserVariableWritten)
	b.Parse = parsetree.NewEngine(&parsetree.TextParser{}, opts.TreeDepth, nil)
	b.lastParserName = "text"
	return b
}

// onTreeParserVariableWritten implements UpdateTreeParser (spec §4.H):
// re-derives which parsetree.Parser to install from the tree_parser
// variable's current value. Only "text"/"diff"/"null" are recognized
// here; a richer grammar-name mapping belongs to internal/script once a
// buffer's language plugins are loaded.
func (b *Buffer) onTreeParserVariableWritten(name string) {
	if name != VarTreeParser {
		return
	}
	want := b.Variables.String(VarTreeParser)
	if want == b.lastParserName {
		return
	}
	b.lastParserName = want
	switch want {
	case "diff":
		b.Parse.SetParser(&parsetree.DiffParser{})
	case "null":
		b.Parse.SetParser(&parsetree.NullParser{})
	default:
		b.Parse.SetParser(&parsetree.TextParser{})
	}
}

// MarkDirty/ClearDirty/IsDirty track unsaved-changes state (used by
// PrepareToClose and by a status line).
func (b *Buffer) MarkDirty() {
	b.dirtyMu.Lock()
	defer b.dirtyMu.Unlock()
	b.dirty = true
}

func (b *Buffer) ClearDirty() {
	b.dirtyMu.Lock()
	defer b.dirtyMu.Unlock()
	b.dirty = false
}

func (b *Buffer) IsDirty() bool {
	b.dirtyMu.Lock()
	defer b.dirtyMu.Unlock()
	return b.dirty
}

// Environment returns the script environment value bound to name, and
// whether it was present.
func (b *Buffer) Environment(name string) (any, bool) {
	b.environmentMu.Lock()
	defer b.environmentMu.Unlock()
	v, ok := b.environment[name]
	return v, ok
}

// SetEnvironment binds name to value in the buffer's environment.
func (b *Buffer) SetEnvironment(name string, value any) {
	b.environmentMu.Lock()
	defer b.environmentMu.Unlock()
	b.environment[name] = value
}

// KeyBinding resolves a key sequence to a command name, consulting the
// buffer-local override first and falling back to defaults.
func (b *Buffer) KeyBinding(sequence string, defaults map[string]string) (string, bool) {
	b.keyBindingsMu.Lock()
	cmd, ok := b.keyBindings[sequence]
	b.keyBindingsMu.Unlock()
	if ok {
		return cmd, true
	}
	cmd, ok = defaults[sequence]
	return cmd, ok
}

// BindKey installs a buffer-local override.
func (b *Buffer) BindKey(sequence, command string) {
	b.keyBindingsMu.Lock()
	defer b.keyBindingsMu.Unlock()
	b.keyBindings[sequence] = command
}

// Subprocess returns the buffer's attached subprocess reader, if any.
func (b *Buffer) Subprocess() *subprocess.Reader {
	b.subprocessMu.Lock()
	defer b.subprocessMu.Unlock()
	return b.subprocess
}

// StartSubprocess forks opts.Command and attaches it to this buffer,
// streaming its output into Content as it arrives and handling exit per
// spec §4.I ("end_of_file event fires observers; an optional
// on_exit_handler runs; if reload_after_exit is set, reload restarts; if
// close_after_clean_exit and exit status is 0, the buffer is closed").
// onClose is invoked if close_after_clean_exit fires; it may be nil.
func (b *Buffer) StartSubprocess(opts subprocess.Options, onClose func()) error {
	r, err := subprocess.Start(opts, b.appendSubprocessLine, func(exitErr error) {
		b.onSubprocessExit(exitErr, opts, onClose)
	})
	if err != nil {
		return err
	}
	b.subprocessMu.Lock()
	b.subprocess = r
	b.subprocessMu.Unlock()
	return nil
}

func (b *Buffer) appendSubprocessLine(fromStderr bool, lineText string) {
	text := lineText
	if fromStderr {
		text = "[stderr] " + lineText
	}
	b.Content.PushBack(line.New(text, nil))
}

func (b *Buffer) onSubprocessExit(exitErr error, opts subprocess.Options, onClose func()) {
	if b.Variables.Bool(VarReloadAfterExit) {
		_ = b.RequestReload(func() error {
			return b.StartSubprocess(opts, onClose)
		})
		return
	}
	if b.Variables.Bool(VarCloseAfterCleanExit) && exitErr == nil {
		if onClose != nil {
			onClose()
		}
	}
}

// RequestReload drives the reload state machine (spec §4.H). If a
// reload is already Ongoing, the request is recorded as Pending, start
// is not called now and nil is returned. Otherwise start runs
// synchronously; when it returns, a request that became Pending while it
// ran makes start run again. The error is the last start call's.
func (b *Buffer) RequestReload(start func() error) error {
	if !b.reload.RequestReload() {
		return nil
	}
	return b.runReload(start)
}

func (b *Buffer) runReload(start func() error) error {
	err := start()
	if b.reload.CompleteReload() {
		return b.runReload(start)
	}
	return err
}

// ReloadState reports the buffer's current reload state.
func (b *Buffer) ReloadState() ReloadState {
	return b.reload.State()
}

// PrepareToClose reports whether the buffer may be closed right now; if
// not, it returns a human-readable explanation (spec §4.H "Prepare-to-
// close may refuse").
func (b *Buffer) PrepareToClose() (ok bool, explanation string) {
	if sp := b.Subprocess(); sp != nil {
		if exited, _ := sp.Exited(); !exited && !b.Variables.Bool(VarTermOnClose) {
			return false, fmt.Sprintf("buffer %q has a running subprocess and term_on_close is not set", b.Name)
		}
	}
	if b.IsDirty() && !b.Variables.Bool(VarSaveOnClose) && !b.Variables.Bool(VarAllowDirtyDelete) {
		return false, fmt.Sprintf("buffer %q has unsaved changes", b.Name)
	}
	return true, ""
}

// Close terminates any running subprocess, saves if dirty and
// save_on_close is set, and releases the parse-tree worker (spec §4.H
// "Close"/"Lifecycle: ... on destruction terminates any child and joins
// the parse thread").
func (b *Buffer) Close(save func() error) error {
	if sp := b.Subprocess(); sp != nil {
		if exited, _ := sp.Exited(); !exited {
			_ = sp.Signal(os.Interrupt)
		}
	}
	if b.IsDirty() && b.Variables.Bool(VarSaveOnClose) && save != nil {
		if err := save(); err != nil {
			return err
		}
		b.ClearDirty()
	}
	b.Parse.Close()
	return nil
}
