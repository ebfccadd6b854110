package editor

import (
	"testing"

	"github.com/alefore/edge-sub003/internal/buffer"
	"github.com/alefore/edge-sub003/internal/engine/content"
	"github.com/alefore/edge-sub003/internal/engine/history"
	"github.com/alefore/edge-sub003/internal/engine/line"
	"github.com/alefore/edge-sub003/internal/engine/position"
	"github.com/alefore/edge-sub003/internal/engine/transform"
	"github.com/alefore/edge-sub003/internal/input"
	"github.com/alefore/edge-sub003/internal/input/key"
	"github.com/alefore/edge-sub003/internal/modifiers"
)

func newTestBuffer(e *Editor, name string) *buffer.Buffer {
	return buffer.New(buffer.Options{Name: name, Marks: e.Marks()})
}

func TestAddBufferMakesFirstBufferCurrent(t *testing.T) {
	e := New(nil)
	b := newTestBuffer(e, "a")
	e.AddBuffer("a", b)

	if got := e.CurrentBufferName(); got != "a" {
		t.Fatalf("current buffer = %q, want a", got)
	}
	if e.CurrentBuffer() != b {
		t.Fatal("CurrentBuffer did not return the added buffer")
	}

	e.AddBuffer("b", newTestBuffer(e, "b"))
	if got := e.CurrentBufferName(); got != "a" {
		t.Fatalf("adding a second buffer should not change current, got %q", got)
	}
}

func TestSetCurrentBufferRejectsUnknownName(t *testing.T) {
	e := New(nil)
	e.AddBuffer("a", newTestBuffer(e, "a"))
	if err := e.SetCurrentBuffer("missing"); err == nil {
		t.Fatal("expected error for unknown buffer")
	}
	if err := e.SetCurrentBuffer("a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCloseBufferRemovesAndPicksNewCurrent(t *testing.T) {
	e := New(nil)
	e.AddBuffer("a", newTestBuffer(e, "a"))
	e.AddBuffer("b", newTestBuffer(e, "b"))

	if err := e.CloseBuffer("a", nil); err != nil {
		t.Fatalf("CloseBuffer: %v", err)
	}
	if _, ok := e.Buffer("a"); ok {
		t.Fatal("buffer a should be gone")
	}
	if got := e.CurrentBufferName(); got != "b" {
		t.Fatalf("current buffer after closing a = %q, want b", got)
	}
}

func TestCloseBufferRefusesDirtyWithoutSaveOnClose(t *testing.T) {
	e := New(nil)
	b := newTestBuffer(e, "a")
	b.MarkDirty()
	e.AddBuffer("a", b)

	if err := e.CloseBuffer("a", nil); err == nil {
		t.Fatal("expected refusal for dirty buffer without save_on_close/allow_dirty_delete")
	}
	if _, ok := e.Buffer("a"); !ok {
		t.Fatal("buffer should still be registered after a refused close")
	}
}

func TestStatusRoundTrips(t *testing.T) {
	e := New(nil)
	e.SetStatus(StatusWarning, "disk full")
	kind, text := e.Status()
	if kind != StatusWarning || text != "disk full" {
		t.Fatalf("Status() = %v %q, want Warning \"disk full\"", kind, text)
	}
}

func TestPushPopJumpIsLIFO(t *testing.T) {
	e := New(nil)
	e.PushJump("a", position.LineColumn{Line: 1, Column: 2})
	e.PushJump("a", position.LineColumn{Line: 5, Column: 0})

	j, ok := e.PopJump()
	if !ok || j.Position.Line != 5 {
		t.Fatalf("PopJump = %+v, %v, want line 5 first", j, ok)
	}
	j, ok = e.PopJump()
	if !ok || j.Position.Line != 1 {
		t.Fatalf("PopJump = %+v, %v, want line 1 second", j, ok)
	}
	if _, ok := e.PopJump(); ok {
		t.Fatal("expected empty jump stack")
	}
}

func TestScheduleWorkDrainsFIFOAndReportsIdle(t *testing.T) {
	e := New(nil)
	var order []int
	e.ScheduleWork(func() { order = append(order, 1) })
	e.ScheduleWork(func() { order = append(order, 2) })

	idle := e.RunPendingWork()
	if !idle {
		t.Fatal("expected queue to be idle after draining")
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("order = %v, want [1 2]", order)
	}

	// A closure that schedules more work should have that work drained
	// too, within the same RunPendingWork call.
	e.ScheduleWork(func() {
		order = append(order, 3)
		e.ScheduleWork(func() { order = append(order, 4) })
	})
	e.RunPendingWork()
	if len(order) != 4 || order[3] != 4 {
		t.Fatalf("order = %v, want trailing 4", order)
	}
}

func TestConsumeRedrawClearsBits(t *testing.T) {
	e := New(nil)
	if redraw, hard := e.ConsumeRedraw(); redraw || hard {
		t.Fatal("fresh editor should not need a redraw")
	}
	e.RequestHardRedraw()
	redraw, hard := e.ConsumeRedraw()
	if !redraw || !hard {
		t.Fatal("expected both bits set after RequestHardRedraw")
	}
	redraw, hard = e.ConsumeRedraw()
	if redraw || hard {
		t.Fatal("bits should be cleared after being consumed")
	}
}

func TestApplyTransformationMarksDirtyAndPushesHistory(t *testing.T) {
	e := New(nil)
	e.AddBuffer("a", newTestBuffer(e, "a"))

	e.ApplyTransformation(&transform.InsertBuffer{Options: transform.InsertBufferOptions{
		Contents: content.FromString("hi"),
	}})

	b := e.CurrentBuffer()
	if !b.IsDirty() {
		t.Fatal("expected buffer to be marked dirty after a modifying transformation")
	}
	if got := b.Content.Get(0).String(); got != "hi" {
		t.Fatalf("content = %q, want hi", got)
	}
}

func TestUndoRedoRoundTripThroughEditor(t *testing.T) {
	e := New(nil)
	e.AddBuffer("a", newTestBuffer(e, "a"))

	e.ApplyTransformation(&transform.InsertBuffer{Options: transform.InsertBufferOptions{
		Contents: content.FromString("hi"),
	}})

	b := e.CurrentBuffer()
	if got := b.Content.Get(0).String(); got != "hi" {
		t.Fatalf("content = %q, want hi", got)
	}

	if _, err := e.Undo(history.OnlyUndoTheLast, 1); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := b.Content.Get(0).String(); got != "" {
		t.Fatalf("content after undo = %q, want empty", got)
	}

	if _, err := e.Redo(history.OnlyUndoTheLast, 1); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if got := b.Content.Get(0).String(); got != "hi" {
		t.Fatalf("content after redo = %q, want hi", got)
	}
}

func TestUndoWithNoCurrentBufferReturnsError(t *testing.T) {
	e := New(nil)
	if _, err := e.Undo(history.OnlyUndoTheLast, 1); err != history.ErrNothingToUndo {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
}

// stickyMode records whatever Structure was set on ctx.Modifiers when it
// ran, leaving Direction untouched to verify both survive across calls.
type stickyMode struct{ seen []modifiers.Structure }

func (m *stickyMode) ProcessInput(ev key.Event, ctx *input.Context) bool {
	m.seen = append(m.seen, ctx.Modifiers.Structure)
	if ev.IsRune() && ev.Rune == 'w' {
		ctx.Modifiers = ctx.Modifiers.WithStructure(modifiers.StructureWord)
	}
	return true
}

func TestProcessInputCarriesStickyModifiersBetweenKeystrokes(t *testing.T) {
	m := &stickyMode{}
	e := New(func(e *Editor, name string) input.InputMode { return m })
	e.AddBuffer("a", newTestBuffer(e, "a"))

	e.ProcessInput(key.NewRune('w'))
	e.ProcessInput(key.NewRune('d'))

	if len(m.seen) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(m.seen))
	}
	if m.seen[0] != modifiers.StructureChar {
		t.Fatalf("first call structure = %v, want StructureChar", m.seen[0])
	}
	if m.seen[1] != modifiers.StructureWord {
		t.Fatalf("second call structure = %v, want StructureWord (sticky from previous keystroke)", m.seen[1])
	}
}

// recordingMode counts ProcessInput calls, always reporting consumed.
type recordingMode struct{ calls int }

func (m *recordingMode) ProcessInput(ev key.Event, ctx *input.Context) bool {
	m.calls++
	return true
}

func TestProcessInputDispatchesToCurrentBufferMode(t *testing.T) {
	modeFor := map[string]*recordingMode{}
	e := New(func(e *Editor, name string) input.InputMode {
		m := &recordingMode{}
		modeFor[name] = m
		return m
	})
	e.AddBuffer("a", newTestBuffer(e, "a"))
	e.AddBuffer("b", newTestBuffer(e, "b"))

	e.ProcessInput(key.NewRune('x'))
	if modeFor["a"].calls != 1 {
		t.Fatalf("buffer a's mode calls = %d, want 1", modeFor["a"].calls)
	}
	if modeFor["b"].calls != 0 {
		t.Fatal("buffer b's mode should not have been invoked")
	}

	if err := e.SetCurrentBuffer("b"); err != nil {
		t.Fatalf("SetCurrentBuffer: %v", err)
	}
	e.ProcessInput(key.NewRune('y'))
	if modeFor["b"].calls != 1 {
		t.Fatalf("buffer b's mode calls = %d, want 1", modeFor["b"].calls)
	}
}

func TestRedirectModeTakesPriorityOverBufferMode(t *testing.T) {
	bufMode := &recordingMode{}
	e := New(func(e *Editor, name string) input.InputMode { return bufMode })
	e.AddBuffer("a", newTestBuffer(e, "a"))

	redirect := &recordingMode{}
	e.SetRedirectMode(redirect)
	e.ProcessInput(key.NewRune('x'))
	if redirect.calls != 1 {
		t.Fatalf("redirect calls = %d, want 1", redirect.calls)
	}
	if bufMode.calls != 0 {
		t.Fatal("buffer mode should not run while a redirect is active")
	}

	e.ClearRedirectMode()
	e.ProcessInput(key.NewRune('y'))
	if bufMode.calls != 1 {
		t.Fatalf("buffer mode calls after clearing redirect = %d, want 1", bufMode.calls)
	}
}

func TestSetModeInstallsRedirectWhenRedirectActive(t *testing.T) {
	e := New(func(e *Editor, name string) input.InputMode { return &recordingMode{} })
	e.AddBuffer("a", newTestBuffer(e, "a"))

	first := &recordingMode{}
	e.SetRedirectMode(first)

	second := &recordingMode{}
	// SetMode, called while a redirect is active (as a PromptMode would
	// when escalating to a nested confirmation), must replace the
	// redirect rather than the buffer's own mode.
	e.SetMode(second)

	e.ProcessInput(key.NewRune('z'))
	if second.calls != 1 {
		t.Fatalf("expected the new redirect to receive input, calls = %d", second.calls)
	}
}

func TestApplyTransformationAllCursorsMergesIntoSingleUndo(t *testing.T) {
	e := New(nil)
	c := content.FromLines([]line.Contents{line.New("ab", nil), line.New("ab", nil), line.New("ab", nil)})
	b := buffer.New(buffer.Options{Name: "a", Contents: c, Marks: e.Marks()})
	b.Variables.SetBool(buffer.VarMultipleCursors, true)
	e.AddBuffer("a", b)

	active := b.Cursors.Active()
	active.Clear(position.LineColumn{Line: 0, Column: 1})
	active.Add(position.LineColumn{Line: 1, Column: 1})
	active.Add(position.LineColumn{Line: 2, Column: 1})

	e.SetModifiers(e.Modifiers().WithCursorsAffected(modifiers.CursorsAll))
	e.ApplyTransformation(&transform.InsertBuffer{Options: transform.InsertBufferOptions{
		Contents: content.FromString("X"),
	}})

	for i, want := range []string{"aXb", "aXb", "aXb"} {
		if got := b.Content.Get(i).String(); got != want {
			t.Fatalf("line %d = %q, want %q", i, got, want)
		}
	}
	wantCursors := []position.LineColumn{{Line: 0, Column: 2}, {Line: 1, Column: 2}, {Line: 2, Column: 2}}
	if got := active.All(); !equalCursors(got, wantCursors) {
		t.Fatalf("cursors = %v, want %v", got, wantCursors)
	}

	if _, err := e.Undo(history.OnlyUndoTheLast, 1); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	for i, want := range []string{"ab", "ab", "ab"} {
		if got := b.Content.Get(i).String(); got != want {
			t.Fatalf("after undo line %d = %q, want %q", i, got, want)
		}
	}
	wantAfterUndo := []position.LineColumn{{Line: 0, Column: 1}, {Line: 1, Column: 1}, {Line: 2, Column: 1}}
	if got := active.All(); !equalCursors(got, wantAfterUndo) {
		t.Fatalf("cursors after undo = %v, want %v", got, wantAfterUndo)
	}
}

func equalCursors(a, b []position.LineColumn) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
