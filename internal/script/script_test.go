package script

import (
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/alefore/edge-sub003/internal/buffer"
	"github.com/alefore/edge-sub003/internal/engine/line"
	"github.com/alefore/edge-sub003/internal/input"
	"github.com/alefore/edge-sub003/internal/input/key"
)

func zeroEvent() key.Event { return key.NewRune('g') }

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(EngineOptions{})
	t.Cleanup(e.Close)
	RegisterLineColumn(e)
	RegisterTransformation(e)
	RegisterOpenBuffer(e)
	return e
}

func newTestBufferHandle(t *testing.T, e *Engine, lines ...string) *BufferHandle {
	t.Helper()
	b := buffer.New(buffer.Options{Name: "test"})
	for i, l := range lines {
		if i == 0 {
			_ = b.Content.SetLine(0, line.New(l, nil))
			continue
		}
		_ = b.Content.InsertLine(i, line.New(l, nil))
	}
	h := NewBufferHandle(b, e, input.NewRegistry(), nil)
	PushBuffer(e, "buffer", h)
	return h
}

func TestDoStringEvaluatesArithmetic(t *testing.T) {
	e := newTestEngine(t)
	if err := e.DoString("x = 1 + 2"); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if got := e.LuaState().GetGlobal("x"); got.String() != "3" {
		t.Fatalf("x = %v, want 3", got)
	}
}

func TestDoStringRecoversFromLuaPanic(t *testing.T) {
	e := newTestEngine(t)
	if err := e.DoString("error('boom')"); err == nil {
		t.Fatal("expected an error from a Lua-level error() call")
	}
}

func TestLineColumnRoundTrips(t *testing.T) {
	e := newTestEngine(t)
	if err := e.DoString(`
		lc = LineColumn(3, 5)
		ok = (lc:line() == 3) and (lc:column() == 5)
	`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if got := e.LuaState().GetGlobal("ok"); got != lua.LTrue {
		t.Fatalf("ok = %v, want true", got)
	}
}

func TestBufferLineCountAndLine(t *testing.T) {
	e := newTestEngine(t)
	newTestBufferHandle(t, e, "alpha", "beta")

	if err := e.DoString(`
		count = buffer:line_count()
		first = buffer:line(0)
	`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if got := e.LuaState().GetGlobal("count"); got.String() != "2" {
		t.Fatalf("count = %v, want 2", got)
	}
	if got := e.LuaState().GetGlobal("first"); got.String() != "alpha" {
		t.Fatalf("first = %q, want alpha", got.String())
	}
}

func TestBufferInsertTextAppliesTransformation(t *testing.T) {
	e := newTestEngine(t)
	h := newTestBufferHandle(t, e, "")

	if err := e.DoString(`buffer:insert_text("hello")`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if got := h.buf.Content.Get(0).String(); got != "hello" {
		t.Fatalf("content = %q, want hello", got)
	}
	if !h.buf.IsDirty() {
		t.Fatal("expected buffer to be marked dirty")
	}
}

func TestBufferApplyTransformationSequence(t *testing.T) {
	e := newTestEngine(t)
	h := newTestBufferHandle(t, e, "")

	if err := e.DoString(`
		t = transform.sequence(transform.insert_text("ab"), transform.insert_text("cd"))
		buffer:apply_transformation(t)
	`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if got := h.buf.Content.Get(0).String(); got != "abcd" {
		t.Fatalf("content = %q, want abcd", got)
	}
}

func TestBufferPushPopTransformationStackCollapsesUndoEntry(t *testing.T) {
	e := newTestEngine(t)
	h := newTestBufferHandle(t, e, "")

	if err := e.DoString(`
		buffer:push_transformation_stack()
		buffer:insert_text("a")
		buffer:insert_text("b")
		buffer:pop_transformation_stack()
	`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if got := h.buf.Content.Get(0).String(); got != "ab" {
		t.Fatalf("content = %q, want ab", got)
	}
	if h.buf.History.PastLen() != 1 {
		t.Fatalf("History.PastLen() = %d, want 1 (push/pop should collapse to one entry)", h.buf.History.PastLen())
	}
}

func TestBufferMapUppercasesEveryLine(t *testing.T) {
	e := newTestEngine(t)
	h := newTestBufferHandle(t, e, "a", "b")

	if err := e.DoString(`
		buffer:map(function(line) return string.upper(line) end)
	`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if got := h.buf.Content.Get(0).String(); got != "A" {
		t.Fatalf("line 0 = %q, want A", got)
	}
	if got := h.buf.Content.Get(1).String(); got != "B" {
		t.Fatalf("line 1 = %q, want B", got)
	}
}

func TestBufferFilterRemovesNonMatchingLines(t *testing.T) {
	e := newTestEngine(t)
	h := newTestBufferHandle(t, e, "keep", "drop", "keep2")

	if err := e.DoString(`
		buffer:filter(function(line) return line ~= "drop" end)
	`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if got := h.buf.Content.Size(); got != 2 {
		t.Fatalf("Content.Size() = %d, want 2", got)
	}
	if got := h.buf.Content.Get(0).String(); got != "keep" {
		t.Fatalf("line 0 = %q, want keep", got)
	}
	if got := h.buf.Content.Get(1).String(); got != "keep2" {
		t.Fatalf("line 1 = %q, want keep2", got)
	}
}

func TestBufferVariableAccessorsRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	h := newTestBufferHandle(t, e, "")

	if err := e.DoString(`
		buffer:set_save_on_close(true)
		result = buffer:save_on_close()
	`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if got := e.LuaState().GetGlobal("result"); got != lua.LTrue {
		t.Fatalf("result = %v, want true", got)
	}
	if !h.buf.Variables.Bool(buffer.VarSaveOnClose) {
		t.Fatal("expected save_on_close to be set on the underlying Variables bag")
	}
}

func TestBufferAddBindingRegistersScriptCommand(t *testing.T) {
	e := newTestEngine(t)
	h := newTestBufferHandle(t, e, "")

	if err := e.DoString(`
		hits = 0
		buffer:add_binding("g g", "go to top", function() hits = hits + 1 end)
	`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	cmd, ok := h.registry.Lookup("g g")
	if !ok {
		t.Fatal("expected a binding registered under 'g g'")
	}
	if err := cmd.ProcessInput(zeroEvent(), input.NewContext(nil)); err != nil {
		t.Fatalf("ProcessInput: %v", err)
	}
	if got := e.LuaState().GetGlobal("hits"); got.String() != "1" {
		t.Fatalf("hits = %v, want 1", got)
	}
}
