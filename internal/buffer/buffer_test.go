package buffer

import (
	"errors"
	"testing"

	"github.com/alefore/edge-sub003/internal/subprocess"
)

func subprocessOptionsEcho() subprocess.Options {
	return subprocess.Options{Command: "echo hi-from-subprocess"}
}

func subprocessOptionsSleep() subprocess.Options {
	return subprocess.Options{Command: "sleep 30"}
}

func newTestBuffer(t *testing.T) *Buffer {
	t.Helper()
	b := New(Options{Name: "scratch"})
	t.Cleanup(func() { _ = b.Close(nil) })
	return b
}

func TestNewBufferStartsCleanWithTextParser(t *testing.T) {
	b := newTestBuffer(t)
	if b.IsDirty() {
		t.Fatal("new buffer must not start dirty")
	}
	if got := b.Variables.String(VarTreeParser); got != "text" {
		t.Fatalf("default tree_parser = %q, want text", got)
	}
	if b.Content.Size() != 1 {
		t.Fatalf("fresh content size = %d, want 1", b.Content.Size())
	}
}

func TestTreeParserVariableSwapsParser(t *testing.T) {
	b := newTestBuffer(t)
	b.Variables.SetString(VarTreeParser, "diff")
	if b.lastParserName != "diff" {
		t.Fatalf("lastParserName = %q, want diff", b.lastParserName)
	}
	b.Variables.SetString(VarTreeParser, "null")
	if b.lastParserName != "null" {
		t.Fatalf("lastParserName = %q, want null", b.lastParserName)
	}
}

func TestPrepareToCloseRefusesWhenDirtyWithoutSaveOnClose(t *testing.T) {
	b := newTestBuffer(t)
	b.MarkDirty()
	ok, explanation := b.PrepareToClose()
	if ok {
		t.Fatal("expected PrepareToClose to refuse a dirty buffer")
	}
	if explanation == "" {
		t.Fatal("expected a non-empty explanation")
	}
}

func TestPrepareToCloseAllowsDirtyWithAllowDirtyDelete(t *testing.T) {
	b := newTestBuffer(t)
	b.MarkDirty()
	b.Variables.SetBool(VarAllowDirtyDelete, true)
	ok, explanation := b.PrepareToClose()
	if !ok {
		t.Fatalf("expected PrepareToClose to allow, got explanation %q", explanation)
	}
}

func TestCloseSavesWhenDirtyAndSaveOnClose(t *testing.T) {
	b := newTestBuffer(t)
	b.MarkDirty()
	b.Variables.SetBool(VarSaveOnClose, true)
	saved := false
	if err := b.Close(func() error {
		saved = true
		return nil
	}); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if !saved {
		t.Fatal("expected save callback to run")
	}
	if b.IsDirty() {
		t.Fatal("expected buffer to be clean after a successful save")
	}
}

func TestCloseDoesNotSaveWhenClean(t *testing.T) {
	b := newTestBuffer(t)
	b.Variables.SetBool(VarSaveOnClose, true)
	called := false
	if err := b.Close(func() error {
		called = true
		return nil
	}); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if called {
		t.Fatal("save should not run on a clean buffer")
	}
}

func TestCloseSurfacesSaveError(t *testing.T) {
	b := newTestBuffer(t)
	b.MarkDirty()
	b.Variables.SetBool(VarSaveOnClose, true)
	wantErr := errors.New("disk full")
	if err := b.Close(func() error { return wantErr }); !errors.Is(err, wantErr) {
		t.Fatalf("Close error = %v, want %v", err, wantErr)
	}
	if !b.IsDirty() {
		t.Fatal("buffer should remain dirty when save fails")
	}
}

func TestEnvironmentRoundTrips(t *testing.T) {
	b := newTestBuffer(t)
	if _, ok := b.Environment("missing"); ok {
		t.Fatal("expected missing name to be absent")
	}
	b.SetEnvironment("greeting", "hello")
	v, ok := b.Environment("greeting")
	if !ok || v != "hello" {
		t.Fatalf("Environment(greeting) = %v, %v", v, ok)
	}
}

func TestKeyBindingPrefersBufferLocalOverride(t *testing.T) {
	b := newTestBuffer(t)
	defaults := map[string]string{"gg": "goto-start"}
	cmd, ok := b.KeyBinding("gg", defaults)
	if !ok || cmd != "goto-start" {
		t.Fatalf("KeyBinding(gg) = %q, %v, want default", cmd, ok)
	}
	b.BindKey("gg", "custom-goto")
	cmd, ok = b.KeyBinding("gg", defaults)
	if !ok || cmd != "custom-goto" {
		t.Fatalf("KeyBinding(gg) = %q, %v, want override", cmd, ok)
	}
}

func TestRequestReloadCollapsesPendingIntoOneRestart(t *testing.T) {
	b := newTestBuffer(t)
	starts := 0
	var inner func() error
	inner = func() error {
		starts++
		if starts == 1 {
			// A reload request arriving mid-reload must not run start
			// synchronously; it should only cause one extra run after
			// this one completes.
			b.reload.RequestReload()
		}
		return nil
	}
	if err := b.RequestReload(inner); err != nil {
		t.Fatalf("RequestReload returned error: %v", err)
	}
	if starts != 2 {
		t.Fatalf("starts = %d, want 2 (initial + one collapsed restart)", starts)
	}
	if b.ReloadState() != ReloadDone {
		t.Fatalf("final state = %v, want Done", b.ReloadState())
	}
}

func TestStartSubprocessAppendsOutputLines(t *testing.T) {
	b := newTestBuffer(t)
	b.Variables.SetBool(VarCloseAfterCleanExit, true)
	done := make(chan struct{})
	opts := subprocessOptionsEcho()
	if err := b.StartSubprocess(opts, func() { close(done) }); err != nil {
		t.Fatalf("StartSubprocess: %v", err)
	}
	<-done
	found := false
	for i := 0; i < b.Content.Size(); i++ {
		if b.Content.Get(i).String() == "hi-from-subprocess" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected subprocess stdout line to be appended to content")
	}
}

func TestPrepareToCloseRefusesRunningSubprocessWithoutTermOnClose(t *testing.T) {
	b := newTestBuffer(t)
	opts := subprocessOptionsSleep()
	if err := b.StartSubprocess(opts, nil); err != nil {
		t.Fatalf("StartSubprocess: %v", err)
	}
	ok, explanation := b.PrepareToClose()
	if ok {
		t.Fatal("expected refusal while subprocess is running")
	}
	if explanation == "" {
		t.Fatal("expected explanation")
	}
}
