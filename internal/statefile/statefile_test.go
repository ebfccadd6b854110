package statefile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alefore/edge-sub003/internal/buffer"
	"github.com/alefore/edge-sub003/internal/engine/content"
	"github.com/alefore/edge-sub003/internal/engine/position"
	"github.com/alefore/edge-sub003/internal/input"
	"github.com/alefore/edge-sub003/internal/script"
)

func TestEscapeStringRoundTrips(t *testing.T) {
	in := "line\twith\ttabs\nand \"quotes\" and \\backslashes\\"
	got := unescapeString(escapeString(in))
	if got != in {
		t.Fatalf("round trip = %q, want %q", got, in)
	}
}

func TestFormatOrdersVariableGroups(t *testing.T) {
	b := buffer.New(buffer.Options{Name: "test"})
	b.Variables.SetString(buffer.VarTreeParser, "text")
	b.Variables.SetBool(buffer.VarSaveOnClose, true)

	out := Format(position.LineColumn{Line: 3, Column: 5}, b.Variables)
	if !strings.HasPrefix(out, "buffer:set_position(LineColumn(3, 5));") {
		t.Fatalf("output does not start with set_position: %q", out)
	}
	if !strings.Contains(out, `buffer:set_tree_parser("text");`) {
		t.Fatalf("missing string variable line: %q", out)
	}
	if !strings.Contains(out, "buffer:set_save_on_close(true);") {
		t.Fatalf("missing bool variable line: %q", out)
	}
	if strings.Index(out, "set_tree_parser") > strings.Index(out, "set_save_on_close") {
		t.Fatalf("string variables should be emitted before bool variables: %q", out)
	}
}

func TestFormatEscapesStringVariables(t *testing.T) {
	b := buffer.New(buffer.Options{Name: "test"})
	b.Variables.SetString(buffer.VarChildrenPath, `a "quoted"\path`)

	out := Format(position.Zero, b.Variables)
	if !strings.Contains(out, `buffer:set_children_path("a \"quoted\"\\path");`) {
		t.Fatalf("string variable not escaped correctly: %q", out)
	}
}

func TestEncodeDecodeSnapshotRoundTrips(t *testing.T) {
	b := buffer.New(buffer.Options{Name: "test"})
	b.Variables.SetBool(buffer.VarSaveOnClose, true)
	b.Variables.SetString(buffer.VarTreeParser, "diff")

	doc, err := EncodeSnapshot(b.Variables)
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	decoded, err := DecodeSnapshot(doc)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if decoded[buffer.VarSaveOnClose] != true {
		t.Fatalf("save_on_close = %v, want true", decoded[buffer.VarSaveOnClose])
	}
	if decoded[buffer.VarTreeParser] != "diff" {
		t.Fatalf("tree_parser = %v, want diff", decoded[buffer.VarTreeParser])
	}
}

func TestPersistAndRestoreRoundTripsPosition(t *testing.T) {
	dir := t.TempDir()
	bufferPath := filepath.Join(dir, "doc.txt")

	b := buffer.New(buffer.Options{
		Name:     "test",
		Path:     bufferPath,
		Contents: content.FromString("alpha\nbeta\ngamma delta\n"),
	})
	if !b.Variables.Bool(buffer.VarPersistState) {
		t.Fatal("persist_state defaults to true")
	}

	edgePath := []string{filepath.Join(dir, "config")}
	pos := position.LineColumn{Line: 2, Column: 4}
	if err := Persist(edgePath, b, pos); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	scriptPath, err := ScriptPath(edgePath, bufferPath)
	if err != nil {
		t.Fatalf("ScriptPath: %v", err)
	}
	if _, err := os.Stat(scriptPath); err != nil {
		t.Fatalf("expected state script to exist: %v", err)
	}

	snapshotPath := filepath.Join(filepath.Dir(scriptPath), SnapshotFileName)
	if _, err := os.Stat(snapshotPath); err != nil {
		t.Fatalf("expected snapshot json to exist: %v", err)
	}

	e := script.NewEngine(script.EngineOptions{})
	defer e.Close()
	script.RegisterLineColumn(e)
	script.RegisterTransformation(e)
	script.RegisterOpenBuffer(e)

	h := script.NewBufferHandle(b, e, input.NewRegistry(), nil)
	script.PushBuffer(e, "buffer", h)

	if err := Restore(e, edgePath, bufferPath); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got := b.Cursors.Active().Current(); got != pos {
		t.Fatalf("restored position = %v, want %v", got, pos)
	}
}

func TestRestoreIsNoopWhenStateFileMissing(t *testing.T) {
	dir := t.TempDir()
	edgePath := []string{dir}

	e := script.NewEngine(script.EngineOptions{})
	defer e.Close()
	if err := Restore(e, edgePath, filepath.Join(dir, "untouched.txt")); err != nil {
		t.Fatalf("Restore on missing state file should be a no-op, got: %v", err)
	}
}

func TestPersistSkipsWhenPersistStateDisabled(t *testing.T) {
	dir := t.TempDir()
	bufferPath := filepath.Join(dir, "doc.txt")
	b := buffer.New(buffer.Options{Name: "test", Path: bufferPath})
	b.Variables.SetBool(buffer.VarPersistState, false)

	edgePath := []string{filepath.Join(dir, "config")}
	if err := Persist(edgePath, b, position.Zero); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	scriptPath, _ := ScriptPath(edgePath, bufferPath)
	if _, err := os.Stat(scriptPath); err == nil {
		t.Fatal("expected no state file to be written when persist_state is false")
	}
}
