package statefile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alefore/edge-sub003/internal/buffer"
	"github.com/alefore/edge-sub003/internal/engine/position"
)

// Persist writes both the executable state script and its companion
// JSON snapshot for buf under edgePath, honoring buffer_variables.persist_state
// (spec §4.H: "PersistState" is a no-op, reporting success, when the
// variable is unset). pos is the buffer's current cursor position.
func Persist(edgePath []string, buf *buffer.Buffer, pos position.LineColumn) error {
	if !buf.Variables.Bool(buffer.VarPersistState) {
		return nil
	}
	if buf.Path == "" {
		return fmt.Errorf("statefile: cannot persist state for a buffer with no path")
	}

	dir, err := StateDir(edgePath, buf.Path)
	if err != nil {
		return err
	}
	if err := EnsureStateDir(dir); err != nil {
		return fmt.Errorf("statefile: mkdir %s: %w", dir, err)
	}

	script := Format(pos, buf.Variables)
	if err := os.WriteFile(filepath.Join(dir, ScriptFileName), []byte(script), 0600); err != nil {
		return fmt.Errorf("statefile: writing script: %w", err)
	}

	snapshot, err := EncodeSnapshot(buf.Variables)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, SnapshotFileName), []byte(snapshot), 0600); err != nil {
		return fmt.Errorf("statefile: writing snapshot: %w", err)
	}
	return nil
}

// ScriptPath locates the executable state script for a buffer path,
// without requiring it to exist (callers stat/evaluate it themselves).
func ScriptPath(edgePath []string, absBufferPath string) (string, error) {
	dir, err := StateDir(edgePath, absBufferPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ScriptFileName), nil
}
