package statefile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// ScriptFileName is the executable persisted-state script (spec §6).
	ScriptFileName = ".edge_state"
	// SnapshotFileName is the companion JSON side-channel.
	SnapshotFileName = ".edge_state.json"
)

// StateDir returns the directory a buffer opened at absBufferPath
// persists its state under, rooted at the first entry of $EDGE_PATH
// (original_source/src/buffer.cc only ever consults path_vector[0]).
func StateDir(edgePath []string, absBufferPath string) (string, error) {
	if len(edgePath) == 0 {
		return "", fmt.Errorf("statefile: empty EDGE_PATH")
	}
	if !strings.HasPrefix(absBufferPath, "/") {
		return "", fmt.Errorf("statefile: buffer path %q is not absolute", absBufferPath)
	}
	return filepath.Join(edgePath[0], "state", absBufferPath), nil
}

// EnsureStateDir creates dir (and any missing parents) with the
// restrictive permissions original_source uses for state directories.
func EnsureStateDir(dir string) error {
	return os.MkdirAll(dir, 0700)
}
