package statefile

import (
	"os"

	"github.com/alefore/edge-sub003/internal/script"
)

// Restore evaluates the persisted-state script for absBufferPath, if
// one exists, against e with h already pushed as the global "buffer"
// (spec §6: the state file is itself a script targeting OpenBuffer).
// A missing state file is not an error: most buffers have never been
// persisted before.
func Restore(e *script.Engine, edgePath []string, absBufferPath string) error {
	path, err := ScriptPath(edgePath, absBufferPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return e.DoFile(path)
}
