package defaultmode

import (
	"fmt"
	"os"

	"github.com/alefore/edge-sub003/internal/buffer"
)

// saveBuffer writes buf's content to its path and clears the dirty
// flag (spec §4.H), the same write-whole-file strategy as
// original_source/src/save_buffer_command.cc.
func saveBuffer(buf *buffer.Buffer) error {
	if buf == nil {
		return fmt.Errorf("defaultmode: no current buffer to save")
	}
	if buf.Path == "" {
		return fmt.Errorf("defaultmode: buffer %q has no path to save to", buf.Name)
	}
	if err := os.WriteFile(buf.Path, []byte(buf.Content.String()), 0644); err != nil {
		return err
	}
	buf.ClearDirty()
	return nil
}
