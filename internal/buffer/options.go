package buffer

import (
	"github.com/alefore/edge-sub003/internal/engine/content"
	"github.com/alefore/edge-sub003/internal/engine/marks"
)

// Options configures New (spec §4.H "Construction").
type Options struct {
	Name string
	Path string

	// Initial contents; nil starts with a single empty line.
	Contents *content.Content

	// TreeDepth bounds the parse-tree zoom level (forwarded to
	// parsetree.Engine).
	TreeDepth int

	// MaxUndoEntries bounds history.History; 0 uses its default.
	MaxUndoEntries int

	// Marks is the editor-wide mark table every buffer shares.
	Marks *marks.Table
}
