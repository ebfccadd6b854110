package history

import (
	"time"

	"github.com/alefore/edge-sub003/internal/engine/transform"
)

// entry wraps a transformation with metadata needed to decide whether it
// counts toward a repetition-bounded undo/redo (spec §4.F).
type entry struct {
	transform transform.Transformation
	modified  bool
	timestamp time.Time
}

// Mode selects how Undo/Redo consumes Repetitions (spec §4.F).
type Mode uint8

const (
	// SkipIrrelevant undoes/redoes entries until Repetitions entries that
	// modified the buffer have been processed, or the stack is exhausted.
	// Pure cursor-move entries in between are still undone; they just
	// don't count toward the quota.
	SkipIrrelevant Mode = iota
	// OnlyUndoTheLast always undoes/redoes exactly one entry, regardless
	// of whether it modified the buffer.
	OnlyUndoTheLast
)
