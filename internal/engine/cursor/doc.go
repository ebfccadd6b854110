// Package cursor implements CursorsTracker (spec §4.C): named, sorted
// multisets of cursor positions, a distinguished active set, a save/restore
// stack of active sets, and rebasing of every cursor when the owning
// buffer's content mutates.
//
// Grounded on the teacher's engine/cursor package (CursorSet: sorted,
// normalized slice of positions with a "primary" entry) generalized from
// single selections to the spec's named-set-plus-active-stack model.
package cursor
