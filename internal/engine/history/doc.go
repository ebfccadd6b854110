// Package history implements UndoHistory (spec §4.F): two stacks, past and
// future, of transform.Transformation values representing applied edits'
// inverses. Undo pops from past, applies the stored inverse, and pushes the
// inverse that application itself produces onto future; redo is the mirror.
package history
