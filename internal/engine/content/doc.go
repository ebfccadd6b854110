// Package content implements BufferContents: an ordered, mutable sequence
// of line.Contents with length always >= 1. Every mutation synchronously
// notifies registered listeners with a MutationEvent describing the
// affected range, so that cursors can be rebased (engine/cursor) and
// reparses can be triggered (engine/parsetree).
//
// Content is grounded on the teacher's engine/buffer package (mutex-guarded
// struct, revision counter, Option constructors, Snapshot for concurrent
// readers) but is line-oriented rather than byte-rope-oriented, matching
// spec §3's BufferContents data model directly.
package content
