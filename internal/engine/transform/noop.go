package transform

import (
	"github.com/alefore/edge-sub003/internal/engine/content"
	"github.com/alefore/edge-sub003/internal/engine/position"
)

// noop is an undo placeholder for transformations that made no mutation
// (e.g. a PreserveContents "yank").
type noop struct{}

func (t *noop) Clone() Transformation { return &noop{} }

func (t *noop) Apply(r *Result) {
	r.Success = true
	r.MadeProgress = false
	r.ModifiedBuffer = false
	r.UndoStack.Push(&noop{})
}

// appendToDeleteBuffer appends extracted's text onto the end of
// r.DeleteBuffer, creating it empty on first use.
func appendToDeleteBuffer(r *Result, extracted *content.Content) {
	if r.DeleteBuffer == nil {
		r.DeleteBuffer = content.New()
	}
	last := r.DeleteBuffer.Size() - 1
	end := position.LineColumn{Line: last, Column: r.DeleteBuffer.Get(last).Length()}
	insertSpanAt(r.DeleteBuffer, end, extracted)
}
