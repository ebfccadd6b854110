package history

import "github.com/alefore/edge-sub003/internal/engine/transform"

type stackDirection uint8

const (
	undoDirection stackDirection = iota
	redoDirection
)

// Undo pops entries from past, applies each one's stored inverse to r, and
// pushes the inverse that application itself produces onto future (spec
// §4.F). repetitions is clamped to a minimum of 1.
func (h *History) Undo(mode Mode, repetitions int, r *transform.Result) error {
	if !h.transfer(undoDirection, mode, repetitions, r) {
		return ErrNothingToUndo
	}
	return nil
}

// Redo is the mirror of Undo, popping from future and pushing back onto
// past.
func (h *History) Redo(mode Mode, repetitions int, r *transform.Result) error {
	if !h.transfer(redoDirection, mode, repetitions, r) {
		return ErrNothingToRedo
	}
	return nil
}

// transfer implements both Undo and Redo: they are the same algorithm
// popping from one stack and pushing to the other, with the direction
// reversed (spec §4.F: "redo is the mirror with direction reversed"). It
// reports whether at least one entry was applied.
func (h *History) transfer(dir stackDirection, mode Mode, repetitions int, r *transform.Result) bool {
	if repetitions < 1 {
		repetitions = 1
	}

	appliedAny := false
	countedModifying := 0
	for {
		if mode == OnlyUndoTheLast && appliedAny {
			break
		}
		if mode == SkipIrrelevant && countedModifying >= repetitions {
			break
		}

		e, ok := h.popSource(dir)
		if !ok {
			break
		}

		// Each application gets a fresh undo stack so the inverse it
		// records is exactly this one application's, not an
		// accumulation across the loop's iterations.
		r.UndoStack = transform.NewStack()
		e.transform.Apply(r)
		appliedAny = true
		if e.modified {
			countedModifying++
		}

		h.pushTarget(dir, entry{
			transform: r.UndoStack.AsTransformation(),
			modified:  r.ModifiedBuffer,
			timestamp: e.timestamp,
		})
	}

	return appliedAny
}

func (h *History) popSource(dir stackDirection) (entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var source *[]entry
	if dir == undoDirection {
		source = &h.past
	} else {
		source = &h.future
	}
	n := len(*source)
	if n == 0 {
		return entry{}, false
	}
	e := (*source)[n-1]
	*source = (*source)[:n-1]
	return e, true
}

func (h *History) pushTarget(dir stackDirection, e entry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if dir == undoDirection {
		h.future = append(h.future, e)
	} else {
		h.past = append(h.past, e)
	}
}
