package history

import (
	"errors"
	"sync"
	"time"

	"github.com/alefore/edge-sub003/internal/engine/transform"
)

// Errors mirrored from keystorm's history package (§4.F has no named error
// values, but every call site needs to distinguish "stack empty" from a
// transformation that itself failed).
var (
	ErrNothingToUndo = errors.New("history: nothing to undo")
	ErrNothingToRedo = errors.New("history: nothing to redo")
)

const defaultMaxEntries = 1000

// History holds a buffer's past/future transformation stacks (spec §4.F).
// Applying a new transformation (Push) clears future. Grouping lets several
// Push calls collapse into one undo/redo unit (spec's "push_transformation_stack
// ... pop_transformation_stack" grouping, nestable via a depth counter).
type History struct {
	mu sync.Mutex

	past   []entry
	future []entry

	groupDepth   int
	groupEntries []entry

	maxEntries int
}

// New creates a History bounded to maxEntries past entries (0 or negative
// uses a 1000-entry default, matching the teacher's NewHistory).
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Push records t (the inverse of a just-applied transformation) as a new
// past entry, clearing future. While a group is open, the entry is
// accumulated into the group instead of pushed directly.
func (h *History) Push(t transform.Transformation, modifiedBuffer bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e := entry{transform: t, modified: modifiedBuffer, timestamp: time.Now()}
	if h.groupDepth > 0 {
		h.groupEntries = append(h.groupEntries, e)
		return
	}
	h.pushLocked(e)
}

func (h *History) pushLocked(e entry) {
	h.past = append(h.past, e)
	h.future = nil

	if len(h.past) > h.maxEntries {
		excess := len(h.past) - h.maxEntries
		h.past = h.past[excess:]
	}
}

// BeginGroup opens (or, if already open, nests inside) a group; every Push
// until the matching EndGroup accumulates into one compound entry instead
// of going straight onto past.
func (h *History) BeginGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.groupDepth++
}

// EndGroup closes the innermost group. At depth 0 the accumulated entries
// collapse into a single past entry wrapping a transform.TransformationStack
// of their inverses, applied in reverse of push order so the last edit is
// undone first (spec's "pop_transformation_stack stores the group as
// last_transformation").
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.groupDepth == 0 {
		return
	}
	h.groupDepth--
	if h.groupDepth > 0 {
		return
	}

	if len(h.groupEntries) == 0 {
		return
	}
	ts := make([]transform.Transformation, len(h.groupEntries))
	modified := false
	for i, e := range h.groupEntries {
		ts[len(ts)-1-i] = e.transform
		modified = modified || e.modified
	}
	h.groupEntries = nil
	h.pushLocked(entry{
		transform: transform.NewTransformationStack(ts...),
		modified:  modified,
		timestamp: time.Now(),
	})
}

// CancelGroup discards the group being accumulated without recording
// anything in past. Entries already applied to the buffer remain applied;
// only their undo bookkeeping is dropped.
func (h *History) CancelGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.groupDepth = 0
	h.groupEntries = nil
}

// IsGrouping reports whether a group is currently open.
func (h *History) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.groupDepth > 0
}

// CanUndo reports whether past holds at least one entry.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.past) > 0
}

// CanRedo reports whether future holds at least one entry.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.future) > 0
}

// PastLen and FutureLen report stack depths, used by tests and by a status
// line that shows undo availability.
func (h *History) PastLen() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.past)
}

func (h *History) FutureLen() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.future)
}

// Undo pops entries from past, applying each one's stored inverse
// against r and pushing the freshly captured inverse onto future,
// until repetitions modifying entries have been undone (OnlyUndoTheLast
// always stops after exactly one, regardless of repetitions). Returns
// ErrNothingToUndo if past is empty before anything is undone.
func (h *History) Undo(quantifier Mode, repetitions int, r *transform.Result) error {
	return h.move(quantifier, repetitions, r, true)
}

// Redo is the mirror of Undo, walking future back onto past.
func (h *History) Redo(quantifier Mode, repetitions int, r *transform.Result) error {
	return h.move(quantifier, repetitions, r, false)
}

func (h *History) move(quantifier Mode, repetitions int, r *transform.Result, undo bool) error {
	if repetitions <= 0 {
		repetitions = 1
	}
	target := repetitions
	if quantifier == OnlyUndoTheLast {
		target = 1
	}

	applied := 0
	counted := 0
	for counted < target {
		e, ok := h.pop(undo)
		if !ok {
			if applied == 0 {
				if undo {
					return ErrNothingToUndo
				}
				return ErrNothingToRedo
			}
			return nil
		}

		r.UndoStack = transform.NewStack()
		e.transform.Apply(r)
		h.push(undo, entry{transform: r.UndoStack.AsTransformation(), modified: e.modified, timestamp: time.Now()})

		applied++
		if quantifier == OnlyUndoTheLast || e.modified {
			counted++
		}
	}
	return nil
}

// pop removes and returns the most recent entry from past (undo=true)
// or future (undo=false).
func (h *History) pop(undo bool) (entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	stack := &h.past
	if !undo {
		stack = &h.future
	}
	if len(*stack) == 0 {
		return entry{}, false
	}
	idx := len(*stack) - 1
	e := (*stack)[idx]
	*stack = (*stack)[:idx]
	return e, true
}

// push appends e onto future (undo=true, mirroring the just-undone
// entry) or past (undo=false, a redo).
func (h *History) push(undo bool, e entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if undo {
		h.future = append(h.future, e)
	} else {
		h.past = append(h.past, e)
	}
}

// Clear drops all history and any in-progress group.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.past = nil
	h.future = nil
	h.groupDepth = 0
	h.groupEntries = nil
}
