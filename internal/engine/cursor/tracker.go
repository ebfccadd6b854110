package cursor

import (
	"sync"

	"github.com/alefore/edge-sub003/internal/engine/content"
	"github.com/alefore/edge-sub003/internal/engine/position"
)

// Tracker owns every named CursorsSet for one buffer, a distinguished
// active set, and a stack of saved active sets (push/pop), per spec
// §3/§4.C. It registers itself as a content.Listener on construction so
// every mutation rebases all known sets.
type Tracker struct {
	mu          sync.Mutex
	sets        map[string]*Set
	activeName  string
	stack       []string // saved active-set names, most recent last
	delayDepth  int
	pendingEvts []content.MutationEvent
}

const defaultSetName = "default"

// NewTracker creates a tracker with a single "default" set containing one
// cursor at the origin, registered against c so it rebases on every
// mutation.
func NewTracker(c *content.Content) *Tracker {
	t := &Tracker{
		sets:       map[string]*Set{defaultSetName: NewSet(position.Zero)},
		activeName: defaultSetName,
	}
	c.AddListener(t.onMutation)
	return t
}

// FindOrCreate returns the named set, creating an empty one (single
// cursor at the origin) if it doesn't exist yet.
func (t *Tracker) FindOrCreate(name string) *Set {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.findOrCreateLocked(name)
}

func (t *Tracker) findOrCreateLocked(name string) *Set {
	s, ok := t.sets[name]
	if !ok {
		s = NewSet(position.Zero)
		t.sets[name] = s
	}
	return s
}

// Active returns the currently-active set.
func (t *Tracker) Active() *Set {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.findOrCreateLocked(t.activeName)
}

// ActiveName returns the name of the currently-active set.
func (t *Tracker) ActiveName() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.activeName
}

// SetActive switches which named set is active, creating it if absent.
func (t *Tracker) SetActive(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.findOrCreateLocked(name)
	t.activeName = name
}

// PushActive saves the current active set name on the stack and switches
// to name (creating it if absent). Used for the alternate-cursor-stack
// feature (e.g. toggling to a "search results" cursor set temporarily).
func (t *Tracker) PushActive(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stack = append(t.stack, t.activeName)
	t.findOrCreateLocked(name)
	t.activeName = name
}

// PopActive restores the previously-saved active set name. No-op if the
// stack is empty.
func (t *Tracker) PopActive() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.stack) == 0 {
		return
	}
	t.activeName = t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
}

// ApplyToCursors invokes fn for each cursor in set, replacing it with fn's
// return value; the set is re-sorted afterward and its "current" marker
// follows the position that was current beforehand.
func (t *Tracker) ApplyToCursors(s *Set, fn func(old position.LineColumn) position.LineColumn) {
	s.Map(fn)
}

// DelayToken is returned by DelayTransformations; releasing it (Release)
// flushes any mutation events accumulated while rebasing was batched.
type DelayToken struct {
	t *Tracker
}

// Release ends the delay period, applying the accumulated rebase in one
// pass. Safe to call more than once.
func (d *DelayToken) Release() {
	if d == nil || d.t == nil {
		return
	}
	t := d.t
	d.t = nil

	t.mu.Lock()
	t.delayDepth--
	if t.delayDepth > 0 {
		t.mu.Unlock()
		return
	}
	events := t.pendingEvts
	t.pendingEvts = nil
	t.mu.Unlock()

	for _, ev := range events {
		t.rebase(ev)
	}
}

// DelayTransformations returns a scoped token. While any token returned
// by this method remains unreleased, rebases are accumulated rather than
// applied immediately; the last Release() applies them all in order.
func (t *Tracker) DelayTransformations() *DelayToken {
	t.mu.Lock()
	t.delayDepth++
	t.mu.Unlock()
	return &DelayToken{t: t}
}

// onMutation is registered as a content.Listener; it rebases every known
// cursor set for the given mutation (or queues it, if delayed).
func (t *Tracker) onMutation(ev content.MutationEvent) {
	t.mu.Lock()
	if t.delayDepth > 0 {
		t.pendingEvts = append(t.pendingEvts, ev)
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()
	t.rebase(ev)
}

func (t *Tracker) rebase(ev content.MutationEvent) {
	t.mu.Lock()
	sets := make([]*Set, 0, len(t.sets))
	for _, s := range t.sets {
		sets = append(sets, s)
	}
	t.mu.Unlock()

	for _, s := range sets {
		s.Map(func(p position.LineColumn) position.LineColumn {
			return rebasePosition(p, ev)
		})
	}
}

// rebasePosition applies the rebasing rules of spec §4.C to a single
// cursor position for a single mutation event.
func rebasePosition(p position.LineColumn, ev content.MutationEvent) position.LineColumn {
	switch ev.Kind {
	case content.MutationInsertLines:
		n := ev.LastLine - ev.FirstLine
		if ev.Column > 0 && p.Line == ev.FirstLine-1 {
			// SplitLine: cursors past the split column move to the new line.
			if p.Column >= ev.Column {
				return position.LineColumn{Line: ev.FirstLine, Column: p.Column - ev.Column}
			}
			return p
		}
		if p.Line >= ev.FirstLine {
			return position.LineColumn{Line: p.Line + n, Column: p.Column}
		}
		return p

	case content.MutationDeleteLines:
		n := ev.LastLine - ev.FirstLine
		if ev.Column > 0 && p.Line == ev.FirstLine {
			// FoldNextLine: cursors on the absorbed line move into the
			// line that swallowed it, column offset by its prior length.
			return position.LineColumn{Line: ev.FirstLine - 1, Column: ev.Column + p.Column}
		}
		switch {
		case p.Line < ev.FirstLine:
			return p
		case p.Line < ev.LastLine:
			return position.LineColumn{Line: ev.FirstLine, Column: 0}
		default:
			return position.LineColumn{Line: p.Line - n, Column: p.Column}
		}

	case content.MutationModifyLine:
		if p.Line != ev.FirstLine || ev.ColumnDelta == 0 {
			return p
		}
		if ev.ColumnDelta > 0 {
			// Insertion: columns at or after the insertion point advance.
			if p.Column >= ev.Column {
				return position.LineColumn{Line: p.Line, Column: p.Column + ev.ColumnDelta}
			}
			return p
		}
		// Deletion: [Column, Column-ColumnDelta) removed.
		deletedEnd := ev.Column - ev.ColumnDelta
		switch {
		case p.Column <= ev.Column:
			return p
		case p.Column < deletedEnd:
			return position.LineColumn{Line: p.Line, Column: ev.Column}
		default:
			return position.LineColumn{Line: p.Line, Column: p.Column + ev.ColumnDelta}
		}
	}
	return p
}
