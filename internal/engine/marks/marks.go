package marks

import (
	"sync"

	"github.com/alefore/edge-sub003/internal/engine/position"
)

// Mark links a line in a source buffer to a position in a target buffer.
type Mark struct {
	SourceBuffer string
	SourceLine   int
	TargetBuffer string
	Target       position.LineColumn
	Expired      bool
}

// Table is the global mark index: searchable by target buffer name and by
// source buffer name. Safe for concurrent use.
type Table struct {
	mu        sync.Mutex
	byTarget  map[string][]*Mark
	bySource  map[string][]*Mark
	updateCtr uint64
}

// NewTable creates an empty mark table.
func NewTable() *Table {
	return &Table{
		byTarget: make(map[string][]*Mark),
		bySource: make(map[string][]*Mark),
	}
}

// AddMark registers m in both indices and bumps the update counter.
func (t *Table) AddMark(m *Mark) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byTarget[m.TargetBuffer] = append(t.byTarget[m.TargetBuffer], m)
	t.bySource[m.SourceBuffer] = append(t.bySource[m.SourceBuffer], m)
	t.updateCtr++
}

// ExpireMarksFromSource flags every mark whose SourceBuffer equals name
// as expired, without removing it. Call this before reloading a source
// buffer so dependent views can grey out stale marks during the reload.
func (t *Table) ExpireMarksFromSource(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, m := range t.bySource[name] {
		m.Expired = true
	}
	t.updateCtr++
}

// RemoveExpiredMarksFromSource removes every expired mark whose
// SourceBuffer equals name. Per spec §9 (Open questions), callers must
// invoke this only after the source buffer has signaled end-of-file for
// the reload, to resolve the race between reload completion and mark
// removal in favor of the source buffer's EOF.
func (t *Table) RemoveExpiredMarksFromSource(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.bySource[name][:0]
	for _, m := range t.bySource[name] {
		if m.Expired {
			t.removeFromTargetLocked(m)
			continue
		}
		kept = append(kept, m)
	}
	if len(kept) == 0 {
		delete(t.bySource, name)
	} else {
		t.bySource[name] = kept
	}
	t.updateCtr++
}

func (t *Table) removeFromTargetLocked(m *Mark) {
	marks := t.byTarget[m.TargetBuffer]
	for i, candidate := range marks {
		if candidate == m {
			t.byTarget[m.TargetBuffer] = append(marks[:i], marks[i+1:]...)
			break
		}
	}
}

// GetMarksForTargetBuffer returns every mark (expired or not) targeting
// the named buffer.
func (t *Table) GetMarksForTargetBuffer(name string) []*Mark {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Mark, len(t.byTarget[name]))
	copy(out, t.byTarget[name])
	return out
}

// UpdateCounter returns the monotonic counter bumped on every table
// change; buffers cache a line->marks view keyed by this counter.
func (t *Table) UpdateCounter() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updateCtr
}

// LineIndex is a buffer-local cache mapping a line number to the marks
// targeting it, rebuilt lazily whenever the owning Table's update counter
// advances.
type LineIndex struct {
	table        *Table
	targetBuffer string

	builtAt uint64
	byLine  map[int][]*Mark
}

// NewLineIndex creates a cache for the given target buffer name.
func NewLineIndex(table *Table, targetBuffer string) *LineIndex {
	return &LineIndex{table: table, targetBuffer: targetBuffer}
}

// MarksForLine returns the marks targeting the given line, rebuilding the
// cache first if the global table has changed since the last build.
func (li *LineIndex) MarksForLine(line int) []*Mark {
	current := li.table.UpdateCounter()
	if li.byLine == nil || current != li.builtAt {
		li.rebuild(current)
	}
	return li.byLine[line]
}

func (li *LineIndex) rebuild(at uint64) {
	li.byLine = make(map[int][]*Mark)
	for _, m := range li.table.GetMarksForTargetBuffer(li.targetBuffer) {
		li.byLine[m.Target.Line] = append(li.byLine[m.Target.Line], m)
	}
	li.builtAt = at
}
