package transform

import (
	"sort"

	"github.com/alefore/edge-sub003/internal/engine/content"
	"github.com/alefore/edge-sub003/internal/engine/position"
	"github.com/alefore/edge-sub003/internal/modifiers"
)

// Move advances the cursor by one unit of Modifiers.Structure,
// Modifiers.Repetitions times, in Modifiers.Direction (spec §4.E.6).
// char/word/symbol/line delegate to the structure's seek primitives;
// page derives its distance from the view size frozen in Result at the
// start of the operation; mark walks the mark table for the current
// buffer; buffer asks the owning editor (via Result.SwitchBuffer) to
// change the active buffer. tree/search/cursor structures require
// editor-wide state this package does not have access to and report
// MadeProgress=false.
type Move struct {
	Modifiers modifiers.Modifiers
}

func (t *Move) Clone() Transformation {
	return &Move{Modifiers: t.Modifiers}
}

// GetModifiers and SetModifiers implement ModifiersCarrier, letting
// SetRepetitions/WithDirection/WithStructure override this transformation's
// behavior for a single Apply call.
func (t *Move) GetModifiers() modifiers.Modifiers  { return t.Modifiers }
func (t *Move) SetModifiers(m modifiers.Modifiers) { t.Modifiers = m }

func (t *Move) Apply(r *Result) {
	origin := r.Cursor
	reps := t.Modifiers.Repetitions
	if reps < 1 {
		reps = 1
	}

	switch t.Modifiers.Structure {
	case modifiers.StructureChar, modifiers.StructureWord, modifiers.StructureSymbol:
		r.Cursor = moveBySeeker(r.Content, t.Modifiers.Structure, t.Modifiers.Direction, reps, origin)

	case modifiers.StructureLine:
		cur := origin
		for i := 0; i < reps; i++ {
			if t.Modifiers.Direction == modifiers.Forwards {
				if cur.Line+1 >= r.Content.Size() {
					break
				}
				cur.Line++
			} else {
				if cur.Line == 0 {
					break
				}
				cur.Line--
			}
		}
		r.Cursor = position.AdjustLineColumn(r.Content, position.LineColumn{Line: cur.Line, Column: origin.Column})

	case modifiers.StructurePage:
		n := r.PageLineCount()*reps - 1
		cur := origin
		if t.Modifiers.Direction == modifiers.Forwards {
			cur.Line += n
			if last := r.Content.Size() - 1; cur.Line > last {
				cur.Line = last
			}
		} else {
			cur.Line -= n
			if cur.Line < 0 {
				cur.Line = 0
			}
		}
		r.Cursor = position.AdjustLineColumn(r.Content, position.LineColumn{Line: cur.Line, Column: origin.Column})

	case modifiers.StructureMark:
		if r.Marks == nil {
			r.Success = false
			r.MadeProgress = false
			r.UndoStack.Push(&noop{})
			return
		}
		r.Cursor = moveByMarks(r, reps, t.Modifiers.Direction, origin)

	case modifiers.StructureBuffer:
		ok := false
		if r.SwitchBuffer != nil {
			for i := 0; i < reps; i++ {
				if !r.SwitchBuffer(t.Modifiers.Direction) {
					break
				}
				ok = true
			}
		}
		r.Success = ok
		r.MadeProgress = ok
		r.ModifiedBuffer = false
		r.UndoStack.Push(&noop{})
		return

	default:
		r.Success = false
		r.MadeProgress = false
		r.UndoStack.Push(&noop{})
		return
	}

	r.Success = true
	r.MadeProgress = r.Cursor != origin
	r.ModifiedBuffer = false
	r.UndoStack.Push(&GotoPosition{Pos: origin})
}

func moveBySeeker(c *content.Content, structure modifiers.Structure, dir modifiers.Direction, reps int, origin position.LineColumn) position.LineColumn {
	seeker := modifiers.SeekerFor(structure)
	cur := origin
	for i := 0; i < reps; i++ {
		before := cur
		seeker.SeekToNext(c, dir, &cur)
		if cur == before {
			break
		}
	}
	return cur
}

// moveByMarks steps through the distinct target positions of unexpired
// marks targeting r.BufferName, walking forward (ascending target position) or backward
// (descending), matching spec's "upper_bound over the target-buffer mark
// map (forward) or its reverse (backward)".
func moveByMarks(r *Result, reps int, dir modifiers.Direction, origin position.LineColumn) position.LineColumn {
	all := r.Marks.GetMarksForTargetBuffer(r.BufferName)
	positions := make([]position.LineColumn, 0, len(all))
	seen := map[position.LineColumn]bool{}
	for _, m := range all {
		if m.Expired || seen[m.Target] {
			continue
		}
		seen[m.Target] = true
		positions = append(positions, m.Target)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].Less(positions[j]) })

	cur := origin
	for i := 0; i < reps; i++ {
		next, ok := nextMarkPosition(positions, cur, dir)
		if !ok {
			break
		}
		cur = next
	}
	return cur
}

func nextMarkPosition(positions []position.LineColumn, cur position.LineColumn, dir modifiers.Direction) (position.LineColumn, bool) {
	if dir == modifiers.Forwards {
		for _, p := range positions {
			if cur.Less(p) {
				return p, true
			}
		}
		return position.LineColumn{}, false
	}
	for i := len(positions) - 1; i >= 0; i-- {
		if positions[i].Less(cur) {
			return positions[i], true
		}
	}
	return position.LineColumn{}, false
}
