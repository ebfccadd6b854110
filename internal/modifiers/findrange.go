package modifiers

import (
	"github.com/alefore/edge-sub003/internal/engine/content"
	"github.com/alefore/edge-sub003/internal/engine/position"
)

// FindPartialRange derives the Range a region-scoped transformation
// (Delete, SwitchCase, ...) should act on, given a cursor position and a
// Modifiers bundle (spec §4.J).
//
// Resolution of an ambiguity (recorded in DESIGN.md): rather than always
// seeking forward to "establish begin" regardless of direction (which,
// simulated against scenario S2 of spec §8, produces an empty or
// off-by-one range), begin/end are each snapped to the edge of the
// structural unit the cursor sits inside, scanning in the operation's own
// direction; if the cursor sits between units (on a separator), it first
// crosses to the neighboring unit and then snaps to its edge. This
// reproduces S2 exactly: deleting one word backwards from the middle of
// "beta " in "alpha beta gamma" yields the range covering exactly "beta".
func FindPartialRange(c *content.Content, m Modifiers, pos position.LineColumn) position.Range {
	seeker := SeekerFor(m.Structure)
	cur := position.AdjustLineColumn(c, pos)
	reps := m.Repetitions
	if reps < 1 {
		reps = 1
	}

	if m.Direction == Forwards {
		begin := applyBoundaryBegin(c, seeker, m.BoundaryBegin, cur)
		end := seekUnitEndForward(c, seeker, cur)
		for i := 1; i < reps; i++ {
			before := end
			extendEndForward(c, seeker, &end)
			if end == before {
				break
			}
		}
		end = applyBoundaryEnd(c, seeker, m.BoundaryEnd, end)
		return orderedRange(c, begin, end)
	}

	// Backwards: step cur one character back first (spec step 2), so
	// that a cursor sitting just past a unit (e.g. the separator right
	// after a word) is treated as being inside that unit.
	backCur := cur
	stepOne(c, Backwards, &backCur)

	begin := seekUnitStartBackward(c, seeker, backCur)
	for i := 1; i < reps; i++ {
		before := begin
		extendBeginBackward(c, seeker, &begin)
		if begin == before {
			break
		}
	}
	begin = applyBoundaryBegin(c, seeker, m.BoundaryBegin, begin)
	end := applyBoundaryEnd(c, seeker, m.BoundaryEnd, cur)
	return orderedRange(c, begin, end)
}

// orderedRange swaps begin/end if boundary adjustments left them
// inverted, matching spec step 8. A swap only arises from unusual
// boundary combinations; the direct backward/forward paths above already
// produce begin <= end.
func orderedRange(c *content.Content, begin, end position.LineColumn) position.Range {
	if end.Less(begin) {
		begin, end = end, begin
		stepOne(c, Forwards, &begin)
	}
	return position.Range{Begin: begin, End: end}
}

// seekUnitEndForward returns the exclusive end of the unit pos sits
// inside (scanning forward), or, if pos sits between units, the start of
// the next unit.
func seekUnitEndForward(c *content.Content, s Seeker, pos position.LineColumn) position.LineColumn {
	p := pos
	if s.SeekToLimit(c, Forwards, &p) {
		stepOne(c, Forwards, &p)
		return p
	}
	s.SeekToNext(c, Forwards, &p)
	return p
}

// extendEndForward pushes an already-established end boundary to cover
// one more unit forward (spec step 6: seek_to_limit then seek_to_next).
func extendEndForward(c *content.Content, s Seeker, end *position.LineColumn) {
	if s.SeekToLimit(c, Forwards, end) {
		stepOne(c, Forwards, end)
		return
	}
	s.SeekToNext(c, Forwards, end)
}

// seekUnitStartBackward returns the inclusive start of the unit pos sits
// inside (scanning backward), or, if pos sits between units, the start of
// the neighboring unit.
func seekUnitStartBackward(c *content.Content, s Seeker, pos position.LineColumn) position.LineColumn {
	p := pos
	if s.SeekToLimit(c, Backwards, &p) {
		return p
	}
	s.SeekToNext(c, Backwards, &p)
	s.SeekToLimit(c, Backwards, &p)
	return p
}

func extendBeginBackward(c *content.Content, s Seeker, begin *position.LineColumn) {
	s.SeekToNext(c, Backwards, begin)
	s.SeekToLimit(c, Backwards, begin)
}

func applyBoundaryBegin(c *content.Content, s Seeker, b Boundary, begin position.LineColumn) position.LineColumn {
	switch b {
	case BoundaryLimitCurrent:
		s.SeekToLimit(c, Backwards, &begin)
		return begin
	case BoundaryLimitNeighbor:
		s.SeekToLimit(c, Backwards, &begin)
		s.SeekToNext(c, Backwards, &begin)
		s.SeekToLimit(c, Backwards, &begin)
		return begin
	default: // BoundaryCurrent
		return begin
	}
}

func applyBoundaryEnd(c *content.Content, s Seeker, b Boundary, end position.LineColumn) position.LineColumn {
	switch b {
	case BoundaryLimitCurrent:
		if s.SeekToLimit(c, Forwards, &end) {
			stepOne(c, Forwards, &end)
		}
		return end
	case BoundaryLimitNeighbor:
		if s.SeekToLimit(c, Forwards, &end) {
			stepOne(c, Forwards, &end)
		}
		s.SeekToNext(c, Forwards, &end)
		if s.SeekToLimit(c, Forwards, &end) {
			stepOne(c, Forwards, &end)
		}
		return end
	default: // BoundaryCurrent
		return end
	}
}
