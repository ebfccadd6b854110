package modifiers

import (
	"unicode"

	"github.com/alefore/edge-sub003/internal/engine/content"
	"github.com/alefore/edge-sub003/internal/engine/position"
)

// Seeker implements the structure-specific seek primitives used by
// FindPartialRange (spec §4.J): seek_to_next moves to the start of the
// next occurrence of the structure's unit; seek_to_limit moves to the
// boundary of the unit the position currently sits inside.
type Seeker interface {
	// SeekToNext moves pos to the start of the next unit in dir,
	// wrapping across lines as needed. It always makes progress unless
	// pos is already at the extreme end of the content.
	SeekToNext(c *content.Content, dir Direction, pos *position.LineColumn)

	// SeekToLimit moves pos to the edge, in dir, of the unit pos
	// currently sits inside. Returns false if there is no such boundary
	// ahead (pos is already at the edge of the content).
	SeekToLimit(c *content.Content, dir Direction, pos *position.LineColumn) bool

	// SpaceBehavior reports whether an initial run of space characters
	// should be treated as advancing past (Forwards) or held at
	// (Backwards) when establishing a seek origin.
	SpaceBehavior() Direction
}

// SeekerFor returns the Seeker for structures with well-defined seek
// primitives (char, word, symbol, line). Other structures (page, mark,
// search, buffer, cursor, tree) are handled directly by the Move
// transformation, which has access to editor/buffer-wide state that a
// pure content-level Seeker cannot reach.
func SeekerFor(s Structure) Seeker {
	switch s {
	case StructureWord, StructureSymbol:
		return wordSeeker{}
	case StructureLine:
		return lineSeeker{}
	default:
		return charSeeker{}
	}
}

func runeAt(c *content.Content, p position.LineColumn) (rune, bool) {
	if p.Line < 0 || p.Line >= c.Size() {
		return 0, false
	}
	l := c.Get(p.Line)
	if p.Column < 0 || p.Column >= l.Length() {
		return 0, false
	}
	return l.Get(p.Column), true
}

func atLineEnd(c *content.Content, p position.LineColumn) bool {
	return p.Line >= 0 && p.Line < c.Size() && p.Column >= c.Get(p.Line).Length()
}

func atContentStart(p position.LineColumn) bool {
	return p.Line == 0 && p.Column == 0
}

func atContentEnd(c *content.Content, p position.LineColumn) bool {
	last := c.Size() - 1
	return p.Line == last && p.Column >= c.Get(last).Length()
}

// stepOne moves p by one character in dir, crossing line boundaries. It
// returns false if p was already at the extreme end of the content.
func stepOne(c *content.Content, dir Direction, p *position.LineColumn) bool {
	if dir == Forwards {
		if atContentEnd(c, *p) {
			return false
		}
		if atLineEnd(c, *p) {
			p.Line++
			p.Column = 0
			return true
		}
		p.Column++
		return true
	}
	if atContentStart(*p) {
		return false
	}
	if p.Column == 0 {
		p.Line--
		p.Column = c.Get(p.Line).Length()
		return true
	}
	p.Column--
	return true
}

// charSeeker treats every character as its own unit.
type charSeeker struct{}

func (charSeeker) SpaceBehavior() Direction { return Forwards }

func (charSeeker) SeekToNext(c *content.Content, dir Direction, pos *position.LineColumn) {
	stepOne(c, dir, pos)
}

func (charSeeker) SeekToLimit(c *content.Content, dir Direction, pos *position.LineColumn) bool {
	// A single character has no internal substructure; its limit is
	// itself, but callers expect "no progress" to be reported once at
	// the extreme end of the content.
	if dir == Forwards {
		return !atContentEnd(c, *pos)
	}
	return !atContentStart(*pos)
}

// lineSeeker treats each line as its own unit.
type lineSeeker struct{}

func (lineSeeker) SpaceBehavior() Direction { return Forwards }

func (lineSeeker) SeekToNext(c *content.Content, dir Direction, pos *position.LineColumn) {
	if dir == Forwards {
		if pos.Line+1 < c.Size() {
			pos.Line++
			pos.Column = 0
		} else {
			pos.Column = c.Get(pos.Line).Length()
		}
		return
	}
	if pos.Line > 0 {
		pos.Line--
		pos.Column = 0
	} else {
		pos.Column = 0
	}
}

func (lineSeeker) SeekToLimit(c *content.Content, dir Direction, pos *position.LineColumn) bool {
	if dir == Forwards {
		end := c.Get(pos.Line).Length()
		if pos.Column == end {
			return false
		}
		pos.Column = end
		return true
	}
	if pos.Column == 0 {
		return false
	}
	pos.Column = 0
	return true
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// wordSeeker groups consecutive word characters (letters/digits/_) as a
// unit; runs of anything else (including whitespace) separate units.
type wordSeeker struct{}

func (wordSeeker) SpaceBehavior() Direction { return Forwards }

func (wordSeeker) SeekToNext(c *content.Content, dir Direction, pos *position.LineColumn) {
	// Skip the remainder of the current word (if inside one), then skip
	// non-word characters, landing on the first character of the next
	// word (or the extreme end of the content).
	for {
		r, ok := runeAt(c, *pos)
		if !ok || !isWordChar(r) {
			break
		}
		if !stepOne(c, dir, pos) {
			return
		}
	}
	for {
		r, ok := runeAt(c, *pos)
		if !ok || isWordChar(r) {
			return
		}
		if !stepOne(c, dir, pos) {
			return
		}
	}
}

func (wordSeeker) SeekToLimit(c *content.Content, dir Direction, pos *position.LineColumn) bool {
	r, ok := runeAt(c, *pos)
	if !ok || !isWordChar(r) {
		return false
	}
	moved := false
	for {
		save := *pos
		if !stepOne(c, dir, pos) {
			break
		}
		r, ok := runeAt(c, *pos)
		if !ok || !isWordChar(r) {
			*pos = save
			break
		}
		moved = true
	}
	return moved
}
