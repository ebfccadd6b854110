package content

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/alefore/edge-sub003/internal/engine/line"
	"github.com/alefore/edge-sub003/internal/engine/position"
)

// Errors returned by Content operations.
var (
	ErrLineOutOfRange   = errors.New("content: line index out of range")
	ErrColumnOutOfRange = errors.New("content: column index out of range")
	ErrInvalidRange     = errors.New("content: invalid line range")
)

// MutationKind classifies a published mutation.
type MutationKind uint8

const (
	MutationInsertLines MutationKind = iota
	MutationDeleteLines
	MutationModifyLine
)

// MutationEvent describes a single BufferContents mutation, published
// synchronously to every registered listener (§4.B).
type MutationEvent struct {
	Kind MutationKind
	// Line-based range affected, [FirstLine, LastLine). For a single-line
	// MutationModifyLine, FirstLine == LastLine-1 identifies the modified
	// line; Column/ColumnDelta below carry the character edit on it.
	FirstLine int
	LastLine  int // exclusive, like an end-of-range line index
	// Column carries kind-specific extra positioning data needed for
	// precise cursor rebasing:
	//   - MutationModifyLine: the column where the in-place edit starts
	//     (paired with ColumnDelta, the signed length change: negative
	//     for DeleteCharactersFromLine, positive for AppendToLine; both
	//     zero for a whole-line replacement like SetLine/Sort).
	//   - MutationInsertLines from SplitLine: the column the original
	//     line was split at (0 for any other line-insert, which moves
	//     whole lines and needs no column adjustment).
	//   - MutationDeleteLines from FoldNextLine: the length of the line
	//     that absorbed the folded-in line (0 for any other line-delete).
	Column      int
	ColumnDelta int
}

// Listener receives mutation notifications. Implementations must not
// block or re-enter Content from within the callback.
type Listener func(MutationEvent)

// Content is an ordered, mutable sequence of line.Contents. The sequence
// always has length >= 1 (an empty buffer is one empty line), matching
// spec §3's invariant. All methods are safe for concurrent use; mutations
// take an exclusive lock and are published to listeners synchronously
// while still holding it (listeners are expected to be fast, matching the
// teacher's in-process event bus pattern).
type Content struct {
	mu        sync.RWMutex
	lines     []line.Contents
	listeners []Listener
}

// New creates an empty Content (one empty line).
func New() *Content {
	return &Content{lines: []line.Contents{line.Empty}}
}

// FromLines creates a Content from the given lines. If lines is empty, a
// single empty line is used instead, preserving the size>=1 invariant.
func FromLines(lines []line.Contents) *Content {
	if len(lines) == 0 {
		return New()
	}
	out := make([]line.Contents, len(lines))
	copy(out, lines)
	return &Content{lines: out}
}

// FromString builds a Content by splitting s on '\n'.
func FromString(s string) *Content {
	parts := strings.Split(s, "\n")
	lines := make([]line.Contents, len(parts))
	for i, p := range parts {
		lines[i] = line.New(p, nil)
	}
	return FromLines(lines)
}

// AddListener registers a mutation listener.
func (c *Content) AddListener(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

func (c *Content) publish(ev MutationEvent) {
	for _, l := range c.listeners {
		l(ev)
	}
}

// Size returns the number of lines.
func (c *Content) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lines)
}

// LineCount implements position.LineLengther.
func (c *Content) LineCount() int { return c.Size() }

// LineLength implements position.LineLengther.
func (c *Content) LineLength(l int) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if l < 0 || l >= len(c.lines) {
		return 0
	}
	return c.lines[l].Length()
}

// Get returns line l. Precondition: 0 <= l < Size().
func (c *Content) Get(l int) line.Contents {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.getLocked(l)
}

func (c *Content) getLocked(l int) line.Contents {
	if l < 0 || l >= len(c.lines) {
		panic(fmt.Sprintf("content: line %d out of range (size %d)", l, len(c.lines)))
	}
	return c.lines[l]
}

// At is an alias for Get, matching spec naming.
func (c *Content) At(l int) line.Contents { return c.Get(l) }

// Back returns the last line.
func (c *Content) Back() line.Contents {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lines[len(c.lines)-1]
}

// Snapshot returns an immutable copy of the line slice, safe to read from
// another goroutine (e.g. the parse-tree worker).
func (c *Content) Snapshot() []line.Contents {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]line.Contents, len(c.lines))
	copy(out, c.lines)
	return out
}

// Copy returns a deep-enough clone usable independently (lines are
// immutable value types, so this is just a fresh Content wrapping a copy
// of the slice, with no listeners carried over).
func (c *Content) Copy() *Content {
	return FromLines(c.Snapshot())
}

// String renders the full content joined by '\n'.
func (c *Content) String() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	parts := make([]string, len(c.lines))
	for i, l := range c.lines {
		parts[i] = l.String()
	}
	return strings.Join(parts, "\n")
}

// PushBack appends a line at the end.
func (c *Content) PushBack(l line.Contents) {
	c.mu.Lock()
	defer c.mu.Unlock()
	at := len(c.lines)
	c.lines = append(c.lines, l)
	c.publish(MutationEvent{Kind: MutationInsertLines, FirstLine: at, LastLine: at + 1})
}

// InsertLine inserts l so that it becomes line index at (0 <= at <=
// Size()).
func (c *Content) InsertLine(at int, l line.Contents) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if at < 0 || at > len(c.lines) {
		return ErrLineOutOfRange
	}
	c.lines = append(c.lines, line.Contents{})
	copy(c.lines[at+1:], c.lines[at:])
	c.lines[at] = l
	c.publish(MutationEvent{Kind: MutationInsertLines, FirstLine: at, LastLine: at + 1})
	return nil
}

// SetLine replaces line at with l.
func (c *Content) SetLine(at int, l line.Contents) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if at < 0 || at >= len(c.lines) {
		return ErrLineOutOfRange
	}
	c.lines[at] = l
	c.publish(MutationEvent{Kind: MutationModifyLine, FirstLine: at, LastLine: at + 1})
	return nil
}

// EraseLines removes lines in [first, last). If this would empty the
// buffer, a single empty line is kept (invariant size>=1).
func (c *Content) EraseLines(first, last int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if first < 0 || last < first || last > len(c.lines) {
		return ErrInvalidRange
	}
	if first == last {
		return nil
	}
	c.lines = append(c.lines[:first], c.lines[last:]...)
	if len(c.lines) == 0 {
		c.lines = []line.Contents{line.Empty}
	}
	c.publish(MutationEvent{Kind: MutationDeleteLines, FirstLine: first, LastLine: last})
	return nil
}

// SplitLine turns the line at pos.Line into two lines at column
// pos.Column, per spec §4.B.
func (c *Content) SplitLine(pos position.LineColumn) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pos.Line < 0 || pos.Line >= len(c.lines) {
		return ErrLineOutOfRange
	}
	l := c.lines[pos.Line]
	if pos.Column < 0 || pos.Column > l.Length() {
		return ErrColumnOutOfRange
	}
	left, right := l.Split(pos.Column)
	c.lines[pos.Line] = left
	c.lines = append(c.lines, line.Contents{})
	copy(c.lines[pos.Line+2:], c.lines[pos.Line+1:])
	c.lines[pos.Line+1] = right
	c.publish(MutationEvent{Kind: MutationInsertLines, FirstLine: pos.Line + 1, LastLine: pos.Line + 2, Column: pos.Column})
	return nil
}

// FoldNextLine joins line l+1 into line l.
func (c *Content) FoldNextLine(l int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l < 0 || l+1 >= len(c.lines) {
		return ErrLineOutOfRange
	}
	foldedLineLen := c.lines[l].Length()
	joined := c.lines[l].Append(c.lines[l+1])
	c.lines[l] = joined
	c.lines = append(c.lines[:l+1], c.lines[l+2:]...)
	c.publish(MutationEvent{Kind: MutationDeleteLines, FirstLine: l + 1, LastLine: l + 2, Column: foldedLineLen})
	return nil
}

// DeleteCharactersFromLine deletes count runes starting at col on the
// given line. count may be math.MaxInt to mean "through end of line".
func (c *Content) DeleteCharactersFromLine(l, col, count int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l < 0 || l >= len(c.lines) {
		return ErrLineOutOfRange
	}
	cur := c.lines[l]
	if col < 0 || col > cur.Length() {
		return ErrColumnOutOfRange
	}
	updated := cur.DeleteRange(col, count)
	delta := updated.Length() - cur.Length() // negative
	c.lines[l] = updated
	c.publish(MutationEvent{Kind: MutationModifyLine, FirstLine: l, LastLine: l + 1, Column: col, ColumnDelta: delta})
	return nil
}

// InsertAt splices fragment into line l at column col, without creating
// a new line (used by InsertBuffer for single-line insertions).
func (c *Content) InsertAt(l, col int, fragment line.Contents) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l < 0 || l >= len(c.lines) {
		return ErrLineOutOfRange
	}
	cur := c.lines[l]
	if col < 0 || col > cur.Length() {
		return ErrColumnOutOfRange
	}
	left, right := cur.Split(col)
	c.lines[l] = left.Append(fragment).Append(right)
	c.publish(MutationEvent{Kind: MutationModifyLine, FirstLine: l, LastLine: l + 1, Column: col, ColumnDelta: fragment.Length()})
	return nil
}

// AppendToLine appends fragment to the end of line l.
func (c *Content) AppendToLine(l int, fragment line.Contents) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l < 0 || l >= len(c.lines) {
		return ErrLineOutOfRange
	}
	before := c.lines[l].Length()
	c.lines[l] = c.lines[l].Append(fragment)
	c.publish(MutationEvent{Kind: MutationModifyLine, FirstLine: l, LastLine: l + 1, Column: before, ColumnDelta: c.lines[l].Length() - before})
	return nil
}

// Insert inserts every line of other after afterLine (i.e. starting at
// index afterLine+1). If modifiers is non-nil, it overrides per-character
// styling of every inserted line (indexed by the inserted line's own
// column space), matching the `modifiers?` option on BufferContents.insert.
func (c *Content) Insert(afterLine int, other *Content, modifiers map[int]map[int]line.ModifierSet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if afterLine < -1 || afterLine >= len(c.lines) {
		return ErrLineOutOfRange
	}

	otherLines := other.Snapshot()
	inserted := make([]line.Contents, len(otherLines))
	for i, l := range otherLines {
		if modifiers != nil {
			if override, ok := modifiers[i]; ok {
				l = l.WithModifiersOverride(override)
			}
		}
		inserted[i] = l
	}

	at := afterLine + 1
	c.lines = append(c.lines[:at], append(inserted, c.lines[at:]...)...)
	c.publish(MutationEvent{Kind: MutationInsertLines, FirstLine: at, LastLine: at + len(inserted)})
	return nil
}

// Sort reorders lines in [first, last) according to less.
func (c *Content) Sort(first, last int, less func(a, b line.Contents) bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if first < 0 || last < first || last > len(c.lines) {
		return ErrInvalidRange
	}
	segment := c.lines[first:last]
	sort.SliceStable(segment, func(i, j int) bool { return less(segment[i], segment[j]) })
	c.publish(MutationEvent{Kind: MutationModifyLine, FirstLine: first, LastLine: last})
	return nil
}
