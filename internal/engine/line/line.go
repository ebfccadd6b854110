package line

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// ActivateHandle is an opaque reference to a callback invoked when a line
// is "activated" (Enter pressed on it in command mode). The core never
// calls the callback itself; it only carries the handle so that listing
// buffers (e.g. "open buffers") can install one and command-mode's Enter
// handler can look it up through the owning buffer's registry.
//
// This mirrors the Design Notes guidance to replace a deeply-aliased
// immutable value holding a non-trivial destructible callback with a
// small value type: {None, Handler(id)}.
type ActivateHandle struct {
	hasHandler bool
	id         uint64
}

// NoActivate is the zero handle: no activate-on-enter behavior.
var NoActivate = ActivateHandle{}

// NewActivateHandle wraps an externally-registered handler id.
func NewActivateHandle(id uint64) ActivateHandle {
	return ActivateHandle{hasHandler: true, id: id}
}

// ID returns the handler id and true, or 0 and false if this handle is
// NoActivate.
func (h ActivateHandle) ID() (uint64, bool) {
	return h.id, h.hasHandler
}

// Contents is an immutable, styled line: a rune sequence plus a sparse
// per-column modifier map. Values are safe to share across goroutines and
// cheap to copy (the rune slice and modifier map are only ever read after
// construction; operations build new backing storage).
type Contents struct {
	chars     []rune
	modifiers map[int]ModifierSet
	activate  ActivateHandle
}

// Empty is the zero-length line.
var Empty = Contents{}

// New builds a Contents from the given text and an optional modifier map.
// The map is copied defensively. Panics if any column referenced by mods
// is out of range, per the invariant in spec §3 (LineContents).
func New(text string, mods map[int]ModifierSet) Contents {
	chars := []rune(text)
	c := Contents{chars: chars}
	if len(mods) > 0 {
		c.modifiers = make(map[int]ModifierSet, len(mods))
		for col, set := range mods {
			if col < 0 || col >= len(chars) {
				panic(fmt.Sprintf("line: modifier at column %d out of range (length %d)", col, len(chars)))
			}
			c.modifiers[col] = set.Clone()
		}
	}
	return c
}

// Length returns the number of runes in the line.
func (c Contents) Length() int {
	return len(c.chars)
}

// Get returns the rune at column col. Precondition: 0 <= col < Length().
func (c Contents) Get(col int) rune {
	if col < 0 || col >= len(c.chars) {
		panic(fmt.Sprintf("line: column %d out of range (length %d)", col, len(c.chars)))
	}
	return c.chars[col]
}

// String returns the line's text.
func (c Contents) String() string {
	return string(c.chars)
}

// ModifiersAt returns the effective styling set at col, or an empty set
// if none was recorded.
func (c Contents) ModifiersAt(col int) ModifierSet {
	if c.modifiers == nil {
		return nil
	}
	return c.modifiers[col]
}

// ActivateOnEnter returns the line's activate handle.
func (c Contents) ActivateOnEnter() ActivateHandle {
	return c.activate
}

// WithActivateOnEnter returns a copy of c carrying the given activate
// handle; the receiver is unchanged.
func (c Contents) WithActivateOnEnter(h ActivateHandle) Contents {
	c.activate = h
	return c
}

// Substring returns the len runes of c starting at begin. Modifiers whose
// column falls in the range are preserved, reindexed to the new line.
func (c Contents) Substring(begin, length int) Contents {
	if begin < 0 || length < 0 || begin+length > len(c.chars) {
		panic(fmt.Sprintf("line: substring(%d,%d) out of range (length %d)", begin, length, len(c.chars)))
	}
	out := Contents{chars: append([]rune(nil), c.chars[begin:begin+length]...)}
	if c.modifiers != nil {
		for col, set := range c.modifiers {
			if col >= begin && col < begin+length {
				if out.modifiers == nil {
					out.modifiers = make(map[int]ModifierSet)
				}
				out.modifiers[col-begin] = set.Clone()
			}
		}
	}
	return out
}

// Append concatenates other onto c, shifting other's modifier columns by
// len(c). The activate handle of the result is c's (matching the
// teacher's convention that the left-hand operand "owns" identity in a
// concatenation, e.g. fold_next_line keeps the first line's handle).
func (c Contents) Append(other Contents) Contents {
	out := Contents{
		chars:    make([]rune, 0, len(c.chars)+len(other.chars)),
		activate: c.activate,
	}
	out.chars = append(out.chars, c.chars...)
	out.chars = append(out.chars, other.chars...)

	if c.modifiers != nil || other.modifiers != nil {
		out.modifiers = make(map[int]ModifierSet, len(c.modifiers)+len(other.modifiers))
		for col, set := range c.modifiers {
			out.modifiers[col] = set.Clone()
		}
		shift := len(c.chars)
		for col, set := range other.modifiers {
			out.modifiers[col+shift] = set.Clone()
		}
	}
	return out
}

// WithModifiersOverride returns a copy of c whose modifier map is replaced
// wholesale by mods (used when an InsertBuffer operation carries a
// modifiers_override). Columns are validated exactly as in New.
func (c Contents) WithModifiersOverride(mods map[int]ModifierSet) Contents {
	if mods == nil {
		c.modifiers = nil
		return c
	}
	c.modifiers = make(map[int]ModifierSet, len(mods))
	for col, set := range mods {
		if col < 0 || col >= len(c.chars) {
			panic(fmt.Sprintf("line: modifier at column %d out of range (length %d)", col, len(c.chars)))
		}
		c.modifiers[col] = set.Clone()
	}
	return c
}

// DisplayWidth returns the terminal column width of the line using
// grapheme-cluster-aware segmentation. This does not change rune-based
// indexing used elsewhere (Non-goal: full Unicode shaping); it exists
// solely so a renderer can lay out columns correctly for wide runes.
func (c Contents) DisplayWidth() int {
	return uniseg.StringWidth(string(c.chars))
}

// Split splits the line at column pos into two lines of length pos and
// Length()-pos. Modifiers are preserved and reindexed for the right half,
// matching BufferContents.split_line (§4.B).
func (c Contents) Split(pos int) (Contents, Contents) {
	if pos < 0 || pos > len(c.chars) {
		panic(fmt.Sprintf("line: split at %d out of range (length %d)", pos, len(c.chars)))
	}
	left := c.Substring(0, pos)
	right := c.Substring(pos, len(c.chars)-pos)
	left.activate = c.activate
	return left, right
}

// DeleteRange returns a copy of c with the runes in [begin, begin+count)
// removed. count may exceed the remaining length; it is clamped to the
// end of the line, matching delete_characters_from_line's "count = infinity
// means through end of line" semantics when the caller passes
// len(c)-begin or greater.
func (c Contents) DeleteRange(begin, count int) Contents {
	if begin < 0 || begin > len(c.chars) {
		panic(fmt.Sprintf("line: delete at %d out of range (length %d)", begin, len(c.chars)))
	}
	end := begin + count
	if end > len(c.chars) || count < 0 {
		end = len(c.chars)
	}
	left := c.Substring(0, begin)
	right := c.Substring(end, len(c.chars)-end)
	return left.Append(right)
}

// TrimTrailingSpaces returns a copy of c with trailing ASCII spaces/tabs
// removed, preserving modifiers on the remaining columns. Used by
// InsertMode's Escape handling to trim
// line_suffix_superfluous_characters (§4.K).
func (c Contents) TrimTrailingSpaces(extra string) Contents {
	s := string(c.chars)
	trimmed := strings.TrimRight(s, " \t"+extra)
	if len(trimmed) == len(s) {
		return c
	}
	return c.Substring(0, len([]rune(trimmed)))
}
