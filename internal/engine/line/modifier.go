package line

import "github.com/lucasb-eyer/go-colorful"

// Modifier is a single styling attribute that can be attached to a column
// of a LineContents value.
type Modifier uint8

const (
	Bold Modifier = iota
	Underline
	Italic
	Reverse
	Dim
	Red
	Green
	Yellow
	Blue
	Cyan
	Magenta
)

// String returns the modifier's canonical lowercase name.
func (m Modifier) String() string {
	switch m {
	case Bold:
		return "bold"
	case Underline:
		return "underline"
	case Italic:
		return "italic"
	case Reverse:
		return "reverse"
	case Dim:
		return "dim"
	case Red:
		return "red"
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	case Blue:
		return "blue"
	case Cyan:
		return "cyan"
	case Magenta:
		return "magenta"
	default:
		return "unknown"
	}
}

// IsColor reports whether the modifier names a foreground color rather
// than an emphasis attribute (bold/underline/italic/reverse/dim).
func (m Modifier) IsColor() bool {
	switch m {
	case Red, Green, Yellow, Blue, Cyan, Magenta:
		return true
	default:
		return false
	}
}

// colorTable maps the fixed color modifiers to concrete RGB, so that an
// external renderer never needs its own copy of the enum-to-color mapping.
var colorTable = map[Modifier]colorful.Color{
	Red:     colorful.Color{R: 0.80, G: 0.16, B: 0.16},
	Green:   colorful.Color{R: 0.20, G: 0.63, B: 0.20},
	Yellow:  colorful.Color{R: 0.85, G: 0.70, B: 0.15},
	Blue:    colorful.Color{R: 0.20, G: 0.40, B: 0.85},
	Cyan:    colorful.Color{R: 0.15, G: 0.65, B: 0.70},
	Magenta: colorful.Color{R: 0.70, G: 0.20, B: 0.70},
}

// RGB returns the resolved color for a color modifier and true, or the
// zero color and false for non-color (emphasis) modifiers.
func (m Modifier) RGB() (r, g, b uint8, ok bool) {
	c, found := colorTable[m]
	if !found {
		return 0, 0, 0, false
	}
	cr, cg, cb := c.RGB255()
	return cr, cg, cb, true
}

// ModifierSet is the set of modifiers active at a single column.
type ModifierSet map[Modifier]struct{}

// NewModifierSet builds a ModifierSet from the given modifiers.
func NewModifierSet(mods ...Modifier) ModifierSet {
	s := make(ModifierSet, len(mods))
	for _, m := range mods {
		s[m] = struct{}{}
	}
	return s
}

// Has reports whether m is present in the set.
func (s ModifierSet) Has(m Modifier) bool {
	_, ok := s[m]
	return ok
}

// Clone returns an independent copy of the set.
func (s ModifierSet) Clone() ModifierSet {
	out := make(ModifierSet, len(s))
	for m := range s {
		out[m] = struct{}{}
	}
	return out
}
