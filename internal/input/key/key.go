// Package key defines keyboard events consumed by internal/input's
// modes, grounded on keystorm's internal/input/key package (trimmed to
// the key set this editor's modes actually dispatch on).
package key

// Key identifies the key pressed. Rune holds the character for KeyRune
// events; it is unused for every other Key value.
type Key uint8

const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
)

func (k Key) String() string {
	switch k {
	case KeyRune:
		return "rune"
	case KeyEscape:
		return "Esc"
	case KeyEnter:
		return "Enter"
	case KeyTab:
		return "Tab"
	case KeyBackspace:
		return "BS"
	case KeyDelete:
		return "Del"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyPageUp:
		return "PgUp"
	case KeyPageDown:
		return "PgDn"
	case KeyHome:
		return "Home"
	case KeyEnd:
		return "End"
	default:
		return "none"
	}
}

// Modifier flags a held modifier key alongside the primary key.
type Modifier uint8

const (
	ModNone Modifier = 0
	ModCtrl Modifier = 1 << (iota - 1)
	ModAlt
)
