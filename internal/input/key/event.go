package key

import "fmt"

// Event represents a single key press, grounded on keystorm's
// key.Event (trimmed: this editor has no need for per-event
// timestamps or a Shift modifier bit, since modes read case directly
// off the rune).
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// NewRune returns an Event for a printable character.
func NewRune(r rune) Event {
	return Event{Key: KeyRune, Rune: r}
}

// NewSpecial returns an Event for a non-character key.
func NewSpecial(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// IsRune reports whether this event carries a character.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// Equals reports whether two events represent the same key press.
func (e Event) Equals(other Event) bool {
	return e.Key == other.Key && e.Rune == other.Rune && e.Modifiers == other.Modifiers
}

// String returns a canonical token suitable as a trie edge label
// (e.g. "g", "C-w", "Esc").
func (e Event) String() string {
	prefix := ""
	if e.Modifiers&ModCtrl != 0 {
		prefix += "C-"
	}
	if e.Modifiers&ModAlt != 0 {
		prefix += "A-"
	}
	if e.Key == KeyRune {
		return fmt.Sprintf("%s%c", prefix, e.Rune)
	}
	return prefix + e.Key.String()
}
