package input

import "github.com/alefore/edge-sub003/internal/input/key"

// MapMode holds a trie from key sequences to commands and a default
// command (spec §4.K). Each keystroke advances the current position in
// the trie; a complete match runs its command and resets to the root;
// a branch dead end replays every buffered key (including the one that
// caused the dead end) through the default command, one at a time.
type MapMode struct {
	root, cur      *trieNode
	defaultCommand Command
	buffered       []key.Event
}

// NewMapMode compiles bindings into a trie. bindings keys are
// space-separated key.Event token sequences (see buildTrie);
// defaultCommand may be nil, in which case unmatched keys are simply
// dropped.
func NewMapMode(bindings map[string]Command, defaultCommand Command) *MapMode {
	root := buildTrie(bindings)
	return &MapMode{root: root, cur: root, defaultCommand: defaultCommand}
}

func (m *MapMode) ProcessInput(ev key.Event, ctx *Context) bool {
	tok := tokenFor(ev)
	next, ok := m.cur.children[tok]
	if !ok {
		m.buffered = append(m.buffered, ev)
		consumed := m.defaultCommand != nil
		for _, buffered := range m.buffered {
			if m.defaultCommand != nil {
				_ = m.defaultCommand.ProcessInput(buffered, ctx)
			}
		}
		m.reset()
		return consumed
	}

	m.buffered = append(m.buffered, ev)
	m.cur = next
	if m.cur.command != nil {
		err := m.cur.command.ProcessInput(ev, ctx)
		m.reset()
		return err == nil
	}
	return true
}

func (m *MapMode) reset() {
	m.cur = m.root
	m.buffered = nil
}
