package input

import "github.com/alefore/edge-sub003/internal/input/key"

// trieNode is one edge-step of a MapMode's key-sequence trie (spec
// §4.K "holds a trie from key sequences to commands").
type trieNode struct {
	children map[string]*trieNode
	command  Command
}

func newTrieNode() *trieNode {
	return &trieNode{children: map[string]*trieNode{}}
}

// buildTrie compiles bindings (sequence string, using key.Event.String
// tokens joined with spaces, e.g. "g g" or "C-w C-w") into a trie whose
// leaves carry the bound Command.
func buildTrie(bindings map[string]Command) *trieNode {
	root := newTrieNode()
	for seq, cmd := range bindings {
		cur := root
		for _, tok := range splitSequence(seq) {
			next, ok := cur.children[tok]
			if !ok {
				next = newTrieNode()
				cur.children[tok] = next
			}
			cur = next
		}
		cur.command = cmd
	}
	return root
}

func splitSequence(seq string) []string {
	var toks []string
	start := 0
	for i, r := range seq {
		if r == ' ' {
			if i > start {
				toks = append(toks, seq[start:i])
			}
			start = i + 1
		}
	}
	if start < len(seq) {
		toks = append(toks, seq[start:])
	}
	return toks
}

func tokenFor(ev key.Event) string {
	return ev.String()
}
