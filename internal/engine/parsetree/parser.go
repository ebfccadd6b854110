package parsetree

import (
	"strings"

	"github.com/alefore/edge-sub003/internal/engine/position"
)

// Parser turns buffer text (already split into lines) into a parse tree
// covering the full [(0,0), (lastLine, lastCol)) range.
type Parser interface {
	Parse(lines []string) *Node
	// IsNull reports whether this parser is the no-op sentinel; setting
	// it via Engine.SetParser joins the background worker instead of
	// starting one (spec §4.D).
	IsNull() bool
}

func totalRange(lines []string) position.Range {
	last := len(lines) - 1
	if last < 0 {
		last = 0
	}
	end := 0
	if last < len(lines) {
		end = len([]rune(lines[last]))
	}
	return position.Range{
		Begin: position.LineColumn{},
		End:   position.LineColumn{Line: last, Column: end},
	}
}

// NullParser produces a single leaf node spanning the whole buffer and
// never needs a background worker running.
type NullParser struct{}

func (NullParser) IsNull() bool { return true }

func (NullParser) Parse(lines []string) *Node {
	return &Node{Range: totalRange(lines)}
}

// TextParser groups consecutive non-blank lines into paragraph nodes,
// each holding one leaf child per line. This is the simplified tree's
// natural unit of structure for plain text buffers.
type TextParser struct{}

func (TextParser) IsNull() bool { return false }

func (TextParser) Parse(lines []string) *Node {
	root := &Node{Range: totalRange(lines)}
	var para *Node
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			para = nil
			continue
		}
		leaf := &Node{Range: position.Range{
			Begin: position.LineColumn{Line: i, Column: 0},
			End:   position.LineColumn{Line: i, Column: len([]rune(l))},
		}}
		if para == nil {
			para = &Node{Range: leaf.Range}
			root.Children = append(root.Children, para)
		}
		para.Range.End = leaf.Range.End
		para.Children = append(para.Children, leaf)
	}
	return root
}

// DiffParser groups lines under the "@@ ... @@" hunk header that
// precedes them, falling back to TextParser's grouping when no hunk
// headers are present (e.g. a context-only fragment).
type DiffParser struct{}

func (DiffParser) IsNull() bool { return false }

func (DiffParser) Parse(lines []string) *Node {
	root := &Node{Range: totalRange(lines)}
	var hunk *Node
	sawHunk := false
	for i, l := range lines {
		leaf := &Node{Range: position.Range{
			Begin: position.LineColumn{Line: i, Column: 0},
			End:   position.LineColumn{Line: i, Column: len([]rune(l))},
		}}
		if strings.HasPrefix(l, "@@") {
			sawHunk = true
			hunk = &Node{Range: leaf.Range}
			root.Children = append(root.Children, hunk)
			hunk.Children = append(hunk.Children, leaf)
			hunk.Range.End = leaf.Range.End
			continue
		}
		if hunk != nil {
			hunk.Children = append(hunk.Children, leaf)
			hunk.Range.End = leaf.Range.End
			continue
		}
		root.Children = append(root.Children, leaf)
	}
	if !sawHunk {
		return TextParser{}.Parse(lines)
	}
	return root
}
