package parsetree

import "github.com/alefore/edge-sub003/internal/engine/position"

// Node is one node of a parse tree: a range of the buffer it covers, and
// an ordered list of children whose ranges are non-overlapping and fall
// within the parent's range.
type Node struct {
	Range    position.Range
	Children []*Node
}

// Simplify returns a copy of n truncated to depth levels of nesting
// (spec §4.D "tree_depth bounds zoom-out"): nodes below the depth limit
// keep their Range but lose their Children, so callers zoomed further out
// see only coarse structure.
func Simplify(n *Node, depth int) *Node {
	if n == nil {
		return nil
	}
	out := &Node{Range: n.Range}
	if depth <= 0 || len(n.Children) == 0 {
		return out
	}
	out.Children = make([]*Node, len(n.Children))
	for i, child := range n.Children {
		out.Children[i] = Simplify(child, depth-1)
	}
	return out
}
