package indent

import (
	"fmt"
	"io"
	"strings"

	"deadend/internal/avl"
	"deadend/internal/block"
	"deadend/internal/source"
)

// Tree is the node arena of one document. Index 0 is the root.
type Tree struct {
	Lines []*source.Line
	nodes []*Node
}

// Root returns the root node, nil for an empty document.
func (t *Tree) Root() *Node {
	if len(t.nodes) == 0 {
		return nil
	}
	return t.nodes[0]
}

func (t *Tree) Node(id int) *Node { return t.nodes[id] }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Parent returns the parent node, nil for the root.
func (t *Tree) Parent(id int) *Node {
	p := t.nodes[id].Parent
	if p < 0 {
		return nil
	}
	return t.nodes[p]
}

// Candidates returns the children the search may test on their own:
// every child of a list, the non-frame children of a chain.
func (t *Tree) Candidates(id int) []int {
	n := t.nodes[id]
	switch n.Kind {
	case List:
		return n.Inner
	case Chain:
		out := make([]int, 0, len(n.Inner))
		for _, c := range n.Inner {
			if !t.nodes[c].Frame {
				out = append(out, c)
			}
		}
		return out
	}
	return nil
}

// Frontier returns the initial search frontier: the root's candidates keyed
// by (indent desc, start asc), so the deepest, earliest block pops first.
func (t *Tree) Frontier() *avl.Tree[block.Key, int] {
	f := avl.New[block.Key, int](block.CompareKeys)
	if root := t.Root(); root != nil {
		for _, id := range t.Candidates(root.ID) {
			f.Insert(t.nodes[id].Key(), id)
		}
	}
	return f
}

// Walk visits nodes in pre-order with their depth.
func (t *Tree) Walk(fn func(n *Node, depth int)) {
	if t.Root() == nil {
		return
	}
	var walk func(id, depth int)
	walk = func(id, depth int) {
		n := t.nodes[id]
		fn(n, depth)
		for _, c := range n.Inner {
			walk(c, depth+1)
		}
	}
	walk(0, 0)
}

// CheckPartition verifies that the children of every node cover its line
// range exactly, in order, without gaps or overlaps.
func (t *Tree) CheckPartition() error {
	if root := t.Root(); root != nil {
		want := source.Span{Start: t.Lines[0].Number, End: t.Lines[len(t.Lines)-1].Number}
		if root.Span() != want {
			return fmt.Errorf("root covers %s, document is %s", root.Span(), want)
		}
	}
	for _, n := range t.nodes {
		if len(n.Inner) == 0 {
			continue
		}
		next := n.Block.Start()
		for _, c := range n.Inner {
			child := t.nodes[c]
			if child.Parent != n.ID {
				return fmt.Errorf("node %d lists child %d whose parent is %d", n.ID, c, child.Parent)
			}
			if child.Block.Start() != next {
				return fmt.Errorf("node %d (%s): child %d starts at %d, want %d", n.ID, n.Span(), c, child.Block.Start(), next)
			}
			next = child.Block.End() + 1
		}
		if next != n.Block.End()+1 {
			return fmt.Errorf("node %d (%s): children end at %d", n.ID, n.Span(), next-1)
		}
	}
	return nil
}

// Fprint dumps the tree, one node per row:
//
//	chain 1-3 equal
//	  leaf 1 frame
func (t *Tree) Fprint(w io.Writer) error {
	var err error
	t.Walk(func(n *Node, depth int) {
		if err != nil {
			return
		}
		var sb strings.Builder
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(n.Kind.String())
		sb.WriteByte(' ')
		sb.WriteString(n.Span().String())
		if n.Kind != Leaf {
			sb.WriteByte(' ')
			sb.WriteString(n.Leaning.String())
		}
		if n.Frame {
			sb.WriteString(" frame")
		}
		sb.WriteByte('\n')
		_, err = io.WriteString(w, sb.String())
	})
	return err
}
