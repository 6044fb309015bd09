package indent

import (
	"deadend/internal/block"
	"deadend/internal/source"
)

// Kind is the shape of a node.
type Kind uint8

const (
	Leaf  Kind = iota // one item, not split further
	Chain             // opener/closer frame lines around deeper runs
	List              // independent sibling groups
)

func (k Kind) String() string {
	switch k {
	case Chain:
		return "chain"
	case List:
		return "list"
	default:
		return "leaf"
	}
}

// Leaning is the structural balance of a node, derived from indentation only.
type Leaning uint8

const (
	Equal Leaning = iota // every group returns to its opening indentation
	Left                 // a group ends deeper than it starts: a closer is missing
	Right                // a group starts deeper than it ends: a closer is extra
)

func (l Leaning) String() string {
	switch l {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "equal"
	}
}

// Node is one entry of the tree arena.
type Node struct {
	ID     int
	Parent int // -1 для корня
	Block  *block.Block
	Indent int
	Inner  []int
	Kind   Kind
	// Frame marks the shallow lines of a chain: openers, middles and closers.
	// They are never tested alone; the parent re-check covers them.
	Frame   bool
	Leaning Leaning

	balance int
}

func (n *Node) Span() source.Span { return n.Block.Span() }

// Key is the frontier priority of the node.
func (n *Node) Key() block.Key {
	return block.Key{Indent: n.Indent, Start: n.Block.Start()}
}

func (n *Node) IsLeaf() bool { return len(n.Inner) == 0 }
