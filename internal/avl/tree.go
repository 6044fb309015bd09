package avl

import (
	"cmp"
	"fmt"
	"io"
	"strings"
)

type node[K, V any] struct {
	key     K
	val     V
	height  int
	left    *node[K, V]
	right   *node[K, V]
	deleted bool
	live    int // живые записи в поддереве, включая сам узел
}

// Tree is an AVL tree with lazy deletion.
type Tree[K, V any] struct {
	root  *node[K, V]
	cmp   func(a, b K) int
	live  int
	nodes int
}

// New creates an empty tree ordered by compare.
// compare must be a total order: negative when a<b, zero when equal, positive when a>b.
func New[K, V any](compare func(a, b K) int) *Tree[K, V] {
	if compare == nil {
		panic("avl: nil compare func")
	}
	return &Tree[K, V]{cmp: compare}
}

// NewOrdered creates an empty tree over a naturally ordered key type.
func NewOrdered[K cmp.Ordered, V any]() *Tree[K, V] {
	return New[K, V](cmp.Compare[K])
}

// Len returns the number of live (non-tombstoned) entries.
func (t *Tree[K, V]) Len() int { return t.live }

// Nodes returns the number of physical nodes including tombstones.
func (t *Tree[K, V]) Nodes() int { return t.nodes }

// Height returns the height of the tree; an empty tree has height 0.
func (t *Tree[K, V]) Height() int { return height(t.root) }

// Insert adds key with payload val. If the key is already present its node
// is reused: the tombstone is cleared and the payload overwritten.
func (t *Tree[K, V]) Insert(key K, val V) {
	t.root = t.insert(t.root, key, val)
}

func (t *Tree[K, V]) insert(n *node[K, V], key K, val V) *node[K, V] {
	if n == nil {
		t.live++
		t.nodes++
		return &node[K, V]{key: key, val: val, height: 1, live: 1}
	}

	switch c := t.cmp(key, n.key); {
	case c < 0:
		n.left = t.insert(n.left, key, val)
	case c > 0:
		n.right = t.insert(n.right, key, val)
	default:
		if n.deleted {
			n.deleted = false
			n.live++
			t.live++
		}
		n.val = val
		// форма дерева не изменилась, предки пересчитают live в rebalance
		return n
	}

	return rebalance(n)
}

// Remove tombstones the node holding key. It reports whether a live entry was removed.
func (t *Tree[K, V]) Remove(key K) bool {
	path := make([]*node[K, V], 0, height(t.root))
	n := t.root
	for n != nil {
		path = append(path, n)
		c := t.cmp(key, n.key)
		if c == 0 {
			break
		}
		if c < 0 {
			n = n.left
		} else {
			n = n.right
		}
	}
	if n == nil || n.deleted {
		return false
	}
	n.deleted = true
	var zero V
	n.val = zero
	for _, p := range path {
		p.live--
	}
	t.live--
	return true
}

// Search returns the payload stored under key. Tombstoned entries are absent.
func (t *Tree[K, V]) Search(key K) (V, bool) {
	n := t.find(key)
	if n == nil || n.deleted {
		var zero V
		return zero, false
	}
	return n.val, true
}

// Contains reports whether a live entry exists for key.
func (t *Tree[K, V]) Contains(key K) bool {
	_, ok := t.Search(key)
	return ok
}

func (t *Tree[K, V]) find(key K) *node[K, V] {
	n := t.root
	for n != nil {
		switch c := t.cmp(key, n.key); {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n
		}
	}
	return nil
}

// Min returns the smallest live entry.
func (t *Tree[K, V]) Min() (K, V, bool) {
	n, _ := t.minNode()
	if n == nil {
		var (
			key K
			val V
		)
		return key, val, false
	}
	return n.key, n.val, true
}

// minNode descends to the leftmost live node, skipping subtrees without
// live entries. It also returns the number of nodes visited.
func (t *Tree[K, V]) minNode() (*node[K, V], int) {
	visited := 0
	n := t.root
	for liveOf(n) > 0 {
		visited++
		switch {
		case liveOf(n.left) > 0:
			n = n.left
		case !n.deleted:
			return n, visited
		default:
			n = n.right
		}
	}
	return nil, visited
}

// PopMin removes and returns the smallest live entry.
func (t *Tree[K, V]) PopMin() (K, V, bool) {
	key, val, ok := t.Min()
	if ok {
		t.Remove(key)
	}
	return key, val, ok
}

// Ascend calls fn for every live entry in key order until fn returns false.
// Subtrees holding only tombstones are not entered.
func (t *Tree[K, V]) Ascend(fn func(key K, val V) bool) {
	stack := make([]*node[K, V], 0, height(t.root))
	n := t.root
	for liveOf(n) > 0 || len(stack) > 0 {
		for liveOf(n) > 0 {
			stack = append(stack, n)
			n = n.left
		}
		n = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !n.deleted && !fn(n.key, n.val) {
			return
		}
		n = n.right
	}
}

// Keys returns live keys in order.
func (t *Tree[K, V]) Keys() []K {
	out := make([]K, 0, t.live)
	t.Ascend(func(k K, _ V) bool {
		out = append(out, k)
		return true
	})
	return out
}

// Walk visits every physical node in pre-order (node, left, right),
// including tombstones, reporting the depth of each node.
func (t *Tree[K, V]) Walk(fn func(key K, depth int, deleted bool)) {
	var walk func(n *node[K, V], depth int)
	walk = func(n *node[K, V], depth int) {
		if n == nil {
			return
		}
		fn(n.key, depth, n.deleted)
		walk(n.left, depth+1)
		walk(n.right, depth+1)
	}
	walk(t.root, 0)
}

// Fprint writes the tree shape in pre-order, one node per row. Absent
// children are printed as "x" and tombstones carry a "(D)" suffix.
func (t *Tree[K, V]) Fprint(w io.Writer) error {
	var walk func(n *node[K, V], depth int) error
	walk = func(n *node[K, V], depth int) error {
		pad := strings.Repeat("  ", depth)
		if n == nil {
			_, err := fmt.Fprintf(w, "%sx\n", pad)
			return err
		}
		suffix := ""
		if n.deleted {
			suffix = " (D)"
		}
		if _, err := fmt.Fprintf(w, "%s%v%s\n", pad, n.key, suffix); err != nil {
			return err
		}
		if err := walk(n.left, depth+1); err != nil {
			return err
		}
		return walk(n.right, depth+1)
	}
	return walk(t.root, 0)
}

func height[K, V any](n *node[K, V]) int {
	if n == nil {
		return 0
	}
	return n.height
}

func liveOf[K, V any](n *node[K, V]) int {
	if n == nil {
		return 0
	}
	return n.live
}

// fixHeight пересчитывает высоту и счётчик живых записей по детям.
func fixHeight[K, V any](n *node[K, V]) {
	n.height = 1 + max(height(n.left), height(n.right))
	n.live = liveOf(n.left) + liveOf(n.right)
	if !n.deleted {
		n.live++
	}
}

func rotateRight[K, V any](p *node[K, V]) *node[K, V] {
	q := p.left
	p.left = q.right
	q.right = p
	fixHeight(p)
	fixHeight(q)
	return q
}

func rotateLeft[K, V any](p *node[K, V]) *node[K, V] {
	q := p.right
	p.right = q.left
	q.left = p
	fixHeight(p)
	fixHeight(q)
	return q
}

// rebalance recomputes the height and live count of n and rotates when its subtrees differ by 2.
func rebalance[K, V any](n *node[K, V]) *node[K, V] {
	fixHeight(n)

	switch height(n.left) - height(n.right) {
	case 2:
		if height(n.left.right) > height(n.left.left) {
			// LR
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	case -2:
		if height(n.right.left) > height(n.right.right) {
			// RL
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	}
	return n
}
