package indent

import (
	"deadend/internal/block"
	"deadend/internal/source"
)

// item - строка базового уровня или максимальный прогон более глубоких строк
type item struct {
	lo, hi      int // полуинтервал индексов строк, включая пустые
	first, last int // индексы первой и последней непустой строки
	deep        bool
}

// Build constructs the indentation tree. It never fails: ragged or
// unbalanced indentation still yields a tree, possibly a leaning one.
// An empty document yields a tree without a root.
func Build(lines []*source.Line) *Tree {
	t := &Tree{Lines: lines}
	if len(lines) == 0 {
		return t
	}
	base, ok := minIndent(lines)
	if !ok {
		t.leaf(-1, 0, len(lines))
		return t
	}
	t.build(-1, 0, len(lines), base)
	return t
}

func (t *Tree) build(parent, lo, hi, base int) int {
	items := t.items(lo, hi, base)
	if len(items) <= 1 {
		return t.leaf(parent, lo, hi)
	}
	items = t.promoteRaggedCloser(items)

	groups := groupItems(items)
	if len(groups) == 1 {
		id := t.add(parent, lo, hi)
		t.fillChain(id, items)
		return id
	}

	id := t.add(parent, lo, hi)
	t.nodes[id].Kind = List
	sum := 0
	for _, g := range groups {
		var cid int
		if len(g) == 1 {
			cid = t.leaf(id, g[0].lo, g[0].hi)
		} else {
			cid = t.add(id, g[0].lo, g[len(g)-1].hi)
			t.fillChain(cid, g)
		}
		t.nodes[id].Inner = append(t.nodes[id].Inner, cid)
		sum += t.nodes[cid].balance
	}
	t.settle(id, sum)
	return id
}

func (t *Tree) fillChain(id int, items []item) {
	t.nodes[id].Kind = Chain
	sum := structural(items)
	for _, it := range items {
		var cid int
		if it.deep {
			cid = t.build(id, it.lo, it.hi, t.Lines[it.first].Indent)
		} else {
			cid = t.leaf(id, it.lo, it.hi)
			t.nodes[cid].Frame = true
		}
		t.nodes[id].Inner = append(t.nodes[id].Inner, cid)
		sum += t.nodes[cid].balance
	}
	t.settle(id, sum)
}

func (t *Tree) settle(id, balance int) {
	n := t.nodes[id]
	n.balance = balance
	switch {
	case balance > 0:
		n.Leaning = Left
	case balance < 0:
		n.Leaning = Right
	default:
		n.Leaning = Equal
	}
}

func (t *Tree) add(parent, lo, hi int) int {
	b := block.New(t.Lines[lo:hi])
	n := &Node{
		ID:     len(t.nodes),
		Parent: parent,
		Block:  b,
		Indent: b.Indent(),
	}
	t.nodes = append(t.nodes, n)
	return n.ID
}

func (t *Tree) leaf(parent, lo, hi int) int {
	return t.add(parent, lo, hi)
}

// items режет уровень [lo, hi) на элементы относительно base.
func (t *Tree) items(lo, hi, base int) []item {
	var out []item
	next := lo
	for i := lo; i < hi; i++ {
		l := t.Lines[i]
		if l.Empty {
			continue
		}
		deep := l.Indent > base
		if n := len(out); deep && n > 0 && out[n-1].deep {
			out[n-1].hi = i + 1
			out[n-1].last = i
			next = i + 1
			continue
		}
		out = append(out, item{lo: next, hi: i + 1, first: i, last: i, deep: deep})
		next = i + 1
	}
	if n := len(out); n > 0 {
		out[n-1].hi = hi
	}
	return out
}

// promoteRaggedCloser отщепляет последнюю строку хвостового глубокого прогона,
// если она мельче его начала: это закрывающая строка с неровным отступом.
//
//	def b        shallow
//	    c        deep ┐
//	   end       deep ┘ -> shallow
func (t *Tree) promoteRaggedCloser(items []item) []item {
	n := len(items)
	if n < 2 || !items[n-1].deep || items[n-2].deep {
		return items
	}
	d := items[n-1]
	if d.first == d.last || t.Lines[d.last].Indent >= t.Lines[d.first].Indent {
		return items
	}
	j := d.last - 1
	for j > d.first && t.Lines[j].Empty {
		j--
	}
	body := item{lo: d.lo, hi: j + 1, first: d.first, last: j, deep: true}
	closer := item{lo: j + 1, hi: d.hi, first: d.last, last: d.last}
	return append(items[:n-1], body, closer)
}

// groupItems: новая группа начинается, когда мелкая строка идёт сразу за мелкой.
func groupItems(items []item) [][]item {
	var groups [][]item
	for _, it := range items {
		n := len(groups)
		if n == 0 || (!it.deep && !groups[n-1][len(groups[n-1])-1].deep) {
			groups = append(groups, []item{it})
			continue
		}
		groups[n-1] = append(groups[n-1], it)
	}
	return groups
}

// structural: +1 если группа открыта и не закрыта, -1 если закрыта без открытия.
func structural(g []item) int {
	first, last := g[0], g[len(g)-1]
	switch {
	case !first.deep && last.deep:
		return 1
	case first.deep && !last.deep:
		return -1
	}
	return 0
}

func minIndent(lines []*source.Line) (int, bool) {
	found := false
	m := 0
	for _, l := range lines {
		if l.Empty {
			continue
		}
		if !found || l.Indent < m {
			m = l.Indent
			found = true
		}
	}
	return m, found
}
