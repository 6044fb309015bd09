// Package capture widens invalid blocks into a readable excerpt: the
// enclosing openers and closers at every shallower indentation level and,
// for a block reduced to a single line, the neighbouring sibling pairs.
package capture

import (
	"slices"

	"deadend/internal/block"
	"deadend/internal/oracle"
	"deadend/internal/source"
)

// Options tune context capture.
type Options struct {
	// Balancer classifies a line as opener and/or closer when collecting
	// neighbours. Without it a neighbour walk stops after two lines.
	Balancer oracle.Balancer
}

// Context is the ordered line set for the renderer.
type Context struct {
	Lines  []*source.Line // по номеру строки, без повторов
	Marked map[int]bool   // строки самих невалидных блоков
}

// Numbers returns the line numbers of the context.
func (c Context) Numbers() []int {
	out := make([]int, len(c.Lines))
	for i, l := range c.Lines {
		out[i] = l.Number
	}
	return out
}

// Capture builds the context for blocks over the full document lines,
// hidden ones included.
func Capture(blocks []*block.Block, lines []*source.Line, opts Options) Context {
	ctx := Context{Marked: make(map[int]bool)}
	if len(blocks) == 0 || len(lines) == 0 {
		return ctx
	}
	c := capturer{lines: lines, first: lines[0].Number, opts: opts, seen: make(map[int]bool)}
	for _, b := range blocks {
		core := coreLines(b)
		for _, l := range core {
			ctx.Marked[l.Number] = true
			c.add(l)
		}
		indent, ok := minIndent(core)
		if !ok {
			continue
		}
		c.fallingIndent(b, indent)
		if len(core) == 1 {
			c.neighbours(b, indent)
		}
	}

	ctx.Lines = c.out
	slices.SortFunc(ctx.Lines, func(a, b *source.Line) int { return a.Number - b.Number })
	return ctx
}

type capturer struct {
	lines []*source.Line
	first int
	opts  Options
	seen  map[int]bool
	out   []*source.Line
}

func (c *capturer) add(l *source.Line) {
	if c.seen[l.Number] {
		return
	}
	c.seen[l.Number] = true
	c.out = append(c.out, l)
}

// index переводит номер строки в индекс среза
func (c *capturer) index(number int) int { return number - c.first }

// fallingIndent walks away from the block in both directions and keeps
// every line shallower than the last one kept: the enclosing openers above
// and their closers below.
func (c *capturer) fallingIndent(b *block.Block, indent int) {
	last := indent
	for i := c.index(b.Start()) - 1; i >= 0 && last > 0; i-- {
		if l := c.lines[i]; !l.Empty && l.Indent < last {
			c.add(l)
			last = l.Indent
		}
	}
	last = indent
	for i := c.index(b.End()) + 1; i < len(c.lines) && last > 0; i++ {
		if l := c.lines[i]; !l.Empty && l.Indent < last {
			c.add(l)
			last = l.Indent
		}
	}
}

// neighbours keeps sibling lines at the same indentation on each side of
// the block until one opener/closer pair is complete. A lone closer or
// opener may belong to either side, so the reader sees both.
func (c *capturer) neighbours(b *block.Block, indent int) {
	var up []*source.Line
	w := walker{opts: c.opts}
	for i := c.index(b.Start()) - 1; i >= 0; i-- {
		l := c.lines[i]
		if l.Empty || l.Indent > indent {
			continue
		}
		if l.Indent < indent {
			break
		}
		up = append(up, l)
		if w.done(l) {
			break
		}
	}
	slices.Reverse(up)
	for _, l := range up {
		c.add(l)
	}

	w = walker{opts: c.opts}
	for i := c.index(b.End()) + 1; i < len(c.lines); i++ {
		l := c.lines[i]
		if l.Empty || l.Indent > indent {
			continue
		}
		if l.Indent < indent {
			break
		}
		c.add(l)
		if w.done(l) {
			break
		}
	}
}

type walker struct {
	opts   Options
	opens  int
	closes int
	seen   int
}

// done reports whether the walk has collected a complete pair.
func (w *walker) done(l *source.Line) bool {
	w.seen++
	if w.opts.Balancer == nil {
		return w.seen >= 2
	}
	bal := w.opts.Balancer.Balance(l.Text)
	w.opens += bal.Keywords
	w.closes += bal.Ends
	for _, n := range bal.Unclosed {
		w.opens += n
	}
	for _, n := range bal.Unopened {
		w.closes += n
	}
	return w.opens != 0 && w.opens == w.closes
}

// coreLines - видимые строки блока, а если всё скрыто, то все непустые
func coreLines(b *block.Block) []*source.Line {
	var out []*source.Line
	for _, l := range b.VisibleLines() {
		if !l.Empty {
			out = append(out, l)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, l := range b.Lines() {
		if !l.Empty {
			out = append(out, l)
		}
	}
	return out
}

func minIndent(lines []*source.Line) (int, bool) {
	if len(lines) == 0 {
		return 0, false
	}
	m := lines[0].Indent
	for _, l := range lines[1:] {
		m = min(m, l.Indent)
	}
	return m, true
}
