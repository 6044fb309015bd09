// Package search isolates the smallest invalid regions of a document.
//
// The indentation tree is walked through a priority frontier, deepest and
// earliest block first. A block the oracle accepts has its lines hidden, so
// the ancestors are later tested without it. A rejected block is split into
// its candidate children; a rejected block that cannot be split is recorded.
// Once every child of a node is resolved the node itself comes back to the
// frontier and is re-tested without its recorded descendants: if what
// remains is fine the descendants stay the answer, otherwise the node
// replaces them.
package search

import (
	"context"
	"fmt"
	"strconv"

	"deadend/internal/avl"
	"deadend/internal/block"
	"deadend/internal/indent"
	"deadend/internal/oracle"
	"deadend/internal/source"
	"deadend/internal/trace"
)

// Result of one search pass.
type Result struct {
	Tree *indent.Tree
	// Invalid blocks in source order; disjoint. Empty when the document is valid.
	Invalid []*block.Block
	// Nodes are the tree nodes behind Invalid, same order.
	Nodes []int
	// Calls counts oracle invocations.
	Calls int
}

// Valid reports whether no invalid block was found.
func (r *Result) Valid() bool { return len(r.Invalid) == 0 }

type engine struct {
	ctx    context.Context
	tree   *indent.Tree
	oracle oracle.Oracle
	tracer trace.Tracer
	span   uint64

	frontier *avl.Tree[block.Key, int]
	invalid  *avl.Tree[source.Span, int]
	pending  []int
	expanded []bool
	calls    int
}

// Search runs the frontier search over lines. Line visibility is reset
// first and left as the search ends: every line outside the reported blocks
// that was folded into valid structure is hidden.
//
// Oracle failures are returned unchanged; an empty document and a valid
// document are ordinary results.
func Search(ctx context.Context, lines []*source.Line, o oracle.Oracle) (*Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopePass, "search")

	source.ResetVisibility(lines)
	tspan := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "indent-tree", span.ID())
	tree := indent.Build(lines)
	tspan.End(strconv.Itoa(tree.Len()))
	res := &Result{Tree: tree}
	root := tree.Root()
	if root == nil {
		span.End("empty")
		return res, nil
	}

	e := &engine{
		ctx:      ctx,
		tree:     tree,
		tracer:   trace.FromContext(ctx),
		span:     span.ID(),
		frontier: avl.New[block.Key, int](block.CompareKeys),
		invalid:  avl.New[source.Span, int](source.CompareSpans),
		pending:  make([]int, tree.Len()),
		expanded: make([]bool, tree.Len()),
	}
	e.oracle = oracle.Func(e.ask(o))

	err := e.run(root)
	res.Calls = e.calls
	span.WithExtra("calls", strconv.Itoa(e.calls))
	if err != nil {
		trace.Error(e.tracer, trace.ScopePass, "search", span.ID(), err)
		span.End("failed")
		return nil, err
	}

	e.invalid.Ascend(func(_ source.Span, id int) bool {
		b := tree.Node(id).Block
		b.SetExcluded(nil)
		res.Invalid = append(res.Invalid, b)
		res.Nodes = append(res.Nodes, id)
		return true
	})
	span.WithExtra("blocks", strconv.Itoa(len(res.Invalid)))
	span.End("")
	return res, nil
}

// ask считает вызовы оракула и пишет их в трассу
func (e *engine) ask(o oracle.Oracle) func(context.Context, string) (bool, error) {
	return func(ctx context.Context, src string) (bool, error) {
		e.calls++
		ok, err := o.Valid(ctx, src)
		if err == nil && e.tracer.Enabled() {
			trace.Point(e.tracer, trace.ScopeNode, "oracle", e.span, fmt.Sprintf("call=%d bytes=%d valid=%t", e.calls, len(src), ok))
		}
		return ok, err
	}
}

func (e *engine) run(root *indent.Node) error {
	// весь документ целиком: валидный документ стоит одного вызова
	ok, err := root.Block.Valid(e.ctx, e.oracle)
	if err != nil || ok {
		return err
	}
	if len(e.tree.Candidates(root.ID)) == 0 {
		e.record(root.ID)
		return nil
	}

	e.expand(root.ID)
	for e.frontier.Len() > 0 {
		if err := e.ctx.Err(); err != nil {
			return err
		}
		_, id, _ := e.frontier.PopMin()
		if err := e.step(id); err != nil {
			return err
		}
	}
	return nil
}

func (e *engine) step(id int) error {
	n := e.tree.Node(id)
	if e.tracer.Enabled() {
		trace.Point(e.tracer, trace.ScopeNode, "pop", e.span, fmt.Sprintf("%s %s expanded=%t", n.Kind, n.Span(), e.expanded[id]))
	}
	if e.expanded[id] {
		return e.recheck(n)
	}

	ok, err := n.Block.Valid(e.ctx, e.oracle)
	switch {
	case err != nil:
		return err
	case ok:
		n.Block.MarkInvisible()
		e.finish(id)
	case len(e.tree.Candidates(id)) > 0:
		e.expand(id)
	default:
		e.record(id)
		e.finish(id)
	}
	return nil
}

// expand replaces a rejected node by its candidate children.
func (e *engine) expand(id int) {
	cands := e.tree.Candidates(id)
	e.expanded[id] = true
	e.pending[id] = len(cands)
	for _, c := range cands {
		e.frontier.Insert(e.tree.Node(c).Key(), c)
	}
}

// finish resolves id; the parent returns to the frontier once all its
// candidates are resolved. Its key cannot clash with a live entry: the
// children are gone and live entries cover disjoint lines.
func (e *engine) finish(id int) {
	p := e.tree.Node(id).Parent
	if p < 0 {
		return
	}
	e.pending[p]--
	if e.pending[p] == 0 {
		e.frontier.Insert(e.tree.Node(p).Key(), p)
	}
}

// recheck tests an expanded node without its recorded descendants.
func (e *engine) recheck(n *indent.Node) error {
	if n.Kind == indent.List {
		if err := e.pairSiblings(n); err != nil {
			return err
		}
	}

	inner := e.invalidWithin(n.Span())
	n.Block.SetExcluded(inner)
	ok, err := n.Block.Valid(e.ctx, e.oracle)
	if err != nil {
		return err
	}
	if ok {
		n.Block.MarkInvisible()
		n.Block.SetExcluded(nil)
		e.finish(n.ID)
		return nil
	}

	// остаток узла тоже ломается: узел поглощает найденное внутри
	n.Block.SetExcluded(nil)
	for _, s := range inner {
		e.invalid.Remove(s)
	}
	e.record(n.ID)
	e.finish(n.ID)
	return nil
}

// pairSiblings folds recorded siblings that are invalid alone but valid
// together, such as an opener line and the closer that follows it.
func (e *engine) pairSiblings(n *indent.Node) error {
	var stack []int
	for _, c := range n.Inner {
		child := e.tree.Node(c)
		if !e.invalid.Contains(child.Span()) {
			continue
		}
		if len(stack) == 0 {
			stack = append(stack, c)
			continue
		}

		top := e.tree.Node(stack[len(stack)-1])
		window := block.New(e.linesOf(source.Span{Start: top.Block.Start(), End: child.Block.End()}))
		var ex []source.Span
		for _, s := range e.invalidWithin(window.Span()) {
			if s != top.Span() && s != child.Span() {
				ex = append(ex, s)
			}
		}
		window.SetExcluded(ex)

		ok, err := window.Valid(e.ctx, e.oracle)
		if err != nil {
			return err
		}
		if !ok {
			stack = append(stack, c)
			continue
		}
		e.invalid.Remove(top.Span())
		e.invalid.Remove(child.Span())
		window.MarkInvisible()
		stack = stack[:len(stack)-1]
	}
	return nil
}

func (e *engine) record(id int) {
	e.invalid.Insert(e.tree.Node(id).Span(), id)
}

// invalidWithin returns the recorded spans lying inside s.
func (e *engine) invalidWithin(s source.Span) []source.Span {
	var out []source.Span
	e.invalid.Ascend(func(k source.Span, _ int) bool {
		if k.Start > s.End {
			return false
		}
		if s.Covers(k) {
			out = append(out, k)
		}
		return true
	})
	return out
}

func (e *engine) linesOf(s source.Span) []*source.Line {
	first := e.tree.Lines[0].Number
	return e.tree.Lines[s.Start-first : s.End-first+1]
}
