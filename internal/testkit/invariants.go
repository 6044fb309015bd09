// Package testkit checks structural properties of search results. It is
// shared by tests of the search and driver packages.
package testkit

import (
	"context"
	"fmt"

	"deadend/internal/oracle"
	"deadend/internal/search"
	"deadend/internal/source"
)

// CheckResult runs the invariants every search result must satisfy:
//  1. the indent tree partitions its lines
//  2. reported blocks are non-empty, inside the document, sorted and disjoint
//  3. no reported block has an invalid candidate child
//  4. the document with every reported line removed is accepted by o
func CheckResult(ctx context.Context, res *search.Result, o oracle.Oracle) error {
	if res == nil || res.Tree == nil {
		return fmt.Errorf("nil result or tree")
	}
	if err := res.Tree.CheckPartition(); err != nil {
		return fmt.Errorf("partition: %w", err)
	}
	if len(res.Nodes) != len(res.Invalid) {
		return fmt.Errorf("nodes/blocks length mismatch: %d != %d", len(res.Nodes), len(res.Invalid))
	}

	// 2) границы и порядок
	total := len(res.Tree.Lines)
	var prev source.Span
	for i, b := range res.Invalid {
		s := b.Span()
		if s.Empty() || s.Start < 1 || s.End > total {
			return fmt.Errorf("block %s outside document of %d lines", s, total)
		}
		if i > 0 && (source.CompareSpans(prev, s) >= 0 || prev.Overlaps(s)) {
			return fmt.Errorf("blocks %s and %s are not sorted and disjoint", prev, s)
		}
		if node := res.Tree.Node(res.Nodes[i]); node.Span() != s {
			return fmt.Errorf("node %d covers %s, block covers %s", node.ID, node.Span(), s)
		}
		prev = s
	}

	// 3) минимальность
	for _, id := range res.Nodes {
		for _, c := range res.Tree.Candidates(id) {
			child := res.Tree.Node(c)
			ok, err := o.Valid(ctx, source.Join(child.Block.Lines()))
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("block %s has invalid sub-block %s", res.Tree.Node(id).Span(), child.Span())
			}
		}
	}

	// 4) без найденных блоков документ корректен
	if len(res.Invalid) == 0 {
		return nil
	}
	rest := make([]*source.Line, 0, total)
	for _, l := range res.Tree.Lines {
		if !covered(res, l.Number) {
			rest = append(rest, l)
		}
	}
	ok, err := o.Valid(ctx, source.Join(rest))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("document is still invalid without the reported blocks")
	}
	return nil
}

func covered(res *search.Result, n int) bool {
	for _, b := range res.Invalid {
		if b.Span().Contains(n) {
			return true
		}
	}
	return false
}
