// Package block models a contiguous run of document lines that the search
// treats as one candidate unit.
package block

import (
	"cmp"
	"context"
	"fmt"
	"strings"

	"deadend/internal/oracle"
	"deadend/internal/source"
)

// Validity is the memoised verdict of the oracle for a block.
type Validity uint8

const (
	Unknown Validity = iota
	Valid
	Invalid
)

func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Block borrows a contiguous, non-empty run of lines.
type Block struct {
	lines []*source.Line

	indent      int
	indentKnown bool
	validity    Validity

	// excluded - диапазоны, которые не участвуют в тексте блока
	excluded []source.Span
}

// New wraps lines into a block. It panics when lines are empty or not
// contiguous: both are construction bugs.
func New(lines []*source.Line) *Block {
	if len(lines) == 0 {
		panic("block: empty line run")
	}
	for i := 1; i < len(lines); i++ {
		if lines[i].Number != lines[i-1].Number+1 {
			panic(fmt.Sprintf("block: lines %d and %d are not contiguous", lines[i-1].Number, lines[i].Number))
		}
	}
	return &Block{lines: lines}
}

func (b *Block) Lines() []*source.Line { return b.lines }
func (b *Block) Start() int            { return b.lines[0].Number }
func (b *Block) End() int              { return b.lines[len(b.lines)-1].Number }
func (b *Block) Span() source.Span     { return source.Span{Start: b.Start(), End: b.End()} }

// Indent is the minimum indentation over non-empty visible lines, 0 if there are none.
// Computed once; Invalidate forgets it.
func (b *Block) Indent() int {
	if b.indentKnown {
		return b.indent
	}
	first := true
	for _, l := range b.lines {
		if l.Empty || l.Hidden() {
			continue
		}
		if first || l.Indent < b.indent {
			b.indent = l.Indent
			first = false
		}
	}
	if first {
		b.indent = 0
	}
	b.indentKnown = true
	return b.indent
}

// Key returns the ordering key of the block.
func (b *Block) Key() Key {
	return Key{Indent: b.Indent(), Start: b.Start()}
}

// SetExcluded sets the spans whose lines are left out of the block text.
// Changing the exclusions forgets the memoised verdict.
func (b *Block) SetExcluded(spans []source.Span) {
	b.excluded = spans
	b.Invalidate()
}

func (b *Block) Excluded() []source.Span { return b.excluded }

func (b *Block) isExcluded(n int) bool {
	for _, s := range b.excluded {
		if s.Contains(n) {
			return true
		}
	}
	return false
}

// VisibleLines returns the lines that make up the block text:
// not hidden and not inside an excluded span.
func (b *Block) VisibleLines() []*source.Line {
	out := make([]*source.Line, 0, len(b.lines))
	for _, l := range b.lines {
		if l.Visible() && !b.isExcluded(l.Number) {
			out = append(out, l)
		}
	}
	return out
}

// Invalidate drops the memoised indent and verdict.
func (b *Block) Invalidate() {
	b.validity = Unknown
	b.indentKnown = false
}

// Validity returns the memoised verdict without consulting the oracle.
func (b *Block) Validity() Validity { return b.validity }

// Valid asks the oracle about the block text, once. A block whose visible
// lines are all empty is valid without a call.
func (b *Block) Valid(ctx context.Context, o oracle.Oracle) (bool, error) {
	switch b.validity {
	case Valid:
		return true, nil
	case Invalid:
		return false, nil
	}

	visible := b.VisibleLines()
	blank := true
	for _, l := range visible {
		if !l.Empty {
			blank = false
			break
		}
	}
	if blank {
		b.validity = Valid
		return true, nil
	}

	ok, err := o.Valid(ctx, source.Join(visible))
	if err != nil {
		return false, err
	}
	if ok {
		b.validity = Valid
	} else {
		b.validity = Invalid
	}
	return ok, nil
}

// MarkInvisible hides every line of the block outside the excluded spans.
func (b *Block) MarkInvisible() {
	for _, l := range b.lines {
		if !b.isExcluded(l.Number) {
			l.MarkInvisible()
		}
	}
}

// Text returns the block text as the oracle sees it.
func (b *Block) Text() string { return source.Join(b.VisibleLines()) }

// String returns every line of the block, hidden or not.
func (b *Block) String() string {
	return strings.TrimSuffix(source.Join(b.lines), "\n")
}

// Key orders blocks for the search frontier: deepest first, then earliest.
type Key struct {
	Indent int
	Start  int
}

// CompareKeys sorts by indent descending, then by start line ascending.
func CompareKeys(a, b Key) int {
	if c := cmp.Compare(b.Indent, a.Indent); c != 0 {
		return c
	}
	return cmp.Compare(a.Start, b.Start)
}
