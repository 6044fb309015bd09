package block_test

import (
	"context"
	"errors"
	"testing"

	"deadend/internal/block"
	"deadend/internal/oracle"
	"deadend/internal/source"
)

type countingOracle struct {
	calls int
	last  string
	inner oracle.Oracle
}

func (c *countingOracle) Valid(ctx context.Context, src string) (bool, error) {
	c.calls++
	c.last = src
	return c.inner.Valid(ctx, src)
}

func TestIndentAndKey(t *testing.T) {
	lines := source.FromSource("  def foo\n\n    bar\n  end\n")
	b := block.New(lines)
	if b.Indent() != 2 {
		t.Fatalf("Indent() = %d, want 2", b.Indent())
	}
	if got := b.Key(); got != (block.Key{Indent: 2, Start: 1}) {
		t.Fatalf("Key() = %+v", got)
	}
	if b.Span() != (source.Span{Start: 1, End: 4}) {
		t.Fatalf("Span() = %v", b.Span())
	}

	// скрытые строки не участвуют в отступе
	lines[0].MarkInvisible()
	lines[3].MarkInvisible()
	b.Invalidate()
	if b.Indent() != 4 {
		t.Fatalf("Indent() after hiding = %d, want 4", b.Indent())
	}

	empty := block.New(source.FromSource("\n   \n"))
	if empty.Indent() != 0 {
		t.Fatalf("all-empty block indent = %d, want 0", empty.Indent())
	}
}

func TestCompareKeys(t *testing.T) {
	deep := block.Key{Indent: 4, Start: 10}
	shallow := block.Key{Indent: 2, Start: 1}
	later := block.Key{Indent: 4, Start: 12}
	if block.CompareKeys(deep, shallow) >= 0 {
		t.Error("deeper block must come first")
	}
	if block.CompareKeys(deep, later) >= 0 {
		t.Error("earlier block must come first at equal indent")
	}
	if block.CompareKeys(deep, deep) != 0 {
		t.Error("equal keys must compare equal")
	}
}

func TestValidMemoised(t *testing.T) {
	o := &countingOracle{inner: oracle.Keyword{}}
	b := block.New(source.FromSource("def foo\nend\n"))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := b.Valid(ctx, o)
		if err != nil || !ok {
			t.Fatalf("Valid = %v, %v", ok, err)
		}
	}
	if o.calls != 1 {
		t.Fatalf("oracle called %d times, want 1", o.calls)
	}
	if b.Validity() != block.Valid {
		t.Fatalf("Validity = %s", b.Validity())
	}

	b.Invalidate()
	if b.Validity() != block.Unknown {
		t.Fatal("Invalidate must reset the verdict")
	}
	if _, err := b.Valid(ctx, o); err != nil || o.calls != 2 {
		t.Fatalf("after Invalidate: calls=%d err=%v", o.calls, err)
	}
}

func TestBlankBlockSkipsOracle(t *testing.T) {
	o := &countingOracle{inner: oracle.Func(func(context.Context, string) (bool, error) {
		return false, nil
	})}
	lines := source.FromSource("\nend\n\n")
	lines[1].MarkInvisible()
	b := block.New(lines)
	ok, err := b.Valid(context.Background(), o)
	if err != nil || !ok {
		t.Fatalf("Valid = %v, %v", ok, err)
	}
	if o.calls != 0 {
		t.Fatal("hidden/empty block must not reach the oracle")
	}
}

func TestExclusions(t *testing.T) {
	lines := source.FromSource("def a\n  if x\n  b\nend\n")
	b := block.New(lines)
	o := &countingOracle{inner: oracle.Keyword{}}
	ctx := context.Background()

	if ok, _ := b.Valid(ctx, o); ok {
		t.Fatal("unclosed if must be invalid")
	}
	b.SetExcluded([]source.Span{{Start: 2, End: 2}})
	if b.Validity() != block.Unknown {
		t.Fatal("SetExcluded must reset the verdict")
	}
	ok, err := b.Valid(ctx, o)
	if err != nil || !ok {
		t.Fatalf("Valid with exclusion = %v, %v", ok, err)
	}
	if o.last != "def a\n  b\nend\n" {
		t.Fatalf("oracle saw %q", o.last)
	}

	b.MarkInvisible()
	if lines[1].Hidden() {
		t.Fatal("excluded line must stay visible")
	}
	if !lines[0].Hidden() || !lines[2].Hidden() || !lines[3].Hidden() {
		t.Fatal("other lines must be hidden")
	}
	if got := b.Text(); got != "" {
		t.Fatalf("Text() = %q, want empty", got)
	}
	if got := b.String(); got != "def a\n  if x\n  b\nend" {
		t.Fatalf("String() = %q", got)
	}
}

func TestOracleErrorNotMemoised(t *testing.T) {
	o := oracle.Func(func(context.Context, string) (bool, error) {
		return false, oracle.ErrUnavailable
	})
	b := block.New(source.FromSource("x\n"))
	if _, err := b.Valid(context.Background(), o); !errors.Is(err, oracle.ErrUnavailable) {
		t.Fatalf("err = %v", err)
	}
	if b.Validity() != block.Unknown {
		t.Fatal("failed check must leave the verdict unknown")
	}
}

func TestNewPanicsOnGap(t *testing.T) {
	lines := source.FromSource("a\nb\nc\n")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-contiguous lines")
		}
	}()
	block.New([]*source.Line{lines[0], lines[2]})
}
