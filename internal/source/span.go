package source

import (
	"cmp"
	"fmt"
)

// Span is an inclusive range of 1-based line numbers.
type Span struct {
	Start int
	End   int
}

// SpanOf returns the span covered by a contiguous run of lines.
func SpanOf(lines []*Line) Span {
	if len(lines) == 0 {
		return Span{}
	}
	return Span{Start: lines[0].Number, End: lines[len(lines)-1].Number}
}

func (s Span) Empty() bool {
	return s.End < s.Start || s.Start == 0
}

// Len returns the number of lines in the span.
func (s Span) Len() int {
	if s.Empty() {
		return 0
	}
	return s.End - s.Start + 1
}

func (s Span) String() string {
	if s.Start == s.End {
		return fmt.Sprintf("%d", s.Start)
	}
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// Contains reports whether line number n lies inside the span.
func (s Span) Contains(n int) bool {
	return n >= s.Start && n <= s.End
}

// Covers reports whether other lies entirely inside s.
func (s Span) Covers(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

// Overlaps reports whether the two spans share at least one line.
func (s Span) Overlaps(other Span) bool {
	return s.Start <= other.End && other.Start <= s.End
}

func (s Span) Cover(other Span) Span {
	if s.Empty() {
		return other
	}
	if other.Empty() {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// CompareSpans orders spans by start, then by end.
func CompareSpans(a, b Span) int {
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	return cmp.Compare(a.End, b.End)
}
