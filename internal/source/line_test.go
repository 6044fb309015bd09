package source

import "testing"

func TestFromSourceNumbersAndIndent(t *testing.T) {
	src := "def foo\n  bar\n\n\tbaz  \n    \nend\n"
	lines := FromSource(src)
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d", len(lines))
	}

	want := []struct {
		text   string
		indent int
		empty  bool
	}{
		{"def foo", 0, false},
		{"  bar", 2, false},
		{"", 0, true},
		{"\tbaz  ", 1, false},
		{"    ", 4, true},
		{"end", 0, false},
	}
	for i, w := range want {
		l := lines[i]
		if l.Number != i+1 {
			t.Errorf("line %d: number = %d", i, l.Number)
		}
		if l.Text != w.text || l.Indent != w.indent || l.Empty != w.empty {
			t.Errorf("line %d: got {%q %d %v}, want {%q %d %v}", i+1, l.Text, l.Indent, l.Empty, w.text, w.indent, w.empty)
		}
		if !l.Visible() {
			t.Errorf("line %d must start visible", i+1)
		}
	}
}

func TestFromSourceEdges(t *testing.T) {
	if got := FromSource(""); len(got) != 0 {
		t.Fatalf("empty document must have no lines, got %d", len(got))
	}
	// без завершающего перевода строки
	if got := FromSource("a\nb"); len(got) != 2 || got[1].Text != "b" {
		t.Fatalf("unexpected lines for unterminated input: %#v", got)
	}
	if got := FromSource("\n"); len(got) != 1 || !got[0].Empty {
		t.Fatalf("single newline must be one empty line, got %#v", got)
	}
	// текст строки не изменяется
	crlf := FromSource("x\r\n\r\n")
	if len(crlf) != 2 || crlf[0].Text != "x\r" || !crlf[1].Empty {
		t.Fatalf("raw text must be kept, got %#v", crlf)
	}
	if got := Join(crlf); got != "x\r\n\r\n" {
		t.Fatalf("Join must reproduce the input, got %q", got)
	}
}

func TestVisibilityAndJoin(t *testing.T) {
	lines := FromSource("a\n b\n")
	lines[1].MarkInvisible()
	if lines[1].Visible() || !lines[1].Hidden() {
		t.Fatal("line 2 must be hidden")
	}
	if got := Join(lines); got != "a\n b\n" {
		t.Fatalf("Join must keep hidden lines, got %q", got)
	}
	ResetVisibility(lines)
	if !lines[1].Visible() {
		t.Fatal("ResetVisibility must restore the line")
	}
}

func TestSpan(t *testing.T) {
	s := Span{Start: 3, End: 5}
	if s.Len() != 3 || !s.Contains(4) || s.Contains(6) {
		t.Fatalf("unexpected span behaviour for %v", s)
	}
	if !s.Covers(Span{Start: 4, End: 5}) || s.Covers(Span{Start: 2, End: 4}) {
		t.Fatal("Covers is wrong")
	}
	if !s.Overlaps(Span{Start: 5, End: 9}) || s.Overlaps(Span{Start: 6, End: 9}) {
		t.Fatal("Overlaps is wrong")
	}
	if got := s.Cover(Span{Start: 1, End: 2}); got != (Span{Start: 1, End: 5}) {
		t.Fatalf("Cover = %v", got)
	}
	if CompareSpans(Span{1, 4}, Span{1, 5}) >= 0 || CompareSpans(Span{2, 2}, Span{1, 9}) <= 0 {
		t.Fatal("CompareSpans must order by start then end")
	}
	if s.String() != "3-5" || (Span{7, 7}).String() != "7" {
		t.Fatalf("String = %q", s.String())
	}
}
