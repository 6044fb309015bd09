package oracle_test

import (
	"context"
	"testing"

	"deadend/internal/oracle"
)

func TestKeywordValid(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		valid bool
	}{
		{"empty", "", true},
		{"if else", "def foo\n  if x\n    bar\n  else\n    baz\n  end\nend\n", true},
		{"missing end", "def foo\n  items.each do |i|\n    if i\n      puts i\n  end\nend\n", false},
		{"extra end", "def foo\n  bar\nend\nend\n", false},
		{"lone end", "end\n", false},
		{"lone else", "else\n", false},
		{"lone opener", "it \"x\" do\n", false},
		{"modifiers", "return if x\nputs 1 unless y\nx += 1 while y\nfoo rescue nil\n", true},
		{"loop do", "while x do\n  y\nend\nfor a in b do\n  c\nend\n", true},
		{"if expression", "x = if y then 1 else 2 end\n", true},
		{"end as method and symbol", "foo.end\nbar(:end)\n{end: 1}\nr&.end\n", true},
		{"keyword in string", "puts \"end\"\nputs 'def'\nputs \"#{a + \"}\"} end\"\n", true},
		{"comment", "def a # do\nend # end\n", true},
		{"singleton class", "class << self\n  def a; end\nend\n", true},
		{"heredoc", "x = <<~EOS\n  end\n  def\nEOS\n", true},
		{"unterminated heredoc", "x = <<~EOS\n  end\n", false},
		{"embedded doc", "=begin\nend\n=end\nputs 1\n", true},
		{"endless def", "def foo = 1\ndef bar(a) = a * 2\n", true},
		{"operator defs", "def ==(other)\n  true\nend\ndef x=(v)\n  @x = v\nend\n", true},
		{"percent literal", "%w(a b end)\n%i[do if]\n", true},
		{"regexp", "x = /end(/\n", true},
		{"ternary", "a ? b : c\nx.nil? ? 1 : 2\n", true},
		{"char literal", "c = ?(\n", true},
		{"brackets", "foo(bar[1], {a: 2})\n", true},
		{"mismatched brackets", "foo(]\n", false},
		{"unterminated string", "puts \"abc\n", false},
		{"case when", "case x\nwhen 1\n  a\nelse\n  b\nend\n", true},
		{"begin rescue ensure", "begin\n  a\nrescue => e\n  b\nensure\n  c\nend\n", true},
		{"data section", "puts 1\n__END__\nend end\n", true},
		{"constant scope", "Foo::Bar.new\nA::B::end_value\n", true},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oracle.Keyword{}.Valid(ctx, tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.valid {
				t.Fatalf("Valid(%q) = %v, want %v", tt.src, got, tt.valid)
			}
		})
	}
}

func TestKeywordBalance(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		keywords int
		ends     int
		unclosed map[byte]int
		unopened map[byte]int
	}{
		{name: "balanced", src: "def a\nend\n"},
		{name: "missing end", src: "class A\n  def b\nend\n", keywords: 1},
		{name: "extra end", src: "def a\nend\nend\n", ends: 1},
		{name: "paren", src: "foo(1\n", unclosed: map[byte]int{'(': 1}},
		{name: "bracket", src: "a]\n", unopened: map[byte]int{']': 1}},
		{name: "mixed", src: "def a\n  foo(}\n", keywords: 1, unclosed: map[byte]int{'(': 1}, unopened: map[byte]int{'}': 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := oracle.Keyword{}.Balance(tt.src)
			if b.Keywords != tt.keywords || b.Ends != tt.ends {
				t.Fatalf("keywords=%d ends=%d, want %d %d", b.Keywords, b.Ends, tt.keywords, tt.ends)
			}
			for _, c := range []byte("([{") {
				if b.Unclosed[c] != tt.unclosed[c] {
					t.Errorf("unclosed %q = %d, want %d", c, b.Unclosed[c], tt.unclosed[c])
				}
			}
			for _, c := range []byte(")]}") {
				if b.Unopened[c] != tt.unopened[c] {
					t.Errorf("unopened %q = %d, want %d", c, b.Unopened[c], tt.unopened[c])
				}
			}
			wantBalanced := tt.keywords == 0 && tt.ends == 0 && len(tt.unclosed) == 0 && len(tt.unopened) == 0
			if b.Balanced() != wantBalanced {
				t.Fatalf("Balanced() = %v, want %v", b.Balanced(), wantBalanced)
			}
		})
	}
}

func TestKeywordCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (oracle.Keyword{}).Valid(ctx, "def a\nend\n"); err == nil {
		t.Fatal("expected context error")
	}
}
