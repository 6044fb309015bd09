package dialect

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		want      Family
		confident bool
	}{
		{
			name:      "ruby class",
			src:       "require 'json'\n\nclass Dog\n  def bark\n    puts \"woof\"\n  end\nend\n",
			want:      Keyword,
			confident: true,
		},
		{
			name:      "ruby shebang",
			src:       "#!/usr/bin/env ruby\nx = 1\n",
			want:      Keyword,
			confident: true,
		},
		{
			name:      "go source",
			src:       "package main\n\nfunc main() {\n\tx := 1\n\t_ = x\n}\n",
			want:      Brace,
			confident: true,
		},
		{
			name:      "c source",
			src:       "#include <stdio.h>\nint main(void) {\n  return 0;\n}\n",
			want:      Brace,
			confident: true,
		},
		{
			name: "plain text",
			src:  "hello\nworld\n",
			want: Unknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Detect(tt.src)
			if c.Family != tt.want {
				t.Fatalf("family = %s, want %s (%+v)", c.Family, tt.want, c)
			}
			if c.Confident() != tt.confident {
				t.Fatalf("confident = %v, want %v (%+v)", c.Confident(), tt.confident, c)
			}
		})
	}
}

func TestObserveLineBlockParams(t *testing.T) {
	e := NewEvidence()
	ObserveLine(e, 3, "  items.each do |item|")
	hints := e.Hints()
	if len(hints) != 1 || hints[0].Family != Keyword || hints[0].Line != 3 {
		t.Fatalf("hints = %+v", hints)
	}
}

func TestObserveLineSkipsComments(t *testing.T) {
	e := NewEvidence()
	ObserveLine(e, 2, "# def not_code")
	ObserveLine(e, 3, "   ")
	if len(e.Hints()) != 0 {
		t.Fatalf("hints = %+v", e.Hints())
	}
}

func TestClassifyTie(t *testing.T) {
	e := NewEvidence()
	e.Add(Hint{Family: Keyword, Score: 4})
	e.Add(Hint{Family: Brace, Score: 4})
	c := Classifier{}.Classify(e)
	if c.Family != Unknown || c.Confident() {
		t.Fatalf("tie must be unknown: %+v", c)
	}
	if got := (Classifier{}).Classify(nil); got.Family != Unknown {
		t.Fatalf("nil evidence: %+v", got)
	}
}

func TestFamilyString(t *testing.T) {
	if Keyword.String() != "keyword" || Brace.String() != "brace" || Unknown.String() != "unknown" {
		t.Fatal("unexpected family names")
	}
}
