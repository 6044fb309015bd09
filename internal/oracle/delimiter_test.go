package oracle_test

import (
	"context"
	"testing"

	"deadend/internal/oracle"
)

func TestDelimiterValid(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		valid bool
	}{
		{"go func", "func main() {\n\tfmt.Println(\"}\")\n}\n", true},
		{"missing brace", "func main() {\n\tif x {\n\t\ty()\n}\n", false},
		{"extra brace", "func a() {\n}\n}\n", false},
		{"line comment", "a := 1 // }\n", true},
		{"block comment", "/* { ( */\nx()\n", true},
		{"nested block comment", "/* /* { */ */\n", true},
		{"unterminated comment", "/* {\n", false},
		{"char literal", "c := '{'\n", true},
		{"rust lifetime", "fn f<'a>(x: &'a str) {}\n", true},
		{"template literal", "const s = `\n{\n`;\n", true},
		{"unterminated string", "s := \"abc\nx()\n", false},
		{"crossed", "f([)]\n", false},
	}
	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oracle.Delimiter{}.Valid(ctx, tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.valid {
				t.Fatalf("Valid(%q) = %v, want %v", tt.src, got, tt.valid)
			}
		})
	}
}

func TestDelimiterBalance(t *testing.T) {
	b := oracle.Delimiter{}.Balance("func a() {\n\tx(\n")
	if b.Unclosed['{'] != 1 || b.Unclosed['('] != 1 {
		t.Fatalf("unclosed = %v", b.Unclosed)
	}
	if b.Keywords != 0 || b.Ends != 0 {
		t.Fatalf("delimiter balance must not count keywords: %+v", b)
	}
	if b := (oracle.Delimiter{}).Balance("/* x"); !b.Unterminated {
		t.Fatal("unterminated comment must be reported")
	}
}
