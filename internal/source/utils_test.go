package source

import "testing"

func TestNormalizeCRLF(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		changed bool
	}{
		{"a\nb\n", "a\nb\n", false},
		{"a\r\nb\r\n", "a\nb\n", true},
		{"a\rb", "a\rb", false},
		{"a\r\r\nb", "a\r\nb", true},
	}
	for _, tc := range cases {
		got, changed := normalizeCRLF([]byte(tc.in))
		if string(got) != tc.want || changed != tc.changed {
			t.Errorf("normalizeCRLF(%q) = %q,%v; want %q,%v", tc.in, got, changed, tc.want, tc.changed)
		}
	}
}

func TestRemoveBOM(t *testing.T) {
	got, had := removeBOM([]byte("\xEF\xBB\xBFdef x"))
	if !had || string(got) != "def x" {
		t.Fatalf("removeBOM: got %q had=%v", got, had)
	}
	got, had = removeBOM([]byte("de"))
	if had || string(got) != "de" {
		t.Fatalf("short input must pass through, got %q had=%v", got, had)
	}
}
