package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.rb")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFdef a\r\n  1\r\nend\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("expected BOM and CRLF flags, got %b", f.Flags)
	}
	if f.Text() != "def a\n  1\nend\n" {
		t.Errorf("unexpected content %q", f.Text())
	}
	if len(f.Lines) != 3 || f.Line(2).Indent != 2 {
		t.Errorf("unexpected lines: %d", len(f.Lines))
	}
	if f.Line(0) != nil || f.Line(4) != nil {
		t.Error("out-of-range Line must return nil")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.rb"), LoadOptions{}); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestFromBytesNFC(t *testing.T) {
	// "e" + combining acute accent
	f := FromBytes("nfc.rb", []byte("cafe\u0301\n"), FileVirtual, LoadOptions{NormalizeNFC: true})
	if f.Flags&FileNormalizedNFC == 0 {
		t.Fatal("expected NFC flag")
	}
	if f.Lines[0].Text != "caf\u00e9" {
		t.Fatalf("expected composed text, got %q", f.Lines[0].Text)
	}

	same := FromString("virtual.rb", "x\n")
	if same.Flags&FileVirtual == 0 || same.Flags&FileNormalizedNFC != 0 {
		t.Fatalf("unexpected flags %b", same.Flags)
	}
}
