package driver

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestPathFromMessageWithColons(t *testing.T) {
	file := writeFile(t, t.TempDir(), "scr:atch.rb", "")
	message := file + ":2:in `require_relative': /private/tmp/bad.rb:1: syntax error, unexpected `end' (SyntaxError)"
	if got := PathFromMessage(message, nil); got != file {
		t.Fatalf("PathFromMessage = %q, want %q", got, file)
	}
}

func TestPathFromMessageMissingFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "scratch.rb")
	message := file + ":2:in `require_relative': /private/tmp/bad.rb:1: syntax error, unexpected `end' (SyntaxError)"
	var notice bytes.Buffer
	if got := PathFromMessage(message, &notice); got != "" {
		t.Fatalf("PathFromMessage = %q, want none", got)
	}
	if !strings.Contains(notice.String(), file) {
		t.Fatalf("notice %q does not name %s", notice.String(), file)
	}
}

func TestPathFromMessageSkipsEvalAndStdin(t *testing.T) {
	var notice bytes.Buffer
	for _, msg := range []string{"(eval):1: syntax error", "-:3: syntax error"} {
		if got := PathFromMessage(msg, &notice); got != "" {
			t.Fatalf("PathFromMessage(%q) = %q", msg, got)
		}
	}
	if notice.Len() != 0 {
		t.Fatalf("unexpected notice %q", notice.String())
	}
}
