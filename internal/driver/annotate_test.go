package driver

import (
	"context"
	"strings"
	"testing"

	"deadend/internal/oracle"
)

func oracleCommand(argv ...string) oracle.Settings {
	return oracle.Settings{Kind: oracle.KindCommand, Command: argv}
}

func TestAnnotateAuto(t *testing.T) {
	out, err := Annotate(context.Background(), []byte(dogSource), "dog.rb", AnnotateOptions{Mode: ModeAuto})
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	for _, want := range []string{"Unmatched keyword, missing `end' ?", "❯ 2    def bark", "Run `$ deadend check dog.rb`"} {
		if !strings.Contains(out, want) {
			t.Errorf("annotation lacks %q:\n%s", want, out)
		}
	}
}

func TestAnnotateValidDocument(t *testing.T) {
	out, err := Annotate(context.Background(), []byte("def a\nend\n"), "ok.rb", AnnotateOptions{})
	if err != nil || out != "" {
		t.Fatalf("Annotate = %q, %v", out, err)
	}
}

func TestAnnotateMessage(t *testing.T) {
	file := writeFile(t, t.TempDir(), "script.rb", "describe \"x\" do\n  it \"y\"\n  end\nend\nend\n")
	message := file + ":5: syntax error, unexpected `end'\n"

	auto, err := AnnotateMessage(context.Background(), message, AnnotateOptions{Mode: ModeAuto})
	if err != nil {
		t.Fatalf("AnnotateMessage: %v", err)
	}
	if !strings.HasSuffix(auto, message) || !strings.Contains(auto, "Unmatched `end'") || !strings.Contains(auto, "Run `$ deadend") {
		t.Fatalf("auto annotation:\n%s", auto)
	}

	fyi, err := AnnotateMessage(context.Background(), message, AnnotateOptions{Mode: ModeFYI})
	if err != nil {
		t.Fatalf("AnnotateMessage: %v", err)
	}
	if strings.Contains(fyi, "Unmatched") || !strings.HasPrefix(fyi, strings.TrimRight(message, "\n")) || !strings.Contains(fyi, "Run `$ deadend") {
		t.Fatalf("fyi annotation:\n%s", fyi)
	}
}

func TestAnnotateMessageWithoutFile(t *testing.T) {
	msg := "-:1: syntax error"
	out, err := AnnotateMessage(context.Background(), msg, AnnotateOptions{})
	if err != nil || out != msg {
		t.Fatalf("AnnotateMessage = %q, %v", out, err)
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("FYI"); err != nil || m != ModeFYI {
		t.Fatalf("ParseMode = %v, %v", m, err)
	}
	if _, err := ParseMode("loud"); err == nil {
		t.Fatal("unknown mode accepted")
	}
}
