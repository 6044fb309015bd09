package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"deadend/internal/driver"
)

func TestProgressModelStatuses(t *testing.T) {
	events := make(chan driver.Progress)
	m := NewProgressModel("checking app", []string{"a.rb", "b.rb", "c.rb"}, events).(*progressModel)

	m.Update(eventMsg{Path: "a.rb", Done: 1, Total: 3})
	m.Update(eventMsg{Path: "b.rb", Done: 2, Total: 3, Invalid: true})
	m.Update(eventMsg{Path: "c.rb", Done: 3, Total: 3, Invalid: true, Err: errors.New("boom")})
	m.Update(eventMsg{Path: "unknown.rb", Done: 3, Total: 3})

	got := []string{m.items[0].status, m.items[1].status, m.items[2].status}
	want := []string{statusOK, statusInvalid, statusError}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("statuses = %v, want %v", got, want)
		}
	}
	if m.invalid != 1 {
		t.Fatalf("invalid = %d, want 1", m.invalid)
	}

	_, cmd := m.Update(doneMsg{})
	if cmd == nil || !m.done {
		t.Fatal("doneMsg must quit the program")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("cmd does not return tea.QuitMsg")
	}
	if view := m.View(); !strings.Contains(view, "done: checking app (1 invalid)") {
		t.Fatalf("view header missing:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("app/models/dog.rb", 10); got != "app/mod..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("dog.rb", 10); got != "dog.rb" {
		t.Fatalf("truncate = %q", got)
	}
}
