package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"deadend/internal/driver"
	"deadend/internal/ui"
)

type checkOutcome struct {
	results []*driver.Result
	err     error
}

// runCheckDirWithUI runs CheckDir while a progress view follows it.
// Events that do not fit the channel are dropped.
func runCheckDirWithUI(ctx context.Context, title, root string, opts driver.DirOptions) ([]*driver.Result, error) {
	matcher, err := driver.NewMatcher(opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}
	files, err := driver.ListFiles(root, matcher)
	if err != nil {
		return nil, err
	}

	events := make(chan driver.Progress, len(files))
	outcomeCh := make(chan checkOutcome, 1)
	go func() {
		o := opts
		o.Progress = func(p driver.Progress) {
			select {
			case events <- p:
			default:
			}
		}
		res, err := driver.CheckDir(ctx, root, o)
		outcomeCh <- checkOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
