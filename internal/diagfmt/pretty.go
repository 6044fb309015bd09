package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"deadend/internal/capture"
	"deadend/internal/diag"
	"deadend/internal/explain"
	"deadend/internal/source"
)

// Report is everything rendered for one checked document.
type Report struct {
	Path        string
	Diagnostics []diag.Diagnostic
	Context     capture.Context
}

// Valid reports whether the document had nothing to show.
func (r Report) Valid() bool { return len(r.Diagnostics) == 0 }

// Pretty печатает отчёты в человекочитаемом виде:
//
//	--> app/models/dog.rb
//	Unmatched keyword, missing `end' ?
//
//	  1  class Dog
//	❯ 2    def bark
//	  4  end
//
// Отчёты без строк контекста (ошибки окружения) печатаются одной строкой.
func Pretty(w io.Writer, reports []Report, opts PrettyOpts) error {
	header := color.New(color.FgCyan)
	sev := color.New(color.FgRed, color.Bold)
	if opts.Code.Color {
		header.EnableColor()
		sev.EnableColor()
	} else {
		header.DisableColor()
		sev.DisableColor()
	}

	for _, r := range reports {
		path := formatPath(r.Path, opts.PathMode, opts.BaseDir)
		if r.Valid() {
			if opts.ShowOK {
				if _, err := fmt.Fprintf(w, "%s: Syntax OK\n", displayName(path)); err != nil {
					return err
				}
			}
			continue
		}

		if len(r.Context.Lines) == 0 {
			for _, d := range r.Diagnostics {
				if _, err := fmt.Fprintf(w, "%s: %s %s: %s\n", displayName(path), sev.Sprint(d.Severity), d.Code.ID(), d.Message); err != nil {
					return err
				}
			}
			continue
		}

		if path != "" {
			if _, err := fmt.Fprintf(w, "\n%s\n", header.Sprint("--> "+path)); err != nil {
				return err
			}
		}
		for _, msg := range explain.Messages(r.Diagnostics) {
			if _, err := fmt.Fprintln(w, msg); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if err := Code(w, r.Context, opts.Code); err != nil {
			return err
		}
		if opts.ShowNotes {
			for _, d := range r.Diagnostics {
				for _, n := range d.Notes {
					if _, err := fmt.Fprintf(w, "  note: line %s: %s\n", n.Span, n.Msg); err != nil {
						return err
					}
				}
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func formatPath(p string, mode PathMode, baseDir string) string {
	if p == "" || p == "-" {
		return p
	}
	return source.DisplayPath(p, mode.String(), baseDir)
}

func displayName(p string) string {
	if p == "" || p == "-" {
		return "<stdin>"
	}
	return p
}
