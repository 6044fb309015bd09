package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"deadend/internal/capture"
	"deadend/internal/source"
)

// Code writes the captured lines with right-aligned numbers. Lines of an
// invalid block get the marker and, with colour, bold text:
//
//	  1  class Dog
//	❯ 2    def bark
//	  4  end
func Code(w io.Writer, ctx capture.Context, opts CodeOpts) error {
	if len(ctx.Lines) == 0 {
		return nil
	}
	marker := opts.Marker
	if marker == "" {
		marker = DefaultMarker
	}
	pad := strings.Repeat(" ", runewidth.StringWidth(marker))
	digits := len(strconv.Itoa(ctx.Lines[len(ctx.Lines)-1].Number))

	bold := color.New(color.Bold)
	red := color.New(color.FgRed, color.Bold)
	if opts.Color {
		bold.EnableColor()
		red.EnableColor()
	} else {
		bold.DisableColor()
		red.DisableColor()
	}

	width := 0
	if opts.Width > 0 {
		width = max(opts.Width-runewidth.StringWidth(pad)-digits-2, 1)
	}

	prev := 0
	for _, l := range ctx.Lines {
		if opts.Elide && prev != 0 && l.Number > prev+1 {
			if _, err := fmt.Fprintf(w, "%s%*s\n", pad, digits, "..."); err != nil {
				return err
			}
		}
		prev = l.Number

		marked := ctx.Marked[l.Number]
		prefix := pad
		if marked {
			prefix = red.Sprint(marker)
		}
		row := fmt.Sprintf("%s%*d", prefix, digits, l.Number)
		if !l.Empty {
			text := truncate(l, width)
			if marked {
				text = bold.Sprint(text)
			}
			row += "  " + text
		}
		if _, err := fmt.Fprintln(w, row); err != nil {
			return err
		}
	}
	return nil
}

// truncate обрезает текст строки по ширине колонок; width <= 0 - без обрезки.
func truncate(l *source.Line, width int) string {
	if width <= 0 || runewidth.StringWidth(l.Text) <= width {
		return l.Text
	}
	return runewidth.Truncate(l.Text, width, "…")
}
