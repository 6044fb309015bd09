package source

import (
	"strings"
)

// Line is a single physical line of a document.
//
// Everything except visibility is fixed at ingestion time. Visibility is
// cleared once the line is folded into a block known to be valid, after
// which the search no longer feeds it to the oracle.
type Line struct {
	Number int    // 1-based
	Text   string // без завершающего '\n'
	Indent int    // количество ведущих пробельных символов
	Empty  bool

	hidden bool
}

// NewLine builds a Line for the given 1-based number and raw text.
// The text is kept as is; CRLF input is normalized earlier by FromBytes.
func NewLine(number int, text string) *Line {
	indent := 0
	for indent < len(text) && isIndentByte(text[indent]) {
		indent++
	}
	return &Line{
		Number: number,
		Text:   text,
		Indent: indent,
		Empty:  strings.TrimSpace(text) == "",
	}
}

// FromSource splits text on line boundaries and numbers the lines from 1.
// A final newline does not produce an extra empty line; empty input yields no lines.
func FromSource(text string) []*Line {
	if text == "" {
		return nil
	}
	raw := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	lines := make([]*Line, len(raw))
	for i, s := range raw {
		lines[i] = NewLine(i+1, s)
	}
	return lines
}

// Visible reports whether the line still takes part in the search.
func (l *Line) Visible() bool { return !l.hidden }

// Hidden is the negation of Visible.
func (l *Line) Hidden() bool { return l.hidden }

// MarkInvisible folds the line into known-good structure.
func (l *Line) MarkInvisible() { l.hidden = true }

// MarkVisible restores the line; used when a fresh search reuses lines.
func (l *Line) MarkVisible() { l.hidden = false }

// String returns the original text terminated by a newline.
func (l *Line) String() string { return l.Text + "\n" }

// Join concatenates the original text of lines, one per row.
func Join(lines []*Line) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ResetVisibility makes every line visible again.
func ResetVisibility(lines []*Line) {
	for _, l := range lines {
		l.MarkVisible()
	}
}

func isIndentByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\v' || b == '\f'
}
