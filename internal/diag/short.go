package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

type shortLine struct {
	severity string
	code     string
	path     string
	line     int
	message  string
}

// FormatShort renders diagnostics one per row in a stable order:
//
//	error DE1002 app/models/dog.rb:2 Unmatched keyword, missing `end' ?
//
// Notes follow as "note" rows when includeNotes is set. Empty input yields "".
func FormatShort(diags []Diagnostic, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	rows := make([]shortLine, 0, len(diags))
	for _, d := range diags {
		path := filepath.ToSlash(d.Path)
		rows = append(rows, shortLine{
			severity: d.Severity.String(),
			code:     d.Code.ID(),
			path:     path,
			line:     d.Primary.Start,
			message:  oneLine(d.Message),
		})
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			rows = append(rows, shortLine{
				severity: "note",
				code:     d.Code.ID(),
				path:     path,
				line:     n.Span.Start,
				message:  oneLine(n.Msg),
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := rows[i], rows[j]
		if ri.path != rj.path {
			return ri.path < rj.path
		}
		return ri.line < rj.line
	})

	var sb strings.Builder
	for i, r := range rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		loc := r.path
		if r.line > 0 {
			if loc == "" {
				loc = "-"
			}
			loc = fmt.Sprintf("%s:%d", loc, r.line)
		}
		fmt.Fprintf(&sb, "%s %s %s %s", r.severity, r.code, loc, r.message)
	}
	return sb.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
