package diagfmt

import (
	"encoding/json"
	"io"

	"fortio.org/safecast"

	"deadend/internal/source"
)

// LocationJSON представляет диапазон строк в файле
type LocationJSON struct {
	File      string `json:"file"`
	StartLine uint32 `json:"start_line"`
	EndLine   uint32 `json:"end_line"`
}

// NoteJSON представляет дополнительную заметку
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// LineJSON is one line of the captured context.
type LineJSON struct {
	Number uint32 `json:"number"`
	Text   string `json:"text"`
	Marked bool   `json:"marked,omitempty"`
}

// FileJSON groups the findings of one document.
type FileJSON struct {
	Path        string           `json:"path"`
	Valid       bool             `json:"valid"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Lines       []LineJSON       `json:"lines,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Files []FileJSON `json:"files"`
	Count int        `json:"count"`
}

func makeLocation(path string, span source.Span) (LocationJSON, error) {
	start, err := safecast.Conv[uint32](span.Start)
	if err != nil {
		return LocationJSON{}, err
	}
	end, err := safecast.Conv[uint32](span.End)
	if err != nil {
		return LocationJSON{}, err
	}
	return LocationJSON{File: path, StartLine: start, EndLine: end}, nil
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
// Max ограничивает общее число диагностик по всем файлам.
func BuildDiagnosticsOutput(reports []Report, opts JSONOpts) (DiagnosticsOutput, error) {
	out := DiagnosticsOutput{Files: make([]FileJSON, 0, len(reports))}
	for _, r := range reports {
		path := formatPath(r.Path, opts.PathMode, opts.BaseDir)
		file := FileJSON{
			Path:        path,
			Valid:       r.Valid(),
			Diagnostics: make([]DiagnosticJSON, 0, len(r.Diagnostics)),
		}
		for _, d := range r.Diagnostics {
			if opts.Max > 0 && out.Count >= opts.Max {
				break
			}
			loc, err := makeLocation(path, d.Primary)
			if err != nil {
				return DiagnosticsOutput{}, err
			}
			dj := DiagnosticJSON{
				Severity: d.Severity.String(),
				Code:     d.Code.ID(),
				Message:  d.Message,
				Location: loc,
			}
			if opts.IncludeNotes {
				for _, n := range d.Notes {
					nloc, err := makeLocation(path, n.Span)
					if err != nil {
						return DiagnosticsOutput{}, err
					}
					dj.Notes = append(dj.Notes, NoteJSON{Message: n.Msg, Location: nloc})
				}
			}
			file.Diagnostics = append(file.Diagnostics, dj)
			out.Count++
		}
		if opts.IncludeLines {
			for _, l := range r.Context.Lines {
				n, err := safecast.Conv[uint32](l.Number)
				if err != nil {
					return DiagnosticsOutput{}, err
				}
				file.Lines = append(file.Lines, LineJSON{Number: n, Text: l.Text, Marked: r.Context.Marked[l.Number]})
			}
		}
		out.Files = append(out.Files, file)
	}
	return out, nil
}

// JSON форматирует отчёты в JSON.
func JSON(w io.Writer, reports []Report, opts JSONOpts) error {
	output, err := BuildDiagnosticsOutput(reports, opts)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
