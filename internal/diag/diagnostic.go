package diag

import (
	"deadend/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Path     string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, path string, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Path:     path,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, path string, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, path, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
