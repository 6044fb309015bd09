package driver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"deadend/internal/diagfmt"
	"deadend/internal/oracle"
	"deadend/internal/source"
)

// Mode selects what a host gets back from an annotation request.
type Mode string

const (
	// ModeAuto runs the search and returns the excerpt plus a hint.
	ModeAuto Mode = "auto"
	// ModeFYI only returns the hint line.
	ModeFYI Mode = "fyi"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeFYI:
		return ModeFYI, nil
	default:
		return "", fmt.Errorf("unknown annotate mode %q (want auto or fyi)", s)
	}
}

// AnnotateOptions configure Annotate and AnnotateMessage.
type AnnotateOptions struct {
	Mode   Mode
	Check  Options
	Render diagfmt.PrettyOpts
	Notice io.Writer // сообщение о ненайденном файле; nil - молча
}

// Hint is the line pointing the user at a full check of filename.
func Hint(filename string) string {
	return fmt.Sprintf("Run `$ deadend check %s` for more information.\n", filename)
}

// Annotate returns the text a host prepends to its own syntax error for the
// document src named filename. A valid document yields "".
func Annotate(ctx context.Context, src []byte, filename string, opts AnnotateOptions) (string, error) {
	if opts.Mode == ModeFYI {
		return Hint(filename), nil
	}
	file := source.FromBytes(filename, src, 0, opts.Check.Load)
	o, err := oracle.ForDocument(filename, file.Content, opts.Check.Oracle)
	if err != nil {
		return "", err
	}
	res, err := Check(ctx, file, oracle.NewCached(o), opts.Check)
	if err != nil {
		return "", err
	}
	if res.Valid() {
		return "", nil
	}
	var buf bytes.Buffer
	if err := diagfmt.Pretty(&buf, []diagfmt.Report{res.Report()}, opts.Render); err != nil {
		return "", err
	}
	buf.WriteString(Hint(filename))
	return buf.String(), nil
}

// AnnotateMessage extends a host's error message. The file is taken from
// the message itself; if none can be found the message comes back as is.
// In auto mode the annotation goes before the message, in fyi mode the hint
// goes after it.
func AnnotateMessage(ctx context.Context, message string, opts AnnotateOptions) (string, error) {
	path := PathFromMessage(message, opts.Notice)
	if path == "" {
		return message, nil
	}
	if opts.Mode == ModeFYI {
		return strings.TrimRight(message, "\n") + "\n\n" + Hint(path), nil
	}
	// #nosec G304 -- path comes from the host's own error message
	src, err := os.ReadFile(path)
	if err != nil {
		return message, fmt.Errorf("failed to read %s: %w", path, err)
	}
	annotation, err := Annotate(ctx, src, path, opts)
	if err != nil {
		return message, err
	}
	return annotation + message, nil
}
