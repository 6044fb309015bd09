package oracle

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"deadend/internal/dialect"
)

// Kind names a built-in oracle.
type Kind string

const (
	KindAuto      Kind = "auto"
	KindKeyword   Kind = "keyword"
	KindDelimiter Kind = "delimiter"
	KindCommand   Kind = "command"
)

// ParseKind validates a kind name coming from flags or config.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", KindAuto:
		return KindAuto, nil
	case KindKeyword, KindDelimiter, KindCommand:
		return k, nil
	default:
		return "", fmt.Errorf("unknown oracle kind %q (want auto, keyword, delimiter or command)", s)
	}
}

// расширения и имена файлов языков с `end`
var keywordFiles = map[string]bool{
	".rb": true, ".rake": true, ".gemspec": true, ".ru": true,
	".cr": true, ".jbuilder": true, ".builder": true,
	"Gemfile": true, "Rakefile": true, "Guardfile": true, "Podfile": true, "Vagrantfile": true,
}

// языки со скобочными блоками: содержимое не анализируется
var braceFiles = map[string]bool{
	".go": true, ".c": true, ".h": true, ".cc": true, ".cpp": true, ".hpp": true,
	".java": true, ".kt": true, ".cs": true, ".rs": true, ".swift": true,
	".js": true, ".mjs": true, ".ts": true, ".tsx": true, ".jsx": true,
	".json": true, ".css": true, ".scss": true, ".php": true,
}

// Settings describe how to build an oracle.
type Settings struct {
	Kind    Kind
	Command []string
	Timeout time.Duration
}

// ForPath builds the oracle for a document known only by name.
func ForPath(path string, s Settings) (Oracle, error) {
	return ForDocument(path, nil, s)
}

// ForDocument builds the oracle for a document. KindAuto picks the keyword
// oracle for Ruby-family files and the delimiter oracle for brace languages;
// any other name is decided by the content, falling back to the delimiter
// oracle when the content is not conclusive.
func ForDocument(path string, content []byte, s Settings) (Oracle, error) {
	switch s.Kind {
	case KindKeyword:
		return Keyword{}, nil
	case KindDelimiter:
		return Delimiter{}, nil
	case KindCommand:
		if len(s.Command) == 0 {
			return nil, fmt.Errorf("oracle kind %q requires a command", KindCommand)
		}
		return Command{Argv: s.Command, Timeout: s.Timeout}, nil
	case KindAuto, "":
		ext := strings.ToLower(filepath.Ext(path))
		switch {
		case keywordFiles[filepath.Base(path)] || keywordFiles[ext]:
			return Keyword{}, nil
		case braceFiles[ext]:
			return Delimiter{}, nil
		}
		if c := dialect.Detect(string(content)); c.Confident() && c.Family == dialect.Keyword {
			return Keyword{}, nil
		}
		return Delimiter{}, nil
	default:
		return nil, fmt.Errorf("unknown oracle kind %q", s.Kind)
	}
}
