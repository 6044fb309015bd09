package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps short or relative paths, otherwise shows the basename.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode maps a flag value onto PathMode.
func ParsePathMode(s string) (PathMode, bool) {
	switch s {
	case "", "auto":
		return PathModeAuto, true
	case "absolute":
		return PathModeAbsolute, true
	case "relative":
		return PathModeRelative, true
	case "basename":
		return PathModeBasename, true
	}
	return PathModeAuto, false
}

func (m PathMode) String() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	}
	return "auto"
}

// DefaultMarker prefixes lines that belong to an invalid block.
const DefaultMarker = "❯ "

// CodeOpts configures the line-numbered excerpt.
type CodeOpts struct {
	Color  bool
	Elide  bool   // "..." между несмежными строками
	Width  int    // максимальная ширина строки, 0 - не ограничено
	Marker string // пусто - DefaultMarker
}

// PrettyOpts configures human-readable reports.
type PrettyOpts struct {
	Code      CodeOpts
	PathMode  PathMode
	BaseDir   string
	ShowNotes bool
	ShowOK    bool // печатать "Syntax OK" для валидных документов
}

// JSONOpts configures JSON output.
type JSONOpts struct {
	PathMode     PathMode
	BaseDir      string
	Max          int // обрезка вывода по числу диагностик
	IncludeNotes bool
	IncludeLines bool // добавить строки контекста
}
