package source

import (
	"os"
	"path/filepath"
	"strings"
)

// RelativePath returns target relative to baseDir. Paths that would escape
// baseDir are returned in absolute form instead.
func RelativePath(target, baseDir string) (string, error) {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil {
		return normalizePath(absTarget), nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(absTarget), nil
	}
	return normalizePath(rel), nil
}

// BaseName returns the last element of the path.
func BaseName(p string) string {
	return filepath.Base(p)
}

// DisplayPath форматирует путь к файлу в зависимости от режима.
// mode: "absolute", "relative", "basename", "auto"
func DisplayPath(p, mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := filepath.Abs(p); err == nil {
			return normalizePath(abs)
		}
		return p

	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(p, baseDir); err == nil {
			return rel
		}
		return p

	case "basename":
		return BaseName(p)

	default:
		// auto: короткие и относительные пути как есть, иначе basename
		if len(p) < 40 || !filepath.IsAbs(p) {
			return p
		}
		return BaseName(p)
	}
}
