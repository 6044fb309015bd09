package driver

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

var (
	// DefaultInclude selects Ruby-family sources.
	DefaultInclude = []string{"**/*.rb", "**/*.rake", "**/*.gemspec", "**/*.ru", "**/Gemfile", "**/Rakefile"}
	DefaultExclude = []string{"**/.git/**", "**/vendor/**", "**/node_modules/**"}
)

// DirOptions extends Options with file selection and parallelism.
type DirOptions struct {
	Options
	Include  []string // doublestar-шаблоны относительно корня; пусто - DefaultInclude
	Exclude  []string
	Jobs     int // <= 0 - GOMAXPROCS
	Progress func(Progress)
}

// Progress is reported after every finished file.
type Progress struct {
	Path    string
	Done    int
	Total   int
	Invalid bool
	Err     error
}

// Matcher decides which files under a root take part in a check.
type Matcher struct {
	Include []string
	Exclude []string
}

// NewMatcher validates the patterns and applies defaults.
func NewMatcher(include, exclude []string) (Matcher, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}
	for _, p := range append(append([]string(nil), include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return Matcher{}, &PatternError{Pattern: p}
		}
	}
	return Matcher{Include: include, Exclude: exclude}, nil
}

// PatternError reports a malformed glob.
type PatternError struct{ Pattern string }

func (e *PatternError) Error() string { return "invalid glob pattern " + e.Pattern }

// Match reports whether the slash-separated relative path is selected.
func (m Matcher) Match(rel string) bool {
	for _, p := range m.Exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return false
		}
	}
	for _, p := range m.Include {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// SkipDir reports whether a directory is excluded as a whole.
func (m Matcher) SkipDir(rel string) bool {
	for _, p := range m.Exclude {
		if ok, _ := doublestar.Match(p, rel+"/"); ok {
			return true
		}
	}
	return false
}

// ListFiles возвращает отсортированный список подходящих файлов под root.
func ListFiles(root string, m Matcher) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel != "." && m.SkipDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if m.Match(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CheckDir проверяет все подходящие файлы под root параллельно. Ошибки
// загрузки и недоступный оракул становятся диагностиками отдельных файлов;
// возвращается только отмена контекста или ошибка обхода каталога.
func CheckDir(ctx context.Context, root string, opts DirOptions) ([]*Result, error) {
	m, err := NewMatcher(opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}
	files, err := ListFiles(root, m)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс нужен только для прогресса
	results := make([]*Result, len(files))
	var (
		mu   sync.Mutex
		done int
	)
	report := func(p Progress) {
		if opts.Progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		done++
		p.Done, p.Total = done, len(files)
		opts.Progress(p)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := CheckFile(gctx, path, opts.Options)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				res = failedResult(path, err, opts.MaxDiagnostics)
			}
			results[i] = res
			report(Progress{Path: path, Invalid: !res.Valid(), Err: res.Err})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
