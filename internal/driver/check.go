package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"deadend/internal/block"
	"deadend/internal/capture"
	"deadend/internal/diag"
	"deadend/internal/diagfmt"
	"deadend/internal/explain"
	"deadend/internal/observ"
	"deadend/internal/oracle"
	"deadend/internal/search"
	"deadend/internal/source"
	"deadend/internal/trace"
)

// Options содержит опции проверки одного документа
type Options struct {
	Oracle         oracle.Settings
	Load           source.LoadOptions
	MaxDiagnostics int
	Timer          *observ.Timer // nil - без замеров
	Cache          *DiskCache    // nil - без кеша
}

// Result is the outcome of checking one document.
type Result struct {
	Path    string
	File    *source.File
	Oracle  string
	Blocks  []*block.Block
	Context capture.Context
	Bag     *diag.Bag
	Calls   int
	Cached  bool
	Err     error // ошибка окружения в режиме каталога
}

// Valid reports whether nothing invalid was found and no error occurred.
func (r *Result) Valid() bool { return len(r.Blocks) == 0 && r.Err == nil }

// Spans returns the spans of the invalid blocks in document order.
func (r *Result) Spans() []source.Span {
	out := make([]source.Span, len(r.Blocks))
	for i, b := range r.Blocks {
		out[i] = b.Span()
	}
	return out
}

// Report converts the result for diagfmt.
func (r *Result) Report() diagfmt.Report {
	rep := diagfmt.Report{Path: r.Path, Context: r.Context}
	if r.Bag != nil {
		rep.Diagnostics = r.Bag.Items()
	}
	return rep
}

func maxDiagnostics(n int) int {
	if n <= 0 {
		return 100
	}
	return n
}

// CheckFile loads path and checks it with the oracle chosen for its name
// and content.
func CheckFile(ctx context.Context, path string, opts Options) (*Result, error) {
	started := time.Now()
	_, span := trace.Start(ctx, trace.ScopePass, "ingest")
	span.WithExtra("path", path)
	file, err := source.Load(path, opts.Load)
	if opts.Timer != nil {
		opts.Timer.Add("ingest", time.Since(started))
	}
	if err != nil {
		span.End("failed")
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	span.End(strconv.Itoa(len(file.Lines)))
	o, err := oracle.ForDocument(path, file.Content, opts.Oracle)
	if err != nil {
		return nil, err
	}
	return Check(ctx, file, oracle.NewCached(o), opts)
}

// Check runs search, capture and explain over an already loaded document.
// Oracle failures are returned wrapped; errors.Is(err, oracle.ErrUnavailable)
// holds for them.
func Check(ctx context.Context, file *source.File, o oracle.Oracle, opts Options) (*Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "check")
	span.WithExtra("path", file.Path)
	tracer := trace.FromContext(ctx)

	// фазы складываются по имени: в режиме каталога таймер общий
	timer := opts.Timer
	end := func(name string, started time.Time) {
		if timer != nil {
			timer.Add(name, time.Since(started))
		}
	}

	res := &Result{
		Path:   file.Path,
		File:   file,
		Oracle: oracle.Name(o),
		Bag:    diag.NewBag(maxDiagnostics(opts.MaxDiagnostics)),
	}

	key := cacheKey(file.Hash, res.Oracle)
	if opts.Cache != nil {
		var payload DiskPayload
		hit, err := opts.Cache.Get(key, &payload)
		if err != nil {
			trace.Error(tracer, trace.ScopeDriver, "cache", span.ID(), err)
		} else if hit {
			if blocks, ok := payloadToBlocks(&payload, file.Lines); ok {
				res.Blocks = blocks
				res.Calls = int(payload.Calls)
				res.Cached = true
			}
		}
	}

	if !res.Cached {
		searchStart := time.Now()
		sr, err := search.Search(ctx, file.Lines, o)
		end("search", searchStart)
		if err != nil {
			span.End("failed")
			return nil, fmt.Errorf("check %s: %w", file.Path, err)
		}
		res.Blocks = sr.Invalid
		res.Calls = sr.Calls

		if opts.Cache != nil {
			payload, err := blocksToPayload(file.Path, res.Oracle, res.Calls, res.Blocks)
			if err == nil {
				err = opts.Cache.Put(key, payload)
			}
			if err != nil {
				trace.Error(tracer, trace.ScopeDriver, "cache", span.ID(), err)
			}
		}
	}
	if timer != nil {
		timer.Count("oracle_calls", res.Calls)
		if res.Cached {
			timer.Count("cache_hits", 1)
		}
	}

	bal, _ := o.(oracle.Balancer)

	captureStart := time.Now()
	_, cspan := trace.Start(ctx, trace.ScopePass, "capture")
	res.Context = capture.Capture(res.Blocks, file.Lines, capture.Options{Balancer: bal})
	cspan.End(strconv.Itoa(len(res.Context.Lines)))
	end("capture", captureStart)

	explainStart := time.Now()
	_, espan := trace.Start(ctx, trace.ScopePass, "explain")
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	for _, d := range explain.Explain(file.Path, res.Blocks, bal) {
		reporter.Report(d)
	}
	res.Bag.Sort()
	espan.End(strconv.Itoa(res.Bag.Len()))
	end("explain", explainStart)

	span.WithExtra("blocks", strconv.Itoa(len(res.Blocks)))
	if res.Cached {
		span.WithExtra("cached", "true")
	}
	span.End("")
	return res, nil
}

// failedResult превращает ошибку окружения в диагностику для режима каталога.
func failedResult(path string, err error, max int) *Result {
	bag := diag.NewBag(maxDiagnostics(max))
	code := diag.EnvReadFailed
	if errors.Is(err, oracle.ErrUnavailable) {
		code = diag.EnvOracleUnavailable
	}
	bag.Add(diag.NewError(code, path, source.Span{}, err.Error()))
	return &Result{Path: path, Bag: bag, Err: err}
}
