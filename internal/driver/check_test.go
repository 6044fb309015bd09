package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"deadend/internal/diag"
	"deadend/internal/observ"
	"deadend/internal/oracle"
	"deadend/internal/source"
)

const dogSource = "class Dog\n  def bark\n    puts \"woof\"\nend\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCheckFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "dog.rb", dogSource)
	timer := observ.NewTimer()
	res, err := CheckFile(context.Background(), path, Options{Timer: timer})
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}
	if res.Valid() {
		t.Fatal("expected an invalid document")
	}
	if got := res.Spans(); len(got) != 1 || got[0] != (source.Span{Start: 2, End: 3}) {
		t.Fatalf("spans = %v", got)
	}
	if got := res.Context.Numbers(); !slices.Equal(got, []int{1, 2, 4}) {
		t.Fatalf("context = %v", got)
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.DeadMissingEnd || items[0].Path != path {
		t.Fatalf("diagnostics = %+v", items)
	}
	if res.Oracle != "cached(keyword)" || res.Calls == 0 {
		t.Fatalf("oracle=%q calls=%d", res.Oracle, res.Calls)
	}
	if rep := timer.Report(); len(rep.Phases) == 0 {
		t.Fatal("timer recorded no phases")
	}
}

func TestCheckValidDocument(t *testing.T) {
	file := source.FromString("ok.rb", "def a\nend\n")
	res, err := Check(context.Background(), file, oracle.Keyword{}, Options{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !res.Valid() || res.Bag.Len() != 0 || len(res.Context.Lines) != 0 || res.Calls != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestCheckOracleUnavailable(t *testing.T) {
	o := oracle.Func(func(context.Context, string) (bool, error) {
		return false, oracle.ErrUnavailable
	})
	_, err := Check(context.Background(), source.FromString("x.rb", dogSource), o, Options{})
	if !errors.Is(err, oracle.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestCheckFileMissing(t *testing.T) {
	_, err := CheckFile(context.Background(), filepath.Join(t.TempDir(), "none.rb"), Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v", err)
	}
}

func TestCheckUsesDiskCache(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	calls := 0
	o := oracle.Func(func(ctx context.Context, src string) (bool, error) {
		calls++
		return oracle.Keyword{}.Valid(ctx, src)
	})

	first, err := Check(context.Background(), source.FromString("dog.rb", dogSource), o, Options{Cache: cache})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if first.Cached || calls == 0 {
		t.Fatalf("first run cached=%v calls=%d", first.Cached, calls)
	}

	calls = 0
	second, err := Check(context.Background(), source.FromString("dog.rb", dogSource), o, Options{Cache: cache})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !second.Cached || calls != 0 {
		t.Fatalf("second run cached=%v calls=%d", second.Cached, calls)
	}
	if !slices.Equal(first.Spans(), second.Spans()) || !slices.Equal(first.Context.Numbers(), second.Context.Numbers()) {
		t.Fatalf("cached result differs: %v/%v vs %v/%v",
			first.Spans(), first.Context.Numbers(), second.Spans(), second.Context.Numbers())
	}
	if second.Calls != first.Calls {
		t.Fatalf("cached calls = %d, want %d", second.Calls, first.Calls)
	}
}
