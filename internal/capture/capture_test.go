package capture_test

import (
	"context"
	"slices"
	"testing"

	"deadend/internal/block"
	"deadend/internal/capture"
	"deadend/internal/oracle"
	"deadend/internal/search"
	"deadend/internal/source"
)

func captureSearch(t *testing.T, src string, opts capture.Options) ([]int, capture.Context) {
	t.Helper()
	lines := source.FromSource(src)
	res, err := search.Search(context.Background(), lines, oracle.Keyword{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	ctx := capture.Capture(res.Invalid, lines, opts)
	return ctx.Numbers(), ctx
}

func TestCaptureAfterSearch(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []int
	}{
		{
			name: "ambiguous end with deeper body",
			src: `def call
    puts "lol"
  end # one
end # two
`,
			want: []int{1, 3, 4},
		},
		{
			name: "internal end of a missing do",
			src: `def call
  trydo

    @options = CommandLineParser.new.parse

    options.requires.each { |r| require!(r) }
    load_global_config_if_exists
    options.loads.each { |file| load(file) }

    @user_source_code = ARGV.join(' ')
    @user_source_code = 'self' if @user_source_code == ''

    @callable = create_callable

    init_rexe_context
    init_parser_and_formatters

    # This is where the user's source code will be executed
    lookup_action(options.input_mode).call unless options.noop

    output_log_entry
  end # one
end # two
`,
			want: []int{1, 2, 22, 23},
		},
		{
			name: "ends of captured block",
			src: `class Dog
  def bark
    puts "woof"
end
`,
			want: []int{1, 2, 4},
		},
		{
			name: "falling indent",
			src: `class Blerg
end

class OH

  def hello
    it "foo" do
  end
end

class Zerg
end
`,
			want: []int{4, 6, 7, 8, 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := captureSearch(t, tt.src, capture.Options{Balancer: oracle.Keyword{}})
			if !slices.Equal(got, tt.want) {
				t.Fatalf("captured lines = %v, want %v", got, tt.want)
			}
		})
	}
}

// Лишний `end` одинаково принадлежит обоим соседям: показываются ближайший
// предыдущий сосед с его парой и следующая пара.
func TestCaptureAmbiguousCloser(t *testing.T) {
	src := `describe "things" do
  it "blerg" do
  end

  it "flerg"
  end

  it "zlerg" do
  end
end
`
	got, ctx := captureSearch(t, src, capture.Options{Balancer: oracle.Keyword{}})
	want := []int{1, 2, 3, 5, 6, 8, 9, 10}
	if !slices.Equal(got, want) {
		t.Fatalf("captured lines = %v, want %v", got, want)
	}
	if len(ctx.Marked) != 1 || !ctx.Marked[6] {
		t.Fatalf("marked = %v, want only line 6", ctx.Marked)
	}
}

func TestCaptureBeforeAfterKeywords(t *testing.T) {
	src := `def sit
end

def bark

def eat
end
`
	lines := source.FromSource(src)
	b := block.New(lines[3:4])

	for _, opts := range []capture.Options{{Balancer: oracle.Keyword{}}, {}} {
		got := capture.Capture([]*block.Block{b}, lines, opts).Numbers()
		if want := []int{1, 2, 4, 6, 7}; !slices.Equal(got, want) {
			t.Fatalf("balancer=%v: captured lines = %v, want %v", opts.Balancer != nil, got, want)
		}
	}
}

func TestCaptureUnionSorted(t *testing.T) {
	src := `def a
  if x
    y
end

def b
  z(
end
`
	got, ctx := captureSearch(t, src, capture.Options{Balancer: oracle.Keyword{}})
	if want := []int{1, 2, 4, 6, 7, 8}; !slices.Equal(got, want) {
		t.Fatalf("captured lines = %v, want %v", got, want)
	}
	if !ctx.Marked[2] || !ctx.Marked[7] || ctx.Marked[1] {
		t.Fatalf("marked = %v", ctx.Marked)
	}
}

func TestCaptureNothing(t *testing.T) {
	ctx := capture.Capture(nil, source.FromSource("a\n"), capture.Options{})
	if len(ctx.Lines) != 0 || len(ctx.Marked) != 0 {
		t.Fatalf("expected empty context, got %v", ctx.Numbers())
	}
}
