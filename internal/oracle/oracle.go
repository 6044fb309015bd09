package oracle

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable reports that the validity check itself could not run.
// Callers match it with errors.Is; the search core never retries on it.
var ErrUnavailable = errors.New("oracle unavailable")

// Oracle decides whether a span of text is structurally well formed.
// Valid must be a pure function of src within one run.
type Oracle interface {
	Valid(ctx context.Context, src string) (bool, error)
}

// Func adapts a plain function to Oracle.
type Func func(ctx context.Context, src string) (bool, error)

func (f Func) Valid(ctx context.Context, src string) (bool, error) {
	return f(ctx, src)
}

// Name returns a stable identity for o, used in cache keys and traces.
func Name(o Oracle) string {
	if s, ok := o.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", o)
}
