package oracle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Command runs an external checker (e.g. `ruby -c`) with the text on stdin.
// Exit status 0 means valid, any other exit status means invalid.
// A checker that cannot be started, or that runs past Timeout, yields ErrUnavailable.
type Command struct {
	Argv    []string
	Timeout time.Duration
}

func (c Command) String() string {
	return "command(" + strings.Join(c.Argv, " ") + ")"
}

func (c Command) Valid(ctx context.Context, src string) (bool, error) {
	if len(c.Argv) == 0 {
		return false, fmt.Errorf("%w: empty command", ErrUnavailable)
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	// #nosec G204 -- the checker command comes from the user's own config
	cmd := exec.CommandContext(ctx, c.Argv[0], c.Argv[1:]...)
	cmd.Stdin = strings.NewReader(src)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	if err == nil {
		return true, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) && c.Timeout > 0 {
			return false, fmt.Errorf("%w: %s timed out after %s", ErrUnavailable, c.Argv[0], c.Timeout)
		}
		return false, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %s: %w", ErrUnavailable, c.Argv[0], err)
}
