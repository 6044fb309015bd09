package driver

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

var (
	evalMessage   = regexp.MustCompile(`^\(eval\):\d+`)
	streamMessage = regexp.MustCompile(`^-:\d+`)
)

// PathFromMessage finds the file named at the start of a compiler error
// message such as "/app/dog.rb:12: syntax error, unexpected `end'".
// File names may contain colons: the shortest colon-separated prefix naming
// an existing regular file wins. Messages from eval or stdin have no file.
// When nothing exists, a notice goes to w (if not nil) and "" is returned.
func PathFromMessage(message string, w io.Writer) string {
	line, _, _ := strings.Cut(message, "\n")
	if evalMessage.MatchString(line) || streamMessage.MatchString(line) {
		return ""
	}
	parts := strings.Split(line, ":")
	for i := 1; i <= len(parts); i++ {
		guess := strings.Join(parts[:i], ":")
		if guess == "" {
			continue
		}
		if info, err := os.Stat(guess); err == nil && info.Mode().IsRegular() {
			return guess
		}
	}
	if w != nil {
		_, _ = fmt.Fprintf(w, "deadend: could not find filename from %q\n", line)
	}
	return ""
}
