package dialect

import (
	"strings"
	"unicode"
)

// ObserveLine records the evidence found in one line. number is 1-based.
func ObserveLine(e *Evidence, number int, text string) {
	if e == nil {
		return
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}

	if number == 1 && strings.HasPrefix(trimmed, "#!") {
		observeShebang(e, trimmed)
		return
	}
	if strings.HasPrefix(trimmed, "#include") || strings.HasPrefix(trimmed, "#import") {
		e.Add(Hint{Family: Brace, Score: 6, Reason: "c preprocessor directive", Line: number})
		return
	}
	// комментарии ruby и shell
	if strings.HasPrefix(trimmed, "#") {
		return
	}

	if s, ok := lineStartSignals[firstWord(trimmed)]; ok {
		e.Add(Hint{Family: s.Family, Score: s.Score, Reason: s.Reason, Line: number})
	}

	switch {
	case trimmed == "}" || strings.HasPrefix(trimmed, "} "):
		e.Add(Hint{Family: Brace, Score: 2, Reason: "line starts with `}`", Line: number})
	case strings.HasSuffix(trimmed, "{"):
		e.Add(Hint{Family: Brace, Score: 2, Reason: "line ends with `{`", Line: number})
	case strings.HasSuffix(trimmed, ";"):
		e.Add(Hint{Family: Brace, Score: 1, Reason: "line ends with `;`", Line: number})
	case strings.HasSuffix(trimmed, " do") || hasBlockParams(trimmed):
		e.Add(Hint{Family: Keyword, Score: 3, Reason: "block opened with `do`", Line: number})
	}
	if strings.Contains(trimmed, ":=") {
		e.Add(Hint{Family: Brace, Score: 2, Reason: "go short variable declaration `:=`", Line: number})
	}
}

func observeShebang(e *Evidence, line string) {
	switch {
	case strings.Contains(line, "ruby"), strings.Contains(line, "crystal"), strings.Contains(line, "lua"):
		e.Add(Hint{Family: Keyword, Score: 20, Reason: "shebang " + line, Line: 1})
	case strings.Contains(line, "node"), strings.Contains(line, "deno"):
		e.Add(Hint{Family: Brace, Score: 20, Reason: "shebang " + line, Line: 1})
	}
}

func firstWord(s string) string {
	end := strings.IndexFunc(s, func(r rune) bool {
		return !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	if end < 0 {
		return s
	}
	return s[:end]
}

// hasBlockParams matches `do |x|` at the end of a line.
func hasBlockParams(s string) bool {
	if !strings.HasSuffix(s, "|") {
		return false
	}
	i := strings.LastIndex(s, " do |")
	return i >= 0 && strings.Count(s[i:], "|") == 2
}
