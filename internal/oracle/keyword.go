package oracle

import (
	"context"
	"strings"
)

// Keyword checks `end`-terminated languages of the Ruby family:
// block keywords must be closed by `end`, brackets must nest,
// strings, comments, heredocs and percent literals must be terminated.
type Keyword struct{}

func (Keyword) String() string { return "keyword" }

func (Keyword) Valid(ctx context.Context, src string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var st stack
	ok := scanKeywords(src, st.push)
	return ok && st.empty(), nil
}

func (Keyword) Balance(src string) Balance {
	t := newTally()
	terminated := scanKeywords(src, t.add)
	return t.result(terminated)
}

// prevKind описывает, что стояло перед текущим словом
type prevKind uint8

const (
	prevStart prevKind = iota // начало выражения
	prevValue                 // значение: идентификатор, литерал, закрывающая скобка
	prevOp                    // оператор или открывающая скобка, выражение продолжается
	prevDot                   // '.', '&.', '::' - дальше имя метода
)

type keywordScanner struct {
	c        cursor
	prev     prevKind
	loopDo   bool // while/until/for на этой строке, следующий `do` принадлежит им
	heredocs []heredoc
	emit     func(tok) bool
}

type heredoc struct {
	term     string
	indented bool // <<- и <<~ допускают отступ перед терминатором
}

// scanKeywords прогоняет текст и отдаёт структурные токены в emit.
// Возвращает false, если emit остановил проверку или литерал не закрыт.
func scanKeywords(src string, emit func(tok) bool) bool {
	s := keywordScanner{c: cursor{src: src}, emit: emit}
	return s.run()
}

func (s *keywordScanner) run() bool {
	for !s.c.eof() {
		if s.c.atLineStart() {
			switch {
			case s.c.hasPrefix("=begin") && s.endOfWord(len("=begin")):
				if !s.skipEmbeddedDoc() {
					return false
				}
				continue
			case s.c.hasPrefix("__END__") && s.endOfWord(len("__END__")):
				return true
			}
		}

		b := s.c.peek()
		switch {
		case b == '\n':
			s.c.bump()
			if s.prev != prevDot {
				s.prev = prevStart
			}
			s.loopDo = false
			if len(s.heredocs) > 0 && !s.skipHeredocBodies() {
				return false
			}
		case isSpace(b):
			s.c.bump()
		case b == '\\' && s.c.peekAt(1) == '\n':
			// продолжение строки
			s.c.off += 2
		case b == '#':
			s.c.skipLine()
		case b == ';':
			s.c.bump()
			s.prev = prevStart
			s.loopDo = false
		case b == '"' || b == '`':
			s.c.bump()
			if !s.skipQuoted(b, true) {
				return false
			}
			s.prev = prevValue
		case b == '\'':
			s.c.bump()
			if !s.skipQuoted(b, false) {
				return false
			}
			s.prev = prevValue
		case b == ':':
			if !s.colon() {
				return false
			}
		case b == '@' || b == '$':
			s.c.bump()
			s.c.eat('@')
			s.skipIdent()
			s.prev = prevValue
		case isDigit(b):
			for isIdentContinue(s.c.peek()) || (s.c.peek() == '.' && isDigit(s.c.peekAt(1))) {
				s.c.bump()
			}
			s.prev = prevValue
		case isIdentStart(b):
			if !s.word() {
				return false
			}
		case b == '(' || b == '[' || b == '{':
			s.c.bump()
			s.prev = prevOp
			if !s.emit(tok{kind: tokOpen, b: b}) {
				return false
			}
		case b == ')' || b == ']' || b == '}':
			s.c.bump()
			s.prev = prevValue
			if !s.emit(tok{kind: tokClose, b: b}) {
				return false
			}
		case b == '.':
			s.c.bump()
			if s.c.eat('.') {
				s.c.eat('.')
				s.prev = prevOp
			} else {
				s.prev = prevDot
			}
		case b == '&' && s.c.peekAt(1) == '.':
			s.c.off += 2
			s.prev = prevDot
		case b == '%' && s.prev != prevValue && s.percentLiteral():
			if !s.skipPercent() {
				return false
			}
			s.prev = prevValue
		case b == '/' && s.prev != prevValue:
			s.c.bump()
			if !s.skipQuoted('/', true) {
				return false
			}
			s.prev = prevValue
		case b == '<' && s.c.peekAt(1) == '<' && s.prev != prevValue && s.heredocStart():
			s.prev = prevValue
		case b == '?' && s.prev != prevValue && s.c.peekAt(1) != 0 && !isSpace(s.c.peekAt(1)) && s.c.peekAt(1) != '\n':
			// символьный литерал ?a
			s.c.off += 2
			s.prev = prevValue
		default:
			s.c.bump()
			s.prev = prevOp
		}
	}
	return len(s.heredocs) == 0
}

func (s *keywordScanner) endOfWord(n int) bool {
	b := s.c.peekAt(n)
	return b == 0 || b == '\n' || isSpace(b)
}

func (s *keywordScanner) skipIdent() string {
	start := s.c.off
	for isIdentContinue(s.c.peek()) {
		s.c.bump()
	}
	return s.c.src[start:s.c.off]
}

func (s *keywordScanner) colon() bool {
	s.c.bump()
	switch next := s.c.peek(); {
	case next == ':':
		s.c.bump()
		s.prev = prevDot
	case s.prev != prevValue && isIdentStart(next):
		// :symbol
		s.skipIdent()
		if p := s.c.peek(); p == '?' || p == '!' || p == '=' {
			s.c.bump()
		}
		s.prev = prevValue
	case s.prev != prevValue && (next == '"' || next == '\''):
		s.c.bump()
		s.prev = prevValue
		return s.skipQuoted(next, next == '"')
	default:
		s.prev = prevOp
	}
	return true
}

func (s *keywordScanner) word() bool {
	w := s.skipIdent()
	if p := s.c.peek(); (p == '?' || p == '!') && s.c.peekAt(1) != '=' {
		s.c.bump()
		s.prev = prevValue
		return true
	}
	// метка хэша `if: 1`
	if s.c.peek() == ':' && s.c.peekAt(1) != ':' {
		s.c.bump()
		s.prev = prevOp
		return true
	}

	prev := s.prev
	s.prev = prevValue
	if prev == prevDot {
		return true
	}
	statement := prev == prevStart || prev == prevOp

	switch w {
	case "def":
		s.prev = prevDot
		if s.endlessDef() {
			return true
		}
		return s.emit(tok{kind: tokKeyword})
	case "class", "module", "begin", "case":
		s.prev = prevOp
		return s.emit(tok{kind: tokKeyword})
	case "do":
		s.prev = prevStart
		if s.loopDo {
			s.loopDo = false
			return true
		}
		return s.emit(tok{kind: tokKeyword})
	case "for", "while", "until":
		s.prev = prevOp
		if w == "for" || statement {
			s.loopDo = true
			return s.emit(tok{kind: tokKeyword})
		}
	case "if", "unless":
		s.prev = prevOp
		if statement {
			return s.emit(tok{kind: tokKeyword})
		}
	case "else", "elsif", "when", "ensure":
		s.prev = prevStart
		return s.emit(tok{kind: tokMiddle})
	case "rescue":
		s.prev = prevOp
		if prev == prevStart {
			return s.emit(tok{kind: tokMiddle})
		}
	case "then", "and", "or", "not", "in":
		s.prev = prevStart
	case "end":
		return s.emit(tok{kind: tokEnd})
	}
	return true
}

// endlessDef распознаёт `def name(args) = expr`, у которого нет `end`.
func (s *keywordScanner) endlessDef() bool {
	rest := s.c.src[s.c.off:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	depth := 0
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '(':
			depth++
		case ')':
			depth--
		case '#':
			return false
		case '=':
			if depth != 0 {
				continue
			}
			prev := byte(' ')
			if i > 0 {
				prev = rest[i-1]
			}
			next := byte(' ')
			if i+1 < len(rest) {
				next = rest[i+1]
			}
			// ==, !=, <=, >=, =~, => и сеттеры `def x=(v)`
			if next == '=' || next == '~' || next == '>' || strings.IndexByte("=!<>", prev) >= 0 {
				continue
			}
			if isSpace(prev) || prev == ')' {
				return true
			}
		}
	}
	return false
}

// skipQuoted съедает литерал до закрывающего q; открывающий уже съеден.
func (s *keywordScanner) skipQuoted(q byte, interp bool) bool {
	for !s.c.eof() {
		b := s.c.bump()
		switch {
		case b == '\\':
			s.c.bump()
		case b == q:
			return true
		case interp && b == '#' && s.c.peek() == '{':
			s.c.bump()
			if !s.skipInterpolation() {
				return false
			}
		}
	}
	return false
}

func (s *keywordScanner) skipInterpolation() bool {
	depth := 1
	for !s.c.eof() {
		b := s.c.bump()
		switch b {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return true
			}
		case '"', '\'':
			if !s.skipQuoted(b, b == '"') {
				return false
			}
		}
	}
	return false
}

func (s *keywordScanner) percentLiteral() bool {
	n := 1
	if strings.IndexByte("qQwWiIrsx", s.c.peekAt(n)) >= 0 && s.c.peekAt(n) != 0 {
		n++
	}
	d := s.c.peekAt(n)
	return d != 0 && strings.IndexByte("([{<|!/^", d) >= 0
}

func (s *keywordScanner) skipPercent() bool {
	s.c.bump()
	if isIdentStart(s.c.peek()) {
		s.c.bump()
	}
	open := s.c.bump()
	closeB := closerFor(open)
	if open == '<' {
		closeB = '>'
	}
	if closeB == 0 {
		return s.skipQuoted(open, true)
	}
	depth := 1
	for !s.c.eof() {
		b := s.c.bump()
		switch b {
		case '\\':
			s.c.bump()
		case open:
			depth++
		case closeB:
			depth--
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

// heredocStart разбирает <<ID, <<-ID, <<~ID, <<~'ID' и откладывает тело до конца строки.
func (s *keywordScanner) heredocStart() bool {
	n := 2
	indented := false
	if b := s.c.peekAt(n); b == '-' || b == '~' {
		indented = true
		n++
	}
	quote := s.c.peekAt(n)
	if quote == '\'' || quote == '"' || quote == '`' {
		n++
	} else {
		quote = 0
	}
	start := s.c.off + n
	end := start
	for end < len(s.c.src) && isIdentContinue(s.c.src[end]) {
		end++
	}
	if end == start {
		return false
	}
	// <<foo без кавычек и отступа - это сдвиг, а не heredoc
	if quote == 0 && !indented && strings.ToUpper(s.c.src[start:end]) != s.c.src[start:end] {
		return false
	}
	term := s.c.src[start:end]
	if quote != 0 {
		if end >= len(s.c.src) || s.c.src[end] != quote {
			return false
		}
		end++
	}
	s.c.off = end
	s.heredocs = append(s.heredocs, heredoc{term: term, indented: indented})
	return true
}

func (s *keywordScanner) skipHeredocBodies() bool {
	for _, h := range s.heredocs {
		found := false
		for !s.c.eof() {
			start := s.c.off
			s.c.skipLine()
			line := strings.TrimRight(s.c.src[start:s.c.off], "\r")
			s.c.eat('\n')
			if h.indented {
				line = strings.TrimLeft(line, " \t")
			}
			if line == h.term {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	s.heredocs = s.heredocs[:0]
	return true
}

func (s *keywordScanner) skipEmbeddedDoc() bool {
	for !s.c.eof() {
		s.c.skipLine()
		s.c.eat('\n')
		if s.c.hasPrefix("=end") && s.endOfWord(len("=end")) {
			s.c.skipLine()
			return true
		}
	}
	return false
}
