package oracle

// cursor - позиция в тексте, который проверяет оракул
type cursor struct {
	src string
	off int
}

func (c *cursor) eof() bool {
	return c.off >= len(c.src)
}

// peek читает текущий байт, если есть, иначе 0
func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.src[c.off]
}

// peekAt читает байт со смещением n от текущей позиции
func (c *cursor) peekAt(n int) byte {
	if c.off+n >= len(c.src) || c.off+n < 0 {
		return 0
	}
	return c.src[c.off+n]
}

func (c *cursor) bump() byte {
	if c.eof() {
		return 0
	}
	b := c.src[c.off]
	c.off++
	return b
}

func (c *cursor) eat(b byte) bool {
	if c.peek() == b {
		c.off++
		return true
	}
	return false
}

// skipLine съедает всё до '\n' не включительно
func (c *cursor) skipLine() {
	for !c.eof() && c.peek() != '\n' {
		c.off++
	}
}

// atLineStart сообщает, стоит ли курсор в начале физической строки
func (c *cursor) atLineStart() bool {
	return c.off == 0 || c.src[c.off-1] == '\n'
}

func (c *cursor) hasPrefix(p string) bool {
	return len(c.src)-c.off >= len(p) && c.src[c.off:c.off+len(p)] == p
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80
}

func isIdentContinue(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\r' || b == '\v' || b == '\f' }

func closerFor(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	}
	return 0
}

func openerFor(close byte) byte {
	switch close {
	case ')':
		return '('
	case ']':
		return '['
	case '}':
		return '{'
	}
	return 0
}
