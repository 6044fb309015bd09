package oracle

import "context"

// Delimiter checks brace languages: (), [] and {} must nest, strings and
// comments (// and /* */) must be terminated.
type Delimiter struct{}

func (Delimiter) String() string { return "delimiter" }

func (Delimiter) Valid(ctx context.Context, src string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var st stack
	ok := scanDelimiters(src, st.push)
	return ok && st.empty(), nil
}

func (Delimiter) Balance(src string) Balance {
	t := newTally()
	terminated := scanDelimiters(src, t.add)
	return t.result(terminated)
}

func scanDelimiters(src string, emit func(tok) bool) bool {
	c := cursor{src: src}
	for !c.eof() {
		b := c.bump()
		switch b {
		case '/':
			switch c.peek() {
			case '/':
				c.skipLine()
			case '*':
				c.bump()
				if !skipBlockComment(&c) {
					return false
				}
			}
		case '"':
			if !skipLineString(&c, '"') {
				return false
			}
		case '\'':
			// 'a без закрывающей кавычки - lifetime или апостроф
			if lifetime(&c) {
				continue
			}
			save := c.off
			if !skipLineString(&c, '\'') {
				c.off = save
			}
		case '`':
			if !skipRaw(&c) {
				return false
			}
		case '(', '[', '{':
			if !emit(tok{kind: tokOpen, b: b}) {
				return false
			}
		case ')', ']', '}':
			if !emit(tok{kind: tokClose, b: b}) {
				return false
			}
		}
	}
	return true
}

// skipBlockComment съедает /* ... */ с учётом вложенности; "/*" уже съеден.
func skipBlockComment(c *cursor) bool {
	depth := 1
	for !c.eof() {
		switch b := c.bump(); {
		case b == '*' && c.peek() == '/':
			c.bump()
			depth--
			if depth == 0 {
				return true
			}
		case b == '/' && c.peek() == '*':
			c.bump()
			depth++
		}
	}
	return false
}

func lifetime(c *cursor) bool {
	n := 0
	for isIdentContinue(c.peekAt(n)) {
		n++
	}
	return n > 0 && c.peekAt(n) != '\''
}

func skipLineString(c *cursor, q byte) bool {
	for !c.eof() {
		switch c.peek() {
		case '\\':
			c.off += 2
		case '\n':
			return false
		case q:
			c.bump()
			return true
		default:
			c.bump()
		}
	}
	return false
}

func skipRaw(c *cursor) bool {
	for !c.eof() {
		switch c.bump() {
		case '\\':
			c.bump()
		case '`':
			return true
		}
	}
	return false
}
