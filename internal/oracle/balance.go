package oracle

// Balance summarises what is left unmatched after scanning a text.
type Balance struct {
	// Keywords counts block openers without a closing `end`.
	Keywords int
	// Ends counts `end` keywords with nothing to close.
	Ends int
	// Unclosed counts opening delimiters by byte: '(' '[' '{'.
	Unclosed map[byte]int
	// Unopened counts closing delimiters by byte: ')' ']' '}'.
	Unopened map[byte]int
	// Unterminated is set when a string, comment or heredoc runs to the end of the text.
	Unterminated bool
}

// Balancer is implemented by oracles that can explain their verdict.
type Balancer interface {
	Balance(src string) Balance
}

// Balanced reports whether nothing is left unmatched.
func (b Balance) Balanced() bool {
	if b.Keywords != 0 || b.Ends != 0 || b.Unterminated {
		return false
	}
	for _, n := range b.Unclosed {
		if n != 0 {
			return false
		}
	}
	for _, n := range b.Unopened {
		if n != 0 {
			return false
		}
	}
	return true
}

// tally считает несовпадения, не останавливаясь на первой ошибке.
type tally struct {
	frames []frame
	out    Balance
}

func newTally() *tally {
	return &tally{out: Balance{Unclosed: map[byte]int{}, Unopened: map[byte]int{}}}
}

func (t *tally) add(k tok) bool {
	switch k.kind {
	case tokKeyword:
		t.frames = append(t.frames, frame{keyword: true})
	case tokEnd:
		if n := len(t.frames); n > 0 && t.frames[n-1].keyword {
			t.frames = t.frames[:n-1]
		} else {
			t.out.Ends++
		}
	case tokOpen:
		t.frames = append(t.frames, frame{b: k.b})
	case tokClose:
		if n := len(t.frames); n > 0 && !t.frames[n-1].keyword && closerFor(t.frames[n-1].b) == k.b {
			t.frames = t.frames[:n-1]
		} else {
			t.out.Unopened[k.b]++
		}
	}
	return true
}

func (t *tally) result(terminated bool) Balance {
	for _, f := range t.frames {
		if f.keyword {
			t.out.Keywords++
		} else {
			t.out.Unclosed[f.b]++
		}
	}
	t.frames = nil
	t.out.Unterminated = !terminated
	return t.out
}
