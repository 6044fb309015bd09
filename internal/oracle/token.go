package oracle

type tokKind uint8

const (
	tokKeyword tokKind = iota // открывающее ключевое слово: def, class, do, if ...
	tokMiddle                 // else, elsif, when, rescue, ensure
	tokEnd                    // end
	tokOpen                   // ( [ {
	tokClose                  // ) ] }
)

type tok struct {
	kind tokKind
	b    byte // для скобок
}

type frame struct {
	keyword bool
	b       byte
}

// stack проверяет вложенность токенов строго: первая ошибка останавливает проверку.
type stack struct {
	frames []frame
}

func (s *stack) push(t tok) bool {
	switch t.kind {
	case tokKeyword:
		s.frames = append(s.frames, frame{keyword: true})
	case tokMiddle:
		return s.topKeyword()
	case tokEnd:
		if !s.topKeyword() {
			return false
		}
		s.frames = s.frames[:len(s.frames)-1]
	case tokOpen:
		s.frames = append(s.frames, frame{b: t.b})
	case tokClose:
		if len(s.frames) == 0 {
			return false
		}
		top := s.frames[len(s.frames)-1]
		if top.keyword || closerFor(top.b) != t.b {
			return false
		}
		s.frames = s.frames[:len(s.frames)-1]
	}
	return true
}

func (s *stack) topKeyword() bool {
	return len(s.frames) > 0 && s.frames[len(s.frames)-1].keyword
}

func (s *stack) empty() bool { return len(s.frames) == 0 }
