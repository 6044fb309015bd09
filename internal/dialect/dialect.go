package dialect

import "fmt"

// Family is the way a language closes its blocks.
type Family uint8

const (
	Unknown Family = iota
	Keyword        // blocks end with a keyword: Ruby, Crystal, Lua
	Brace          // blocks end with a closing bracket: C, Go, JavaScript

	familyCount
)

func (f Family) String() string {
	switch f {
	case Keyword:
		return "keyword"
	case Brace:
		return "brace"
	case Unknown:
		return "unknown"
	default:
		return fmt.Sprintf("Family(%d)", f)
	}
}
