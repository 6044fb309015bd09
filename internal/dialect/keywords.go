package dialect

type signal struct {
	Family Family
	Score  int
	Reason string
}

// lineStartSignals are keyed by the first word of a trimmed line.
var lineStartSignals = map[string]signal{
	// keyword-terminated
	"def":              {Keyword, 4, "line starts with `def`"},
	"end":              {Keyword, 3, "line starts with `end`"},
	"elsif":            {Keyword, 5, "ruby keyword `elsif`"},
	"unless":           {Keyword, 4, "ruby keyword `unless`"},
	"module":           {Keyword, 3, "ruby keyword `module`"},
	"rescue":           {Keyword, 4, "ruby keyword `rescue`"},
	"ensure":           {Keyword, 4, "ruby keyword `ensure`"},
	"require":          {Keyword, 3, "ruby `require`"},
	"require_relative": {Keyword, 5, "ruby `require_relative`"},
	"attr_accessor":    {Keyword, 5, "ruby `attr_accessor`"},
	"attr_reader":      {Keyword, 5, "ruby `attr_reader`"},
	"puts":             {Keyword, 3, "ruby `puts`"},
	"local":            {Keyword, 2, "lua `local`"},
	"then":             {Keyword, 2, "line starts with `then`"},

	// brace-delimited
	"func":     {Brace, 5, "go keyword `func`"},
	"function": {Brace, 4, "keyword `function`"},
	"fn":       {Brace, 4, "rust keyword `fn`"},
	"package":  {Brace, 4, "keyword `package`"},
	"impl":     {Brace, 5, "rust keyword `impl`"},
	"let":      {Brace, 2, "keyword `let`"},
	"const":    {Brace, 2, "keyword `const`"},
	"var":      {Brace, 2, "keyword `var`"},
	"static":   {Brace, 2, "keyword `static`"},
	"public":   {Brace, 1, "keyword `public`"},
	"switch":   {Brace, 2, "keyword `switch`"},
}
