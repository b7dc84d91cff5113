package tech

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// TechLexer defines the lexical structure of technology files
var TechLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments run from # to end of line
	{Name: "Comment", Pattern: `#[^\n]*`},

	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},

	// Numbers (before identifiers so that "1e3" is not taken as a name)
	{Name: "Number", Pattern: `[-+]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][-+]?[0-9]+)?`},

	// Layer names commonly carry dashes, e.g. Metal-1, P-Active
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_\-]*`},

	{Name: "Punct", Pattern: `[{};]`},
})
