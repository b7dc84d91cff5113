package tech

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
)

// Parser reads .tech files.
type Parser struct {
	parser *participle.Parser[File]
}

func NewParser() (*Parser, error) {
	parser, err := participle.Build[File](
		participle.Lexer(TechLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.Unquote("String"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	return &Parser{parser: parser}, nil
}

// Parse reads a technology file. name labels positions in errors and may
// be empty.
func (p *Parser) Parse(name string, r io.Reader) (*File, error) {
	f, err := p.parser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return f, nil
}

// ParseString parses a technology file held in memory.
func (p *Parser) ParseString(input string) (*File, error) {
	return p.Parse("", strings.NewReader(input))
}
