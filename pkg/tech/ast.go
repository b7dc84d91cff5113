package tech

import "github.com/alecthomas/participle/v2/lexer"

// File represents a parsed technology file
// A file may declare several technologies
type File struct {
	Technologies []*TechnologyDecl `@@*`
}

// TechnologyDecl is one technology block
// Example: technology mocmos "MOSIS CMOS" { resolution 0.5; }
type TechnologyDecl struct {
	Pos         lexer.Position
	Name        string       `"technology" @Ident`
	Description string       `@String?`
	Statements  []*Statement `"{" @@* "}"`
}

// Statement is a single declaration inside a technology block
type Statement struct {
	Scale      *float64   `  "scale" @Number ";"`
	Resolution *float64   `| "resolution" @Number ";"`
	Layer      *LayerDecl `| @@`
}

// LayerDecl declares a layer and, optionally, its pure-layer node
// Example: layer Metal-1 pure "Metal-1-Node";
type LayerDecl struct {
	Pos      lexer.Position
	Name     string `"layer" @Ident`
	PureNode string `( "pure" @String )? ";"`
}
