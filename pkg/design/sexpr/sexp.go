// Package sexpr provides a small streaming S-expression reader and writer
// used for design library files.
package sexpr

import (
	"io"
	"strings"
)

// Sexp is a Symbol, a String or a *List.
type Sexp interface {
	IsLeaf() bool
	// String is the form written to a file; String atoms keep their quotes.
	String() string
}

// Symbol is a bare atom such as a keyword or a number.
type Symbol string

func (s Symbol) IsLeaf() bool   { return true }
func (s Symbol) String() string { return string(s) }

// String is a quoted atom.
type String string

func (s String) IsLeaf() bool { return true }

func (s String) String() string {
	var b strings.Builder
	writeQuoted(&b, string(s))
	return b.String()
}

// List is a parenthesized sequence of expressions.
type List struct {
	elements []Sexp
}

// NewList builds a list from the given elements.
func NewList(elements ...Sexp) *List {
	return &List{elements: elements}
}

// Tagged builds a list whose first element is the symbol tag, e.g. (at 0 0).
func Tagged(tag string, elements ...Sexp) *List {
	return &List{elements: append([]Sexp{Symbol(tag)}, elements...)}
}

func (l *List) IsLeaf() bool { return false }

func (l *List) String() string {
	var b strings.Builder
	_ = writeCompact(&b, l)
	return b.String()
}

// Append adds elements to the end of the list.
func (l *List) Append(elements ...Sexp) {
	l.elements = append(l.elements, elements...)
}

// Items returns the list elements.
func (l *List) Items() []Sexp {
	return l.elements
}

// Get returns the element at index, or nil when it is out of range.
func (l *List) Get(index int) Sexp {
	if index < 0 || index >= len(l.elements) {
		return nil
	}
	return l.elements[index]
}

func (l *List) Len() int {
	return len(l.elements)
}

// Parse reads every top-level expression from r. Errors carry the line of
// the offending token, or of the opening delimiter for unclosed lists and
// strings.
func Parse(r io.Reader) ([]Sexp, error) {
	return newReader(r).readAll()
}

func ParseString(s string) ([]Sexp, error) {
	return Parse(strings.NewReader(s))
}
