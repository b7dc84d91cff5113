package sexpr

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// errClose marks a ')' where an expression was expected.
var errClose = errors.New("unexpected ')'")

// reader is a recursive-descent S-expression reader. Comments run from ';'
// to the end of the line.
type reader struct {
	in   *bufio.Reader
	line int
}

func newReader(r io.Reader) *reader {
	return &reader{in: bufio.NewReader(r), line: 1}
}

func (r *reader) next() (rune, error) {
	ch, _, err := r.in.ReadRune()
	if err == nil && ch == '\n' {
		r.line++
	}
	return ch, err
}

// back returns ch, the last rune read, to the input.
func (r *reader) back(ch rune) {
	if ch == '\n' {
		r.line--
	}
	_ = r.in.UnreadRune()
}

// skip consumes blanks and comments. It returns io.EOF at end of input.
func (r *reader) skip() error {
	inComment := false
	for {
		ch, err := r.next()
		if err != nil {
			return err
		}
		switch {
		case inComment:
			inComment = ch != '\n'
		case ch == ';':
			inComment = true
		case !unicode.IsSpace(ch):
			r.back(ch)
			return nil
		}
	}
}

// readAll returns every top-level expression.
func (r *reader) readAll() ([]Sexp, error) {
	var out []Sexp
	for {
		e, err := r.expr()
		if err == io.EOF {
			return out, nil
		}
		if err == errClose {
			return nil, fmt.Errorf("line %d: %w", r.line, err)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
}

// expr reads one expression. It returns io.EOF when the input ends first and
// errClose when the next token closes a list.
func (r *reader) expr() (Sexp, error) {
	if err := r.skip(); err != nil {
		return nil, err
	}
	ch, err := r.next()
	if err != nil {
		return nil, err
	}
	switch ch {
	case '(':
		return r.list(r.line)
	case ')':
		return nil, errClose
	case '"':
		return r.quoted(r.line)
	}
	r.back(ch)
	return r.symbol()
}

func (r *reader) list(opened int) (*List, error) {
	l := &List{}
	for {
		e, err := r.expr()
		switch {
		case err == errClose:
			return l, nil
		case err == io.EOF:
			return nil, fmt.Errorf("line %d: list is never closed", opened)
		case err != nil:
			return nil, err
		}
		l.elements = append(l.elements, e)
	}
}

func (r *reader) quoted(opened int) (String, error) {
	var b strings.Builder
	for {
		ch, err := r.next()
		if err == io.EOF {
			return "", fmt.Errorf("line %d: string is never closed", opened)
		}
		if err != nil {
			return "", err
		}
		switch ch {
		case '"':
			return String(b.String()), nil
		case '\\':
			esc, err := r.next()
			if err != nil {
				return "", fmt.Errorf("line %d: string is never closed", opened)
			}
			b.WriteRune(unescape(esc))
		default:
			b.WriteRune(ch)
		}
	}
}

func unescape(ch rune) rune {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	}
	return ch
}

func (r *reader) symbol() (Symbol, error) {
	var b strings.Builder
	for {
		ch, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if unicode.IsSpace(ch) || strings.ContainsRune(`();"`, ch) {
			r.back(ch)
			break
		}
		b.WriteRune(ch)
	}
	return Symbol(b.String()), nil
}
