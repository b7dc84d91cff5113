package sexpr

import (
	"bufio"
	"io"
	"strings"
)

// maxInline is the widest list the writer keeps on a single line.
const maxInline = 72

// Write formats s to w with two-space indentation, keeping short lists on one line.
func Write(w io.Writer, s Sexp) error {
	bw := bufio.NewWriter(w)
	if err := writeIndented(bw, s, 0); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	return bw.Flush()
}

func writeIndented(w io.StringWriter, s Sexp, depth int) error {
	list, ok := s.(*List)
	if !ok {
		_, err := w.WriteString(s.String())
		return err
	}

	flat := list.String()
	if len(flat)+2*depth <= maxInline || !hasNestedList(list) {
		_, err := w.WriteString(flat)
		return err
	}

	if _, err := w.WriteString("("); err != nil {
		return err
	}
	// Leading atoms (the tag and its scalar arguments) stay on the opening line
	i := 0
	for ; i < len(list.elements) && list.elements[i].IsLeaf(); i++ {
		if i > 0 {
			if _, err := w.WriteString(" "); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(list.elements[i].String()); err != nil {
			return err
		}
	}
	indent := "\n" + strings.Repeat("  ", depth+1)
	for ; i < len(list.elements); i++ {
		if _, err := w.WriteString(indent); err != nil {
			return err
		}
		if err := writeIndented(w, list.elements[i], depth+1); err != nil {
			return err
		}
	}
	_, err := w.WriteString(")")
	return err
}

func hasNestedList(l *List) bool {
	for _, e := range l.elements {
		if !e.IsLeaf() {
			return true
		}
	}
	return false
}

func writeCompact(b *strings.Builder, l *List) error {
	b.WriteByte('(')
	for i, e := range l.elements {
		if i > 0 {
			b.WriteByte(' ')
		}
		if sub, ok := e.(*List); ok {
			if err := writeCompact(b, sub); err != nil {
				return err
			}
			continue
		}
		b.WriteString(e.String())
	}
	b.WriteByte(')')
	return nil
}

func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}
