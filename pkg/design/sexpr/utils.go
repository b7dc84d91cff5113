package sexpr

import (
	"fmt"
	"strconv"
)

// Atom returns the text of a Symbol or String atom.
func Atom(s Sexp) (string, bool) {
	switch v := s.(type) {
	case Symbol:
		return string(v), true
	case String:
		return string(v), true
	}
	return "", false
}

// Name returns the tag of a list, e.g. "cell" for (cell "inv" ...)
func Name(s Sexp) (string, error) {
	list, ok := s.(*List)
	if !ok || list.Len() == 0 {
		return "", fmt.Errorf("expected non-empty list")
	}
	sym, ok := list.Get(0).(Symbol)
	if !ok {
		return "", fmt.Errorf("expected symbol as list tag, got %T", list.Get(0))
	}
	return string(sym), nil
}

// FindNode searches for a child list with the given tag
// Example: FindNode(s, "at") finds (at 100 50) in a list
func FindNode(s Sexp, key string) (*List, bool) {
	list, ok := s.(*List)
	if !ok {
		return nil, false
	}
	for _, item := range list.elements {
		if name, err := Name(item); err == nil && name == key {
			return item.(*List), true
		}
	}
	return nil, false
}

// FindAllNodes finds all child lists with the given tag
func FindAllNodes(s Sexp, key string) []*List {
	var results []*List

	list, ok := s.(*List)
	if !ok {
		return results
	}
	for _, item := range list.elements {
		if name, err := Name(item); err == nil && name == key {
			results = append(results, item.(*List))
		}
	}
	return results
}

// GetString extracts an atom at the given index in a list
// Index 0 is the tag, 1 is first value, etc.
func GetString(l *List, index int) (string, error) {
	if index < 0 || index >= l.Len() {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, l.Len())
	}
	v, ok := Atom(l.Get(index))
	if !ok {
		return "", fmt.Errorf("expected atom at index %d, got list", index)
	}
	return v, nil
}

// GetFloat extracts a float value at the given index
func GetFloat(l *List, index int) (float64, error) {
	str, err := GetString(l, index)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", str, err)
	}
	return v, nil
}

// GetInt extracts an integer value at the given index
func GetInt(l *List, index int) (int, error) {
	str, err := GetString(l, index)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q: %w", str, err)
	}
	return v, nil
}

// Float formats a number as a symbol using the shortest exact representation.
func Float(v float64) Symbol {
	return Symbol(strconv.FormatFloat(v, 'g', -1, 64))
}

// Int formats an integer as a symbol.
func Int(v int) Symbol {
	return Symbol(strconv.Itoa(v))
}
