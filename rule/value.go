package rule

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Kind int

const (
	Null Kind = iota
	Bool
	String
	Number
	List
)

// Value is the result of evaluating a condition node.
type Value struct {
	Kind Kind
	b    bool
	s    string
	n    float64
	list []Value
}

func NullValue() Value { return Value{Kind: Null} }
func BoolValue(b bool) Value { return Value{Kind: Bool, b: b} }
func StringValue(s string) Value { return Value{Kind: String, s: s} }
func NumberValue(n float64) Value { return Value{Kind: Number, n: n} }
func ListValue(items []Value) Value { return Value{Kind: List, list: items} }

// Truthy reports the boolean meaning of v: false, null, zero, the empty
// string and the empty list are false.
func (v Value) Truthy() bool {
	switch v.Kind {
	case Bool:
		return v.b
	case String:
		return v.s != ""
	case Number:
		return v.n != 0
	case List:
		return len(v.list) > 0
	}
	return false
}

func (v Value) String() string {
	switch v.Kind {
	case Bool:
		if v.b {
			return "True"
		}
		return "False"
	case String:
		return v.s
	case Number:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case List:
		parts := make([]string, len(v.list))
		for i, it := range v.list {
			parts[i] = it.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return "None"
}

// Text returns the string of a String value.
func (v Value) Text() (string, bool) {
	return v.s, v.Kind == String
}

func (v Value) numeric() (float64, bool) {
	switch v.Kind {
	case Number:
		return v.n, true
	case Bool:
		if v.b {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func equal(a, b Value) bool {
	if x, ok := a.numeric(); ok {
		if y, ok := b.numeric(); ok {
			return x == y
		}
		return false
	}
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case String:
		return a.s == b.s
	case List:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !equal(a.list[i], b.list[i]) {
				return false
			}
		}
	}
	return true
}

// order returns -1, 0 or 1. Only numbers (and booleans) or strings are
// ordered.
func order(a, b Value) (int, error) {
	if x, ok := a.numeric(); ok {
		if y, ok := b.numeric(); ok {
			switch {
			case x < y:
				return -1, nil
			case x > y:
				return 1, nil
			}
			return 0, nil
		}
	}
	if a.Kind == String && b.Kind == String {
		return strings.Compare(a.s, b.s), nil
	}
	return 0, errors.Errorf("cannot order %s and %s", a, b)
}

func contains(container, item Value) (bool, error) {
	switch container.Kind {
	case List:
		for _, it := range container.list {
			if equal(it, item) {
				return true, nil
			}
		}
		return false, nil
	case String:
		if item.Kind == String {
			return strings.Contains(container.s, item.s), nil
		}
	}
	return false, errors.Errorf("cannot test %s in %s", item, container)
}
