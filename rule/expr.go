package rule

import (
	"github.com/pkg/errors"
)

// Expr is a node of a condition tree.
type Expr interface {
	Eval(r Resolver) (Value, error)
}

type Lit struct {
	V Value
}

func (l Lit) Eval(Resolver) (Value, error) { return l.V, nil }

type RefExpr struct {
	Ref Ref
}

func (e RefExpr) Eval(r Resolver) (Value, error) { return r.Resolve(e.Ref), nil }

type ListExpr struct {
	Items []Expr
}

func (e ListExpr) Eval(r Resolver) (Value, error) {
	items := make([]Value, 0, len(e.Items))
	for _, it := range e.Items {
		v, err := it.Eval(r)
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}
	return ListValue(items), nil
}

type Not struct {
	X Expr
}

func (e Not) Eval(r Resolver) (Value, error) {
	v, err := e.X.Eval(r)
	if err != nil {
		return Value{}, err
	}
	return BoolValue(!v.Truthy()), nil
}

// And returns the first false operand or the last one. The right operand is
// not evaluated when the left is false.
type And struct {
	L, R Expr
}

func (e And) Eval(r Resolver) (Value, error) {
	l, err := e.L.Eval(r)
	if err != nil || !l.Truthy() {
		return l, err
	}
	return e.R.Eval(r)
}

// Or returns the first true operand or the last one.
type Or struct {
	L, R Expr
}

func (e Or) Eval(r Resolver) (Value, error) {
	l, err := e.L.Eval(r)
	if err != nil || l.Truthy() {
		return l, err
	}
	return e.R.Eval(r)
}

// Compare is a comparison chain: a < b < c holds when a < b and b < c.
type Compare struct {
	Operands []Expr
	Ops      []string
}

func (e Compare) Eval(r Resolver) (Value, error) {
	left, err := e.Operands[0].Eval(r)
	if err != nil {
		return Value{}, err
	}

	for i, op := range e.Ops {
		right, err := e.Operands[i+1].Eval(r)
		if err != nil {
			return Value{}, err
		}

		ok, err := compare(op, left, right)
		if err != nil {
			return Value{}, err
		}
		if !ok {
			return BoolValue(false), nil
		}
		left = right
	}
	return BoolValue(true), nil
}

func compare(op string, a, b Value) (bool, error) {
	switch op {
	case "==":
		return equal(a, b), nil
	case "!=":
		return !equal(a, b), nil
	case "in":
		return contains(b, a)
	case "not in":
		ok, err := contains(b, a)
		return !ok, err
	}

	c, err := order(a, b)
	if err != nil {
		return false, err
	}
	switch op {
	case "<":
		return c < 0, nil
	case "<=":
		return c <= 0, nil
	case ">":
		return c > 0, nil
	case ">=":
		return c >= 0, nil
	}
	return false, errors.Errorf("unknown operator %q", op)
}
