package rule

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var ErrUnknownAction = errors.New("unknown action")

// Operand is one endpoint of an assertion: a quoted literal or a reference.
type Operand struct {
	Literal string
	Ref     *Ref
}

func (o Operand) String() string {
	if o.Ref != nil {
		return o.Ref.String()
	}
	return `"` + o.Literal + `"`
}

// Action is executed for every binding that satisfies the condition.
type Action interface {
	action()
	String() string
}

// Assertion adds the edge Source Relation Target. Inverted assertions are
// written with a -1 suffix on the relation and swap their endpoints.
type Assertion struct {
	Source   Operand
	Relation string
	Inverted bool
	Target   Operand
}

func (Assertion) action() {}

func (a Assertion) String() string {
	rel := a.Relation
	if a.Inverted {
		rel += "-1"
	}
	return a.Source.String() + " " + rel + " " + a.Target.String()
}

// Loop runs Body once per result of the lexical function Func applied to
// the lemma of Source, with Elem bound to the result.
type Loop struct {
	Elem   string
	Func   string
	Source string
	Body   Assertion
}

func (Loop) action() {}

func (l Loop) String() string {
	return "pour chaque $" + l.Elem + " dans " + l.Func + "($" + l.Source + "): " + l.Body.String()
}

const operand = `(\$\w+(?:\.[a-zA-Z_.]+)?|"[^"]+")`

var (
	assertionRe = regexp.MustCompile(`^` + operand + `\s+(r_\w+?)(-1)?\s+` + operand + `$`)
	loopRe      = regexp.MustCompile(`^pour chaque\s+\$(\w+)\s+dans\s+(\w+)\(\s*\$(\w+)(?:\.text)?\s*\):\s*(.*)$`)
)

// ParseAction parses one element of the right side of a rule.
func ParseAction(s string) (Action, error) {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "pour chaque") {
		m := loopRe.FindStringSubmatch(s)
		if m == nil {
			return nil, errors.Wrapf(ErrUnknownAction, "loop %q", s)
		}
		body, err := parseAssertion(m[4])
		if err != nil {
			return nil, err
		}
		return Loop{Elem: m[1], Func: m[2], Source: m[3], Body: body}, nil
	}

	return parseAssertion(s)
}

func parseAssertion(s string) (Assertion, error) {
	m := assertionRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Assertion{}, errors.Wrapf(ErrUnknownAction, "%q", s)
	}
	return Assertion{
		Source:   parseOperand(m[1]),
		Relation: m[2],
		Inverted: m[3] != "",
		Target:   parseOperand(m[4]),
	}, nil
}

func parseOperand(s string) Operand {
	if strings.HasPrefix(s, `"`) {
		return Operand{Literal: strings.Trim(s, `"`)}
	}

	ref := Ref{Var: s[1:]}
	if i := strings.IndexByte(ref.Var, '.'); i >= 0 {
		ref.Name = ref.Var[i+1:]
		ref.Var = ref.Var[:i]
	}
	ref.Attr = ParseAttr(ref.Name)
	return Operand{Ref: &ref}
}
