package rule

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

type tokKind int

const (
	tEOF tokKind = iota
	tString
	tNumber
	tRef
	tKeyword
	tOp
	tPunct
)

type token struct {
	kind tokKind
	text string
	num  float64
	ref  Ref
}

var keywords = map[string]bool{
	"and": true, "or": true, "not": true, "in": true,
	"True": true, "False": true, "None": true,
}

func isWord(r rune) bool {
	return r == '_' || r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

func isAttr(r rune) bool {
	return r == '_' || r == '.' || r < unicode.MaxASCII && unicode.IsLetter(r)
}

// lex splits a condition. & and | are read as and, or.
func lex(s string) ([]token, error) {
	rs := []rune(s)
	toks := []token{}

	for i := 0; i < len(rs); {
		c := rs[i]
		switch {
		case unicode.IsSpace(c):
			i++

		case c == '"' || c == '\'':
			var sb strings.Builder
			j := i + 1
			for ; j < len(rs) && rs[j] != c; j++ {
				if rs[j] == '\\' && j+1 < len(rs) {
					j++
				}
				sb.WriteRune(rs[j])
			}
			if j >= len(rs) {
				return nil, errors.Errorf("unterminated string at %d", i)
			}
			toks = append(toks, token{kind: tString, text: sb.String()})
			i = j + 1

		case c == '$':
			j := i + 1
			for j < len(rs) && isWord(rs[j]) {
				j++
			}
			if j == i+1 {
				return nil, errors.Errorf("empty variable name at %d", i)
			}
			ref := Ref{Var: string(rs[i+1 : j])}
			if j < len(rs) && rs[j] == '.' {
				k := j + 1
				for k < len(rs) && isAttr(rs[k]) {
					k++
				}
				ref.Name = string(rs[j+1 : k])
				j = k
			}
			ref.Attr = ParseAttr(ref.Name)
			toks = append(toks, token{kind: tRef, ref: ref, text: ref.String()})
			i = j

		case unicode.IsDigit(c):
			j := i
			for j < len(rs) && (unicode.IsDigit(rs[j]) || rs[j] == '.') {
				j++
			}
			n, err := strconv.ParseFloat(string(rs[i:j]), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "number at %d", i)
			}
			toks = append(toks, token{kind: tNumber, num: n, text: string(rs[i:j])})
			i = j

		case isWord(c):
			j := i
			for j < len(rs) && isWord(rs[j]) {
				j++
			}
			w := string(rs[i:j])
			if !keywords[w] {
				return nil, errors.Errorf("unknown name %q", w)
			}
			toks = append(toks, token{kind: tKeyword, text: w})
			i = j

		case c == '&':
			toks = append(toks, token{kind: tKeyword, text: "and"})
			i++
		case c == '|':
			toks = append(toks, token{kind: tKeyword, text: "or"})
			i++

		case c == '=' || c == '!' || c == '<' || c == '>':
			op := string(c)
			if i+1 < len(rs) && rs[i+1] == '=' {
				op += "="
			}
			if op == "=" || op == "!" {
				return nil, errors.Errorf("unknown operator %q at %d", op, i)
			}
			toks = append(toks, token{kind: tOp, text: op})
			i += len(op)

		case strings.ContainsRune("()[],", c):
			toks = append(toks, token{kind: tPunct, text: string(c)})
			i++

		default:
			return nil, errors.Errorf("unexpected %q at %d", c, i)
		}
	}

	return append(toks, token{kind: tEOF}), nil
}

type parser struct {
	toks []token
	pos  int
}

// ParseCondition parses the left side of a rule into an expression tree.
func ParseCondition(s string) (Expr, error) {
	toks, err := lex(s)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}
	e, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tEOF {
		return nil, errors.Errorf("unexpected %q", p.peek().text)
	}
	return e, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tEOF {
		p.pos++
	}
	return t
}

func (p *parser) is(kind tokKind, text string) bool {
	t := p.peek()
	return t.kind == kind && t.text == text
}

func (p *parser) or() (Expr, error) {
	l, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.is(tKeyword, "or") {
		p.next()
		r, err := p.and()
		if err != nil {
			return nil, err
		}
		l = Or{L: l, R: r}
	}
	return l, nil
}

func (p *parser) and() (Expr, error) {
	l, err := p.not()
	if err != nil {
		return nil, err
	}
	for p.is(tKeyword, "and") {
		p.next()
		r, err := p.not()
		if err != nil {
			return nil, err
		}
		l = And{L: l, R: r}
	}
	return l, nil
}

func (p *parser) not() (Expr, error) {
	if p.is(tKeyword, "not") {
		p.next()
		x, err := p.not()
		if err != nil {
			return nil, err
		}
		return Not{X: x}, nil
	}
	return p.comparison()
}

func (p *parser) comparison() (Expr, error) {
	first, err := p.primary()
	if err != nil {
		return nil, err
	}

	c := Compare{Operands: []Expr{first}}
	for {
		op, ok := p.compareOp()
		if !ok {
			break
		}
		e, err := p.primary()
		if err != nil {
			return nil, err
		}
		c.Ops = append(c.Ops, op)
		c.Operands = append(c.Operands, e)
	}

	if len(c.Ops) == 0 {
		return first, nil
	}
	return c, nil
}

func (p *parser) compareOp() (string, bool) {
	t := p.peek()
	switch {
	case t.kind == tOp:
		p.next()
		return t.text, true
	case t.kind == tKeyword && t.text == "in":
		p.next()
		return "in", true
	case t.kind == tKeyword && t.text == "not" && p.toks[p.pos+1].kind == tKeyword && p.toks[p.pos+1].text == "in":
		p.pos += 2
		return "not in", true
	}
	return "", false
}

func (p *parser) primary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tString:
		return Lit{V: StringValue(t.text)}, nil
	case tNumber:
		return Lit{V: NumberValue(t.num)}, nil
	case tRef:
		return RefExpr{Ref: t.ref}, nil
	case tKeyword:
		switch t.text {
		case "True":
			return Lit{V: BoolValue(true)}, nil
		case "False":
			return Lit{V: BoolValue(false)}, nil
		case "None":
			return Lit{V: NullValue()}, nil
		}
	case tPunct:
		switch t.text {
		case "(":
			return p.group(")")
		case "[":
			return p.list("]")
		}
	case tEOF:
		return nil, errors.New("unexpected end of condition")
	}
	return nil, errors.Errorf("unexpected %q", t.text)
}

// group parses a parenthesized expression or a tuple.
func (p *parser) group(closing string) (Expr, error) {
	if p.is(tPunct, closing) {
		p.next()
		return ListExpr{}, nil
	}

	e, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.is(tPunct, closing) {
		p.next()
		return e, nil
	}
	if !p.is(tPunct, ",") {
		return nil, errors.Errorf("expected %q", closing)
	}

	p.next()
	rest, err := p.list(closing)
	if err != nil {
		return nil, err
	}
	l := rest.(ListExpr)
	l.Items = append([]Expr{e}, l.Items...)
	return l, nil
}

// list parses comma separated items up to closing. A trailing comma is
// accepted.
func (p *parser) list(closing string) (Expr, error) {
	l := ListExpr{}
	for !p.is(tPunct, closing) {
		e, err := p.or()
		if err != nil {
			return nil, err
		}
		l.Items = append(l.Items, e)

		if p.is(tPunct, ",") {
			p.next()
			continue
		}
		if !p.is(tPunct, closing) {
			return nil, errors.Errorf("expected %q", closing)
		}
	}
	p.next()
	return l, nil
}
