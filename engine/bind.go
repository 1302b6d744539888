package engine

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/revelaction/semgraph/metrics"
	"github.com/revelaction/semgraph/rule"
	sent "github.com/revelaction/semgraph/sentence"
)

// absent is the arena index of a variable without candidates.
const absent = -1

// binding maps the rule variables to arena indexes of the doc, or to labels
// for loop variables.
type binding struct {
	doc    *sent.Doc
	ids    []string
	tokens map[string]int
	labels map[string]string
}

var _ rule.Resolver = (*binding)(nil)

// with returns a copy of b where v is bound to label.
func (b *binding) with(v, label string) *binding {
	labels := make(map[string]string, len(b.labels)+1)
	for k, l := range b.labels {
		labels[k] = l
	}
	labels[v] = label
	return &binding{doc: b.doc, ids: b.ids, tokens: b.tokens, labels: labels}
}

// Resolve gives the condition value of ref. Unbound or absent variables and
// unsupported attributes are false.
func (b *binding) Resolve(ref rule.Ref) rule.Value {
	if s, ok := b.value(ref); ok {
		return rule.StringValue(s)
	}
	return rule.BoolValue(false)
}

// value returns the text of ref and false if it has none. All values but
// the dependency label are lowercased.
func (b *binding) value(ref rule.Ref) (string, bool) {
	if label, ok := b.labels[ref.Var]; ok {
		switch ref.Attr {
		case rule.AttrNone, rule.AttrText, rule.AttrTextLower, rule.AttrLemma:
			return label, true
		}
		return "", false
	}

	idx, ok := b.tokens[ref.Var]
	if !ok || idx == absent {
		return "", false
	}
	tok := &b.doc.Tokens[idx]

	switch ref.Attr {
	case rule.AttrNone, rule.AttrText, rule.AttrTextLower:
		return tok.Lower(), true
	case rule.AttrLemma:
		return strings.ToLower(tok.Lemma), true
	case rule.AttrDep:
		return tok.Dep, true
	case rule.AttrPos:
		return strings.ToLower(tok.Pos), true
	case rule.AttrSelfId:
		return b.ids[idx], true
	case rule.AttrHeadId:
		if tok.Head < 0 || tok.Head >= len(b.ids) {
			return "", false
		}
		return b.ids[tok.Head], true
	case rule.AttrHeadPos:
		if h := b.doc.Head(idx); h != nil {
			return strings.ToLower(h.Pos), true
		}
	}
	return "", false
}

// node returns the graph node an action operand designates: the word id of a
// bare token variable, the label of a loop variable, the lowercased value
// of an attribute, or the lowercased literal. ok is false for absent
// bindings and unsupported attributes.
func (b *binding) node(o rule.Operand) (id string, ok bool) {
	if o.Ref == nil {
		return strings.ToLower(o.Literal), true
	}

	if o.Ref.Attr == rule.AttrNone {
		if label, ok := b.labels[o.Ref.Var]; ok {
			return label, true
		}
		if idx, ok := b.tokens[o.Ref.Var]; ok && idx != absent {
			return b.ids[idx], true
		}
		return "", false
	}

	return b.value(*o.Ref)
}

// candidates returns the arena indexes a variable ranges over in clause:
// the cc tokens for $cc, the cop tokens for $cop, every non punctuation
// token otherwise. A variable without candidates is bound to absent.
func candidates(doc *sent.Doc, clause sent.Clause, v string) []int {
	keep := func(t *sent.Token) bool { return t.Pos != sent.PUNCT }
	switch v {
	case "cc":
		keep = func(t *sent.Token) bool { return t.Dep == "cc" }
	case "cop":
		keep = func(t *sent.Token) bool { return t.Dep == "cop" }
	}

	idxs := []int{}
	for _, i := range clause {
		if keep(&doc.Tokens[i]) {
			idxs = append(idxs, i)
		}
	}
	if len(idxs) == 0 {
		return []int{absent}
	}
	return idxs
}

// applyRule enumerates the Cartesian product of the candidates of r.Vars,
// the last variable varying fastest, and runs the actions of every binding
// that satisfies the condition.
func (in *Interpreter) applyRule(r *rule.Rule, doc *sent.Doc, clause sent.Clause, ids []string) Stats {
	var stats Stats
	log := in.Log.WithField("rule", r.Text)

	sets := make([][]int, len(r.Vars))
	total := 1
	for i, v := range r.Vars {
		sets[i] = candidates(doc, clause, v)
		if sets[i][0] == absent {
			log.WithField("var", v).Debug("no candidate for variable")
		}
		total *= len(sets[i])
		if in.MaxBindings > 0 && total > in.MaxBindings {
			log.WithFields(logrus.Fields{"limit": in.MaxBindings, "clause": len(clause)}).Warn("too many bindings, rule skipped for clause")
			return stats
		}
	}

	pos := make([]int, len(sets))
	for {
		b := &binding{doc: doc, ids: ids, tokens: make(map[string]int, len(sets))}
		for i, v := range r.Vars {
			b.tokens[v] = sets[i][pos[i]]
		}

		stats.Bindings++
		stats.Evaluations++
		metrics.ConditionEvaluations.Inc()

		if r.Match(b) {
			stats.Matches++
			for _, a := range r.Actions {
				stats.Add(in.execute(a, b, log))
			}
		}

		// odometer
		i := len(pos) - 1
		for ; i >= 0; i-- {
			pos[i]++
			if pos[i] < len(sets[i]) {
				break
			}
			pos[i] = 0
		}
		if i < 0 {
			break
		}
	}

	return stats
}
