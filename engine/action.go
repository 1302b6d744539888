package engine

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/revelaction/semgraph/graph"
	"github.com/revelaction/semgraph/lexres"
	"github.com/revelaction/semgraph/metrics"
	"github.com/revelaction/semgraph/rule"
)

var ErrUnknownFunction = errors.New("unknown lexical function")

// Reasons of a dropped assertion.
const (
	DropAbsent      = "absent"
	DropUnknownNode = "unknown_node"
	DropSelfLoop    = "self_loop"
)

// LexicalFunction returns the resource method a loop names. French and
// English names are accepted.
func LexicalFunction(r lexres.Resource, name string) (func(string) []string, error) {
	switch strings.ToLower(name) {
	case "synonymes", "synonyms":
		return r.Synonyms, nil
	case "antonymes", "antonyms":
		return r.Antonyms, nil
	case "hyperonymes", "hypernyms":
		return r.Hypernyms, nil
	case "hyponymes", "hyponyms":
		return r.Hyponyms, nil
	}
	return nil, errors.Wrapf(ErrUnknownFunction, "%q", name)
}

func (in *Interpreter) execute(a rule.Action, b *binding, log logrus.FieldLogger) Stats {
	switch a := a.(type) {
	case rule.Assertion:
		return in.assert(a, b, log)
	case rule.Loop:
		return in.loop(a, b, log)
	}
	return Stats{}
}

// loop runs the body of l with its element bound to every result of the
// lexical function that is a label of the graph.
func (in *Interpreter) loop(l rule.Loop, b *binding, log logrus.FieldLogger) Stats {
	var stats Stats
	log = log.WithField("action", l.String())

	fn, err := LexicalFunction(in.Resources, l.Func)
	if err != nil {
		log.WithError(err).Warn("loop skipped")
		return stats
	}

	source, ok := b.value(rule.Ref{Var: l.Source, Attr: rule.AttrLemma})
	if !ok || source == "" {
		log.WithField("var", l.Source).Debug("loop source is absent")
		return stats
	}

	found := 0
	for _, elem := range fn(source) {
		label := strings.ToLower(elem)
		if !in.Graph.HasLabel(label) {
			continue
		}
		found++
		stats.Add(in.assert(l.Body, b.with(l.Elem, label), log))
	}

	if found == 0 {
		log.WithField("lemma", source).Debug("no lexical result in graph")
	}
	return stats
}

// assert resolves the endpoints of a and adds the edge, and the edge of the
// inverse relation if there is one.
func (in *Interpreter) assert(a rule.Assertion, b *binding, log logrus.FieldLogger) Stats {
	var stats Stats
	log = log.WithField("action", a.String())

	source, ok := b.node(a.Source)
	if !ok {
		return in.drop(stats, DropAbsent, log.WithField("operand", a.Source.String()))
	}
	target, ok := b.node(a.Target)
	if !ok {
		return in.drop(stats, DropAbsent, log.WithField("operand", a.Target.String()))
	}
	if a.Inverted {
		source, target = target, source
	}

	for _, n := range []string{source, target} {
		if in.Graph.HasNode(n) {
			continue
		}
		if !in.AutoCreateNodes {
			return in.drop(stats, DropUnknownNode, log.WithField("node", n))
		}
		in.Graph.AddNode(n, graph.Word, n)
	}

	added, err := in.addEdge(source, a.Relation, target)
	if err != nil {
		reason := DropUnknownNode
		if errors.Is(err, graph.ErrSelfLoop) {
			reason = DropSelfLoop
		}
		return in.drop(stats, reason, log.WithError(err))
	}
	if added {
		stats.Asserted++
		log.WithFields(logrus.Fields{"source": source, "target": target}).Debug("relation asserted")
	}

	if inv, ok := Inverses[a.Relation]; ok {
		added, err := in.addEdge(target, inv, source)
		if err != nil {
			return in.drop(stats, DropUnknownNode, log.WithError(err))
		}
		if added {
			stats.Asserted++
		}
	}

	return stats
}

func (in *Interpreter) drop(stats Stats, reason string, log logrus.FieldLogger) Stats {
	stats.Dropped++
	metrics.AssertionsDropped.WithLabelValues(reason).Inc()
	log.WithField("reason", reason).Debug("assertion dropped")
	return stats
}
