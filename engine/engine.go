// Package engine applies rules to analyzed docs. For every clause and every
// rule, the rule variables are grounded to the clause tokens, each binding
// of the Cartesian product is tested against the condition, and the actions
// of the matching bindings assert relations in the semantic graph. Every new
// edge increments its relation table in the store.
package engine

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/revelaction/semgraph/graph"
	"github.com/revelaction/semgraph/lexres"
	"github.com/revelaction/semgraph/metrics"
	"github.com/revelaction/semgraph/rule"
	sent "github.com/revelaction/semgraph/sentence"
	"github.com/revelaction/semgraph/storage"
)

// DefaultMaxBindings bounds the bindings of one rule over one clause.
const DefaultMaxBindings = 100000

// Relation types whose tables are created by Init.
var RelationTypes = []string{
	"r_associated", "r_raff_sem", "r_pos",
	"r_syn", "r_syn_syntaxique", "r_isa",
	"r_hypo", "r_anto", "r_anto_syntaxique",
	"r_agent", "r_patient", "r_succ",
	"r_lemma", "r_has_magn", "r_has_antimagn",
	"r_family", "r_lieu", "r_carac",
}

// Inverses maps a relation to the relation asserted in the other direction
// along with it.
var Inverses = map[string]string{
	"r_agent":   "r_agent-1",
	"r_patient": "r_patient-1",
	"r_instr":   "r_instr-1",
	"r_domain":  "r_domain-1",
	"r_lieu":    "r_lieu-1",
}

// Built-in relations between a word occurrence, its POS, its lemma and the
// next occurrence.
const (
	RelPos   = "r_pos"
	RelLemma = "r_lemma"
	RelSucc  = "r_succ"
)

// Stats counts the work done by Apply.
type Stats struct {
	Bindings    int `json:"bindings"`
	Evaluations int `json:"evaluations"`
	Matches     int `json:"matches"`
	Asserted    int `json:"asserted"`
	Dropped     int `json:"dropped"`
}

// Add sums o into s.
func (s *Stats) Add(o Stats) {
	s.Bindings += o.Bindings
	s.Evaluations += o.Evaluations
	s.Matches += o.Matches
	s.Asserted += o.Asserted
	s.Dropped += o.Dropped
}

// Interpreter is not safe for concurrent use. The word counter and the
// graph persist across Apply calls.
type Interpreter struct {
	Graph     *graph.Graph
	Store     storage.RelationStore
	Resources lexres.Resource
	Rules     []*rule.Rule
	Log       logrus.FieldLogger

	// AutoCreateNodes creates missing assertion endpoints as word nodes
	// instead of dropping the assertion.
	AutoCreateNodes bool

	MaxBindings int

	counter int
}

// New returns an interpreter with an empty graph and no lexical resources.
func New(store storage.RelationStore, rules []*rule.Rule) *Interpreter {
	return &Interpreter{
		Graph:       graph.New(),
		Store:       store,
		Resources:   lexres.NewTable(),
		Rules:       rules,
		Log:         logrus.StandardLogger(),
		MaxBindings: DefaultMaxBindings,
	}
}

// Init creates the tables of RelationTypes in the store.
func (in *Interpreter) Init() error {
	return in.Store.Init(RelationTypes)
}

// Apply adds the occurrence nodes of doc to the graph and runs every rule
// over every clause, rules in order.
func (in *Interpreter) Apply(doc *sent.Doc) Stats {
	ids := in.addOccurrences(doc)
	clauses := doc.Clauses()

	var stats Stats
	for _, r := range in.Rules {
		for _, c := range clauses {
			stats.Add(in.applyRule(r, doc, c, ids))
		}
	}

	in.Log.WithFields(logrus.Fields{
		"tokens":      len(doc.Tokens),
		"evaluations": stats.Evaluations,
		"asserted":    stats.Asserted,
	}).Debug("rules applied")

	return stats
}

// addOccurrences creates word_N, pos_N and lemma_N nodes for every token,
// their r_pos and r_lemma edges, the r_succ chain and the label nodes of
// the lowercased text and lemma. It returns the word id of every arena
// index.
func (in *Interpreter) addOccurrences(doc *sent.Doc) []string {
	ids := make([]string, len(doc.Tokens))
	prev := ""

	for i := range doc.Tokens {
		tok := &doc.Tokens[i]
		in.counter++
		n := in.counter

		wordId := fmt.Sprintf("word_%d", n)
		posId := fmt.Sprintf("pos_%d", n)
		lemmaId := fmt.Sprintf("lemma_%d", n)
		ids[i] = wordId

		text := strings.ToLower(tok.Text)
		lemma := strings.ToLower(tok.Lemma)

		in.Graph.AddNode(wordId, graph.Word, tok.Text)
		in.Graph.AddNode(posId, graph.Pos, strings.ToLower(tok.Pos))
		in.Graph.AddNode(lemmaId, graph.Lemma, lemma)
		in.Graph.AddNode(text, graph.Label, text)
		if lemma != "" {
			in.Graph.AddNode(lemma, graph.Label, lemma)
		}

		in.addEdge(wordId, RelPos, posId)
		in.addEdge(wordId, RelLemma, lemmaId)
		if prev != "" {
			in.addEdge(prev, RelSucc, wordId)
		}
		prev = wordId
	}

	return ids
}

// addEdge adds the edge and increments its table if it is new.
func (in *Interpreter) addEdge(source, relation, target string) (bool, error) {
	added, err := in.Graph.AddEdge(source, relation, target)
	if err != nil || !added {
		return false, err
	}

	if err := in.Store.Increment(relation, source, target); err != nil {
		in.Log.WithError(err).WithField("relation", relation).Warn("relation table not updated")
	}
	metrics.RelationsAsserted.WithLabelValues(relation).Inc()
	return true, nil
}

// RuleEdges returns the edges of edges that are not occurrence edges.
func RuleEdges(edges []graph.Edge) []graph.Edge {
	out := []graph.Edge{}
	for _, e := range edges {
		switch e.Relation {
		case RelPos, RelLemma, RelSucc:
			continue
		}
		out = append(out, e)
	}
	return out
}
