// Package graph holds the semantic graph built while rules are applied: one
// node per token occurrence, its POS and lemma, label nodes for lowercased
// surface forms and lemmas, and unique typed edges between them.
package graph

import (
	"github.com/pkg/errors"

	mapset "github.com/deckarep/golang-set/v2"
)

var (
	ErrSelfLoop    = errors.New("self loop")
	ErrUnknownNode = errors.New("unknown node")
)

type NodeType string

const (
	Word  NodeType = "word"
	Pos   NodeType = "pos"
	Lemma NodeType = "lemma"
	Label NodeType = "label"
)

type Node struct {
	Id    string   `json:"id"`
	Type  NodeType `json:"type"`
	Value string   `json:"value"`
}

type Edge struct {
	Source   string `json:"source"`
	Relation string `json:"relation"`
	Target   string `json:"target"`
}

// Graph is not safe for concurrent use.
type Graph struct {
	nodes map[string]Node
	order []string

	edges mapset.Set[Edge]
	list  []Edge
}

func New() *Graph {
	return &Graph{
		nodes: map[string]Node{},
		edges: mapset.NewThreadUnsafeSet[Edge](),
	}
}

// AddNode registers a node. It returns false if id is already present; the
// first registration wins.
func (g *Graph) AddNode(id string, typ NodeType, value string) bool {
	if _, ok := g.nodes[id]; ok {
		return false
	}
	g.nodes[id] = Node{Id: id, Type: typ, Value: value}
	g.order = append(g.order, id)
	return true
}

func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasLabel reports whether label is registered as a label node.
func (g *Graph) HasLabel(label string) bool {
	n, ok := g.nodes[label]
	return ok && n.Type == Label
}

func (g *Graph) HasEdge(source, relation, target string) bool {
	return g.edges.Contains(Edge{Source: source, Relation: relation, Target: target})
}

// AddEdge adds the triple and reports whether it was new. Both endpoints
// must exist and differ.
func (g *Graph) AddEdge(source, relation, target string) (bool, error) {
	if source == target {
		return false, errors.Wrapf(ErrSelfLoop, "%s %s %s", source, relation, target)
	}
	if !g.HasNode(source) {
		return false, errors.Wrapf(ErrUnknownNode, "source %q", source)
	}
	if !g.HasNode(target) {
		return false, errors.Wrapf(ErrUnknownNode, "target %q", target)
	}

	e := Edge{Source: source, Relation: relation, Target: target}
	if !g.edges.Add(e) {
		return false, nil
	}
	g.list = append(g.list, e)
	return true, nil
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.list...)
}

// EdgesOf returns the edges of the given relation type in insertion order.
func (g *Graph) EdgesOf(relation string) []Edge {
	edges := []Edge{}
	for _, e := range g.list {
		if e.Relation == relation {
			edges = append(edges, e)
		}
	}
	return edges
}
