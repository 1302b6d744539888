package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pipeline metrics
	TokensAnalyzed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "semgraph_tokens_total",
		Help: "Number of tokens run through the analysis pipeline",
	})

	ClausesParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "semgraph_clauses_total",
		Help: "Number of clauses given a dependency tree",
	})

	// Rule metrics
	ConditionEvaluations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "semgraph_condition_evaluations_total",
		Help: "Number of rule conditions evaluated against a variable binding",
	})

	RelationsAsserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "semgraph_relations_asserted_total",
			Help: "Number of relations added to the semantic graph",
		},
		[]string{"relation"},
	)

	AssertionsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "semgraph_assertions_dropped_total",
			Help: "Number of relation assertions dropped",
		},
		[]string{"reason"},
	)
)
