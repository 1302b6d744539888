// Package memory keeps relation tables in process memory.
package memory

import (
	"sort"
	"sync"

	"github.com/revelaction/semgraph/storage"
)

type pair struct {
	source, target string
}

type table struct {
	index map[pair]int
	rows  []storage.Relation
}

type RelationStore struct {
	mu     sync.Mutex
	tables map[string]*table
}

var _ storage.RelationStore = (*RelationStore)(nil)

func NewRelationStore() *RelationStore {
	return &RelationStore{tables: map[string]*table{}}
}

func (s *RelationStore) Init(types []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range types {
		s.table(t)
	}
	return nil
}

func (s *RelationStore) Increment(relation, source, target string) error {
	if source == target {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tb := s.table(relation)
	p := pair{source, target}
	if i, ok := tb.index[p]; ok {
		tb.rows[i].Recurrence++
		return nil
	}

	tb.index[p] = len(tb.rows)
	tb.rows = append(tb.rows, storage.Relation{Source: source, Target: target, Recurrence: 1})
	return nil
}

func (s *RelationStore) Scan(relation string) ([]storage.Relation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tb, ok := s.tables[relation]
	if !ok {
		return []storage.Relation{}, nil
	}
	return append([]storage.Relation{}, tb.rows...), nil
}

func (s *RelationStore) Types() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	types := make([]string, 0, len(s.tables))
	for t := range s.tables {
		types = append(types, t)
	}
	sort.Strings(types)
	return types, nil
}

func (s *RelationStore) table(relation string) *table {
	tb, ok := s.tables[relation]
	if !ok {
		tb = &table{index: map[pair]int{}}
		s.tables[relation] = tb
	}
	return tb
}
