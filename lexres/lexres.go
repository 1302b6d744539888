// Package lexres provides the lexical relations used by rule loops:
// synonyms, antonyms, hypernyms and hyponyms of a lemma.
package lexres

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Resource answers lexical relation queries. Results are surface strings in
// a stable order.
type Resource interface {
	Synonyms(lemma string) []string
	Antonyms(lemma string) []string
	Hypernyms(lemma string) []string
	Hyponyms(lemma string) []string
}

// Kinds of a resource file line.
const (
	Syn   = "syn"
	Anto  = "anto"
	Hyper = "hyper"
	Hypo  = "hypo"
)

// Table is a Resource held in memory. Synonymy and antonymy are symmetric;
// "hyper;chat;animal" also makes chat a hyponym of animal.
type Table struct {
	rel map[string]map[string][]string
}

var _ Resource = (*Table)(nil)

func NewTable() *Table {
	return &Table{rel: map[string]map[string][]string{
		Syn: {}, Anto: {}, Hyper: {}, Hypo: {},
	}}
}

// Add records that related stands in relation kind to lemma.
func (t *Table) Add(kind, lemma, related string) error {
	lemma, related = strings.ToLower(strings.TrimSpace(lemma)), strings.TrimSpace(related)
	if lemma == "" || related == "" {
		return errors.Errorf("empty %s entry", kind)
	}

	switch kind {
	case Syn, Anto:
		t.add(kind, lemma, related)
		t.add(kind, strings.ToLower(related), lemma)
	case Hyper:
		t.add(Hyper, lemma, related)
		t.add(Hypo, strings.ToLower(related), lemma)
	case Hypo:
		t.add(Hypo, lemma, related)
		t.add(Hyper, strings.ToLower(related), lemma)
	default:
		return errors.Errorf("unknown relation kind %q", kind)
	}
	return nil
}

func (t *Table) add(kind, lemma, related string) {
	for _, r := range t.rel[kind][lemma] {
		if strings.EqualFold(r, related) {
			return
		}
	}
	t.rel[kind][lemma] = append(t.rel[kind][lemma], related)
}

func (t *Table) get(kind, lemma string) []string {
	return append([]string{}, t.rel[kind][strings.ToLower(lemma)]...)
}

func (t *Table) Synonyms(lemma string) []string { return t.get(Syn, lemma) }
func (t *Table) Antonyms(lemma string) []string { return t.get(Anto, lemma) }
func (t *Table) Hypernyms(lemma string) []string { return t.get(Hyper, lemma) }
func (t *Table) Hyponyms(lemma string) []string { return t.get(Hypo, lemma) }

// Read reads "kind;lemma;related" lines. Lines starting with # are
// comments.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	t := NewTable()
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) < 3 {
			line, _ := cr.FieldPos(0)
			return nil, errors.Errorf("line %d: want 3 fields, got %d", line, len(rec))
		}
		if err := t.Add(strings.TrimSpace(rec[0]), rec[1], rec[2]); err != nil {
			line, _ := cr.FieldPos(0)
			return nil, errors.Wrapf(err, "line %d", line)
		}
	}
	return t, nil
}

// Load reads the resource file at path. A missing or malformed file gives
// an empty table.
func Load(path string, log logrus.FieldLogger) *Table {
	if log == nil {
		log = logrus.StandardLogger()
	}

	f, err := os.Open(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("lexical resource not loaded")
		return NewTable()
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("lexical resource not loaded")
		return NewTable()
	}
	return t
}
