// Package lexicon gives indexed access to the lemma and POS corpora.
//
// Both corpora are ';' delimited text files grouped by surface form:
//
//	lemma corpus:  surface;lemma;score
//	POS corpus:    surface;<unused>;tag;score
//
// An Index maps a lowercased surface form to the offsets of its groups, so
// a lookup reads only the lines of that word.
package lexicon

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	sent "github.com/revelaction/semgraph/sentence"
)

// maxOffset bounds the section reader used to read a group of lines.
const maxOffset = 1<<62 - 1

type source struct {
	index  Index
	corpus io.ReaderAt
}

func (s source) usable() bool {
	return s.index != nil && s.corpus != nil
}

// Lexicon resolves lemma and POS candidates of words. A Lexicon with
// missing sources returns empty lookups.
type Lexicon struct {
	Log logrus.FieldLogger

	lemmas source
	tags   source

	closers []io.Closer
}

// New returns a Lexicon reading from already opened corpora. Any argument
// may be nil.
func New(lemmaIndex Index, lemmaCorpus io.ReaderAt, posIndex Index, posCorpus io.ReaderAt) *Lexicon {
	return &Lexicon{
		Log:    logrus.StandardLogger(),
		lemmas: source{index: lemmaIndex, corpus: lemmaCorpus},
		tags:   source{index: posIndex, corpus: posCorpus},
	}
}

// Files names the corpus and index files of a Lexicon.
type Files struct {
	LemmaCorpus string
	LemmaIndex  string
	PosCorpus   string
	PosIndex    string
}

// Open opens the corpora and their indexes. A missing or corrupt index is
// rebuilt from its corpus. Unreadable files are logged and leave the
// corresponding lookups empty.
func Open(files Files, log logrus.FieldLogger) *Lexicon {
	if log == nil {
		log = logrus.StandardLogger()
	}

	l := &Lexicon{Log: log}
	l.lemmas = l.openSource(files.LemmaCorpus, files.LemmaIndex)
	l.tags = l.openSource(files.PosCorpus, files.PosIndex)
	return l
}

func (l *Lexicon) openSource(corpusPath, indexPath string) source {
	log := l.Log.WithField("corpus", corpusPath)

	f, err := os.Open(corpusPath)
	if err != nil {
		log.WithError(err).Warn("corpus unavailable, lookups will be empty")
		return source{}
	}
	l.closers = append(l.closers, f)

	var ix Index
	if indexPath != "" {
		ix, err = LoadIndex(indexPath)
		if err != nil {
			log.WithError(err).Warn("index unavailable, building from corpus")
		}
	}

	if ix == nil {
		ix, err = BuildIndex(io.NewSectionReader(f, 0, maxOffset), nil)
		if err != nil {
			log.WithError(err).Warn("could not index corpus, lookups will be empty")
			return source{}
		}
	}

	return source{index: ix, corpus: f}
}

// Close closes the corpus files opened by Open.
func (l *Lexicon) Close() error {
	var first error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	l.closers = nil
	return first
}

// Normalize lowercases a word and strips leading and trailing hyphens.
func Normalize(word string) string {
	return strings.Trim(strings.ToLower(word), "-")
}

// ExtractLemmas sets the lemma candidates of every token.
func (l *Lexicon) ExtractLemmas(tokens []sent.Token) {
	for i := range tokens {
		tokens[i].Lemmas = l.Lemmas(tokens[i].Text)
	}
}

// ExtractPos sets the POS candidates of every token.
func (l *Lexicon) ExtractPos(tokens []sent.Token) {
	for i := range tokens {
		tokens[i].Tags = l.Tags(tokens[i].Text)
	}
}

// Lemmas returns the lemma candidates of word, best score first, with the
// maximum score kept per distinct lemma. An unknown word, or a word whose
// rows are all malformed or scored 0, yields the single candidate
// (normalized word, 0).
func (l *Lexicon) Lemmas(word string) []sent.LemmaCandidate {
	key := Normalize(word)
	offsets, ok := l.lookup(l.lemmas, key)
	if !ok {
		return []sent.LemmaCandidate{{Lemma: key, Score: 0}}
	}

	best := newScoreSet()
	l.readGroups(l.lemmas, key, offsets, func(fields []string) {
		if len(fields) != 3 {
			return
		}
		score, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil || score <= 0 {
			return
		}
		best.add(strings.ToLower(fields[1]), score)
	})

	if len(best.order) == 0 {
		return []sent.LemmaCandidate{{Lemma: key, Score: 0}}
	}

	candidates := make([]sent.LemmaCandidate, 0, len(best.order))
	for _, lemma := range best.sorted() {
		candidates = append(candidates, sent.LemmaCandidate{Lemma: lemma, Score: best.score[lemma]})
	}
	return candidates
}

// Tags returns the POS candidates of word, best score first, with the
// maximum score kept per distinct tag. An unknown word yields no
// candidates.
func (l *Lexicon) Tags(word string) []sent.TagCandidate {
	key := Normalize(word)
	offsets, ok := l.lookup(l.tags, key)
	if !ok {
		return []sent.TagCandidate{}
	}

	best := newScoreSet()
	l.readGroups(l.tags, key, offsets, func(fields []string) {
		if len(fields) < 4 {
			return
		}
		score, err := strconv.Atoi(strings.TrimSpace(fields[3]))
		if err != nil || score <= 0 {
			return
		}
		best.add(fields[2], score)
	})

	candidates := make([]sent.TagCandidate, 0, len(best.order))
	for _, tag := range best.sorted() {
		candidates = append(candidates, sent.TagCandidate{Tag: tag, Score: best.score[tag]})
	}
	return candidates
}

func (l *Lexicon) lookup(src source, key string) ([]int64, bool) {
	if !src.usable() {
		return nil, false
	}
	offsets, ok := src.index[key]
	return offsets, ok
}

// readGroups calls fn with the fields of every line of the groups starting
// at offsets, stopping each group at the first line of another word.
func (l *Lexicon) readGroups(src source, key string, offsets []int64, fn func(fields []string)) {
	for _, off := range offsets {
		r := bufio.NewReader(io.NewSectionReader(src.corpus, off, maxOffset-off))
		for {
			line, err := r.ReadString('\n')
			if len(line) > 0 {
				fields := strings.Split(strings.TrimRight(line, "\r\n"), ";")
				if strings.ToLower(fields[0]) != key {
					break
				}
				fn(fields)
			}

			if err == io.EOF {
				break
			}
			if err != nil {
				l.Log.WithError(err).WithField("word", key).Warn("corpus read failed")
				break
			}
		}
	}
}

// scoreSet keeps the maximum score per value in first seen order.
type scoreSet struct {
	order []string
	score map[string]int
}

func newScoreSet() *scoreSet {
	return &scoreSet{score: map[string]int{}}
}

func (s *scoreSet) add(value string, score int) {
	prev, ok := s.score[value]
	if !ok {
		s.order = append(s.order, value)
		s.score[value] = score
		return
	}
	if score > prev {
		s.score[value] = score
	}
}

// sorted returns the values by descending score, ties in first seen order.
func (s *scoreSet) sorted() []string {
	values := append([]string(nil), s.order...)
	sort.SliceStable(values, func(i, j int) bool {
		return s.score[values[i]] > s.score[values[j]]
	})
	return values
}
