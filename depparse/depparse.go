// Package depparse assigns a head and a dependency label to every token,
// one clause at a time, with hand written rules dispatched by POS.
package depparse

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"

	"github.com/revelaction/semgraph/morph"
	sent "github.com/revelaction/semgraph/sentence"
)

// Dependency labels.
const (
	Root     = "ROOT"
	Det      = "det"
	Nsubj    = "nsubj"
	NsubjPas = "nsubj:pass"
	Obj      = "obj"
	Obl      = "obl"
	OblAgent = "obl:agent"
	Nmod     = "nmod"
	Case     = "case"
	Conj     = "conj"
	Amod     = "amod"
	Advmod   = "advmod"
	Mark     = "mark"
	Fixed    = "fixed"
	Advcl    = "advcl"
	Xcomp    = "xcomp"
	Aux      = "aux"
	AuxPass  = "aux:pass"
	Cc       = "cc"
	Cop      = "cop"
	AclRelcl = "acl:relcl"
	Punct    = "punct"
	Dep      = "dep"
)

var (
	relativePronouns = mapset.NewThreadUnsafeSet("qui", "que", "dont", "où")
	coordLiterals    = mapset.NewThreadUnsafeSet("et", "ou", "mais", "ni", "donc", "or", "car")
)

type Parser struct {
	Log logrus.FieldLogger
}

func New() *Parser {
	return &Parser{Log: logrus.StandardLogger()}
}

// Parse labels every clause of doc. After Parse each clause has exactly
// one ROOT token, its own head, and every other token has a head inside
// the same clause.
func (p *Parser) Parse(doc *sent.Doc) {
	for _, ids := range doc.Clauses() {
		c := newClause(doc, ids)
		c.parse()
		p.Log.WithFields(logrus.Fields{
			"clause": c.tok(0).Key().String(),
			"root":   c.tok(c.root).Text,
		}).Debug("clause parsed")
	}
}

type clause struct {
	doc  *sent.Doc
	ids  []int
	root int

	// positions labeled ahead of the loop by a relative clause or a
	// "tandis que" pair
	locked []bool
}

func newClause(doc *sent.Doc, ids []int) *clause {
	return &clause{doc: doc, ids: ids, locked: make([]bool, len(ids))}
}

func (c *clause) tok(i int) *sent.Token {
	return &c.doc.Tokens[c.ids[i]]
}

func (c *clause) pos(i int, tags ...string) bool {
	p := c.tok(i).Pos
	for _, t := range tags {
		if p == t {
			return true
		}
	}
	return false
}

func (c *clause) lower(i int) string {
	return c.tok(i).Lower()
}

func (c *clause) lemma(i int) string {
	t := c.tok(i)
	if t.Lemma == "" {
		return t.Lower()
	}
	return strings.ToLower(t.Lemma)
}

// set labels position i with head position h. The root is never relabeled.
func (c *clause) set(i, h int, label string) {
	if i == c.root {
		return
	}
	t := c.tok(i)
	t.Dep = label
	t.Head = c.ids[h]
}

func (c *clause) next(i int, tags ...string) int {
	for j := i + 1; j < len(c.ids); j++ {
		if c.pos(j, tags...) {
			return j
		}
	}
	return -1
}

func (c *clause) prev(i int, tags ...string) int {
	for j := i - 1; j >= 0; j-- {
		if c.pos(j, tags...) {
			return j
		}
	}
	return -1
}

func (c *clause) orRoot(j int) int {
	if j < 0 {
		return c.root
	}
	return j
}

func (c *clause) parse() {
	c.root = c.electRoot()
	r := c.tok(c.root)
	r.Dep = Root
	r.Head = r.Id

	for i := range c.ids {
		if i == c.root || c.locked[i] {
			continue
		}
		c.assign(i)
	}

	for i := range c.ids {
		t := c.tok(i)
		if t.Dep == "" {
			t.Dep = Dep
		}
		if t.Head == sent.NoHead {
			t.Head = c.ids[c.root]
		}
	}
}

// electRoot returns the clause position of the root: a finite verb, else
// the participle of an "être" + participle pair, else any verb, else a
// noun, else the first token. A predicative adjective takes over.
func (c *clause) electRoot() int {
	root := c.electVerbalRoot()

	for i := range c.ids {
		if i != root && c.isPredicateAdjective(i) {
			return i
		}
	}

	return root
}

func (c *clause) electVerbalRoot() int {
	for i := range c.ids {
		if c.pos(i, sent.VERB) && c.tok(i).Feat(morph.VerbForm) == morph.Fin {
			return i
		}
	}

	for i := 0; i+1 < len(c.ids); i++ {
		if c.pos(i, sent.AUX) && c.lemma(i) == "être" &&
			c.pos(i+1, sent.VERB) && c.tok(i+1).Feat(morph.VerbForm) == morph.Part {
			return i + 1
		}
	}

	if i := c.next(-1, sent.VERB); i >= 0 {
		return i
	}

	if i := c.next(-1, sent.NOUN, sent.PROPN); i >= 0 {
		return i
	}

	return 0
}

// isPredicateAdjective reports whether the ADJ at i follows an AUX and is
// not followed by a noun or pronoun it could modify.
func (c *clause) isPredicateAdjective(i int) bool {
	if !c.pos(i, sent.ADJ) || i == 0 || !c.pos(i-1, sent.AUX) {
		return false
	}
	return !c.adjacent(i+1, sent.NOUN, sent.PROPN, sent.PRON)
}

// adjacent reports whether position i exists and has one of tags.
func (c *clause) adjacent(i int, tags ...string) bool {
	return i >= 0 && i < len(c.ids) && c.pos(i, tags...)
}

func (c *clause) isPassive() bool {
	if c.tok(c.root).Feat(morph.VerbForm) != morph.Part {
		return false
	}
	for i := 0; i < c.root; i++ {
		if c.pos(i, sent.AUX) && c.lemma(i) == "être" {
			return true
		}
	}
	return false
}

func (c *clause) isCoordinated(i int) bool {
	return i > 0 && (c.pos(i-1, sent.CCONJ) || coordLiterals.Contains(c.lower(i-1)))
}

func (c *clause) isSubordinated(i int) bool {
	if i > 0 && c.pos(i-1, sent.SCONJ, sent.PRON) {
		return true
	}
	return i > 1 && c.lower(i-2) == "tandis" && c.lower(i-1) == "que"
}

func (c *clause) assign(i int) {
	switch c.tok(i).Pos {
	case sent.DET:
		c.set(i, c.orRoot(c.next(i, sent.NOUN, sent.PROPN, sent.ADJ)), Det)

	case sent.NOUN, sent.PROPN:
		c.assignNoun(i)

	case sent.ADJ:
		// only the neighbours are modified
		switch {
		case c.adjacent(i+1, sent.NOUN, sent.PROPN, sent.PRON):
			c.set(i, i+1, Amod)
		case c.adjacent(i-1, sent.NOUN, sent.PROPN, sent.PRON):
			c.set(i, i-1, Amod)
		default:
			c.set(i, c.root, Dep)
		}

	case sent.ADV:
		if c.lower(i) == "tandis" && i+1 < len(c.ids) && c.lower(i+1) == "que" {
			c.set(i, c.orRoot(c.next(i+1, sent.VERB)), Mark)
			c.set(i+1, i, Fixed)
			c.locked[i+1] = true
			return
		}
		c.set(i, c.orRoot(c.prev(i, sent.VERB, sent.ADJ, sent.ADV)), Advmod)

	case sent.PRON:
		if relativePronouns.Contains(c.lemma(i)) || relativePronouns.Contains(c.lower(i)) {
			c.relativeClause(i)
			return
		}
		c.set(i, c.root, c.subjectOrObject(i, Nsubj))

	case sent.VERB:
		switch {
		case c.isSubordinated(i):
			c.set(i, c.root, Advcl)
		case c.isCoordinated(i):
			c.set(i, c.orRoot(c.prev(i, sent.VERB)), Conj)
		default:
			c.set(i, c.root, Xcomp)
		}

	case sent.AUX:
		r := c.tok(c.root)
		if c.lemma(i) == "être" && r.Pos == sent.VERB && r.Feat(morph.VerbForm) == morph.Part {
			c.set(i, c.root, AuxPass)
			return
		}
		c.set(i, c.root, Aux)

	case sent.ADP:
		j := i + 1
		for j < len(c.ids) && c.pos(j, sent.DET) {
			j++
		}
		if j < len(c.ids) && c.pos(j, sent.NOUN, sent.PROPN, sent.PRON) {
			c.set(i, j, Case)
			return
		}
		c.set(i, c.orRoot(c.next(i, sent.VERB)), Mark)

	case sent.CCONJ:
		if c.adjacent(i+1, sent.ADJ, sent.NOUN, sent.PROPN, sent.VERB) {
			c.set(i, i+1, Cc)
			return
		}
		c.set(i, c.orRoot(c.prev(i, sent.ADJ, sent.NOUN, sent.PROPN, sent.VERB)), Cc)

	case sent.SCONJ:
		c.set(i, c.orRoot(c.next(i, sent.VERB)), Mark)

	case sent.PUNCT:
		c.set(i, c.root, Punct)

	default:
		c.set(i, c.root, Dep)
	}
}

func (c *clause) assignNoun(i int) {
	prep := i - 1
	for prep >= 0 && c.pos(prep, sent.DET) {
		prep--
	}

	if prep >= 0 && c.pos(prep, sent.ADP) {
		switch {
		case c.lower(prep) == "par" && c.isPassive():
			c.set(i, c.root, OblAgent)
		default:
			if j := c.prev(prep, sent.NOUN, sent.PROPN, sent.PRON, sent.ADJ); j >= 0 {
				c.set(i, j, Nmod)
			} else {
				c.set(i, c.root, Obl)
			}
		}
		c.set(prep, i, Case)
		return
	}

	if c.isCoordinated(i) {
		c.set(i, c.orRoot(c.prev(i, sent.NOUN, sent.PROPN)), Conj)
		return
	}

	subj := Nsubj
	if c.isPassive() {
		subj = NsubjPas
	}
	c.set(i, c.root, c.subjectOrObject(i, subj))
}

// subjectOrObject labels a dependent of the root by position only.
func (c *clause) subjectOrObject(i int, subj string) string {
	if i < c.root {
		return subj
	}
	return Obj
}

// relativeClause attaches the clause introduced by the relative pronoun
// at i to its antecedent.
func (c *clause) relativeClause(i int) {
	ant := c.prev(i, sent.NOUN, sent.PROPN, sent.PRON)
	v := c.next(i, sent.VERB, sent.AUX)
	if ant < 0 || v < 0 {
		c.set(i, c.root, Dep)
		return
	}

	lock := func(positions ...int) {
		for _, p := range positions {
			if p > i {
				c.locked[p] = true
			}
		}
	}

	if c.pos(v, sent.AUX) && c.lemma(v) == "être" {
		if pred := c.next(v, sent.NOUN, sent.ADJ, sent.PRON, sent.PROPN); pred >= 0 {
			c.set(pred, ant, AclRelcl)
			c.set(i, pred, Nsubj)
			c.set(v, pred, Cop)
			lock(pred, v)
			if pred-1 > v && c.pos(pred-1, sent.DET) {
				c.set(pred-1, pred, Det)
				lock(pred - 1)
			}
			return
		}

		c.set(v, ant, AclRelcl)
		c.set(i, v, Nsubj)
		lock(v)
		return
	}

	// the pronoun always precedes the verb found after it
	c.set(v, ant, AclRelcl)
	c.set(i, v, Nsubj)
	lock(v)
}
