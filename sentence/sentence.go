package sentence

import (
	"fmt"
	"strings"
)

// Universal POS tags produced by the disambiguator.
const (
	ADJ   = "ADJ"
	ADP   = "ADP"
	ADV   = "ADV"
	AUX   = "AUX"
	CCONJ = "CCONJ"
	DET   = "DET"
	INTJ  = "INTJ"
	NOUN  = "NOUN"
	PART  = "PART"
	PRON  = "PRON"
	PROPN = "PROPN"
	PUNCT = "PUNCT"
	SCONJ = "SCONJ"
	SYM   = "SYM"
	VERB  = "VERB"
	X     = "X"
)

// NoHead marks a token whose head has not been assigned yet.
const NoHead = -1

// Key is the position of a token: the sentence index and the index of the
// token inside that sentence, starting at 0.
type Key struct {
	Sentence int `json:"sent"`
	Index    int `json:"index"`
}

// Less reports whether k is positioned before o.
func (k Key) Less(o Key) bool {
	if k.Sentence != o.Sentence {
		return k.Sentence < o.Sentence
	}
	return k.Index < o.Index
}

func (k Key) String() string {
	return fmt.Sprintf("%d:%d", k.Sentence, k.Index)
}

// LemmaCandidate is a lemma read from the lemma corpus with its score.
type LemmaCandidate struct {
	Lemma string `json:"lemma"`
	Score int    `json:"score"`
}

// TagCandidate is an internal POS tag read from the POS corpus with its
// score. The tag text carries morphological sub-features, e.g.
// "Nom:Mas+SG".
type TagCandidate struct {
	Tag   string `json:"tag"`
	Score int    `json:"score"`
}

// Token represents a word of the document, with candidates, resolved
// POS/lemma and dependency data.
type Token struct {
	// The index of the token in the Doc arena
	Id int `json:"id"`

	// The arena index of the head token, NoHead before dependency assignment
	Head int `json:"head"`

	SentenceId int `json:"sent"`

	// The index of the word in the sentence, starting at 0.
	Index int `json:"index"`

	// The word, possibly with a recovered elision apostrophe
	Text string `json:"text"`

	Lemma string `json:"lemma"`
	Pos   string `json:"pos"`

	// The internal tag chosen by the disambiguator
	Tag string `json:"tag"`
	Dep string `json:"dep"`

	Lemmas []LemmaCandidate `json:"lemmas,omitempty"`
	Tags   []TagCandidate   `json:"tags,omitempty"`

	Gender string            `json:"gender,omitempty"`
	Number string            `json:"number,omitempty"`
	Feats  map[string]string `json:"feats,omitempty"`

	Shape   string `json:"shape"`
	IsAlpha bool   `json:"alpha"`
	IsStop  bool   `json:"stop"`

	Groups []Group `json:"groups,omitempty"`
}

// Key returns the position key of the token.
func (t *Token) Key() Key {
	return Key{Sentence: t.SentenceId, Index: t.Index}
}

// Lower returns the lowercased text of the token.
func (t *Token) Lower() string {
	return strings.ToLower(t.Text)
}

// Feat returns the value of a morphological feature, or the empty string.
func (t *Token) Feat(name string) string {
	if t.Feats == nil {
		return ""
	}
	return t.Feats[name]
}

// SetFeat sets a feature if not already present. The first value wins.
func (t *Token) SetFeat(name, value string) {
	if t.Feats == nil {
		t.Feats = map[string]string{}
	}
	if _, ok := t.Feats[name]; ok {
		return
	}
	t.Feats[name] = value
}

// HasTagPrefix reports whether any POS candidate starts with prefix.
func (t *Token) HasTagPrefix(prefix string) bool {
	for _, c := range t.Tags {
		if strings.HasPrefix(c.Tag, prefix) {
			return true
		}
	}
	return false
}

// MaxTagScore returns the highest score among candidates starting with
// prefix, and false if there is none.
func (t *Token) MaxTagScore(prefix string) (int, bool) {
	best, found := 0, false
	for _, c := range t.Tags {
		if !strings.HasPrefix(c.Tag, prefix) {
			continue
		}
		if !found || c.Score > best {
			best = c.Score
			found = true
		}
	}
	return best, found
}

// Doc is the token arena of one analyzed text. Heads are arena indexes
// into Tokens.
type Doc struct {
	Text   string  `json:"text"`
	Tokens []Token `json:"tokens"`

	// Phrase groups, set by the group extractor
	Groups []Group `json:"groups,omitempty"`
}

// Head returns the head of the token at arena index id, or nil.
func (d *Doc) Head(id int) *Token {
	h := d.Tokens[id].Head
	if h < 0 || h >= len(d.Tokens) {
		return nil
	}
	return &d.Tokens[h]
}

// ByKey returns the token at position key k, or nil.
func (d *Doc) ByKey(k Key) *Token {
	for i := range d.Tokens {
		if d.Tokens[i].Key() == k {
			return &d.Tokens[i]
		}
	}
	return nil
}

// Clause is a run of arena indexes processed as one dependency unit.
type Clause []int

// Clauses splits the doc at PUNCT tokens whose text is one of . ! ? ;
// The terminator belongs to the clause it ends. A trailing remainder forms
// the last clause.
func (d *Doc) Clauses() []Clause {
	clauses := []Clause{}
	current := Clause{}
	for i := range d.Tokens {
		current = append(current, i)
		if IsClauseEnd(&d.Tokens[i]) {
			clauses = append(clauses, current)
			current = Clause{}
		}
	}

	if len(current) > 0 {
		clauses = append(clauses, current)
	}

	return clauses
}

// Sentences groups the arena indexes by sentence id.
func (d *Doc) Sentences() [][]int {
	sentences := [][]int{}
	for i := range d.Tokens {
		sid := d.Tokens[i].SentenceId
		for len(sentences) <= sid {
			sentences = append(sentences, []int{})
		}
		sentences[sid] = append(sentences[sid], i)
	}
	return sentences
}

// IsSentenceEnd reports whether text resets the intra-sentence index.
func IsSentenceEnd(text string) bool {
	return text == "." || text == "!" || text == "?"
}

// IsClauseEnd reports whether t ends a dependency clause.
func IsClauseEnd(t *Token) bool {
	return t.Pos == PUNCT && (IsSentenceEnd(t.Text) || t.Text == ";")
}
