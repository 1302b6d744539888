// Package disamb resolves one POS tag and one lemma per token from the
// lexicon candidates, using the neighbouring tokens as context.
package disamb

import (
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/revelaction/semgraph/morph"
	sent "github.com/revelaction/semgraph/sentence"
)

// FeatureAnalyzer fills the features of a probe token built from a lemma.
type FeatureAnalyzer interface {
	AnalyzeToken(t *sent.Token)
}

type Disambiguator struct {
	Morph     FeatureAnalyzer
	Overrides *Overrides
	Log       logrus.FieldLogger
}

func New(m FeatureAnalyzer, o *Overrides) *Disambiguator {
	return &Disambiguator{
		Morph:     m,
		Overrides: o,
		Log:       logrus.StandardLogger(),
	}
}

// Disambiguate sets Tag, Pos and Lemma of every token, left to right.
func (d *Disambiguator) Disambiguate(tokens []sent.Token) {
	prevTag := BOS

	for i := range tokens {
		t := &tokens[i]

		var next *Lookahead
		if i+1 < len(tokens) {
			next = &Lookahead{Tags: tokens[i+1].Tags}
		}

		tag := ResolvePos(prevTag, t.Tags, next)
		if tag == sent.X && len(t.Tags) == 0 && isPunctuation(t.Text) {
			tag = "Punct"
		}
		t.Tag = tag
		t.Pos = MapToStandardTag(tag)
		t.Lemma = d.ResolveLemma(t.Pos, prevTag, t)

		if t.Pos == sent.VERB && (t.Lemma == "être" || t.Lemma == "avoir") {
			t.Pos = sent.AUX
		}

		if i > 0 {
			d.promoteAdjective(&tokens[i-1], t)
		}

		// closed-class literals, in order, the last match wins
		if t.Text == "car" {
			t.Pos = sent.CCONJ
		}
		if t.Lower() == "ce" || t.Lower() == "ces" {
			t.Pos = sent.DET
		}
		if t.Text == "ne" {
			t.Pos = sent.ADV
		}
		if i > 0 && tokens[i-1].Text == "ne" {
			t.Pos = sent.VERB
		}

		prevTag = tag
	}
}

// promoteAdjective turns one of two consecutive nouns into an adjective
// when both have adjective candidates: the one with the best adjective
// score, the first on ties.
func (d *Disambiguator) promoteAdjective(prev, cur *sent.Token) {
	if prev.Pos != sent.NOUN || cur.Pos != sent.NOUN {
		return
	}

	ps, ok := prev.MaxTagScore("Adj")
	if !ok {
		return
	}
	cs, ok := cur.MaxTagScore("Adj")
	if !ok {
		return
	}

	if ps >= cs {
		prev.Pos = sent.ADJ
	} else {
		cur.Pos = sent.ADJ
	}

	d.Log.WithFields(logrus.Fields{"first": prev.Text, "second": cur.Text}).Debug("noun pair: adjective promoted")
}

// ResolveLemma picks the lemma of t for pos. Each lemma candidate is
// checked by building a probe token from it: only candidates whose probe
// resolves to the same POS are kept, singular then masculine probes are
// preferred, and the best score wins. The learned overrides apply last.
func (d *Disambiguator) ResolveLemma(pos, prevTag string, t *sent.Token) string {
	if len(t.Lemmas) == 0 {
		return t.Lower()
	}

	target := pos
	if (pos == sent.VERB || pos == sent.AUX) && isDeterminerLike(prevTag) {
		target = sent.NOUN
	}

	type probe struct {
		cand sent.LemmaCandidate
		tok  sent.Token
	}

	matches := []probe{}
	for _, c := range t.Lemmas {
		p := sent.Token{Text: c.Lemma, Tags: t.Tags}
		p.Pos = MapToStandardTag(ResolvePos(BOS, p.Tags, nil))
		if d.Morph != nil {
			d.Morph.AnalyzeToken(&p)
		}

		if p.Pos == target {
			matches = append(matches, probe{cand: c, tok: p})
		}
	}

	if len(matches) == 0 {
		return t.Lemmas[0].Lemma
	}

	if singular := filterProbes(matches, func(p probe) bool { return p.tok.Number == morph.Sing }); len(singular) > 0 {
		matches = singular
	}

	if target != sent.NOUN {
		if masculine := filterProbes(matches, func(p probe) bool { return p.tok.Gender == morph.Mas }); len(masculine) > 0 {
			matches = masculine
		}
	}

	best := matches[0].cand
	for _, m := range matches[1:] {
		if m.cand.Score > best.Score {
			best = m.cand
		}
	}

	return d.Overrides.Apply(t.Text, target, best.Lemma)
}

func filterProbes[T any](items []T, keep func(T) bool) []T {
	out := []T{}
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// isPunctuation reports whether text is a single punctuation mark, which
// the lexicon may not list.
func isPunctuation(text string) bool {
	r, size := utf8.DecodeRuneInString(text)
	return size > 0 && size == len(text) && (unicode.IsPunct(r) || unicode.IsSymbol(r))
}
