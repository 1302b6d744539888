// Package pipeline runs the analysis stages over a text: tokenizer,
// lexicon lookup, morphological features, disambiguation, dependencies and
// phrase groups.
package pipeline

import (
	"github.com/sirupsen/logrus"

	"github.com/revelaction/semgraph/depparse"
	"github.com/revelaction/semgraph/disamb"
	"github.com/revelaction/semgraph/group"
	"github.com/revelaction/semgraph/metrics"
	"github.com/revelaction/semgraph/morph"
	sent "github.com/revelaction/semgraph/sentence"
	"github.com/revelaction/semgraph/tokenize"
)

// Lexicon is the lexicon access the pipeline needs.
type Lexicon interface {
	morph.Lookup
	ExtractLemmas(tokens []sent.Token)
	ExtractPos(tokens []sent.Token)
}

type Pipeline struct {
	Tokenizer *tokenize.Tokenizer
	Lexicon   Lexicon
	Morph     *morph.Analyzer
	Disamb    *disamb.Disambiguator
	Parser    *depparse.Parser
}

// New wires the stages around lex. overrides may be nil.
func New(tk *tokenize.Tokenizer, lex Lexicon, overrides *disamb.Overrides, log logrus.FieldLogger) *Pipeline {
	if log == nil {
		log = logrus.StandardLogger()
	}

	m := morph.New(lex)
	d := disamb.New(m, overrides)
	d.Log = log
	p := depparse.New()
	p.Log = log

	return &Pipeline{
		Tokenizer: tk,
		Lexicon:   lex,
		Morph:     m,
		Disamb:    d,
		Parser:    p,
	}
}

// Analyze returns the fully annotated doc of text.
func (p *Pipeline) Analyze(text string) *sent.Doc {
	doc := p.Tokenizer.Tokenize(text)

	p.Lexicon.ExtractLemmas(doc.Tokens)
	p.Lexicon.ExtractPos(doc.Tokens)
	p.Morph.Analyze(doc.Tokens)
	p.Disamb.Disambiguate(doc.Tokens)
	p.Parser.Parse(doc)
	doc.Groups = group.Extract(doc)

	metrics.TokensAnalyzed.Add(float64(len(doc.Tokens)))
	metrics.ClausesParsed.Add(float64(len(doc.Clauses())))

	return doc
}
