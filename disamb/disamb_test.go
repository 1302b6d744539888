package disamb

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/revelaction/semgraph/morph"
	sent "github.com/revelaction/semgraph/sentence"
)

type entry struct {
	lemmas []sent.LemmaCandidate
	tags   []sent.TagCandidate
}

// fakeLexicon implements morph.Lookup
type fakeLexicon map[string]entry

func (f fakeLexicon) Lemmas(word string) []sent.LemmaCandidate {
	if e, ok := f[word]; ok {
		return e.lemmas
	}
	return []sent.LemmaCandidate{{Lemma: word}}
}

func (f fakeLexicon) Tags(word string) []sent.TagCandidate {
	return f[word].tags
}

var lex = fakeLexicon{
	"le": {
		lemmas: []sent.LemmaCandidate{{Lemma: "le", Score: 100}},
		tags:   []sent.TagCandidate{{Tag: "Det:Mas+SG", Score: 100}, {Tag: "Pro:Per", Score: 50}},
	},
	"la": {
		lemmas: []sent.LemmaCandidate{{Lemma: "le", Score: 80}, {Lemma: "la", Score: 20}},
		tags:   []sent.TagCandidate{{Tag: "Det:Fem+SG", Score: 100}, {Tag: "Pro:Per", Score: 60}, {Tag: "Nom:Mas", Score: 10}},
	},
	"chat": {
		lemmas: []sent.LemmaCandidate{{Lemma: "chat", Score: 50}},
		tags:   []sent.TagCandidate{{Tag: "Nom:Mas+SG", Score: 100}, {Tag: "Ver:IPre+SG+P3", Score: 5}},
	},
	"mange": {
		lemmas: []sent.LemmaCandidate{{Lemma: "manger", Score: 90}},
		tags:   []sent.TagCandidate{{Tag: "Ver:IPre+SG+P3", Score: 70}},
	},
	"manger": {
		lemmas: []sent.LemmaCandidate{{Lemma: "manger", Score: 90}},
		tags:   []sent.TagCandidate{{Tag: "Ver:Inf", Score: 90}},
	},
	"souris": {
		lemmas: []sent.LemmaCandidate{{Lemma: "souris", Score: 30}},
		tags:   []sent.TagCandidate{{Tag: "Nom:Fem", Score: 100}},
	},
	"est": {
		lemmas: []sent.LemmaCandidate{{Lemma: "être", Score: 90}},
		tags:   []sent.TagCandidate{{Tag: "Ver:IPre+SG+P3", Score: 50}},
	},
	"chats": {
		lemmas: []sent.LemmaCandidate{{Lemma: "chats", Score: 40}},
		tags:   []sent.TagCandidate{{Tag: "Nom:Mas+PL", Score: 100}},
	},
	"rouge": {
		lemmas: []sent.LemmaCandidate{{Lemma: "rouge", Score: 10}},
		tags:   []sent.TagCandidate{{Tag: "Nom:Mas+SG", Score: 100}, {Tag: "Adj:InvGen+SG", Score: 30}},
	},
	"vif": {
		lemmas: []sent.LemmaCandidate{{Lemma: "vif", Score: 10}},
		tags:   []sent.TagCandidate{{Tag: "Nom:Mas+SG", Score: 100}, {Tag: "Adj:Mas+SG", Score: 60}},
	},
}

func quietLog() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestDisambiguator(o *Overrides) *Disambiguator {
	d := New(morph.New(lex), o)
	d.Log = quietLog()
	return d
}

func tokens(words ...string) []sent.Token {
	a := morph.New(lex)
	out := make([]sent.Token, len(words))
	for i, w := range words {
		out[i] = sent.Token{Id: i, Index: i, Head: sent.NoHead, Text: w}
		a.AnalyzeToken(&out[i])
	}
	return out
}

func TestMapToStandardTag(t *testing.T) {
	tests := map[string]string{
		"Adj:Mas+SG":   sent.ADJ,
		"Pre":          sent.ADP,
		"Adv":          sent.ADV,
		"Ver:IPre":     sent.VERB,
		"Conj:Coord":   sent.CCONJ,
		"Conj:Sub":     sent.SCONJ,
		"Con":          sent.SCONJ,
		"conj":         sent.SCONJ,
		"Det:Mas":      sent.DET,
		"Int":          sent.INTJ,
		"Nom:Fem+PL":   sent.NOUN,
		"Part":         sent.PART,
		"Pro:Per":      sent.PRON,
		"Punct":        sent.PUNCT,
		"Symbole":      sent.SYM,
		"Unit":         sent.VERB,
		"Unknown":      sent.X,
		"":             sent.X,
		"VerbalMode:X": sent.VERB,
	}

	for in, want := range tests {
		if got := MapToStandardTag(in); got != want {
			t.Errorf("MapToStandardTag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolvePos(t *testing.T) {
	tests := []struct {
		name  string
		prev  string
		cands []sent.TagCandidate
		next  []sent.TagCandidate
		want  string
	}{
		{"no candidates", BOS, nil, nil, sent.X},
		{"determiner then verb form", "Det:Mas", []sent.TagCandidate{{Tag: "Ver:Inf", Score: 90}, {Tag: "Adj", Score: 10}}, nil, "Nom"},
		{"determiner before noun", BOS, []sent.TagCandidate{{Tag: "Pro:Per", Score: 80}, {Tag: "Det:Fem", Score: 50}}, []sent.TagCandidate{{Tag: "Nom:Fem", Score: 90}}, "Det:Fem"},
		{"preposition before pronoun", BOS, []sent.TagCandidate{{Tag: "Adv", Score: 80}, {Tag: "Pre", Score: 50}}, []sent.TagCandidate{{Tag: "Pro:Per", Score: 90}}, "Pre"},
		{"pronoun before verb", BOS, []sent.TagCandidate{{Tag: "Nom", Score: 80}, {Tag: "Pro:Per", Score: 50}}, []sent.TagCandidate{{Tag: "Ver:IPre", Score: 90}}, "Pro:Per"},
		{"best score", BOS, []sent.TagCandidate{{Tag: "Ver", Score: 5}, {Tag: "Nom", Score: 10}}, nil, "Nom"},
		{"tie uses priority", BOS, []sent.TagCandidate{{Tag: "Nom", Score: 10}, {Tag: "Adj", Score: 10}}, nil, "Adj"},
		{"tie adjective after noun", "Nom:Mas", []sent.TagCandidate{{Tag: "Nom", Score: 10}, {Tag: "Adj", Score: 10}}, nil, "Adj"},
		{"tie noun after determiner", "Det:Mas", []sent.TagCandidate{{Tag: "Adj", Score: 10}, {Tag: "Nom", Score: 10}}, nil, "Nom"},
		{"unknown tags rank last", BOS, []sent.TagCandidate{{Tag: "Foo", Score: 10}, {Tag: "Pre", Score: 10}}, nil, "Pre"},
	}

	for _, tt := range tests {
		var next *Lookahead
		if tt.next != nil {
			next = &Lookahead{Tags: tt.next}
		}
		if got := ResolvePos(tt.prev, tt.cands, next); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestResolvePosFillsLookahead(t *testing.T) {
	next := &Lookahead{Tags: []sent.TagCandidate{{Tag: "Nom:Fem", Score: 90}}}
	ResolvePos(BOS, []sent.TagCandidate{{Tag: "Adj", Score: 1}}, next)
	if next.Tag != sent.NOUN {
		t.Errorf("lookahead tag = %q, want NOUN", next.Tag)
	}

	// no candidates: the window stays untouched
	next = &Lookahead{Tags: []sent.TagCandidate{{Tag: "Nom:Fem", Score: 90}}}
	ResolvePos(BOS, nil, next)
	if next.Tag != "" {
		t.Errorf("lookahead tag = %q, want empty", next.Tag)
	}
}

func TestDisambiguateSentence(t *testing.T) {
	d := newTestDisambiguator(nil)
	toks := tokens("le", "chat", "mange", "la", "souris")
	d.Disambiguate(toks)

	wantPos := []string{sent.DET, sent.NOUN, sent.VERB, sent.DET, sent.NOUN}
	wantLemma := []string{"le", "chat", "manger", "le", "souris"}
	for i, tok := range toks {
		if tok.Pos != wantPos[i] || tok.Lemma != wantLemma[i] {
			t.Errorf("%q: got %s/%s, want %s/%s", tok.Text, tok.Pos, tok.Lemma, wantPos[i], wantLemma[i])
		}
	}
}

func TestDisambiguateIsDeterministic(t *testing.T) {
	d := newTestDisambiguator(nil)

	a := tokens("le", "chat", "est", "rouge", "vif")
	b := tokens("le", "chat", "est", "rouge", "vif")
	d.Disambiguate(a)
	d.Disambiguate(b)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("two runs differ:\n%v\n%v", a, b)
	}
}

func TestAuxReclassification(t *testing.T) {
	d := newTestDisambiguator(nil)
	toks := tokens("chat", "est")
	d.Disambiguate(toks)

	if toks[1].Pos != sent.AUX || toks[1].Lemma != "être" {
		t.Errorf("est: got %s/%s, want AUX/être", toks[1].Pos, toks[1].Lemma)
	}
}

func TestLiteralOverrides(t *testing.T) {
	d := newTestDisambiguator(nil)
	toks := tokens("car", "Ce", "ne", "chat", "ces")
	d.Disambiguate(toks)

	want := []string{sent.CCONJ, sent.DET, sent.ADV, sent.VERB, sent.DET}
	for i, tok := range toks {
		if tok.Pos != want[i] {
			t.Errorf("%q: got %s, want %s", tok.Text, tok.Pos, want[i])
		}
	}
}

func TestLiteralOverridesAreSequential(t *testing.T) {
	d := newTestDisambiguator(nil)
	toks := tokens("ne", "ce", "ne", "car", "ne", "ne")
	d.Disambiguate(toks)

	// a token after "ne" is a verb, whatever literal it is
	want := []string{sent.ADV, sent.VERB, sent.ADV, sent.VERB, sent.ADV, sent.VERB}
	for i, tok := range toks {
		if tok.Pos != want[i] {
			t.Errorf("token %d %q: got %s, want %s", i, tok.Text, tok.Pos, want[i])
		}
	}
}

func TestNounPairPromotion(t *testing.T) {
	d := newTestDisambiguator(nil)
	toks := tokens("rouge", "vif")
	d.Disambiguate(toks)

	if toks[0].Pos != sent.NOUN || toks[1].Pos != sent.ADJ {
		t.Errorf("got %s %s, want NOUN ADJ", toks[0].Pos, toks[1].Pos)
	}

	toks = tokens("vif", "rouge")
	d.Disambiguate(toks)
	if toks[0].Pos != sent.ADJ || toks[1].Pos != sent.NOUN {
		t.Errorf("got %s %s, want ADJ NOUN", toks[0].Pos, toks[1].Pos)
	}
}

func TestResolveLemmaFallsBackToFirstCandidate(t *testing.T) {
	d := newTestDisambiguator(nil)
	tok := sent.Token{
		Text:   "manger",
		Lemmas: []sent.LemmaCandidate{{Lemma: "manger", Score: 90}, {Lemma: "mangeur", Score: 10}},
		Tags:   []sent.TagCandidate{{Tag: "Ver:Inf", Score: 90}},
	}

	// after a determiner the verb is looked up as a noun: no probe matches
	if got := d.ResolveLemma(sent.VERB, "Det:Mas", &tok); got != "manger" {
		t.Errorf("got %q, want manger", got)
	}

	tok.Lemmas = nil
	if got := d.ResolveLemma(sent.VERB, BOS, &tok); got != "manger" {
		t.Errorf("no candidates: got %q, want lowercased text", got)
	}
}

func TestOverrides(t *testing.T) {
	data := []byte(`{
		"chats_NOUN": {"occurrences": 20, "structure": {"system_lemma": "chats", "spacy_lemma": "chat"}},
		"souris_NOUN": {"occurrences": 15, "structure": {"system_lemma": "souris", "spacy_lemma": "sourir"}}
	}`)
	o, err := ParseOverrides(data)
	if err != nil {
		t.Fatalf("ParseOverrides: %v", err)
	}
	if o.Len() != 2 {
		t.Fatalf("got %d entries, want 2", o.Len())
	}

	d := newTestDisambiguator(o)
	toks := tokens("chats", "souris")
	d.Disambiguate(toks)

	if toks[0].Lemma != "chat" {
		t.Errorf("chats lemma = %q, want chat", toks[0].Lemma)
	}
	if toks[1].Lemma != "souris" {
		t.Errorf("souris lemma = %q, want souris (15 occurrences is not enough)", toks[1].Lemma)
	}

	if got := o.Apply("chats", sent.NOUN, "chaton"); got != "chaton" {
		t.Errorf("override applied to a different system lemma: %q", got)
	}
}

func TestLoadOverridesIsSoft(t *testing.T) {
	dir := t.TempDir()

	if o := LoadOverrides(filepath.Join(dir, "missing.json"), quietLog()); o.Len() != 0 {
		t.Errorf("missing file gave %d entries", o.Len())
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if o := LoadOverrides(bad, quietLog()); o.Len() != 0 {
		t.Errorf("malformed file gave %d entries", o.Len())
	}

	var nilTable *Overrides
	if got := nilTable.Apply("x", sent.NOUN, "x"); got != "x" {
		t.Errorf("nil table changed the lemma: %q", got)
	}
}

func TestUnlistedPunctuation(t *testing.T) {
	d := newTestDisambiguator(nil)
	toks := tokens("chat", ".", "?")
	d.Disambiguate(toks)

	for _, tok := range toks[1:] {
		if tok.Pos != sent.PUNCT || tok.Lemma != tok.Text {
			t.Errorf("%q: got %s/%s, want PUNCT", tok.Text, tok.Pos, tok.Lemma)
		}
	}
}
