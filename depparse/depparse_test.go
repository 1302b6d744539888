package depparse

import (
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/revelaction/semgraph/morph"
	sent "github.com/revelaction/semgraph/sentence"
)

// word is "text/POS[/lemma[/VerbForm]]"
func newDoc(words ...string) *sent.Doc {
	doc := &sent.Doc{}
	sid, idx := 0, 0
	for i, w := range words {
		parts := strings.Split(w, "/")
		t := sent.Token{Id: i, Head: sent.NoHead, SentenceId: sid, Index: idx, Text: parts[0], Pos: parts[1]}
		t.Lemma = strings.ToLower(parts[0])
		if len(parts) > 2 && parts[2] != "" {
			t.Lemma = parts[2]
		}
		if len(parts) > 3 {
			t.SetFeat(morph.VerbForm, parts[3])
		}
		doc.Tokens = append(doc.Tokens, t)

		idx++
		if sent.IsSentenceEnd(t.Text) {
			sid++
			idx = 0
		}
	}
	return doc
}

func parse(words ...string) *sent.Doc {
	p := New()
	l := logrus.New()
	l.SetOutput(io.Discard)
	p.Log = l

	doc := newDoc(words...)
	p.Parse(doc)
	return doc
}

type arc struct {
	dep  string
	head string
}

func check(t *testing.T, doc *sent.Doc, want map[string]arc) {
	t.Helper()
	for _, tok := range doc.Tokens {
		w, ok := want[tok.Text]
		if !ok {
			continue
		}
		head := doc.Tokens[tok.Head].Text
		if tok.Dep != w.dep || head != w.head {
			t.Errorf("%q: got %s->%q, want %s->%q", tok.Text, tok.Dep, head, w.dep, w.head)
		}
	}
}

func checkInvariants(t *testing.T, doc *sent.Doc) {
	t.Helper()
	for _, clause := range doc.Clauses() {
		inClause := map[int]bool{}
		for _, id := range clause {
			inClause[id] = true
		}

		roots := 0
		for _, id := range clause {
			tok := doc.Tokens[id]
			if tok.Dep == Root {
				roots++
				if tok.Head != tok.Id {
					t.Errorf("root %q has head %d", tok.Text, tok.Head)
				}
			}
			if tok.Dep == "" || !inClause[tok.Head] {
				t.Errorf("%q: dep %q head %d outside clause", tok.Text, tok.Dep, tok.Head)
			}
		}
		if roots != 1 {
			t.Errorf("clause %v has %d roots", clause, roots)
		}
	}
}

func TestSimpleTransitive(t *testing.T) {
	doc := parse("le/DET", "chat/NOUN", "mange/VERB/manger/Fin", "la/DET/le", "souris/NOUN")
	checkInvariants(t, doc)
	check(t, doc, map[string]arc{
		"mange":  {Root, "mange"},
		"chat":   {Nsubj, "mange"},
		"souris": {Obj, "mange"},
		"le":     {Det, "chat"},
		"la":     {Det, "souris"},
	})
}

func TestRootWithoutVerbForm(t *testing.T) {
	doc := parse("le/DET", "chat/NOUN", "mange/VERB/manger", "la/DET/le", "souris/NOUN")
	check(t, doc, map[string]arc{"mange": {Root, "mange"}, "chat": {Nsubj, "mange"}})
}

func TestClausesAreIndependent(t *testing.T) {
	doc := parse("Il/PRON", "pleut/VERB/pleuvoir/Fin", ";/PUNCT", "le/DET", "chat/NOUN", "dort/VERB/dormir/Fin", "./PUNCT")
	checkInvariants(t, doc)
	check(t, doc, map[string]arc{
		"Il":   {Nsubj, "pleut"},
		";":    {Punct, "pleut"},
		"chat": {Nsubj, "dort"},
		".":    {Punct, "dort"},
	})

	if len(doc.Clauses()) != 2 {
		t.Errorf("got %d clauses, want 2", len(doc.Clauses()))
	}
	// ';' does not reset the sentence numbering
	if k := doc.Tokens[4].Key(); k != (sent.Key{Sentence: 0, Index: 4}) {
		t.Errorf("chat key = %v", k)
	}
}

func TestPassive(t *testing.T) {
	doc := parse("La/DET/le", "souris/NOUN", "est/AUX/être", "mangée/VERB/manger/Part", "par/ADP", "le/DET", "chat/NOUN")
	checkInvariants(t, doc)
	check(t, doc, map[string]arc{
		"mangée": {Root, "mangée"},
		"souris": {NsubjPas, "mangée"},
		"est":    {AuxPass, "mangée"},
		"chat":   {OblAgent, "mangée"},
		"par":    {Case, "chat"},
		"le":     {Det, "chat"},
	})
}

func TestNominalModifier(t *testing.T) {
	doc := parse("le/DET", "livre/NOUN", "de/ADP", "Paul/PROPN", "tombe/VERB/tomber/Fin", "dans/ADP", "l'/DET/le", "eau/NOUN")
	checkInvariants(t, doc)
	check(t, doc, map[string]arc{
		"Paul":  {Nmod, "livre"},
		"de":    {Case, "Paul"},
		"livre": {Nsubj, "tombe"},
		"eau":   {Nmod, "Paul"},
		"dans":  {Case, "eau"},
		"l'":    {Det, "eau"},
	})
}

func TestOblique(t *testing.T) {
	doc := parse("dans/ADP", "la/DET/le", "maison/NOUN", "il/PRON", "dort/VERB/dormir/Fin")
	check(t, doc, map[string]arc{
		"maison": {Obl, "dort"},
		"dans":   {Case, "maison"},
		"il":     {Nsubj, "dort"},
	})
}

func TestCoordination(t *testing.T) {
	doc := parse("chats/NOUN/chat", "et/CCONJ", "chiens/NOUN/chien", "dorment/VERB/dormir/Fin", "et/CCONJ", "rêvent/VERB/rêver/Fin")
	checkInvariants(t, doc)
	check(t, doc, map[string]arc{
		"chats":   {Nsubj, "dorment"},
		"chiens":  {Conj, "chats"},
		"rêvent":  {Conj, "dorment"},
		"dorment": {Root, "dorment"},
	})

	if got := doc.Tokens[1]; got.Dep != Cc || doc.Tokens[got.Head].Text != "chiens" {
		t.Errorf("first et: %s->%q", got.Dep, doc.Tokens[got.Head].Text)
	}
	if got := doc.Tokens[4]; got.Dep != Cc || doc.Tokens[got.Head].Text != "rêvent" {
		t.Errorf("second et: %s->%q", got.Dep, doc.Tokens[got.Head].Text)
	}
}

func TestConjunctionBeforeDeterminer(t *testing.T) {
	doc := parse("le/DET", "chat/NOUN", "et/CCONJ", "la/DET/le", "souris/NOUN", "mangent/VERB/manger/Fin")
	checkInvariants(t, doc)
	check(t, doc, map[string]arc{
		"et":      {Cc, "chat"},
		"mangent": {Root, "mangent"},
	})
}

func TestAdjectives(t *testing.T) {
	doc := parse("un/DET", "grand/ADJ", "chat/NOUN", "noir/ADJ", "dort/VERB/dormir/Fin", "très/ADV", "bien/ADV")
	checkInvariants(t, doc)
	check(t, doc, map[string]arc{
		"grand": {Amod, "chat"},
		"noir":  {Amod, "chat"},
		"un":    {Det, "grand"},
		"très":  {Advmod, "dort"},
		"bien":  {Advmod, "très"},
	})
}

func TestPredicateAdjectiveBecomesRoot(t *testing.T) {
	doc := parse("est/AUX/être", "content/ADJ", "!/PUNCT")
	checkInvariants(t, doc)
	check(t, doc, map[string]arc{
		"content": {Root, "content"},
		"est":     {Aux, "content"},
		"!":       {Punct, "content"},
	})
}

func TestCopularAdjectiveIsRoot(t *testing.T) {
	doc := parse("le/DET", "chat/NOUN", "est/AUX/être", "fidèle/ADJ", "./PUNCT")
	checkInvariants(t, doc)
	check(t, doc, map[string]arc{
		"fidèle": {Root, "fidèle"},
		"chat":   {Nsubj, "fidèle"},
		"est":    {Aux, "fidèle"},
		"le":     {Det, "chat"},
		".":      {Punct, "fidèle"},
	})
}

func TestAdjectiveAfterAuxBeforeNoun(t *testing.T) {
	doc := parse("c'/PRON/ce", "est/AUX/être", "un/DET", "grand/ADJ", "chat/NOUN")
	checkInvariants(t, doc)
	check(t, doc, map[string]arc{
		"chat":  {Root, "chat"},
		"grand": {Amod, "chat"},
	})
}

func TestAdjectiveModifiesNeighboursOnly(t *testing.T) {
	// "rapide" has no adjacent noun and does not follow an AUX
	doc := parse("le/DET", "chat/NOUN", "court/VERB/courir/Fin", "très/ADV", "rapide/ADJ")
	checkInvariants(t, doc)
	check(t, doc, map[string]arc{
		"court":  {Root, "court"},
		"rapide": {Dep, "court"},
	})
}

func TestCopularRelativeClause(t *testing.T) {
	doc := parse("le/DET", "chat/NOUN", "qui/PRON", "est/AUX/être", "un/DET", "ami/NOUN", "dort/VERB/dormir/Fin")
	checkInvariants(t, doc)
	check(t, doc, map[string]arc{
		"dort": {Root, "dort"},
		"chat": {Nsubj, "dort"},
		"ami":  {AclRelcl, "chat"},
		"qui":  {Nsubj, "ami"},
		"est":  {Cop, "ami"},
		"un":   {Det, "ami"},
	})
}

func TestCopularRelativeWithoutPredicate(t *testing.T) {
	doc := parse("ceux/PRON/celui", "qui/PRON", "sont/AUX/être", "là/ADV", "partent/VERB/partir/Fin")
	checkInvariants(t, doc)
	check(t, doc, map[string]arc{
		"sont": {AclRelcl, "ceux"},
		"qui":  {Nsubj, "sont"},
	})
}

func TestRelativeClause(t *testing.T) {
	doc := parse("le/DET", "chat/NOUN", "que/PRON", "je/PRON", "vois/VERB/voir", "dort/VERB/dormir/Fin")
	checkInvariants(t, doc)
	check(t, doc, map[string]arc{
		"vois": {AclRelcl, "chat"},
		"que":  {Nsubj, "vois"},
		"je":   {Nsubj, "dort"},
	})
}

func TestRelativeWithoutAntecedent(t *testing.T) {
	doc := parse("qui/PRON", "dort/VERB/dormir/Fin")
	checkInvariants(t, doc)
	check(t, doc, map[string]arc{"qui": {Dep, "dort"}})
}

func TestTandisQue(t *testing.T) {
	doc := parse("il/PRON", "dort/VERB/dormir/Fin", "tandis/ADV", "que/PRON", "elle/PRON", "travaille/VERB/travailler/Fin")
	checkInvariants(t, doc)
	check(t, doc, map[string]arc{
		"tandis":    {Mark, "travaille"},
		"que":       {Fixed, "tandis"},
		"travaille": {Advcl, "dort"},
	})
}

func TestPrepositionBeforeVerb(t *testing.T) {
	doc := parse("pour/ADP", "manger/VERB/manger/Inf", "il/PRON", "part/VERB/partir/Fin")
	checkInvariants(t, doc)
	check(t, doc, map[string]arc{
		"pour":   {Mark, "manger"},
		"manger": {Xcomp, "part"},
	})
}

func TestOtherPos(t *testing.T) {
	doc := parse("oh/INTJ", "si/SCONJ", "il/PRON", "vient/VERB/venir/Fin")
	checkInvariants(t, doc)
	check(t, doc, map[string]arc{
		"oh": {Dep, "vient"},
		"si": {Mark, "vient"},
	})
}

func TestNoVerbNoNoun(t *testing.T) {
	doc := parse("oui/ADV", "./PUNCT")
	checkInvariants(t, doc)
	check(t, doc, map[string]arc{"oui": {Root, "oui"}, ".": {Punct, "oui"}})
}
