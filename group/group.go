// Package group derives noun phrase and verb phrase spans from the
// dependency labels of a parsed document.
package group

import (
	mapset "github.com/deckarep/golang-set/v2"

	dp "github.com/revelaction/semgraph/depparse"
	sent "github.com/revelaction/semgraph/sentence"
)

var (
	nounLeft  = mapset.NewThreadUnsafeSet(dp.Det, dp.Amod, dp.Nmod)
	nounRight = mapset.NewThreadUnsafeSet(dp.Amod, dp.Nmod, dp.Case)
	verbLeft  = mapset.NewThreadUnsafeSet(dp.Aux, dp.AuxPass, "neg")
	verbRight = mapset.NewThreadUnsafeSet(dp.Obj, "iobj", dp.Obl, dp.Xcomp, dp.Advmod, dp.Advcl, "ccomp")
)

// Extract computes the noun phrases of every NOUN/PROPN token and the verb
// phrases of every ROOT verb, adds each span to the Groups of the tokens it
// covers and returns the distinct spans.
func Extract(doc *sent.Doc) []sent.Group {
	groups := []sent.Group{}
	add := func(g sent.Group) {
		for _, o := range groups {
			if o.Same(g) {
				return
			}
		}
		groups = append(groups, g)
	}

	for i := range doc.Tokens {
		t := &doc.Tokens[i]
		if t.Pos == sent.NOUN || t.Pos == sent.PROPN {
			add(NounPhrase(doc, i))
		}
	}

	for i := range doc.Tokens {
		t := &doc.Tokens[i]
		if t.Dep == dp.Root && t.Pos == sent.VERB {
			add(VerbPhrase(doc, i))
		}
	}

	for i := range doc.Tokens {
		t := &doc.Tokens[i]
		for _, g := range groups {
			if g.Contains(t.Key()) {
				t.Groups = append(t.Groups, g)
			}
		}
	}

	return groups
}

// NounPhrase returns the noun phrase anchored at token id, with the noun
// phrases of the other nouns it covers as Nested.
func NounPhrase(doc *sent.Doc, id int) sent.Group {
	g := nounSpan(doc, id)

	for i := range doc.Tokens {
		t := &doc.Tokens[i]
		if i == id || (t.Pos != sent.NOUN && t.Pos != sent.PROPN) || !g.Contains(t.Key()) {
			continue
		}
		g.Nested = append(g.Nested, nounSpan(doc, i))
	}

	return g
}

func nounSpan(doc *sent.Doc, id int) sent.Group {
	g := sent.Group{Type: sent.NounPhrase, Start: doc.Tokens[id].Key(), End: doc.Tokens[id].Key()}

	for cur := id; ; {
		j := leftmostChild(doc, cur, nounLeft)
		if j < 0 {
			break
		}
		g.Start = doc.Tokens[j].Key()
		cur = j
	}

	for cur := id; ; {
		j := rightmostChild(doc, cur, nounRight)
		if j < 0 {
			break
		}
		g.End = doc.Tokens[j].Key()
		cur = j
	}

	return g
}

// VerbPhrase returns the verb phrase of the root verb at token id.
func VerbPhrase(doc *sent.Doc, id int) sent.Group {
	g := sent.Group{Type: sent.VerbPhrase, Start: doc.Tokens[id].Key(), End: doc.Tokens[id].Key()}

	for cur := id; ; {
		j := leftmostChild(doc, cur, verbLeft)
		if j < 0 {
			break
		}
		g.Start = doc.Tokens[j].Key()
		cur = j
	}

	for i := range doc.Tokens {
		t := &doc.Tokens[i]
		if i == id || t.Head != id || !verbRight.Contains(t.Dep) {
			continue
		}

		if g.End.Less(t.Key()) {
			g.End = t.Key()
		}

		if t.Pos == sent.NOUN || t.Pos == sent.PRON || t.Pos == sent.PROPN {
			if np := nounSpan(doc, i); g.End.Less(np.End) {
				g.End = np.End
			}
		}
	}

	return g
}

// leftmostChild returns the first token before cur whose head is cur and
// whose label is in labels, or -1.
func leftmostChild(doc *sent.Doc, cur int, labels mapset.Set[string]) int {
	k := doc.Tokens[cur].Key()
	for i := range doc.Tokens {
		t := &doc.Tokens[i]
		if i != cur && t.Head == cur && labels.Contains(t.Dep) && t.Key().Less(k) {
			return i
		}
	}
	return -1
}

// rightmostChild returns the last token after cur whose head is cur and
// whose label is in labels, or -1.
func rightmostChild(doc *sent.Doc, cur int, labels mapset.Set[string]) int {
	k := doc.Tokens[cur].Key()
	for i := len(doc.Tokens) - 1; i >= 0; i-- {
		t := &doc.Tokens[i]
		if i != cur && t.Head == cur && labels.Contains(t.Dep) && k.Less(t.Key()) {
			return i
		}
	}
	return -1
}
