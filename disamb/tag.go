package disamb

import (
	"strings"

	sent "github.com/revelaction/semgraph/sentence"
)

// BOS is the previous tag of the first token.
const BOS = "BOS"

// tagMapping is matched in order, first prefix wins.
var tagMapping = []struct {
	prefix string
	pos    string
}{
	{"Adj", sent.ADJ},
	{"Pre", sent.ADP},
	{"Adv", sent.ADV},
	{"Ver", sent.VERB},
	{"Conj:Coord", sent.CCONJ},
	{"Conj", sent.SCONJ},
	{"Con", sent.SCONJ},
	{"con", sent.SCONJ},
	{"Det", sent.DET},
	{"Int", sent.INTJ},
	{"Nom", sent.NOUN},
	{"Part", sent.PART},
	{"Pro", sent.PRON},
	{"Punct", sent.PUNCT},
	{"Symbole", sent.SYM},
	{"Unit", sent.VERB},
}

// priority of internal tag prefixes when scores tie, lowest index first.
var priority = []string{"Adj", "Nom", "Ver", "Adv", "Pro", "Det", "Punct", "Pre"}

// MapToStandardTag maps an internal tag to a universal POS tag, X when no
// prefix matches.
func MapToStandardTag(tag string) string {
	for _, m := range tagMapping {
		if strings.HasPrefix(tag, m.prefix) {
			return m.pos
		}
	}
	return sent.X
}

// tagPriority ranks tag after prevTag. Lower ranks first.
func tagPriority(tag, prevTag string) int {
	if strings.HasPrefix(tag, "Adj") && strings.HasPrefix(prevTag, "Nom") {
		return -1
	}
	if strings.HasPrefix(tag, "Nom") && strings.HasPrefix(prevTag, "Det") {
		return -2
	}
	for i, p := range priority {
		if strings.HasPrefix(tag, p) {
			return i
		}
	}
	return len(priority)
}

// Lookahead is the resolution window of the token following the one being
// resolved. Tag stays empty until the window is resolved.
type Lookahead struct {
	Tags []sent.TagCandidate
	Tag  string
}

// ResolvePos picks the internal tag of a token from its candidates. When
// next is not nil and not yet resolved, it is resolved first with the same
// prevTag and no further lookahead.
func ResolvePos(prevTag string, candidates []sent.TagCandidate, next *Lookahead) string {
	if len(candidates) == 0 {
		return sent.X
	}

	if next != nil && next.Tag == "" {
		next.Tag = MapToStandardTag(ResolvePos(prevTag, next.Tags, nil))
	}

	// determiner followed by a verb form: infinitive used as a noun
	if strings.HasPrefix(prevTag, "Det") {
		for _, c := range candidates {
			if strings.HasPrefix(c.Tag, "Ver") {
				return "Nom"
			}
		}
	}

	if next != nil && next.Tag != "" {
		for _, c := range candidates {
			switch {
			case strings.HasPrefix(c.Tag, "Det") && oneOf(next.Tag, sent.NOUN, sent.PROPN):
				return c.Tag
			case strings.HasPrefix(c.Tag, "Pre") && oneOf(next.Tag, sent.NOUN, sent.PROPN, sent.PRON):
				return c.Tag
			case strings.HasPrefix(c.Tag, "Pro") && oneOf(next.Tag, sent.VERB, sent.ADP):
				return c.Tag
			}
		}
	}

	best := candidates[0]
	bestPrio := tagPriority(best.Tag, prevTag)
	for _, c := range candidates[1:] {
		p := tagPriority(c.Tag, prevTag)
		if c.Score > best.Score || (c.Score == best.Score && p < bestPrio) {
			best, bestPrio = c, p
		}
	}

	return best.Tag
}

func oneOf(s string, values ...string) bool {
	for _, v := range values {
		if s == v {
			return true
		}
	}
	return false
}

// isDeterminerLike reports whether an internal or universal tag is a
// determiner.
func isDeterminerLike(tag string) bool {
	return tag == sent.DET || strings.HasPrefix(tag, "Det")
}
