// Package morph derives surface and morphological features of tokens:
// shape, alphabetic and stop-word flags, gender, number and verbal
// features read from the POS candidates.
package morph

import (
	"regexp"
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"

	sent "github.com/revelaction/semgraph/sentence"
)

// Feature names set on Token.Feats.
const (
	VerbalTime   = "VerbalTime"
	VerbalMode   = "VerbalMode"
	VerbalPers   = "VerbalPers"
	VerbalNumber = "VerbalNumber"
	VerbForm     = "VerbForm"
)

// VerbForm values.
const (
	Fin  = "Fin"
	Inf  = "Inf"
	Part = "Part"
)

// Gender and number values.
const (
	Mas  = "Mas"
	Fem  = "Fem"
	Sing = "Sing"
	Plur = "Plur"
)

var stopWords = mapset.NewThreadUnsafeSet(
	"les", "le", "la", "un", "une", "et", "ou", "mais", "en", "dans", "de", "du", "des",
)

// single lowercase letters that are words on their own
var noElision = mapset.NewThreadUnsafeSet("a", "à", "y")

var (
	subTagSep = regexp.MustCompile(`[:+]`)
	verbalRe  = regexp.MustCompile(`Verbal(Time|Mode|Pers|Number):([^:+;]+)`)
)

// Lookup gives the lexicon candidates of a word.
type Lookup interface {
	Lemmas(word string) []sent.LemmaCandidate
	Tags(word string) []sent.TagCandidate
}

type Analyzer struct {
	Lexicon Lookup
}

func New(lex Lookup) *Analyzer {
	return &Analyzer{Lexicon: lex}
}

// Analyze sets the features of every token.
func (a *Analyzer) Analyze(tokens []sent.Token) {
	for i := range tokens {
		a.AnalyzeToken(&tokens[i])
	}
}

// AnalyzeToken sets the features of t. A single lowercase letter other
// than a, à and y is taken as an elided form and gets an apostrophe
// appended before the lexicon is consulted again.
func (a *Analyzer) AnalyzeToken(t *sent.Token) {
	t.IsAlpha = IsAlpha(t.Text)
	t.Shape = Shape(t.Text)

	if t.Shape == "x" && !noElision.Contains(t.Text) {
		t.Text += "'"
	}

	t.IsStop = stopWords.Contains(t.Lower())

	if a.Lexicon != nil {
		t.Lemmas = a.Lexicon.Lemmas(t.Text)
		t.Tags = a.Lexicon.Tags(t.Text)
	}

	for _, c := range t.Tags {
		switch {
		case hasAnyPrefix(c.Tag, "Det", "Nom", "Adj", "Pro", "Number:", "Gender:"):
			genderNumber(t, c.Tag)
		case strings.HasPrefix(c.Tag, "Ver"):
			verbal(t, c.Tag)
		}
	}
}

// IsStop reports whether the lowercased word is a stop word.
func IsStop(word string) bool {
	return stopWords.Contains(strings.ToLower(word))
}

// IsAlpha reports whether s is non-empty and made of letters only.
func IsAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Shape maps upper case letters to X, lower case letters to x and digits
// to d, keeping any other character.
func Shape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			b.WriteByte('X')
		case unicode.IsLower(r):
			b.WriteByte('x')
		case unicode.IsDigit(r):
			b.WriteByte('d')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func genderNumber(t *sent.Token, tag string) {
	for _, part := range subTagSep.Split(tag, -1) {
		switch part {
		case "Mas":
			if t.Gender == "" {
				t.Gender = Mas
			}
		case "Fem":
			if t.Gender == "" {
				t.Gender = Fem
			}
		case "Sing", "SG", "SGN":
			if t.Number == "" {
				t.Number = Sing
			}
		case "Plur", "PL":
			if t.Number == "" {
				t.Number = Plur
			}
		}
	}
}

func verbal(t *sent.Token, tag string) {
	for _, m := range verbalRe.FindAllStringSubmatch(tag, -1) {
		name, value := "Verbal"+m[1], m[2]
		if name == VerbalNumber {
			switch value {
			case "PL":
				value = Plur
			case "SG":
				value = Sing
			}
		}
		t.SetFeat(name, value)
	}

	if form := verbForm(tag); form != "" {
		t.SetFeat(VerbForm, form)
	}
}

// verbForm classifies a verb tag as finite, infinitive or participle.
func verbForm(tag string) string {
	for _, part := range subTagSep.Split(tag, -1) {
		lower := strings.ToLower(part)
		switch {
		case part == "Inf", strings.HasPrefix(lower, "infiniti"):
			return Inf
		case part == "PPas", part == "PPre", strings.HasPrefix(lower, "particip"):
			return Part
		case isFiniteMarker(part), hasAnyPrefix(lower, "indicati", "subjon", "subjunc", "condition", "impérati", "imperati"):
			return Fin
		}
	}
	return ""
}

// finite tense markers: IPre, IImp, IPSim, IFut, SPre, SImp, CPre, ImPre
func isFiniteMarker(part string) bool {
	switch part {
	case "IPre", "IImp", "IPSim", "IFut", "SPre", "SImp", "CPre", "ImPre":
		return true
	}
	return false
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
