package tokenize

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"

	sent "github.com/revelaction/semgraph/sentence"
)

// word runs with internal hyphens, or single punctuation marks. Anything
// else, whitespace and commas included, is discarded.
var tokenRe = regexp.MustCompile(`[\p{L}\p{N}_]+(?:-[\p{L}\p{N}_]+)*|[.!?;"()\[\]{}\-]`)

var typography = strings.NewReplacer(
	"’", "'",
	"«", `"`,
	"»", `"`,
)

// Tokenizer splits text into positioned tokens, keeping known compound
// words whole.
type Tokenizer struct {
	Compounds mapset.Set[string]
}

// New returns a Tokenizer for the given lowercased compound words. A nil
// set means no compounds.
func New(compounds mapset.Set[string]) *Tokenizer {
	if compounds == nil {
		compounds = mapset.NewThreadUnsafeSet[string]()
	}
	return &Tokenizer{Compounds: compounds}
}

// Normalize replaces typographic apostrophes and quotes with ASCII ones.
func Normalize(text string) string {
	return typography.Replace(text)
}

// Tokenize returns a new Doc for text. The intra-sentence index restarts at
// 0 after each . ! or ? token.
func (tk *Tokenizer) Tokenize(text string) *sent.Doc {
	doc := &sent.Doc{Text: text}

	sid, idx := 0, 0
	emit := func(word string) {
		doc.Tokens = append(doc.Tokens, sent.Token{
			Id:         len(doc.Tokens),
			Head:       sent.NoHead,
			SentenceId: sid,
			Index:      idx,
			Text:       word,
		})
		idx++

		if sent.IsSentenceEnd(word) {
			sid++
			idx = 0
		}
	}

	for _, m := range tokenRe.FindAllString(Normalize(text), -1) {
		if m == "-" || !strings.Contains(m, "-") || tk.Compounds.Contains(strings.ToLower(m)) {
			emit(m)
			continue
		}

		for _, part := range strings.Split(m, "-") {
			if part != "" {
				emit(part)
			}
		}
	}

	return doc
}

// LoadCompounds reads a ';' delimited compound list whose second field is
// the compound word. A missing file is logged and yields an empty set.
func LoadCompounds(path string, log logrus.FieldLogger) mapset.Set[string] {
	if log == nil {
		log = logrus.StandardLogger()
	}

	set := mapset.NewThreadUnsafeSet[string]()

	f, err := os.Open(path)
	if err != nil {
		log.WithError(err).WithField("file", path).Warn("compound list unavailable")
		return set
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), ";")
		if len(fields) < 2 {
			continue
		}

		word := strings.ToLower(strings.Trim(strings.TrimSpace(fields[1]), `"'`))
		if word != "" {
			set.Add(word)
		}
	}

	if err := scanner.Err(); err != nil {
		log.WithError(err).WithField("file", path).Warn("compound list partially read")
	}

	return set
}
