package disamb

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// MinOccurrences is the count an override entry must exceed to apply.
const MinOccurrences = 15

// Override is a learned lemma correction for a (text, pos) pair.
type Override struct {
	Occurrences int64
	SystemLemma string
	Replacement string
}

// Overrides is the learned lemma correction table, keyed by
// "<lowercased text>_<POS>". The zero value and nil have no entries.
type Overrides struct {
	entries map[string]Override
}

// ParseOverrides reads a JSON object of the form
//
//	{"chats_NOUN": {"occurrences": 20,
//	  "structure": {"system_lemma": "chats", "spacy_lemma": "chat"}}}
func ParseOverrides(data []byte) (*Overrides, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("overrides: invalid JSON")
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.New("overrides: top level is not an object")
	}

	o := &Overrides{entries: map[string]Override{}}
	root.ForEach(func(key, value gjson.Result) bool {
		o.entries[key.String()] = Override{
			Occurrences: value.Get("occurrences").Int(),
			SystemLemma: value.Get("structure.system_lemma").String(),
			Replacement: value.Get("structure.spacy_lemma").String(),
		}
		return true
	})

	return o, nil
}

// LoadOverrides reads the table at path. Unreadable or malformed files are
// logged and give an empty table.
func LoadOverrides(path string, log logrus.FieldLogger) *Overrides {
	if log == nil {
		log = logrus.StandardLogger()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).WithField("file", path).Warn("lemma overrides unavailable")
		return &Overrides{}
	}

	o, err := ParseOverrides(data)
	if err != nil {
		log.WithError(err).WithField("file", path).Warn("lemma overrides ignored")
		return &Overrides{}
	}

	return o
}

// Len returns the number of entries.
func (o *Overrides) Len() int {
	if o == nil {
		return 0
	}
	return len(o.entries)
}

// Apply returns the replacement lemma when an entry for text and pos was
// seen more than MinOccurrences times and recorded lemma as its original.
// Otherwise lemma is returned unchanged.
func (o *Overrides) Apply(text, pos, lemma string) string {
	if o == nil || o.entries == nil {
		return lemma
	}

	e, ok := o.entries[strings.TrimSpace(strings.ToLower(text))+"_"+pos]
	if !ok || e.Occurrences <= MinOccurrences || e.SystemLemma != lemma || e.Replacement == "" {
		return lemma
	}

	return e.Replacement
}
