package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/revelaction/semgraph/graph"
	sent "github.com/revelaction/semgraph/sentence"
	"github.com/revelaction/semgraph/storage"
)

const Defaultformat = "table"

var (
	Black   = "\033[1;30m"
	Red     = "\033[1;31m"
	Green   = "\033[1;32m"
	Yellow  = "\033[0;33m"
	Purple  = "\033[1;34m"
	Magenta = "\033[1;35m"
	Teal    = "\033[1;36m"
	Gray    = "\033[0;37m"
	White   = "\033[1;37m"
	Off     = "\033[0m"
	//Yellow256  = "\033[1;38;5;202m"
	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
	ClearLine = "\033[K"
)

var posColor = map[string]string{
	sent.NOUN:  Green256,
	sent.PROPN: Green,
	sent.VERB:  Yellow256,
	sent.AUX:   Yellow,
	sent.ADJ:   Teal,
	sent.ADV:   Purple,
	sent.PRON:  Magenta,
	sent.PUNCT: Grey256,
}

func SupportedFormats() []string {
	return []string{"table", "text", "lemma", "dep"}
}

// DocRenderer writes analyzed docs and relation tables.
type DocRenderer interface {
	Doc(doc *sent.Doc)
	Relations(relation string, rows []storage.Relation)
}

type Renderer struct {
	W io.Writer

	HasColor bool

	// HasPrefix prints the sentence and clause number before each line in
	// the text, lemma and dep formats
	HasPrefix bool

	// Format determines how a doc is printed
	//
	// table: one line per token with its analysis
	// text: the words of each sentence, colored by POS
	// lemma: the lemmas of each sentence
	// dep: word/label>head for each token of each clause
	Format string
}

var _ DocRenderer = (*Renderer)(nil)

func NewRenderer() *Renderer {
	return &Renderer{W: os.Stdout, Format: Defaultformat}
}

// Doc prints doc in the current format.
func (r *Renderer) Doc(doc *sent.Doc) {
	switch r.Format {
	case "text":
		for i, s := range doc.Sentences() {
			fmt.Fprintf(r.W, "%s%s\n", r.prefix(i), r.text(doc, s))
		}
	case "lemma":
		for i, s := range doc.Sentences() {
			fmt.Fprintf(r.W, "%s%s\n", r.prefix(i), r.lemma(doc, s))
		}
	case "dep":
		for i, c := range doc.Clauses() {
			fmt.Fprintf(r.W, "%s%s\n", r.prefix(i), r.dep(doc, c))
		}
	default:
		r.table(doc)
	}
}

// TextString returns the words of the tokens ids separated by spaces, with
// no space before punctuation.
func (r *Renderer) TextString(doc *sent.Doc, ids []int) string {
	return r.text(doc, ids)
}

func (r *Renderer) text(doc *sent.Doc, ids []int) string {
	var str strings.Builder
	for n, i := range ids {
		t := &doc.Tokens[i]
		if n > 0 && t.Pos != sent.PUNCT {
			str.WriteString(" ")
		}
		str.WriteString(r.color(t.Pos, t.Text))
	}
	return str.String()
}

func (r *Renderer) lemma(doc *sent.Doc, ids []int) string {
	lemmas := make([]string, 0, len(ids))
	for _, i := range ids {
		lemmas = append(lemmas, doc.Tokens[i].Lemma)
	}
	return strings.Join(lemmas, " ")
}

func (r *Renderer) dep(doc *sent.Doc, ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, i := range ids {
		t := &doc.Tokens[i]
		head := ""
		if h := doc.Head(i); h != nil {
			head = h.Text
		}
		parts = append(parts, fmt.Sprintf("%s/%s>%s", r.color(t.Pos, t.Text), t.Dep, head))
	}
	return strings.Join(parts, " ")
}

func (r *Renderer) table(doc *sent.Doc) {
	for i := range doc.Tokens {
		t := &doc.Tokens[i]
		head := ""
		if h := doc.Head(i); h != nil {
			head = h.Key().String()
		}

		groups := make([]string, 0, len(t.Groups))
		for _, g := range t.Groups {
			groups = append(groups, g.String())
		}

		fmt.Fprintf(r.W, "%-6s %-16s %-16s %-6s %-22s %-10s %-6s %s\n",
			t.Key(), t.Text, t.Lemma, r.color(t.Pos, fmt.Sprintf("%-6s", t.Pos)), t.Tag, t.Dep, head, strings.Join(groups, " "))
	}
}

// Relations prints the rows of a relation table, one per line.
func (r *Renderer) Relations(relation string, rows []storage.Relation) {
	for _, row := range rows {
		fmt.Fprintf(r.W, "%s;%s;%s;%d\n", r.relation(relation), row.Source, row.Target, row.Recurrence)
	}
}

// Edges prints graph edges, one per line.
func (r *Renderer) Edges(edges []graph.Edge) {
	for _, e := range edges {
		fmt.Fprintf(r.W, "%s %s %s\n", e.Source, r.relation(e.Relation), e.Target)
	}
}

func (r *Renderer) relation(name string) string {
	if !r.HasColor {
		return name
	}
	return Yellow256 + name + Off
}

func (r *Renderer) color(pos, text string) string {
	if !r.HasColor {
		return text
	}
	c, ok := posColor[pos]
	if !ok {
		return text
	}
	return c + text + Off
}

func (r *Renderer) prefix(n int) string {
	if !r.HasPrefix {
		return ""
	}
	return fmt.Sprintf("%s[%3d]%s ✍  ", Grey256, n, Off)
}

// NextFormat sets the Renderer Format option to a different one, following
// the SupportedFormats() order.
func (r *Renderer) NextFormat() {

	supported := SupportedFormats()
	for i, format := range supported {
		if format == r.Format {
			switch i {
			case len(supported) - 1:
				r.Format = supported[0]
			default:
				r.Format = supported[i+1]
			}

			return
		}
	}

	r.Format = supported[0]
}

func (r *Renderer) NextPrefix() {

	// toggle
	r.HasPrefix = !r.HasPrefix
}
