package query

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/revelaction/semgraph/engine"
	"github.com/revelaction/semgraph/render"
	"github.com/revelaction/semgraph/rule"
	sent "github.com/revelaction/semgraph/sentence"
)

const (
	// commandPrefix is the Character in the prompt that prefixes a command
	commandPrefix = "/"
)

// Analyzer turns a text into an analyzed doc.
type Analyzer interface {
	Analyze(text string) *sent.Doc
}

var commands = []prompt.Suggest{
	{Text: "/rule", Description: "add a rule: /rule condition ⇒ action"},
	{Text: "/rules", Description: "list the rules"},
	{Text: "/relations", Description: "print a relation table: /relations r_isa"},
	{Text: "/graph", Description: "print the graph edges"},
	{Text: "/quit", Description: "leave"},
}

var attributes = []string{"text", "text.lower", "lemma_", "dep_", "pos_", "head.i", "head.pos_", "i"}

// Handler reads texts and commands. A text is analyzed, printed and given
// to the interpreter.
type Handler struct {
	Analyzer    Analyzer
	Interpreter *engine.Interpreter
	Renderer    *render.Renderer
	Out         io.Writer
}

func NewHandler(a Analyzer, in *engine.Interpreter, r *render.Renderer) *Handler {
	return &Handler{
		Analyzer:    a,
		Interpreter: in,
		Renderer:    r,
		Out:         os.Stdout,
	}
}

func (h *Handler) Run() error {

	fmt.Fprintln(h.Out, "🔑 Ctrl+X: Toggle prefix, Ctrl+F: next Format, 🔧 /quit")

	// initialize prompt history
	history := []string{}

	for {

		in := prompt.Input("      ✍  ", h.completer,
			prompt.OptionTitle("semgraph repl"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlF,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextFormat()
					fmt.Fprintln(h.Out, "Format set to: "+h.Renderer.Format)
				}}),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlX,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextPrefix()
					fmt.Fprintln(h.Out, "Prefix set to "+fmt.Sprintf("%t", h.Renderer.HasPrefix))
				}}),
		)

		history = append(history, in)
		if !h.Handle(in) {
			return nil
		}
	}
}

// Handle runs one input line. It returns false when the session ends.
func (h *Handler) Handle(in string) bool {
	in = strings.TrimSpace(in)
	if in == "" {
		return true
	}

	if in == "quit" || in == commandPrefix+"quit" {
		return false
	}

	if !strings.HasPrefix(in, commandPrefix) {
		h.analyze(in)
		return true
	}

	name, arg, _ := strings.Cut(in, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/rule":
		r, err := rule.Parse(arg)
		if err != nil {
			fmt.Fprintf(h.Out, "rule not added: %v\n", err)
			return true
		}
		for _, p := range r.Problems {
			fmt.Fprintf(h.Out, "warning: %v\n", p)
		}
		h.Interpreter.Rules = append(h.Interpreter.Rules, r)
		fmt.Fprintf(h.Out, "rule %d added\n", len(h.Interpreter.Rules))

	case "/rules":
		for i, r := range h.Interpreter.Rules {
			fmt.Fprintf(h.Out, "%3d %s\n", i+1, r.Text)
		}

	case "/relations":
		if arg == "" {
			types, err := h.Interpreter.Store.Types()
			if err != nil {
				fmt.Fprintf(h.Out, "Error listing relations: %v\n", err)
				return true
			}
			fmt.Fprintln(h.Out, strings.Join(types, " "))
			return true
		}
		rows, err := h.Interpreter.Store.Scan(arg)
		if err != nil {
			fmt.Fprintf(h.Out, "Error reading %s: %v\n", arg, err)
			return true
		}
		h.Renderer.Relations(arg, rows)

	case "/graph":
		h.Renderer.Edges(h.Interpreter.Graph.Edges())

	default:
		fmt.Fprintf(h.Out, "unknown command %s\n", name)
	}

	return true
}

func (h *Handler) analyze(text string) {
	doc := h.Analyzer.Analyze(text)
	h.Renderer.Doc(doc)

	before := len(h.Interpreter.Graph.Edges())
	stats := h.Interpreter.Apply(doc)

	fmt.Fprintf(h.Out, "%d bindings, %d matches, %d asserted, %d dropped\n",
		stats.Bindings, stats.Matches, stats.Asserted, stats.Dropped)

	h.Renderer.Edges(engine.RuleEdges(h.Interpreter.Graph.Edges()[before:]))
}

func (h *Handler) completer(in prompt.Document) []prompt.Suggest {
	befCursor := in.TextBeforeCursor()

	// Only one character in line
	if "" == befCursor {
		return []prompt.Suggest{}
	}

	if strings.HasPrefix(befCursor, "/relations ") {
		types, err := h.Interpreter.Store.Types()
		if err != nil {
			return []prompt.Suggest{}
		}
		s := make([]prompt.Suggest, 0, len(types))
		for _, t := range types {
			s = append(s, prompt.Suggest{Text: t})
		}
		return prompt.FilterHasPrefix(s, in.GetWordBeforeCursor(), false)
	}

	if strings.HasPrefix(befCursor, commandPrefix) && !strings.Contains(befCursor, " ") {
		return prompt.FilterHasPrefix(commands, befCursor, false)
	}

	// attribute of a rule variable
	word := in.GetWordBeforeCursor()
	if strings.HasPrefix(word, "$") {
		if i := strings.IndexByte(word, '.'); i > 0 {
			return completeAttribute(word[:i+1], word[i+1:])
		}
	}

	return []prompt.Suggest{}
}

func completeAttribute(ref, partial string) (s []prompt.Suggest) {
	for _, a := range attributes {
		if strings.HasPrefix(a, partial) {
			s = append(s, prompt.Suggest{Text: ref + a, Description: "🔖 " + a})
		}
	}

	return s
}
