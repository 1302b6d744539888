// Package rule reads rule files and parses rules into a condition tree and
// a list of actions. A rule has the form
//
//	$x.dep_ == "ROOT" & $y.dep_ == "obj" & $y.head.i == $x.i ⇒ $x.text r_isa $y.text
//
// Conditions combine comparisons with & (and) and | (or). Actions are
// separated by & and are either relation assertions or
// "pour chaque $e dans FUNC($x): assertion" loops.
package rule

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	Arrow = "⇒"

	// Header is a line ignored by the rule file reader
	Header = "relations:"
)

var ErrNoArrow = errors.New("rule needs exactly one " + Arrow)

var varRe = regexp.MustCompile(`\$(\w+)`)

type Rule struct {
	Text string

	// Condition is nil when the left side does not parse. Such a rule
	// never matches.
	Condition Expr

	Actions []Action

	// Vars are the variables to ground, in order of first occurrence.
	// Loop element variables are bound by their loop and are not listed.
	Vars []string

	// Problems are the parse errors of the condition and of the skipped
	// actions.
	Problems []error
}

// Parse parses a rule line. Only a missing or repeated arrow is an error;
// condition and action problems are kept in Rule.Problems.
func Parse(line string) (*Rule, error) {
	parts := strings.Split(line, Arrow)
	if len(parts) != 2 {
		return nil, errors.Wrapf(ErrNoArrow, "%q", line)
	}

	r := &Rule{Text: line}
	cond, actions := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])

	c, err := ParseCondition(cond)
	if err != nil {
		r.Problems = append(r.Problems, errors.Wrapf(err, "condition %q", cond))
	} else {
		r.Condition = c
	}

	loopVars := map[string]bool{}
	for _, s := range strings.Split(actions, "&") {
		a, err := ParseAction(s)
		if err != nil {
			r.Problems = append(r.Problems, err)
			continue
		}
		if l, ok := a.(Loop); ok {
			loopVars[l.Elem] = true
		}
		r.Actions = append(r.Actions, a)
	}

	seen := map[string]bool{}
	for _, m := range varRe.FindAllStringSubmatch(cond+" "+actions, -1) {
		v := m[1]
		if seen[v] || loopVars[v] {
			continue
		}
		seen[v] = true
		r.Vars = append(r.Vars, v)
	}

	return r, nil
}

// Match reports whether the condition holds under res. Evaluation errors
// are false.
func (r *Rule) Match(res Resolver) bool {
	if r.Condition == nil {
		return false
	}
	v, err := r.Condition.Eval(res)
	if err != nil {
		return false
	}
	return v.Truthy()
}

// ReadLines returns the raw rules of a rule file in file order: non empty
// lines that are not comments nor the header.
func ReadLines(rd io.Reader) ([]string, error) {
	lines := []string{}
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.ToLower(line) == Header {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

// Read parses every rule of rd. Malformed rules are logged and skipped.
func Read(rd io.Reader, log logrus.FieldLogger) ([]*Rule, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	lines, err := ReadLines(rd)
	if err != nil {
		return nil, err
	}

	rules := []*Rule{}
	for _, line := range lines {
		r, err := Parse(line)
		if err != nil {
			log.WithError(err).Warn("skipping rule")
			continue
		}
		for _, p := range r.Problems {
			log.WithField("rule", line).WithError(p).Warn("rule problem")
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// Load reads the rule file at path. A missing or unreadable file gives no
// rules.
func Load(path string, log logrus.FieldLogger) []*Rule {
	if log == nil {
		log = logrus.StandardLogger()
	}

	f, err := os.Open(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("rule file not loaded")
		return []*Rule{}
	}
	defer f.Close()

	rules, err := Read(f, log)
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("rule file not loaded")
		return []*Rule{}
	}

	log.WithField("rules", len(rules)).Debug("rules loaded")
	return rules
}
