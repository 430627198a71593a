package dialog

import (
	"fmt"
	"strings"
)

// Template is one response line of a dialog resource together with its
// compiled pattern. Index is the line's position in the resource after
// filtering; resources are matched in that order.
type Template struct {
	Raw     string
	Pattern Pattern
	Index   int
}

// TemplateSet is the ordered contents of one dialog resource. Order is
// authoritative: the first template that matches wins.
type TemplateSet struct {
	Name      string
	Templates []Template
}

// NewTemplateSet compiles the given lines, preserving their order.
// Lines are expected pre-normalized (trimmed, lowercased, comments
// removed) by the loader.
func NewTemplateSet(name string, lines []string) TemplateSet {
	set := TemplateSet{Name: name, Templates: make([]Template, 0, len(lines))}
	for i, line := range lines {
		set.Templates = append(set.Templates, Template{
			Raw:     line,
			Pattern: Compile(line),
			Index:   i,
		})
	}
	return set
}

// Attempt records a single pattern comparison for post-mortem output.
type Attempt struct {
	Set      string
	Pattern  string
	Sentence string
	Matched  bool
}

// Trace accumulates every comparison the matcher performs. A nil Trace
// is valid and records nothing.
type Trace struct {
	Attempts []Attempt
}

func (t *Trace) add(a Attempt) {
	if t != nil {
		t.Attempts = append(t.Attempts, a)
	}
}

func (t *Trace) String() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	for _, a := range t.Attempts {
		fmt.Fprintf(&b, "%s: %s ~ %q -> %v\n", a.Set, a.Pattern, a.Sentence, a.Matched)
	}
	return b.String()
}

// MatchFirst tests sentence against every template of the set in load
// order and returns the index of the first match. Every attempt is
// recorded in the trace, hit or miss.
func MatchFirst(set TemplateSet, sentence string, trace *Trace) (int, bool) {
	for _, tmpl := range set.Templates {
		ok := tmpl.Pattern.Matches(sentence)
		trace.add(Attempt{
			Set:      set.Name,
			Pattern:  tmpl.Pattern.String(),
			Sentence: sentence,
			Matched:  ok,
		})
		if ok {
			return tmpl.Index, true
		}
	}
	return 0, false
}

// BestMatch runs MatchFirst over every set and picks the one whose
// matched template has the longest raw text, longest read as most
// specific. Ties keep the earlier set; sets are tried in the order
// given. Returns the winning set's name, or ok=false when nothing
// matched anywhere.
func BestMatch(sets []TemplateSet, sentence string, trace *Trace) (string, bool) {
	bestName := ""
	bestLen := 0
	for _, set := range sets {
		idx, ok := MatchFirst(set, sentence, trace)
		if !ok {
			continue
		}
		if n := len(set.Templates[idx].Raw); n > bestLen {
			bestName, bestLen = set.Name, n
		}
	}
	return bestName, bestName != ""
}
