package dialog

import (
	"strings"
)

// wildcardMark stands in for "match anything" while a template is being
// rewritten. Dialog files are prose lines; a NUL byte cannot appear in
// template text.
const wildcardMark = "\x00"

// segment is one unit of a compiled pattern: either a literal run of
// characters that must appear verbatim, or a wildcard that matches any
// text (including none).
type segment struct {
	literal  string
	wildcard bool
}

// Pattern is a compiled dialog template: an ordered list of literal and
// wildcard segments, matched anchored at the start of a sentence.
// Trailing sentence content beyond the last segment is tolerated.
type Pattern struct {
	segments []segment
}

// Compile turns one template line into a Pattern.
//
// The rewrite steps mirror the matching behaviour skills were authored
// against, in order:
//
//  1. every {slot} span becomes a wildcard
//  2. stray '}' left by malformed braces are dropped
//  3. if the line still holds two distinct spaces, everything between
//     the first and the last space collapses into a single wildcard
//  4. wildcard runs separated by single spaces merge into one
//  5. whitespace runs collapse to single spaces
//
// Step 3 broadens matching far beyond explicit slots: any template of
// three or more words keeps only its first and last word as literals.
// That is a long-standing quirk of the rewrite order; skills have come
// to rely on it, so it is kept and pinned by tests.
func Compile(template string) Pattern {
	s := replaceSlots(template)
	s = strings.ReplaceAll(s, "}", "")
	s = broadenInnerSpan(s)
	s = mergeWildcards(s)
	s = strings.Join(strings.Fields(s), " ")

	return Pattern{segments: splitSegments(s)}
}

// replaceSlots substitutes every {...} span (shortest closing brace
// wins) with a wildcard mark. A '{' that never closes is not a slot
// and stays literal.
func replaceSlots(s string) string {
	var b strings.Builder
	for {
		open := strings.IndexByte(s, '{')
		if open < 0 {
			b.WriteString(s)
			return b.String()
		}

		end := strings.IndexByte(s[open:], '}')
		if end < 0 {
			b.WriteString(s)
			return b.String()
		}

		b.WriteString(s[:open])
		b.WriteString(wildcardMark)
		s = s[open+end+1:]
	}
}

// broadenInnerSpan applies the first-space..last-space collapse. The
// span between the two spaces may be empty or hold literal words; all
// of it becomes one wildcard. The leading space survives, the trailing
// one does not.
func broadenInnerSpan(s string) string {
	first := strings.IndexByte(s, ' ')
	last := strings.LastIndexByte(s, ' ')
	if first < 0 || first == last {
		return s
	}
	return s[:first] + " " + wildcardMark + s[last+1:]
}

// mergeWildcards folds runs like "* * *" (single-space separated) into
// a single wildcard.
func mergeWildcards(s string) string {
	run := wildcardMark + " " + wildcardMark
	for strings.Contains(s, run) {
		s = strings.ReplaceAll(s, run, wildcardMark)
	}
	return s
}

// splitSegments parses the rewritten string into literal and wildcard
// segments. Adjacent wildcards without separators collapse; empty
// literals between them are dropped.
func splitSegments(s string) []segment {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, wildcardMark)

	var segs []segment
	for i, part := range parts {
		if part != "" {
			segs = append(segs, segment{literal: part})
		}
		if i < len(parts)-1 {
			segs = append(segs, segment{wildcard: true})
		}
	}
	return segs
}

// Matches reports whether the sentence fits the pattern, anchored at
// the start. Literal segments match byte-for-byte; wildcards match any
// span including the empty one. Content after the final segment is
// allowed.
func (p Pattern) Matches(sentence string) bool {
	pos := 0
	free := false // true once a wildcard lets the next literal float

	for _, seg := range p.segments {
		if seg.wildcard {
			free = true
			continue
		}

		if free {
			idx := strings.Index(sentence[pos:], seg.literal)
			if idx < 0 {
				return false
			}
			pos += idx + len(seg.literal)
			free = false
			continue
		}

		if !strings.HasPrefix(sentence[pos:], seg.literal) {
			return false
		}
		pos += len(seg.literal)
	}

	return true
}

// String renders the pattern for traces, with "*" standing for
// wildcard segments.
func (p Pattern) String() string {
	var b strings.Builder
	b.WriteByte('^')
	for _, seg := range p.segments {
		if seg.wildcard {
			b.WriteByte('*')
		} else {
			b.WriteString(seg.literal)
		}
	}
	return b.String()
}
