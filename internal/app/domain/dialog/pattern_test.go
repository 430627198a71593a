package dialog_test

import (
	"testing"
	"voightkampff/internal/app/domain/dialog"
)

func TestCompileSlots(t *testing.T) {
	tests := []struct {
		name     string
		template string
		sentence string
		want     bool
	}{
		{
			name:     "slot_filled",
			template: "hello {name}",
			sentence: "hello world",
			want:     true,
		},
		{
			name:     "slot_empty_with_aligned_literal",
			template: "hello {name}",
			sentence: "hello ",
			want:     true,
		},
		{
			name:     "literal_prefix_mismatch",
			template: "hello {name}",
			sentence: "goodbye world",
			want:     false,
		},
		{
			name:     "no_slots_exact",
			template: "goodbye",
			sentence: "goodbye",
			want:     true,
		},
		{
			name:     "no_slots_prefix_only",
			template: "goodbye",
			sentence: "goodnight",
			want:     false,
		},
		{
			name:     "trailing_content_tolerated",
			template: "goodbye",
			sentence: "goodbye for now",
			want:     true,
		},
		{
			name:     "anchored_at_start",
			template: "goodbye",
			sentence: "well goodbye",
			want:     false,
		},
		{
			name:     "leading_slot",
			template: "{name} is here",
			sentence: "alice is here",
			want:     true,
		},
		{
			name:     "fully_wildcarded",
			template: "{anything}",
			sentence: "whatever was said",
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := dialog.Compile(tt.template)
			if got := p.Matches(tt.sentence); got != tt.want {
				t.Errorf("Compile(%q).Matches(%q) = %v, want %v (pattern %s)",
					tt.template, tt.sentence, got, tt.want, p.String())
			}
		})
	}
}

// Templates of three or more words keep only their first and last word
// as literals: the rewrite collapses everything between the first and
// last space into a wildcard. Skills rely on this, so it is pinned.
func TestCompileBroadensInnerWords(t *testing.T) {
	tests := []struct {
		name     string
		template string
		sentence string
		want     bool
	}{
		{
			name:     "inner_words_replaced",
			template: "turn on the light",
			sentence: "turn off the light",
			want:     true,
		},
		{
			name:     "inner_span_may_be_empty",
			template: "turn on the light",
			sentence: "turn light",
			want:     true,
		},
		{
			name:     "first_word_still_literal",
			template: "turn on the light",
			sentence: "switch on the light",
			want:     false,
		},
		{
			name:     "last_word_still_literal",
			template: "turn on the light",
			sentence: "turn on the lamp",
			want:     false,
		},
		{
			name:     "two_words_not_broadened",
			template: "good morning",
			sentence: "good evening",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := dialog.Compile(tt.template)
			if got := p.Matches(tt.sentence); got != tt.want {
				t.Errorf("Compile(%q).Matches(%q) = %v, want %v (pattern %s)",
					tt.template, tt.sentence, got, tt.want, p.String())
			}
		})
	}
}

func TestCompileMalformedBraces(t *testing.T) {
	tests := []struct {
		name     string
		template string
		sentence string
		want     bool
	}{
		{
			name:     "stray_closing_brace_dropped",
			template: "weather} today",
			sentence: "weather today",
			want:     true,
		},
		{
			name:     "unclosed_brace_stays_literal",
			template: "{oops",
			sentence: "{oops",
			want:     true,
		},
		{
			name:     "unclosed_brace_not_a_wildcard",
			template: "{oops",
			sentence: "anything",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := dialog.Compile(tt.template)
			if got := p.Matches(tt.sentence); got != tt.want {
				t.Errorf("Compile(%q).Matches(%q) = %v, want %v (pattern %s)",
					tt.template, tt.sentence, got, tt.want, p.String())
			}
		})
	}
}

func TestCompileCollapsesWhitespaceAndWildcardRuns(t *testing.T) {
	// Both slots plus the inner-span collapse reduce to one wildcard,
	// never a chain of them.
	p := dialog.Compile("{greeting} {name} welcome")
	if got, want := p.String(), "^*welcome"; got != want {
		t.Errorf("pattern = %s, want %s", got, want)
	}

	p = dialog.Compile("thanks    a   lot")
	if !p.Matches("thanks a lot") {
		t.Errorf("whitespace runs should collapse to single spaces (pattern %s)", p.String())
	}
}

func TestCompileIsPure(t *testing.T) {
	const template = "set a timer for {duration}"
	a := dialog.Compile(template)
	b := dialog.Compile(template)

	for _, sentence := range []string{
		"set a timer for ten minutes",
		"set a timer for ",
		"cancel the timer",
	} {
		if a.Matches(sentence) != b.Matches(sentence) {
			t.Errorf("two compilations of %q disagree on %q", template, sentence)
		}
	}
}

// Literal template text must not behave as a regular expression.
func TestCompileLiteralsAreNotRegex(t *testing.T) {
	p := dialog.Compile("what?")
	if p.Matches("what!") {
		t.Error("'?' in a template must match literally")
	}
	if !p.Matches("what?") {
		t.Error("literal template should match itself")
	}
}
