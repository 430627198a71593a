package dialog_test

import (
	"github.com/stretchr/testify/assert"
	"testing"
	"voightkampff/internal/app/domain/dialog"
)

func TestMatchFirst(t *testing.T) {
	set := dialog.NewTemplateSet("greetings.dialog", []string{
		"hello {name}",
		"goodbye",
	})

	tests := []struct {
		name     string
		sentence string
		wantIdx  int
		wantOK   bool
	}{
		{name: "slot_match", sentence: "hello world", wantIdx: 0, wantOK: true},
		{name: "literal_match", sentence: "goodbye", wantIdx: 1, wantOK: true},
		{name: "no_match", sentence: "goodnight", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trace := &dialog.Trace{}
			idx, ok := dialog.MatchFirst(set, tt.sentence, trace)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantIdx, idx)
			} else {
				assert.Len(t, trace.Attempts, len(set.Templates),
					"a miss must record one attempt per template")
			}
		})
	}
}

func TestMatchFirstOrderWins(t *testing.T) {
	// Both templates match; load order decides, not specificity.
	set := dialog.NewTemplateSet("order.dialog", []string{
		"{anything}",
		"hello the whole wide world",
	})

	idx, ok := dialog.MatchFirst(set, "hello the whole wide world", nil)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestMatchFirstDeterministic(t *testing.T) {
	set := dialog.NewTemplateSet("repeat.dialog", []string{
		"what time is it",
		"the time is {time}",
	})

	first, ok := dialog.MatchFirst(set, "the time is noon", nil)
	assert.True(t, ok)
	for i := 0; i < 5; i++ {
		idx, ok := dialog.MatchFirst(set, "the time is noon", nil)
		assert.True(t, ok)
		assert.Equal(t, first, idx)
	}
}

func TestMatchFirstTraceRecordsEveryAttempt(t *testing.T) {
	set := dialog.NewTemplateSet("t.dialog", []string{"alpha", "beta", "gamma"})

	trace := &dialog.Trace{}
	_, ok := dialog.MatchFirst(set, "delta", trace)

	assert.False(t, ok)
	assert.Len(t, trace.Attempts, 3)
	for _, a := range trace.Attempts {
		assert.Equal(t, "t.dialog", a.Set)
		assert.Equal(t, "delta", a.Sentence)
		assert.False(t, a.Matched)
	}
	assert.NotEmpty(t, trace.String())
}

func TestBestMatchPrefersLongestTemplate(t *testing.T) {
	sets := []dialog.TemplateSet{
		dialog.NewTemplateSet("short.dialog", []string{"it is {temp}"}),
		dialog.NewTemplateSet("long.dialog", []string{"it is {temp} degrees outside"}),
	}

	name, ok := dialog.BestMatch(sets, "it is twenty degrees outside", nil)
	assert.True(t, ok)
	assert.Equal(t, "long.dialog", name)

	// Reversed discovery order must not change the winner.
	name, ok = dialog.BestMatch([]dialog.TemplateSet{sets[1], sets[0]}, "it is twenty degrees outside", nil)
	assert.True(t, ok)
	assert.Equal(t, "long.dialog", name)
}

func TestBestMatchTieKeepsFirstDiscovered(t *testing.T) {
	sets := []dialog.TemplateSet{
		dialog.NewTemplateSet("a.dialog", []string{"same length {x}"}),
		dialog.NewTemplateSet("b.dialog", []string{"same length {y}"}),
	}

	name, ok := dialog.BestMatch(sets, "same length indeed", nil)
	assert.True(t, ok)
	assert.Equal(t, "a.dialog", name)
}

func TestBestMatchNone(t *testing.T) {
	sets := []dialog.TemplateSet{
		dialog.NewTemplateSet("a.dialog", []string{"completely unrelated"}),
	}

	trace := &dialog.Trace{}
	name, ok := dialog.BestMatch(sets, "no template says this", trace)
	assert.False(t, ok)
	assert.Empty(t, name)
	assert.NotEmpty(t, trace.Attempts)
}
