package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
)

func newTestSynthesis() *SynthesisEngine {
	return NewSynthesisEngine(domain.DefaultResearchSettings())
}

// TestSynthesize_NoSteps tests the no-evidence outcome.
func TestSynthesize_NoSteps(t *testing.T) {
	syn := newTestSynthesis().Synthesize(nil)

	assert.Equal(t, NoEvidenceText, syn.Text)
	assert.Zero(t, syn.Confidence)
	assert.NotNil(t, syn.Sources)
	assert.Empty(t, syn.Sources)
}

// TestSynthesize_ZeroRelevance tests that zero-score results are not evidence.
func TestSynthesize_ZeroRelevance(t *testing.T) {
	steps := []domain.ResearchStep{
		step("q", 0, result("a", "unrelated text", 0)),
	}
	syn := newTestSynthesis().Synthesize(steps)

	assert.Equal(t, NoEvidenceText, syn.Text)
	assert.Zero(t, syn.Confidence)
	assert.Empty(t, syn.Sources)
}

// TestSynthesize_RepresentativeEvidence tests snippet selection and order.
func TestSynthesize_RepresentativeEvidence(t *testing.T) {
	steps := []domain.ResearchStep{
		step("first", 0.8, result("a", "Alpha evidence.", 0.8), result("b", "Beta evidence.", 0.2)),
		step("second", 0.6, result("b", "Beta evidence.", 0.6)),
		step("third", 0.4, result("a", "Alpha evidence.", 0.5)),
	}
	syn := newTestSynthesis().Synthesize(steps)

	// third step repeats a snippet from document a and is skipped
	assert.Equal(t, "Alpha evidence.\n\nBeta evidence.", syn.Text)
	assert.Equal(t, []string{"a", "b"}, syn.Sources)
}

// TestSynthesize_WeightedConfidence tests the relevance-weighted mean.
func TestSynthesize_WeightedConfidence(t *testing.T) {
	steps := []domain.ResearchStep{
		step("strong", 0.9, result("a", "one", 0.9)),
		step("weak", 0.1, result("b", "two", 0.1)),
	}
	syn := newTestSynthesis().Synthesize(steps)

	want := (0.9*0.9 + 0.1*0.1) / (0.9 + 0.1)
	assert.InDelta(t, want, syn.Confidence, 1e-9)
	assert.GreaterOrEqual(t, syn.Confidence, 0.0)
	assert.LessOrEqual(t, syn.Confidence, 1.0)
}

// TestSynthesize_SourceThreshold tests that only results above the threshold
// count as sources, in first-seen order across all results.
func TestSynthesize_SourceThreshold(t *testing.T) {
	steps := []domain.ResearchStep{
		step("one", 0.5, result("c", "c text", 0.9), result("low", "low text", 0.3)),
		step("two", 0.5, result("a", "a text", 0.31), result("c", "c text", 0.5)),
	}
	syn := newTestSynthesis().Synthesize(steps)

	assert.Equal(t, []string{"c", "a"}, syn.Sources)
}

// TestSynthesize_FaultedStep tests that a failed step contributes nothing.
func TestSynthesize_FaultedStep(t *testing.T) {
	steps := []domain.ResearchStep{
		{SubQuery: "broken", Results: []domain.QueryResult{}, Error: "boom"},
		step("fine", 0.7, result("a", "Evidence.", 0.7)),
	}
	syn := newTestSynthesis().Synthesize(steps)

	assert.Equal(t, "Evidence.", syn.Text)
	assert.InDelta(t, 0.7, syn.Confidence, 1e-9)
	assert.Equal(t, []string{"a"}, syn.Sources)
}

func TestSnippet(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want string
	}{
		{"short", "hello world", 20, "hello world"},
		{"whitespace collapsed", "hello \n\n world", 20, "hello world"},
		{"word boundary", "the quick brown fox", 12, "the quick..."},
		{"no boundary", "abcdefghij", 4, "abcd..."},
		{"unicode", "héllo wörld", 7, "héllo..."},
		{"unbounded", "abc", 0, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Snippet(tt.text, tt.max))
		})
	}
}

func TestSynthesize_SnippetBounded(t *testing.T) {
	settings := domain.DefaultResearchSettings()
	settings.MaxSnippetChars = 20
	long := strings.Repeat("lorem ipsum ", 20)

	syn := NewSynthesisEngine(settings).Synthesize([]domain.ResearchStep{
		step("q", 0.5, result("a", long, 0.5)),
	})

	assert.LessOrEqual(t, len([]rune(syn.Text)), 23)
	assert.True(t, strings.HasSuffix(syn.Text, "..."))
}
