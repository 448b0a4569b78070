package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
)

// TestQueryDecomposer_Decompose tests structural and aspect decomposition.
func TestQueryDecomposer_Decompose(t *testing.T) {
	d := NewQueryDecomposer(domain.DefaultMaxSubQueries)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "simple question unchanged",
			query: "What is artificial intelligence?",
			want:  []string{"What is artificial intelligence?"},
		},
		{
			name:  "noun phrase conjunction not split",
			query: "Compare cats and dogs",
			want:  []string{"Compare cats and dogs"},
		},
		{
			name:  "conjunction introducing a question",
			query: "What is machine learning and how does it work?",
			want:  []string{"What is machine learning?", "How does it work?"},
		},
		{
			name:  "multiple question marks",
			query: "What causes climate change? What are its effects?",
			want:  []string{"What causes climate change?", "What are its effects?"},
		},
		{
			name:  "semicolon and comma conjunction",
			query: "Who invented AI; when was it founded, and why does it matter?",
			want:  []string{"Who invented AI?", "When was it founded?", "Why does it matter?"},
		},
		{
			name:  "aspect expansion",
			query: "Explain quantum computing",
			want: []string{
				"Explain quantum computing",
				"What is quantum computing?",
				"Why is quantum computing important?",
				"How does quantum computing work?",
			},
		},
		{
			name:  "aspect expansion with trailing punctuation",
			query: "Tell me about renewable energy.",
			want: []string{
				"Tell me about renewable energy.",
				"What is renewable energy?",
				"Why is renewable energy important?",
				"How does renewable energy work?",
			},
		},
		{
			name:  "duplicates removed",
			query: "What is AI? what is AI?",
			want:  []string{"What is AI?"},
		},
		{
			name:  "surrounding whitespace trimmed",
			query: "  What is AI?  ",
			want:  []string{"What is AI?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Decompose(tt.query))
		})
	}
}

// TestQueryDecomposer_Bound tests that output length stays within limits.
func TestQueryDecomposer_Bound(t *testing.T) {
	queries := []string{
		"",
		"   ",
		"?",
		"???",
		"a? b? c? d? e? f? g? h?",
		"What is a and what is b and what is c and what is d and what is e and what is f?",
		"Explain everything",
		strings.Repeat("word ", 500),
	}

	for _, max := range []int{1, 2, 5} {
		d := NewQueryDecomposer(max)
		for _, q := range queries {
			got := d.Decompose(q)
			assert.GreaterOrEqual(t, len(got), 1, "query %q", q)
			assert.LessOrEqual(t, len(got), max, "query %q", q)
		}
	}
}

// TestQueryDecomposer_Deterministic tests repeatability.
func TestQueryDecomposer_Deterministic(t *testing.T) {
	d := NewQueryDecomposer(5)
	q := "Describe the carbon cycle and why is it changing?"
	assert.Equal(t, d.Decompose(q), d.Decompose(q))
}

func TestNewQueryDecomposer_Default(t *testing.T) {
	assert.Equal(t, domain.DefaultMaxSubQueries, NewQueryDecomposer(0).MaxSubQueries())
	assert.Equal(t, 3, NewQueryDecomposer(3).MaxSubQueries())
}
