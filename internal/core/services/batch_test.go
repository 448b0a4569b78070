package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBatchProcessor_Workers(t *testing.T) {
	assert.Equal(t, 1, NewBatchProcessor(&mockResearchService{}, 0).workers)
	assert.Equal(t, 4, NewBatchProcessor(&mockResearchService{}, 4).workers)
}

// TestBatchProcessor_Run_Isolation tests that failing queries do not affect
// the others and order is preserved.
func TestBatchProcessor_Run_Isolation(t *testing.T) {
	for _, workers := range []int{1, 3} {
		svc := &mockResearchService{
			errs:   map[string]error{"q2": errors.New("boom")},
			panics: map[string]bool{"q4": true},
		}
		b := NewBatchProcessor(svc, workers)
		queries := []string{"q1", "q2", "q3", "q4", "q5"}

		outcome, err := b.Run(context.Background(), queries)
		require.NoError(t, err)
		require.Len(t, outcome.Items, 5)

		assert.Equal(t, 3, outcome.Succeeded())
		assert.Equal(t, 2, outcome.Failed())
		for i, item := range outcome.Items {
			assert.Equal(t, queries[i], item.Query)
		}
		assert.EqualError(t, outcome.Items[1].Err, "boom")
		assert.Contains(t, outcome.Items[3].Err.Error(), "panic")
		assert.Nil(t, outcome.Items[3].Report)
		assert.Equal(t, "q5", outcome.Items[4].Report.Query)
		assert.ElementsMatch(t, queries, svc.recorded())
	}
}

// TestBatchProcessor_Run_RealResearcher tests batch isolation end to end
// with one query whose sub-query evaluation fails.
func TestBatchProcessor_Run_RealResearcher(t *testing.T) {
	r := newLoadedResearcher(t)
	b := NewBatchProcessor(r, 2)

	queries := []string{
		"What is artificial intelligence?",
		"What causes climate change?",
		"",
		"What is deep learning?",
		"How do fossil fuels affect weather?",
	}
	outcome, err := b.Run(context.Background(), queries)
	require.NoError(t, err)

	assert.Equal(t, 4, outcome.Succeeded())
	assert.False(t, outcome.Items[2].OK())
	for i, item := range outcome.Items {
		if i == 2 {
			continue
		}
		require.True(t, item.OK(), item.Query)
		assert.NotEmpty(t, item.Report.Steps)
		assert.NotEmpty(t, item.Report.Synthesis)
	}
}

func TestBatchProcessor_Run_Cancelled(t *testing.T) {
	b := NewBatchProcessor(&mockResearchService{}, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := b.Run(ctx, []string{"a", "b"})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, outcome.Items, 2)
	assert.Equal(t, 0, outcome.Succeeded())
}

func TestBatchProcessor_Run_Empty(t *testing.T) {
	outcome, err := NewBatchProcessor(&mockResearchService{}, 2).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, outcome.Items)
}
