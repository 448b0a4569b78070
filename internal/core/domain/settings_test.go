package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDefaultResearchSettings tests default values
func TestDefaultResearchSettings(t *testing.T) {
	s := DefaultResearchSettings()

	assert.Equal(t, 200, s.ChunkSize)
	assert.Equal(t, 50, s.ChunkOverlap)
	assert.Equal(t, 5, s.TopK)
	assert.Equal(t, 5, s.MaxSubQueries)
	assert.Equal(t, 0.2, s.ConfidenceFloor)
	assert.Equal(t, 0.3, s.SourceThreshold)
	assert.True(t, s.EmbedTitles)
	assert.False(t, s.Parallel)
	assert.NoError(t, s.Validate())
}

// TestResearchSettings_Validate tests out-of-range rejection
func TestResearchSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ResearchSettings)
	}{
		{"zero chunk size", func(s *ResearchSettings) { s.ChunkSize = 0 }},
		{"negative overlap", func(s *ResearchSettings) { s.ChunkOverlap = -1 }},
		{"overlap equals size", func(s *ResearchSettings) { s.ChunkOverlap = s.ChunkSize }},
		{"zero dimension", func(s *ResearchSettings) { s.Dimension = 0 }},
		{"zero top k", func(s *ResearchSettings) { s.TopK = 0 }},
		{"zero max sub-queries", func(s *ResearchSettings) { s.MaxSubQueries = 0 }},
		{"floor above one", func(s *ResearchSettings) { s.ConfidenceFloor = 1.5 }},
		{"negative threshold", func(s *ResearchSettings) { s.SourceThreshold = -0.1 }},
		{"zero snippet", func(s *ResearchSettings) { s.MaxSnippetChars = 0 }},
		{"zero workers", func(s *ResearchSettings) { s.Workers = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultResearchSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrValidation)
		})
	}
}
