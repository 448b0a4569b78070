package domain

import "fmt"

// Default research settings.
const (
	DefaultChunkSize       = 200
	DefaultChunkOverlap    = 50
	DefaultDimension       = 512
	DefaultTopK            = 5
	DefaultMaxSubQueries   = 5
	DefaultConfidenceFloor = 0.2
	DefaultSourceThreshold = 0.3
	DefaultMaxSnippetChars = 400
	DefaultWorkers         = 4
)

// ResearchSettings holds the tunables of the research pipeline.
type ResearchSettings struct {
	// ChunkSize is the window length in tokens.
	ChunkSize int

	// ChunkOverlap is the number of tokens repeated between adjacent windows.
	ChunkOverlap int

	// Dimension is the embedding vector length.
	Dimension int

	// TopK is the number of results retrieved per sub-query.
	TopK int

	// MaxSubQueries bounds query decomposition.
	MaxSubQueries int

	// ConfidenceFloor triggers the broadened retry when a step falls below it.
	ConfidenceFloor float64

	// SourceThreshold is the relevance a result must exceed to count as a source.
	SourceThreshold float64

	// MaxSnippetChars bounds each evidence snippet in the synthesis.
	MaxSnippetChars int

	// EmbedTitles prefixes chunk text with the document title before embedding.
	EmbedTitles bool

	// Parallel evaluates sub-queries concurrently.
	Parallel bool

	// Workers bounds concurrent units for embedding and batch runs.
	Workers int
}

// DefaultResearchSettings returns settings with sensible defaults.
func DefaultResearchSettings() ResearchSettings {
	return ResearchSettings{
		ChunkSize:       DefaultChunkSize,
		ChunkOverlap:    DefaultChunkOverlap,
		Dimension:       DefaultDimension,
		TopK:            DefaultTopK,
		MaxSubQueries:   DefaultMaxSubQueries,
		ConfidenceFloor: DefaultConfidenceFloor,
		SourceThreshold: DefaultSourceThreshold,
		MaxSnippetChars: DefaultMaxSnippetChars,
		EmbedTitles:     true,
		Parallel:        false,
		Workers:         DefaultWorkers,
	}
}

// Validate returns ErrValidation if any setting is out of range.
func (s ResearchSettings) Validate() error {
	switch {
	case s.ChunkSize <= 0:
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrValidation, s.ChunkSize)
	case s.ChunkOverlap < 0 || s.ChunkOverlap >= s.ChunkSize:
		return fmt.Errorf("%w: chunk overlap must be in [0,%d), got %d", ErrValidation, s.ChunkSize, s.ChunkOverlap)
	case s.Dimension <= 0:
		return fmt.Errorf("%w: dimension must be positive, got %d", ErrValidation, s.Dimension)
	case s.TopK <= 0:
		return fmt.Errorf("%w: top k must be positive, got %d", ErrValidation, s.TopK)
	case s.MaxSubQueries <= 0:
		return fmt.Errorf("%w: max sub-queries must be positive, got %d", ErrValidation, s.MaxSubQueries)
	case s.ConfidenceFloor < 0 || s.ConfidenceFloor > 1:
		return fmt.Errorf("%w: confidence floor must be in [0,1], got %g", ErrValidation, s.ConfidenceFloor)
	case s.SourceThreshold < 0 || s.SourceThreshold > 1:
		return fmt.Errorf("%w: source threshold must be in [0,1], got %g", ErrValidation, s.SourceThreshold)
	case s.MaxSnippetChars <= 0:
		return fmt.Errorf("%w: max snippet chars must be positive, got %d", ErrValidation, s.MaxSnippetChars)
	case s.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrValidation, s.Workers)
	}
	return nil
}
