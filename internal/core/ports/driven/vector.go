package driven

import (
	"context"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
)

// VectorIndex provides semantic similarity search operations.
// The default implementation is a brute-force scan; an approximate index
// can be substituted without changing callers.
//
// Writers must be serialised by the caller; searches may run concurrently
// while no writer is active.
type VectorIndex interface {
	// Add registers a chunk and its vector.
	// Re-adding an existing chunk ID fails with domain.ErrDuplicateID.
	// A vector of the wrong length fails with domain.ErrDimensionMismatch.
	Add(ctx context.Context, chunk domain.Chunk, embedding []float32) error

	// Search returns up to k hits sorted by descending similarity, ties in
	// insertion order. An empty index returns an empty slice.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of indexed chunks.
	Len() int

	// Dimensions returns the vector length accepted by the index.
	Dimensions() int
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Chunk is the matched chunk.
	Chunk domain.Chunk

	// Similarity is the cosine similarity clamped to [0,1].
	Similarity float64
}
