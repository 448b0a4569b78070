package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

type vectorEntry struct {
	chunk     domain.Chunk
	embedding []float32
	norm      float64
}

// VectorIndex is an exact, brute-force cosine similarity index.
// Entries are kept in insertion order, which breaks similarity ties.
type VectorIndex struct {
	mu         sync.RWMutex
	dimensions int
	entries    []vectorEntry
	ids        map[string]struct{}
}

// NewVectorIndex creates an empty index accepting vectors of the given length.
func NewVectorIndex(dimensions int) *VectorIndex {
	return &VectorIndex{
		dimensions: dimensions,
		ids:        make(map[string]struct{}),
	}
}

// Add registers a chunk and its embedding.
func (v *VectorIndex) Add(_ context.Context, chunk domain.Chunk, embedding []float32) error {
	if len(embedding) != v.dimensions {
		return fmt.Errorf("%w: chunk %q has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, chunk.ID, len(embedding), v.dimensions)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.ids[chunk.ID]; ok {
		return fmt.Errorf("%w: chunk %q", domain.ErrDuplicateID, chunk.ID)
	}

	stored := make([]float32, len(embedding))
	copy(stored, embedding)
	v.entries = append(v.entries, vectorEntry{
		chunk:     chunk,
		embedding: stored,
		norm:      vectorNorm(stored),
	})
	v.ids[chunk.ID] = struct{}{}
	return nil
}

// Search returns the k most similar chunks to query.
func (v *VectorIndex) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	// Nothing indexed means nothing to compare against.
	if k <= 0 || len(v.entries) == 0 {
		return []driven.VectorHit{}, nil
	}
	if len(query) != v.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), v.dimensions)
	}

	queryNorm := vectorNorm(query)
	hits := make([]driven.VectorHit, len(v.entries))
	for i := range v.entries {
		hits[i] = driven.VectorHit{
			Chunk:      v.entries[i].chunk,
			Similarity: cosine(query, queryNorm, v.entries[i].embedding, v.entries[i].norm),
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of indexed chunks.
func (v *VectorIndex) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entries)
}

// Dimensions returns the accepted vector length.
func (v *VectorIndex) Dimensions() int {
	return v.dimensions
}

func vectorNorm(vec []float32) float64 {
	var sum float64
	for _, x := range vec {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// cosine returns the similarity of a and b clamped to [0,1].
// A zero vector is dissimilar to everything.
func cosine(a []float32, normA float64, b []float32, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return domain.Clamp01(dot / (normA * normB))
}
