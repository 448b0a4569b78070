// Package local provides an offline embedding service based on feature
// hashing. It needs no model files or network access and produces the same
// vector for the same text on every run.
package local

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultDimensions = domain.DefaultDimension
	DefaultWorkers    = domain.DefaultWorkers
	ModelName         = "hashed-bag-of-terms"
)

// Config holds configuration for the local embedding service.
type Config struct {
	// Dimensions is the embedding vector size (default: 512).
	Dimensions int

	// Workers bounds concurrent embedding in EmbedBatch (default: 4).
	Workers int
}

// EmbeddingService maps text to a fixed-length vector by hashing each
// content term into a bucket. Terms are lowercased letter or digit runs
// with stopwords removed and a trailing plural "s" stripped. Each term adds
// its frequency to the bucket selected by its hash, with a sign taken from a
// separate hash bit, and the result is L2-normalised. Text without content
// terms maps to the zero vector.
type EmbeddingService struct {
	dimensions   int
	workers      int
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewEmbeddingService creates a new local embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}

	return &EmbeddingService{
		dimensions:   cfg.Dimensions,
		workers:      cfg.Workers,
		tokenPattern: regexp.MustCompile(`\p{L}+|\p{N}+`),
		stopwords:    defaultStopwords(),
	}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("%w: text is not valid UTF-8", domain.ErrEmbedding)
	}

	vec := make([]float64, s.dimensions)
	for term, count := range s.termFrequencies(text) {
		h := xxhash.Sum64String(term)
		bucket := h % uint64(s.dimensions)
		// Top bit picks the sign.
		if h>>63 == 1 {
			vec[bucket] -= float64(count)
		} else {
			vec[bucket] += float64(count)
		}
	}

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	embedding := make([]float32, s.dimensions)
	if norm == 0 {
		return embedding, nil
	}
	for i, v := range vec {
		embedding[i] = float32(v / norm)
	}
	return embedding, nil
}

// EmbedBatch generates embeddings for multiple texts concurrently.
// The result is index-aligned with texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, text := range texts {
		g.Go(func() error {
			embedding, err := s.Embed(gctx, text)
			if err != nil {
				return fmt.Errorf("embed text %d: %w", i, err)
			}
			embeddings[i] = embedding
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding scheme.
func (s *EmbeddingService) ModelName() string {
	return ModelName
}

// Terms returns the content terms of text in order of appearance.
func (s *EmbeddingService) Terms(text string) []string {
	raw := s.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		if _, isStop := s.stopwords[t]; isStop {
			continue
		}
		out = append(out, stem(t))
	}
	return out
}

func (s *EmbeddingService) termFrequencies(text string) map[string]int {
	tf := make(map[string]int)
	for _, term := range s.Terms(text) {
		tf[term]++
	}
	return tf
}

// stem strips a simple plural suffix.
func stem(term string) string {
	if len(term) > 3 && strings.HasSuffix(term, "s") && !strings.HasSuffix(term, "ss") {
		return term[:len(term)-1]
	}
	return term
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "its", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		"what", "why", "how", "who", "when", "where", "which", "does", "do", "did", "has", "have", "had",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
