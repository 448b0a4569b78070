package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations must be pure functions of the text: the same input yields
// a bit-identical vector on every call, with no network access and no
// training phase. The empty string maps to the zero vector.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	// Text that cannot be encoded fails with domain.ErrEmbedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	// Output order matches input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size fixed at construction.
	// This must match VectorIndex configuration.
	Dimensions() int

	// ModelName returns the name of the embedding scheme being used.
	ModelName() string
}
