package driven

import (
	"context"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
)

// DocumentStore keeps ingested documents and their chunks in memory.
type DocumentStore interface {
	// SaveDocument stores a document. Existing IDs fail with domain.ErrDuplicateID.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores chunks for a document.
	SaveChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// HasDocument reports whether an ID has been stored.
	HasDocument(ctx context.Context, id string) (bool, error)

	// GetChunks retrieves all chunks for a document in position order.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// ListDocuments returns documents in ingestion order.
	ListDocuments(ctx context.Context) ([]domain.Document, error)
}
