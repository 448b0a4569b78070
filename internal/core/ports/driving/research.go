package driving

import (
	"context"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
)

// ResearchService is the core-facing contract of the researcher.
// Research is stateless per call; follow-up context is flattened into the
// query text by the caller.
type ResearchService interface {
	// AddDocuments chunks, embeds and indexes documents. Per-document failures
	// are collected in the outcome; the returned error is reserved for
	// cancellation and invariant violations.
	AddDocuments(ctx context.Context, docs []domain.Document) (*domain.IngestOutcome, error)

	// Research runs a query end to end. An empty corpus yields a
	// zero-confidence report, not an error.
	Research(ctx context.Context, query string) (*domain.ResearchReport, error)

	// ExportReport renders a report, failing with domain.ErrUnsupportedFormat
	// for unknown format names.
	ExportReport(report *domain.ResearchReport, format string) (string, error)
}

// CorpusService exposes what has been indexed.
type CorpusService interface {
	// Documents returns ingested documents in ingestion order.
	Documents(ctx context.Context) ([]domain.Document, error)

	// Stats returns document and chunk counts.
	Stats(ctx context.Context) (CorpusStats, error)
}

// CorpusStats summarises the indexed corpus.
type CorpusStats struct {
	Documents  int
	Chunks     int
	Dimensions int
}
