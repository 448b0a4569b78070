package driven

import (
	"context"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
)

// ReportStore archives research reports for later review.
// Backed by SQLite.
type ReportStore interface {
	// Save stores a report. The report ID must be set.
	Save(ctx context.Context, report *domain.ResearchReport) error

	// Get retrieves a report by ID.
	Get(ctx context.Context, id string) (*domain.ResearchReport, error)

	// List returns summaries of the most recent reports, newest first.
	List(ctx context.Context, limit int) ([]domain.ReportSummary, error)

	// Delete removes a report.
	Delete(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}
