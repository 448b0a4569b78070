package driving

import (
	"context"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
)

// SessionService is a stateful research conversation.
type SessionService interface {
	// Start researches an opening query without prior findings and appends
	// its report to the history.
	Start(ctx context.Context, query string) (*domain.ResearchReport, error)

	// Ask researches a follow-up enriched with findings from recent reports.
	Ask(ctx context.Context, followup string) (*domain.ResearchReport, error)

	// History returns the reports produced so far, oldest first.
	History() []*domain.ResearchReport

	// Reset discards the history.
	Reset()
}

// HistoryService archives reports for later review and re-export.
type HistoryService interface {
	// Save stores a report.
	Save(ctx context.Context, report *domain.ResearchReport) error

	// Get retrieves an archived report by ID.
	Get(ctx context.Context, id string) (*domain.ResearchReport, error)

	// List returns the most recent reports, newest first.
	List(ctx context.Context, limit int) ([]domain.ReportSummary, error)

	// Delete removes an archived report.
	Delete(ctx context.Context, id string) error
}
