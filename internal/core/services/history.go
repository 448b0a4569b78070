package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driving"
)

// Ensure ReportArchive implements the interface.
var _ driving.HistoryService = (*ReportArchive)(nil)

// ReportArchive keeps research reports in a report store.
type ReportArchive struct {
	store driven.ReportStore
}

// NewReportArchive creates an archive backed by store.
func NewReportArchive(store driven.ReportStore) *ReportArchive {
	return &ReportArchive{store: store}
}

// Save stores a report. The report must carry an ID.
func (a *ReportArchive) Save(ctx context.Context, report *domain.ResearchReport) error {
	if report == nil || strings.TrimSpace(report.ID) == "" {
		return fmt.Errorf("%w: report id is required", domain.ErrValidation)
	}
	return a.store.Save(ctx, report)
}

// Get retrieves an archived report by ID.
func (a *ReportArchive) Get(ctx context.Context, id string) (*domain.ResearchReport, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: report id is required", domain.ErrValidation)
	}
	return a.store.Get(ctx, id)
}

// List returns the most recent reports, newest first.
func (a *ReportArchive) List(ctx context.Context, limit int) ([]domain.ReportSummary, error) {
	return a.store.List(ctx, limit)
}

// Delete removes an archived report.
func (a *ReportArchive) Delete(ctx context.Context, id string) error {
	return a.store.Delete(ctx, id)
}
