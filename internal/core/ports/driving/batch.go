package driving

import (
	"context"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
)

// BatchService runs many queries with per-query failure isolation.
type BatchService interface {
	// Run researches each query once. Items are returned in input order.
	Run(ctx context.Context, queries []string) (*domain.BatchOutcome, error)
}

// QualityService grades research reports.
type QualityService interface {
	// Assess rates how well a report is supported by evidence.
	Assess(report *domain.ResearchReport) domain.QualityAssessment
}
