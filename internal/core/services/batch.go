package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-research/internal/logger"
)

// Ensure BatchProcessor implements the interface.
var _ driving.BatchService = (*BatchProcessor)(nil)

// BatchProcessor researches many queries, isolating failures per query.
type BatchProcessor struct {
	research driving.ResearchService
	workers  int
}

// NewBatchProcessor creates a batch processor running up to workers
// queries at once. A worker count below one runs queries sequentially.
func NewBatchProcessor(research driving.ResearchService, workers int) *BatchProcessor {
	if workers < 1 {
		workers = 1
	}
	return &BatchProcessor{
		research: research,
		workers:  workers,
	}
}

// Run researches every query once. A failing or panicking query becomes a
// failed item and never affects the others. The returned error is the
// context error if the batch was cancelled.
func (b *BatchProcessor) Run(ctx context.Context, queries []string) (*domain.BatchOutcome, error) {
	logger.Section("Batch")
	logger.Debug("Queries: %d, workers: %d", len(queries), b.workers)

	items := make([]domain.BatchItem, len(queries))

	var g errgroup.Group
	g.SetLimit(b.workers)
	for i, query := range queries {
		g.Go(func() error {
			items[i] = b.runOne(ctx, query)
			return nil
		})
	}
	_ = g.Wait()

	outcome := &domain.BatchOutcome{Items: items}
	logger.Info("Batch complete: %d succeeded, %d failed", outcome.Succeeded(), outcome.Failed())

	if err := ctx.Err(); err != nil {
		return outcome, err
	}
	return outcome, nil
}

func (b *BatchProcessor) runOne(ctx context.Context, query string) (item domain.BatchItem) {
	item.Query = query

	defer func() {
		if r := recover(); r != nil {
			item.Report = nil
			item.Err = fmt.Errorf("panic: %v", r)
			logger.Warn("Query %q panicked: %v", query, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		item.Err = err
		return item
	}

	report, err := b.research.Research(ctx, query)
	if err != nil {
		logger.Warn("Query %q failed: %v", query, err)
		item.Err = err
		return item
	}
	item.Report = report
	return item
}
