package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-research/internal/logger"
)

// tiePenalty scales how much near-tied runner-up results reduce confidence.
const tiePenalty = 0.5

// ReasoningEngine runs retrieval for each sub-query and scores the evidence.
//
// Each sub-query becomes exactly one step. A step whose confidence falls
// below the floor is retried once with the original query; the better of the
// two attempts is kept. Faults while evaluating a step are recorded on the
// step with zero confidence. Only a dimension mismatch or cancellation
// aborts the run.
type ReasoningEngine struct {
	embedder        driven.EmbeddingService
	index           driven.VectorIndex
	topK            int
	confidenceFloor float64
	parallel        bool
	workers         int
}

// NewReasoningEngine creates a reasoning engine from settings.
func NewReasoningEngine(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	settings domain.ResearchSettings,
) *ReasoningEngine {
	return &ReasoningEngine{
		embedder:        embedder,
		index:           index,
		topK:            settings.TopK,
		confidenceFloor: settings.ConfidenceFloor,
		parallel:        settings.Parallel,
		workers:         settings.Workers,
	}
}

// Reason evaluates subQueries in order and returns one step per sub-query.
// query is the undecomposed query used for the broadened retry.
// Cancellation is checked between steps.
func (e *ReasoningEngine) Reason(ctx context.Context, query string, subQueries []string) ([]domain.ResearchStep, error) {
	if e.parallel && len(subQueries) > 1 {
		return e.reasonParallel(ctx, query, subQueries)
	}

	steps := make([]domain.ResearchStep, 0, len(subQueries))
	for i, subQuery := range subQueries {
		if err := ctx.Err(); err != nil {
			logger.Debug("Research cancelled after %d of %d steps", i, len(subQueries))
			return nil, err
		}

		step, err := e.evaluate(ctx, query, subQuery)
		if err != nil {
			return nil, err
		}
		logger.Debug("Step %d %q: %d results, confidence %.3f", i+1, subQuery, len(step.Results), step.Confidence)
		steps = append(steps, step)
	}
	return steps, nil
}

// reasonParallel evaluates sub-queries concurrently and reassembles the
// steps in sub-query order.
func (e *ReasoningEngine) reasonParallel(ctx context.Context, query string, subQueries []string) ([]domain.ResearchStep, error) {
	steps := make([]domain.ResearchStep, len(subQueries))

	g, gctx := errgroup.WithContext(ctx)
	if e.workers > 0 {
		g.SetLimit(e.workers)
	}
	for i, subQuery := range subQueries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			step, err := e.evaluate(gctx, query, subQuery)
			if err != nil {
				return err
			}
			steps[i] = step
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Debug("Evaluated %d sub-queries in parallel", len(steps))
	return steps, nil
}

// evaluate produces the step for one sub-query, applying the broadened retry.
func (e *ReasoningEngine) evaluate(ctx context.Context, query, subQuery string) (domain.ResearchStep, error) {
	step, err := e.attempt(ctx, subQuery)
	if err != nil {
		return domain.ResearchStep{}, err
	}

	// A faulted step is reported as is; only weak results are broadened.
	if step.Error != "" || step.Confidence >= e.confidenceFloor || sameQuery(query, subQuery) {
		return step, nil
	}

	logger.Debug("Confidence %.3f below floor %.3f for %q, retrying with original query",
		step.Confidence, e.confidenceFloor, subQuery)

	retry, err := e.attempt(ctx, query)
	if err != nil {
		return domain.ResearchStep{}, err
	}
	if retry.Confidence > step.Confidence {
		retry.SubQuery = subQuery
		retry.Broadened = true
		return retry, nil
	}
	return step, nil
}

// attempt embeds text and searches the index. Faults other than a dimension
// mismatch or cancellation are recorded on the returned step.
func (e *ReasoningEngine) attempt(ctx context.Context, text string) (step domain.ResearchStep, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if !ok {
				rerr = fmt.Errorf("%v", r)
			}
			if errors.Is(rerr, domain.ErrDimensionMismatch) {
				step, err = domain.ResearchStep{}, rerr
				return
			}
			step, err = faultedStep(text, fmt.Errorf("panic: %w", rerr)), nil
		}
	}()

	vec, err := e.embedder.Embed(ctx, text)
	if err != nil {
		if fatal(err) {
			return domain.ResearchStep{}, err
		}
		return faultedStep(text, fmt.Errorf("embed: %w", err)), nil
	}

	hits, err := e.index.Search(ctx, vec, e.topK)
	if err != nil {
		if fatal(err) {
			return domain.ResearchStep{}, fmt.Errorf("search: %w", err)
		}
		return faultedStep(text, fmt.Errorf("search: %w", err)), nil
	}

	results := make([]domain.QueryResult, len(hits))
	for i, hit := range hits {
		results[i] = domain.QueryResult{
			Chunk:          hit.Chunk,
			RelevanceScore: domain.Clamp01(hit.Similarity),
		}
	}

	return domain.ResearchStep{
		SubQuery:   text,
		Results:    results,
		Confidence: StepConfidence(results),
	}, nil
}

// StepConfidence scores results ordered best first. A single dominant match
// scores close to its relevance; runner-ups that nearly tie the top result
// pull the score down by up to half.
func StepConfidence(results []domain.QueryResult) float64 {
	if len(results) == 0 {
		return 0
	}
	top := results[0].RelevanceScore
	if top <= 0 {
		return 0
	}
	if len(results) == 1 {
		return domain.Clamp01(top)
	}

	var tied float64
	for _, r := range results[1:] {
		tied += domain.Clamp01(r.RelevanceScore / top)
	}
	tied /= float64(len(results) - 1)

	return domain.Clamp01(top * (1 - tiePenalty*tied))
}

func faultedStep(subQuery string, err error) domain.ResearchStep {
	logger.Warn("Step %q failed: %v", subQuery, err)
	return domain.ResearchStep{
		SubQuery:   subQuery,
		Results:    []domain.QueryResult{},
		Confidence: 0,
		Error:      err.Error(),
	}
}

// fatal reports errors that must abort the whole research call.
func fatal(err error) bool {
	return errors.Is(err, domain.ErrDimensionMismatch) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func sameQuery(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
