// Package postprocessors turns corpus documents into indexable chunks.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-research/internal/logger"
)

var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline runs a document through an ordered list of stages. The first
// stage receives no chunks and produces them; later stages rewrite them.
type Pipeline struct {
	stages []driven.PostProcessor
}

// NewPipeline creates a pipeline running stages in the given order.
func NewPipeline(stages ...driven.PostProcessor) *Pipeline {
	return &Pipeline{stages: stages}
}

// Process chunks doc. The returned chunks all belong to doc and are numbered
// by their final order, whatever the stages left in ID and Position.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrValidation)
	}

	var chunks []domain.Chunk
	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		chunks, err = stage.Process(ctx, doc, chunks)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
		logger.Debug("%s: %s left %d chunks", doc.ID, stage.Name(), len(chunks))
	}

	return settle(doc.ID, chunks)
}

// settle claims unowned chunks for documentID and renumbers them.
func settle(documentID string, chunks []domain.Chunk) ([]domain.Chunk, error) {
	for i := range chunks {
		c := &chunks[i]
		switch c.DocumentID {
		case "":
			c.DocumentID = documentID
		case documentID:
		default:
			return nil, fmt.Errorf("%w: chunk %d belongs to %q, not %q",
				domain.ErrValidation, i, c.DocumentID, documentID)
		}
		c.Position = i
		c.ID = domain.ChunkID(documentID, i)
	}
	return chunks, nil
}

// Add appends a stage.
func (p *Pipeline) Add(stage driven.PostProcessor) {
	p.stages = append(p.stages, stage)
}

// Len returns the number of stages.
func (p *Pipeline) Len() int {
	return len(p.stages)
}
