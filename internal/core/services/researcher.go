package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-research/internal/logger"
)

// Ensure Researcher implements the interfaces.
var (
	_ driving.ResearchService = (*Researcher)(nil)
	_ driving.CorpusService   = (*Researcher)(nil)
)

// Researcher ingests documents and answers research queries over them.
// Ingestion is serialised; research calls may run concurrently with each
// other and hold no state between calls.
type Researcher struct {
	settings   domain.ResearchSettings
	pipeline   driven.PostProcessorPipeline
	embedder   driven.EmbeddingService
	index      driven.VectorIndex
	docStore   driven.DocumentStore
	exporters  driven.ExporterRegistry
	decomposer *QueryDecomposer
	reasoning  *ReasoningEngine
	synthesis  *SynthesisEngine

	writeMu sync.Mutex
}

// NewResearcher wires a researcher from its components.
// The embedder and index must agree on the vector dimension.
func NewResearcher(
	settings domain.ResearchSettings,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	docStore driven.DocumentStore,
	exporters driven.ExporterRegistry,
) (*Researcher, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if embedder.Dimensions() != index.Dimensions() {
		return nil, fmt.Errorf("%w: embedder produces %d dimensions, index expects %d",
			domain.ErrDimensionMismatch, embedder.Dimensions(), index.Dimensions())
	}

	return &Researcher{
		settings:   settings,
		pipeline:   pipeline,
		embedder:   embedder,
		index:      index,
		docStore:   docStore,
		exporters:  exporters,
		decomposer: NewQueryDecomposer(settings.MaxSubQueries),
		reasoning:  NewReasoningEngine(embedder, index, settings),
		synthesis:  NewSynthesisEngine(settings),
	}, nil
}

// Settings returns the settings the researcher was built with.
func (r *Researcher) Settings() domain.ResearchSettings {
	return r.settings
}

// AddDocuments chunks, embeds and indexes each document in turn.
func (r *Researcher) AddDocuments(ctx context.Context, docs []domain.Document) (*domain.IngestOutcome, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	logger.Section("Ingestion")
	logger.Debug("Documents: %d", len(docs))

	outcome := &domain.IngestOutcome{Results: make([]domain.IngestResult, 0, len(docs))}
	for i := range docs {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}

		doc := docs[i]
		chunks, err := r.ingest(ctx, &doc)
		if err != nil && fatal(err) {
			return outcome, fmt.Errorf("ingest %q: %w", doc.ID, err)
		}
		if err != nil {
			logger.Warn("Skipping document %q: %v", doc.ID, err)
		} else {
			logger.Debug("Indexed %q: %d chunks", doc.ID, chunks)
		}

		outcome.Results = append(outcome.Results, domain.IngestResult{
			DocumentID: doc.ID,
			Chunks:     chunks,
			Err:        err,
		})
	}

	logger.Info("Ingested %d of %d documents (%d chunks indexed)",
		outcome.Succeeded(), len(docs), r.index.Len())
	return outcome, nil
}

// ingest indexes one document and returns its chunk count. Nothing is
// stored unless every chunk was embedded.
func (r *Researcher) ingest(ctx context.Context, doc *domain.Document) (int, error) {
	if err := doc.Validate(); err != nil {
		return 0, err
	}

	exists, err := r.docStore.HasDocument(ctx, doc.ID)
	if err != nil {
		return 0, fmt.Errorf("check document: %w", err)
	}
	if exists {
		return 0, fmt.Errorf("%w: document %q already indexed", domain.ErrDuplicateID, doc.ID)
	}

	chunks, err := r.pipeline.Process(ctx, doc)
	if err != nil {
		return 0, fmt.Errorf("chunk: %w", err)
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = r.embeddingText(doc, &chunks[i])
	}

	vectors, err := r.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		if fatal(err) || errors.Is(err, domain.ErrEmbedding) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
	}

	if err := r.docStore.SaveDocument(ctx, doc); err != nil {
		return 0, err
	}
	if err := r.docStore.SaveChunks(ctx, doc.ID, chunks); err != nil {
		return 0, fmt.Errorf("save chunks: %w", err)
	}
	for i := range chunks {
		if err := r.index.Add(ctx, chunks[i], vectors[i]); err != nil {
			return i, fmt.Errorf("index chunk %s: %w", chunks[i].ID, err)
		}
	}
	return len(chunks), nil
}

func (r *Researcher) embeddingText(doc *domain.Document, chunk *domain.Chunk) string {
	if r.settings.EmbedTitles && strings.TrimSpace(doc.Title) != "" {
		return doc.Title + "\n" + chunk.Content
	}
	return chunk.Content
}

// Research decomposes query, gathers evidence for each sub-query and
// synthesises a report.
func (r *Researcher) Research(ctx context.Context, query string) (*domain.ResearchReport, error) {
	logger.Section("Research")
	logger.Debug("Query: %q", query)

	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrValidation)
	}

	report := &domain.ResearchReport{
		ID:          uuid.NewString(),
		Query:       query,
		Steps:       []domain.ResearchStep{},
		SourcesUsed: []string{},
		CreatedAt:   time.Now().UTC(),
	}

	if r.index.Len() == 0 {
		logger.Info("Corpus is empty, returning zero-confidence report")
		report.Synthesis = NoEvidenceText
		return report, nil
	}

	subQueries := r.decomposer.Decompose(query)
	logger.Debug("Sub-queries: %q", subQueries)

	steps, err := r.reasoning.Reason(ctx, query, subQueries)
	if err != nil {
		return nil, fmt.Errorf("research: %w", err)
	}

	synthesis := r.synthesis.Synthesize(steps)
	report.Steps = steps
	report.Synthesis = synthesis.Text
	report.ConfidenceScore = synthesis.Confidence
	report.SourcesUsed = synthesis.Sources

	logger.Info("Research complete: %d steps, confidence %.3f, %d sources",
		len(steps), report.ConfidenceScore, len(report.SourcesUsed))
	return report, nil
}

// ExportReport renders a report in the named format.
func (r *Researcher) ExportReport(report *domain.ResearchReport, format string) (string, error) {
	if report == nil {
		return "", fmt.Errorf("%w: report is nil", domain.ErrValidation)
	}
	f, err := domain.ParseReportFormat(format)
	if err != nil {
		return "", err
	}
	if r.exporters == nil {
		return "", fmt.Errorf("%w: no exporters configured", domain.ErrUnsupportedFormat)
	}
	exporter, err := r.exporters.Get(f)
	if err != nil {
		return "", err
	}
	return exporter.Export(report)
}

// Documents returns ingested documents in ingestion order.
func (r *Researcher) Documents(ctx context.Context) ([]domain.Document, error) {
	return r.docStore.ListDocuments(ctx)
}

// Stats returns document and chunk counts.
func (r *Researcher) Stats(ctx context.Context) (driving.CorpusStats, error) {
	docs, err := r.docStore.ListDocuments(ctx)
	if err != nil {
		return driving.CorpusStats{}, err
	}
	return driving.CorpusStats{
		Documents:  len(docs),
		Chunks:     r.index.Len(),
		Dimensions: r.index.Dimensions(),
	}, nil
}
