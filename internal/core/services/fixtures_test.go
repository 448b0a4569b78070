package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-research/internal/adapters/driven/embedding/local"
	"github.com/custodia-labs/sercha-research/internal/adapters/driven/export"
	"github.com/custodia-labs/sercha-research/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-research/internal/postprocessors"
)

// --- Fixtures ---

const (
	aiOverviewContent = "Artificial intelligence (AI) is intelligence demonstrated by machines, " +
		"as opposed to natural intelligence displayed by animals and humans. " +
		"Machine learning is a subset of artificial intelligence that enables systems to learn from data. " +
		"Deep learning uses neural networks with many layers."

	climateChangeContent = "Climate change refers to long-term shifts in temperatures and weather patterns. " +
		"Human activities have been the main driver of climate change since the 1800s, " +
		"primarily due to burning fossil fuels like coal, oil and gas. " +
		"Rising sea levels and extreme weather threaten ecosystems."
)

func testCorpus() []domain.Document {
	return []domain.Document{
		{
			ID:       "ai_overview",
			Title:    "Artificial Intelligence Overview",
			Content:  aiOverviewContent,
			Metadata: map[string]any{"category": "technology"},
		},
		{
			ID:       "climate_change",
			Title:    "Climate Change",
			Content:  climateChangeContent,
			Metadata: map[string]any{"category": "environment"},
		},
	}
}

// newTestResearcher builds a researcher from real in-memory components.
func newTestResearcher(t *testing.T, settings domain.ResearchSettings) *Researcher {
	t.Helper()
	embedder := local.NewEmbeddingService(local.Config{Dimensions: settings.Dimension, Workers: settings.Workers})
	return newResearcherWith(t, settings, embedder)
}

func testPipeline(t *testing.T, settings domain.ResearchSettings) *postprocessors.Pipeline {
	t.Helper()
	pipeline, err := postprocessors.ConfiguredPipeline(settings, nil)
	require.NoError(t, err)
	return pipeline
}

func newResearcherWith(t *testing.T, settings domain.ResearchSettings, embedder driven.EmbeddingService) *Researcher {
	t.Helper()
	r, err := NewResearcher(
		settings,
		testPipeline(t, settings),
		embedder,
		memory.NewVectorIndex(settings.Dimension),
		memory.NewDocumentStore(),
		export.NewDefaultRegistry(),
	)
	require.NoError(t, err)
	return r
}

func newLoadedResearcher(t *testing.T) *Researcher {
	t.Helper()
	r := newTestResearcher(t, domain.DefaultResearchSettings())
	outcome, err := r.AddDocuments(context.Background(), testCorpus())
	require.NoError(t, err)
	require.Equal(t, 2, outcome.Succeeded())
	return r
}

// --- Mock implementations ---

// faultyEmbedder wraps an embedder and fails or panics on trigger words.
type faultyEmbedder struct {
	driven.EmbeddingService
	failOn  string
	panicOn string
}

var errInjected = errors.New("injected failure")

func (f *faultyEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.panicOn != "" && strings.Contains(text, f.panicOn) {
		panic("injected panic")
	}
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return nil, errInjected
	}
	return f.EmbeddingService.Embed(ctx, text)
}

// mapEmbedder returns fixed vectors keyed by text.
type mapEmbedder struct {
	dims    int
	vectors map[string][]float32
	err     error
}

func (m *mapEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return make([]float32, m.dims), nil
}

func (m *mapEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mapEmbedder) Dimensions() int {
	return m.dims
}

func (m *mapEmbedder) ModelName() string {
	return "map"
}

// mockResearchService implements driving.ResearchService for testing.
type mockResearchService struct {
	mu      sync.Mutex
	queries []string
	reports map[string]*domain.ResearchReport
	errs    map[string]error
	panics  map[string]bool
}

func (m *mockResearchService) AddDocuments(_ context.Context, _ []domain.Document) (*domain.IngestOutcome, error) {
	return &domain.IngestOutcome{}, nil
}

func (m *mockResearchService) Research(_ context.Context, query string) (*domain.ResearchReport, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.panics[query] {
		panic("research exploded")
	}
	if err := m.errs[query]; err != nil {
		return nil, err
	}
	if report, ok := m.reports[query]; ok {
		return report, nil
	}
	return &domain.ResearchReport{Query: query, Steps: []domain.ResearchStep{}, SourcesUsed: []string{}}, nil
}

func (m *mockResearchService) ExportReport(_ *domain.ResearchReport, _ string) (string, error) {
	return "", nil
}

func (m *mockResearchService) recorded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

func step(subQuery string, confidence float64, results ...domain.QueryResult) domain.ResearchStep {
	return domain.ResearchStep{SubQuery: subQuery, Results: results, Confidence: confidence}
}

func result(docID, content string, score float64) domain.QueryResult {
	return domain.QueryResult{
		Chunk:          domain.Chunk{ID: docID + "#0", DocumentID: docID, Content: content},
		RelevanceScore: score,
	}
}
