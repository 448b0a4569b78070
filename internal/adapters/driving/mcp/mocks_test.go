package mcp

import (
	"context"
	"errors"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driving"
)

// mockResearchService is a mock implementation of driving.ResearchService.
type mockResearchService struct {
	report    *domain.ResearchReport
	err       error
	outcome   *domain.IngestOutcome
	ingestErr error
	added     []domain.Document
	queries   []string
}

func (m *mockResearchService) AddDocuments(_ context.Context, docs []domain.Document) (*domain.IngestOutcome, error) {
	m.added = append(m.added, docs...)
	if m.ingestErr != nil {
		return nil, m.ingestErr
	}
	if m.outcome != nil {
		return m.outcome, nil
	}
	outcome := &domain.IngestOutcome{}
	for _, d := range docs {
		outcome.Results = append(outcome.Results, domain.IngestResult{DocumentID: d.ID, Chunks: 1})
	}
	return outcome, nil
}

func (m *mockResearchService) Research(_ context.Context, query string) (*domain.ResearchReport, error) {
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

func (m *mockResearchService) ExportReport(report *domain.ResearchReport, format string) (string, error) {
	switch format {
	case "markdown", "json":
		return format + ":" + report.Query, nil
	default:
		return "", domain.ErrUnsupportedFormat
	}
}

// mockCorpusService is a mock implementation of driving.CorpusService.
type mockCorpusService struct {
	documents []domain.Document
	err       error
}

func (m *mockCorpusService) Documents(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockCorpusService) Stats(_ context.Context) (driving.CorpusStats, error) {
	return driving.CorpusStats{Documents: len(m.documents)}, m.err
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	reports map[string]*domain.ResearchReport
	saveErr error
}

func newMockHistoryService() *mockHistoryService {
	return &mockHistoryService{reports: make(map[string]*domain.ResearchReport)}
}

func (m *mockHistoryService) Save(_ context.Context, report *domain.ResearchReport) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.reports[report.ID] = report
	return nil
}

func (m *mockHistoryService) Get(_ context.Context, id string) (*domain.ResearchReport, error) {
	r, ok := m.reports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (m *mockHistoryService) List(_ context.Context, _ int) ([]domain.ReportSummary, error) {
	out := []domain.ReportSummary{}
	for _, r := range m.reports {
		out = append(out, domain.ReportSummary{ID: r.ID, Query: r.Query})
	}
	return out, nil
}

func (m *mockHistoryService) Delete(_ context.Context, id string) error {
	if _, ok := m.reports[id]; !ok {
		return errors.New("missing")
	}
	delete(m.reports, id)
	return nil
}

func sampleReport() *domain.ResearchReport {
	return &domain.ResearchReport{
		ID:    "report-1",
		Query: "What is AI?",
		Steps: []domain.ResearchStep{{
			SubQuery: "What is AI?",
			Results: []domain.QueryResult{
				{Chunk: domain.Chunk{ID: "ai#0", DocumentID: "ai_overview", Content: "AI is ..."}, RelevanceScore: 0.8},
				{Chunk: domain.Chunk{ID: "cc#0", DocumentID: "climate_change", Content: "Climate ..."}, RelevanceScore: 0.1},
			},
			Confidence: 0.75,
		}},
		Synthesis:       "AI is ...",
		ConfidenceScore: 0.75,
		SourcesUsed:     []string{"ai_overview"},
	}
}
