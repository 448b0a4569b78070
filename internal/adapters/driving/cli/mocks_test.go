package cli

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driving"
)

// mockResearchService is a mock implementation of driving.ResearchService.
type mockResearchService struct {
	mu      sync.Mutex
	added   []domain.Document
	queries []string
	err     error
}

func (m *mockResearchService) AddDocuments(_ context.Context, docs []domain.Document) (*domain.IngestOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	outcome := &domain.IngestOutcome{}
	for _, d := range docs {
		m.added = append(m.added, d)
		outcome.Results = append(outcome.Results, domain.IngestResult{DocumentID: d.ID, Chunks: 1})
	}
	return outcome, nil
}

func (m *mockResearchService) Research(_ context.Context, query string) (*domain.ResearchReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	return sampleReport(query), nil
}

func (m *mockResearchService) ExportReport(report *domain.ResearchReport, format string) (string, error) {
	switch format {
	case "text":
		return report.Synthesis + "\n", nil
	case "markdown", "md":
		return "# Research Report: " + report.Query + "\n", nil
	case "json":
		return fmt.Sprintf("{\"query\": %q}\n", report.Query), nil
	}
	return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
}

func (m *mockResearchService) addedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.added))
	for _, d := range m.added {
		ids = append(ids, d.ID)
	}
	return ids
}

func sampleReport(query string) *domain.ResearchReport {
	return &domain.ResearchReport{
		ID:              "report-" + query,
		Query:           query,
		Synthesis:       "Findings for " + query,
		ConfidenceScore: 0.42,
		SourcesUsed:     []string{"ai_overview"},
		Steps:           []domain.ResearchStep{{SubQuery: query, Confidence: 0.42}},
		CreatedAt:       time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
	}
}

// mockCorpusService is a mock implementation of driving.CorpusService.
type mockCorpusService struct {
	docs []domain.Document
}

func (m *mockCorpusService) Documents(_ context.Context) ([]domain.Document, error) {
	return m.docs, nil
}

func (m *mockCorpusService) Stats(_ context.Context) (driving.CorpusStats, error) {
	return driving.CorpusStats{Documents: len(m.docs), Chunks: 3 * len(m.docs), Dimensions: 512}, nil
}

// mockBatchService fails the queries listed in failing.
type mockBatchService struct {
	failing map[string]bool
	got     []string
}

func (m *mockBatchService) Run(_ context.Context, queries []string) (*domain.BatchOutcome, error) {
	m.got = queries
	outcome := &domain.BatchOutcome{}
	for _, q := range queries {
		if m.failing[q] {
			outcome.Items = append(outcome.Items, domain.BatchItem{Query: q, Err: domain.ErrValidation})
			continue
		}
		outcome.Items = append(outcome.Items, domain.BatchItem{Query: q, Report: sampleReport(q)})
	}
	return outcome, nil
}

// mockQualityService grades every report medium.
type mockQualityService struct{}

func (m *mockQualityService) Assess(report *domain.ResearchReport) domain.QualityAssessment {
	return domain.QualityAssessment{
		Steps:            len(report.Steps),
		EvidenceCoverage: 1,
		SourceDiversity:  len(report.SourcesUsed),
		MeanTopRelevance: report.ConfidenceScore,
		WeakSubQueries:   []string{"weak one"},
		Grade:            domain.QualityMedium,
	}
}

// mockHistoryService is an in-memory report archive.
type mockHistoryService struct {
	reports map[string]*domain.ResearchReport
}

func newMockHistoryService() *mockHistoryService {
	return &mockHistoryService{reports: make(map[string]*domain.ResearchReport)}
}

func (m *mockHistoryService) Save(_ context.Context, report *domain.ResearchReport) error {
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

func (m *mockHistoryService) List(_ context.Context, limit int) ([]domain.ReportSummary, error) {
	summaries := make([]domain.ReportSummary, 0, len(m.reports))
	for _, r := range m.reports {
		summaries = append(summaries, domain.ReportSummary{
			ID:              r.ID,
			Query:           r.Query,
			ConfidenceScore: r.ConfidenceScore,
			Sources:         len(r.SourcesUsed),
			CreatedAt:       r.CreatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

func (m *mockHistoryService) Delete(_ context.Context, id string) error {
	if _, ok := m.reports[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.reports, id)
	return nil
}

// mockSessionService is a minimal driving.SessionService.
type mockSessionService struct{}

func (m *mockSessionService) Start(_ context.Context, query string) (*domain.ResearchReport, error) {
	return sampleReport(query), nil
}

func (m *mockSessionService) Ask(_ context.Context, followup string) (*domain.ResearchReport, error) {
	return sampleReport(followup), nil
}

func (m *mockSessionService) History() []*domain.ResearchReport { return nil }

func (m *mockSessionService) Reset() {}

// testServices bundles the mocks behind the installed services.
type testServices struct {
	research *mockResearchService
	corpus   *mockCorpusService
	batch    *mockBatchService
	history  *mockHistoryService
	*Services
}

// setupTestServices installs mock services and returns them with a cleanup func.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		research: &mockResearchService{},
		corpus: &mockCorpusService{docs: []domain.Document{
			{ID: "ai_overview", Title: "Artificial Intelligence Overview", Metadata: map[string]any{"source": "sample"}},
			{ID: "notes", Content: "untitled"},
		}},
		batch:   &mockBatchService{},
		history: newMockHistoryService(),
	}
	ts.Services = &Services{
		Research:   ts.research,
		Corpus:     ts.corpus,
		Batch:      ts.batch,
		Quality:    &mockQualityService{},
		History:    ts.history,
		NewSession: func() driving.SessionService { return &mockSessionService{} },
		Settings:   domain.DefaultResearchSettings(),
	}
	SetServices(ts.Services)

	return ts, func() {
		SetServices(nil)
		SetBuilder(nil)
		resetFlags()
	}
}

// resetFlags restores every flag variable to its default.
func resetFlags() {
	verbose = false
	configPath = ""
	corpusDir = ""
	useSamples = false

	researchFormat = string(domain.ReportFormatText)
	researchOutput = ""
	researchSave = false
	researchQuality = false
	researchTimings = false

	batchFile = ""
	batchFormat = ""
	batchSave = false

	historyLimit = 20
	historyFormat = string(domain.ReportFormatText)

	servePort = 0
	serveWatch = false
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
