package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/custodia-labs/sercha-research/internal/adapters/driven/embedding/local"
	"github.com/custodia-labs/sercha-research/internal/adapters/driven/export"
	"github.com/custodia-labs/sercha-research/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-research/internal/postprocessors"
)

// TestFeatures runs the Gherkin scenarios under features/.
func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "research",
		ScenarioInitializer: initializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

// researchWorld holds the state of one scenario.
type researchWorld struct {
	researcher *Researcher
	report     *domain.ResearchReport
	exported   string
	exportErr  error
	ingest     *domain.IngestOutcome
	batch      *domain.BatchOutcome
}

func initializeScenario(sc *godog.ScenarioContext) {
	w := &researchWorld{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		*w = researchWorld{}
		return ctx, nil
	})

	sc.Step(`^a researcher loaded with the sample corpus$`, w.loadedResearcher)
	sc.Step(`^an empty researcher$`, w.emptyResearcher)
	sc.Step(`^a researcher whose embedder fails on "([^"]*)"$`, w.faultyResearcher)
	sc.Step(`^I research "([^"]*)"$`, w.research)
	sc.Step(`^I export the report as "([^"]*)"$`, w.exportReport)
	sc.Step(`^I ingest the sample corpus again$`, w.ingestAgain)
	sc.Step(`^I run the batch:$`, w.runBatch)
	sc.Step(`^the sources include "([^"]*)"$`, w.sourcesInclude)
	sc.Step(`^the sources do not include "([^"]*)"$`, w.sourcesExclude)
	sc.Step(`^the confidence is greater than 0$`, w.confidencePositive)
	sc.Step(`^the confidence is 0$`, w.confidenceZero)
	sc.Step(`^no sources are used$`, w.noSources)
	sc.Step(`^the synthesis says no evidence was available$`, w.noEvidence)
	sc.Step(`^the parsed export has the same confidence and sources$`, w.exportRoundTrips)
	sc.Step(`^the export fails as an unsupported format$`, w.exportUnsupported)
	sc.Step(`^every document fails as a duplicate$`, w.allDuplicates)
	sc.Step(`^(\d+) reports are returned$`, w.reportsReturned)
	sc.Step(`^the report for "([^"]*)" has a failed step$`, w.reportHasFailedStep)
	sc.Step(`^the other (\d+) reports have no failed steps$`, w.othersClean)
	sc.Step(`^decomposing "([^"]*)" yields between (\d+) and (\d+) sub-queries$`, w.decompositionBounded)
}

// build creates a researcher over fresh stores. A non-empty failOn makes the
// embedder fail for texts containing it.
func (w *researchWorld) build(failOn string) error {
	settings := domain.DefaultResearchSettings()

	var embedder driven.EmbeddingService = local.NewEmbeddingService(local.Config{Dimensions: settings.Dimension})
	if failOn != "" {
		embedder = &faultyEmbedder{EmbeddingService: embedder, failOn: failOn}
	}

	pipeline, err := postprocessors.ConfiguredPipeline(settings, nil)
	if err != nil {
		return err
	}
	r, err := NewResearcher(settings, pipeline, embedder,
		memory.NewVectorIndex(settings.Dimension), memory.NewDocumentStore(), export.NewDefaultRegistry())
	if err != nil {
		return err
	}
	w.researcher = r
	return nil
}

func (w *researchWorld) loadedResearcher(ctx context.Context) error {
	if err := w.build(""); err != nil {
		return err
	}
	return w.ingestCorpus(ctx)
}

func (w *researchWorld) ingestCorpus(ctx context.Context) error {
	outcome, err := w.researcher.AddDocuments(ctx, testCorpus())
	if err != nil {
		return err
	}
	if outcome.Succeeded() != 2 {
		return fmt.Errorf("expected 2 documents ingested, got %d", outcome.Succeeded())
	}
	return nil
}

func (w *researchWorld) emptyResearcher() error {
	return w.build("")
}

func (w *researchWorld) faultyResearcher(ctx context.Context, trigger string) error {
	if err := w.build(trigger); err != nil {
		return err
	}
	return w.ingestCorpus(ctx)
}

func (w *researchWorld) research(ctx context.Context, query string) error {
	report, err := w.researcher.Research(ctx, query)
	if err != nil {
		return err
	}
	w.report = report
	return nil
}

func (w *researchWorld) exportReport(format string) error {
	w.exported, w.exportErr = w.researcher.ExportReport(w.report, format)
	return nil
}

func (w *researchWorld) ingestAgain(ctx context.Context) error {
	outcome, err := w.researcher.AddDocuments(ctx, testCorpus())
	if err != nil {
		return err
	}
	w.ingest = outcome
	return nil
}

func (w *researchWorld) runBatch(ctx context.Context, table *godog.Table) error {
	var queries []string
	for _, row := range table.Rows[1:] {
		queries = append(queries, row.Cells[0].Value)
	}
	outcome, err := NewBatchProcessor(w.researcher, 2).Run(ctx, queries)
	if err != nil {
		return err
	}
	w.batch = outcome
	return nil
}

func (w *researchWorld) sourcesInclude(id string) error {
	for _, s := range w.report.SourcesUsed {
		if s == id {
			return nil
		}
	}
	return fmt.Errorf("sources %v do not include %q", w.report.SourcesUsed, id)
}

func (w *researchWorld) sourcesExclude(id string) error {
	if err := w.sourcesInclude(id); err == nil {
		return fmt.Errorf("sources %v unexpectedly include %q", w.report.SourcesUsed, id)
	}
	return nil
}

func (w *researchWorld) confidencePositive() error {
	if w.report.ConfidenceScore <= 0 || w.report.ConfidenceScore > 1 {
		return fmt.Errorf("confidence %g not in (0,1]", w.report.ConfidenceScore)
	}
	return nil
}

func (w *researchWorld) confidenceZero() error {
	if w.report.ConfidenceScore != 0 {
		return fmt.Errorf("expected confidence 0, got %g", w.report.ConfidenceScore)
	}
	return nil
}

func (w *researchWorld) noSources() error {
	if len(w.report.SourcesUsed) != 0 {
		return fmt.Errorf("expected no sources, got %v", w.report.SourcesUsed)
	}
	return nil
}

func (w *researchWorld) noEvidence() error {
	if !strings.Contains(strings.ToLower(w.report.Synthesis), "no evidence") {
		return fmt.Errorf("synthesis %q does not report missing evidence", w.report.Synthesis)
	}
	return nil
}

func (w *researchWorld) exportRoundTrips() error {
	if w.exportErr != nil {
		return w.exportErr
	}
	var parsed domain.ResearchReport
	if err := json.Unmarshal([]byte(w.exported), &parsed); err != nil {
		return err
	}
	if parsed.ConfidenceScore != w.report.ConfidenceScore {
		return fmt.Errorf("confidence %g != %g", parsed.ConfidenceScore, w.report.ConfidenceScore)
	}
	if strings.Join(parsed.SourcesUsed, ",") != strings.Join(w.report.SourcesUsed, ",") {
		return fmt.Errorf("sources %v != %v", parsed.SourcesUsed, w.report.SourcesUsed)
	}
	return nil
}

func (w *researchWorld) exportUnsupported() error {
	if !errors.Is(w.exportErr, domain.ErrUnsupportedFormat) {
		return fmt.Errorf("expected unsupported format error, got %v", w.exportErr)
	}
	return nil
}

func (w *researchWorld) allDuplicates() error {
	for _, r := range w.ingest.Results {
		if !errors.Is(r.Err, domain.ErrDuplicateID) {
			return fmt.Errorf("document %q: expected duplicate error, got %v", r.DocumentID, r.Err)
		}
	}
	return nil
}

func (w *researchWorld) reportsReturned(n int) error {
	if got := w.batch.Succeeded(); got != n {
		return fmt.Errorf("expected %d reports, got %d", n, got)
	}
	return nil
}

func (w *researchWorld) itemFor(query string) (domain.BatchItem, error) {
	for _, item := range w.batch.Items {
		if item.Query == query {
			return item, nil
		}
	}
	return domain.BatchItem{}, fmt.Errorf("no batch item for %q", query)
}

func (w *researchWorld) reportHasFailedStep(query string) error {
	item, err := w.itemFor(query)
	if err != nil {
		return err
	}
	for _, s := range item.Report.Steps {
		if s.Error != "" && s.Confidence == 0 {
			return nil
		}
	}
	return fmt.Errorf("report for %q has no failed step", query)
}

func (w *researchWorld) othersClean(n int) error {
	clean := 0
	for _, item := range w.batch.Items {
		if !item.OK() {
			continue
		}
		failed := len(item.Report.Steps) == 0
		for _, s := range item.Report.Steps {
			if s.Error != "" {
				failed = true
			}
		}
		if !failed {
			clean++
		}
	}
	if clean != n {
		return fmt.Errorf("expected %d complete reports, got %d", n, clean)
	}
	return nil
}

func (w *researchWorld) decompositionBounded(query string, lo, hi int) error {
	n := len(NewQueryDecomposer(domain.DefaultMaxSubQueries).Decompose(query))
	if n < lo || n > hi {
		return fmt.Errorf("decomposing %q gave %d sub-queries", query, n)
	}
	return nil
}
