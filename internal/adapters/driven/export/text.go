package export

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driven"
)

// Ensure TextExporter implements the interface.
var _ driven.ReportExporter = (*TextExporter)(nil)

// TextExporter renders reports as plain text for terminals.
type TextExporter struct{}

// NewTextExporter creates a plain text exporter.
func NewTextExporter() *TextExporter {
	return &TextExporter{}
}

// Format returns domain.ReportFormatText.
func (e *TextExporter) Format() domain.ReportFormat {
	return domain.ReportFormatText
}

// Export renders the report.
func (e *TextExporter) Export(report *domain.ResearchReport) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Query: %s\n", report.Query)
	fmt.Fprintf(&b, "Confidence: %.2f\n", report.ConfidenceScore)
	fmt.Fprintf(&b, "Sources: %s\n\n", sourcesLine(report.SourcesUsed))

	b.WriteString("Synthesis:\n")
	b.WriteString(report.Synthesis)
	b.WriteString("\n")

	for i, step := range report.Steps {
		fmt.Fprintf(&b, "\nStep %d: %s (confidence %.2f)\n", i+1, step.SubQuery, step.Confidence)
		if step.Error != "" {
			fmt.Fprintf(&b, "  error: %s\n", step.Error)
		}
		for _, r := range step.Results {
			fmt.Fprintf(&b, "  [%.2f] %s: %s\n", r.RelevanceScore, r.Chunk.DocumentID, excerpt(r.Chunk.Content, snippetChars))
		}
	}

	return b.String(), nil
}

func sourcesLine(sources []string) string {
	if len(sources) == 0 {
		return "none"
	}
	return strings.Join(sources, ", ")
}
