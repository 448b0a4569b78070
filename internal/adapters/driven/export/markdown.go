package export

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driven"
)

// Ensure MarkdownExporter implements the interface.
var _ driven.ReportExporter = (*MarkdownExporter)(nil)

// snippetChars bounds result excerpts in human-readable formats.
const snippetChars = 160

// MarkdownExporter renders reports as a Markdown document.
type MarkdownExporter struct{}

// NewMarkdownExporter creates a Markdown exporter.
func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{}
}

// Format returns domain.ReportFormatMarkdown.
func (e *MarkdownExporter) Format() domain.ReportFormat {
	return domain.ReportFormatMarkdown
}

// Export renders the report.
func (e *MarkdownExporter) Export(report *domain.ResearchReport) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# Research Report: %s\n\n", report.Query)
	fmt.Fprintf(&b, "**Confidence:** %.2f\n\n", report.ConfidenceScore)
	if !report.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "**Created:** %s\n\n", report.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	}

	b.WriteString("## Synthesis\n\n")
	b.WriteString(report.Synthesis)
	b.WriteString("\n\n")

	if len(report.Steps) > 0 {
		b.WriteString("## Research Steps\n\n")
		for i, step := range report.Steps {
			fmt.Fprintf(&b, "### %d. %s\n\n", i+1, step.SubQuery)
			fmt.Fprintf(&b, "- Confidence: %.2f\n", step.Confidence)
			if step.Broadened {
				b.WriteString("- Broadened to the original query\n")
			}
			if step.Error != "" {
				fmt.Fprintf(&b, "- Error: %s\n", step.Error)
			}
			for _, r := range step.Results {
				fmt.Fprintf(&b, "- `%s` (%.2f): %s\n",
					r.Chunk.DocumentID, r.RelevanceScore, excerpt(r.Chunk.Content, snippetChars))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("## Sources\n\n")
	if len(report.SourcesUsed) == 0 {
		b.WriteString("_None_\n")
	}
	for _, src := range report.SourcesUsed {
		fmt.Fprintf(&b, "- %s\n", src)
	}

	return b.String(), nil
}

// excerpt collapses whitespace and truncates to maxChars runes.
func excerpt(text string, maxChars int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars]) + "..."
}
