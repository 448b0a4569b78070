package driven

import "github.com/custodia-labs/sercha-research/internal/core/domain"

// ReportExporter renders a research report in a single format.
type ReportExporter interface {
	// Format returns the format this exporter produces.
	Format() domain.ReportFormat

	// Export renders the report.
	Export(report *domain.ResearchReport) (string, error)
}

// ExporterRegistry selects the exporter for a format.
type ExporterRegistry interface {
	// Get returns the exporter for format, or domain.ErrUnsupportedFormat.
	Get(format domain.ReportFormat) (ReportExporter, error)

	// Formats lists registered formats.
	Formats() []domain.ReportFormat
}
