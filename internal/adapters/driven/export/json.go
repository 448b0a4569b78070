package export

import (
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driven"
)

// Ensure JSONExporter implements the interface.
var _ driven.ReportExporter = (*JSONExporter)(nil)

// JSONExporter renders reports as indented JSON.
type JSONExporter struct{}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Format returns domain.ReportFormatJSON.
func (e *JSONExporter) Format() domain.ReportFormat {
	return domain.ReportFormatJSON
}

// Export renders the report.
func (e *JSONExporter) Export(report *domain.ResearchReport) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data), nil
}
