package export

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driven"
)

// Ensure YAMLExporter implements the interface.
var _ driven.ReportExporter = (*YAMLExporter)(nil)

// YAMLExporter renders reports as YAML.
type YAMLExporter struct{}

// NewYAMLExporter creates a YAML exporter.
func NewYAMLExporter() *YAMLExporter {
	return &YAMLExporter{}
}

// Format returns domain.ReportFormatYAML.
func (e *YAMLExporter) Format() domain.ReportFormat {
	return domain.ReportFormatYAML
}

// Export renders the report.
func (e *YAMLExporter) Export(report *domain.ResearchReport) (string, error) {
	data, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data), nil
}
