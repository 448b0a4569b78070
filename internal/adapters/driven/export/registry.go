package export

import (
	"fmt"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExporterRegistry = (*Registry)(nil)

// Registry maps report formats to exporters.
type Registry struct {
	exporters map[domain.ReportFormat]driven.ReportExporter
}

// NewRegistry creates a registry holding the given exporters.
func NewRegistry(exporters ...driven.ReportExporter) *Registry {
	r := &Registry{exporters: make(map[domain.ReportFormat]driven.ReportExporter)}
	for _, e := range exporters {
		r.Register(e)
	}
	return r
}

// NewDefaultRegistry creates a registry with every built-in format.
func NewDefaultRegistry() *Registry {
	return NewRegistry(
		NewJSONExporter(),
		NewMarkdownExporter(),
		NewYAMLExporter(),
		NewTextExporter(),
	)
}

// Register adds or replaces the exporter for its format.
func (r *Registry) Register(e driven.ReportExporter) {
	r.exporters[e.Format()] = e
}

// Get returns the exporter for format.
func (r *Registry) Get(format domain.ReportFormat) (driven.ReportExporter, error) {
	e, ok := r.exporters[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
	return e, nil
}

// Formats lists registered formats in canonical order.
func (r *Registry) Formats() []domain.ReportFormat {
	var formats []domain.ReportFormat
	for _, f := range domain.AllReportFormats() {
		if _, ok := r.exporters[f]; ok {
			formats = append(formats, f)
		}
	}
	return formats
}
