package domain

import (
	"fmt"
	"strings"
)

// ReportFormat names a report serialisation.
type ReportFormat string

// Supported report formats.
const (
	// ReportFormatJSON renders the report as indented JSON.
	ReportFormatJSON ReportFormat = "json"

	// ReportFormatMarkdown renders the report as a Markdown document.
	ReportFormatMarkdown ReportFormat = "markdown"

	// ReportFormatYAML renders the report as YAML.
	ReportFormatYAML ReportFormat = "yaml"

	// ReportFormatText renders the report as plain text.
	ReportFormatText ReportFormat = "text"
)

// ParseReportFormat resolves a format name, accepting common aliases.
func ParseReportFormat(name string) (ReportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return ReportFormatJSON, nil
	case "markdown", "md":
		return ReportFormatMarkdown, nil
	case "yaml", "yml":
		return ReportFormatYAML, nil
	case "text", "txt", "plain":
		return ReportFormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// String returns the string representation.
func (f ReportFormat) String() string {
	return string(f)
}

// AllReportFormats returns the closed set of supported formats.
func AllReportFormats() []ReportFormat {
	return []ReportFormat{
		ReportFormatJSON,
		ReportFormatMarkdown,
		ReportFormatYAML,
		ReportFormatText,
	}
}
