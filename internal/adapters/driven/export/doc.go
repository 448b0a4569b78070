// Package export renders research reports as JSON, Markdown, YAML or plain
// text. The set of formats is closed; Registry resolves a format to its
// exporter.
package export
