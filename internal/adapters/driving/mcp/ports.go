package mcp

import (
	"github.com/custodia-labs/sercha-research/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Research runs queries and ingests documents.
	Research driving.ResearchService

	// Corpus lists indexed documents.
	Corpus driving.CorpusService

	// History archives reports produced through the server.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Research == nil {
		return ErrMissingResearchService
	}
	// Corpus and History are optional
	return nil
}
