// Package mcp provides an MCP (Model Context Protocol) server adapter for sercha-research.
// It lets AI assistants run research against the local corpus and feed it documents.
package mcp

import "errors"

// ErrMissingResearchService is returned when the research service is not provided.
var ErrMissingResearchService = errors.New("mcp: research service is required")
