// Package domain defines the core business entities for Sercha Research.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A caller-supplied text with metadata
//   - Chunk: A retrievable window within a document
//   - QueryResult: A chunk matched against a query with a relevance score
//   - ResearchStep: The evidence gathered for one sub-query
//   - ResearchReport: The synthesised outcome of a research call
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
