// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for research to function:
//
//   - EmbeddingService: Maps text to fixed-length vectors, locally
//   - VectorIndex: Stores chunk vectors and answers top-k similarity queries
//   - PostProcessorPipeline: Splits documents into chunks
//   - DocumentStore: Keeps ingested documents for listing and lookup
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ReportExporter: Renders reports; without a registry only the core runs
//   - ReportStore: Archives reports (SQLite). Without it, history is disabled.
//   - ConfigStore: Application configuration; defaults apply without it.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package driven
