// Package services implements the driving port interfaces.
// Services contain the research pipeline: query decomposition, multi-step
// retrieval with confidence scoring, synthesis, and the Researcher that
// composes them. Session, BatchProcessor and QualityAnalyzer build on the
// Researcher without holding state inside it.
//
// Services depend only on ports; adapters are injected by the caller.
package services
