package domain

import "time"

// QueryResult is a chunk matched against a query vector.
// It is produced by a vector index search and never persisted.
type QueryResult struct {
	// Chunk is the matched chunk.
	Chunk Chunk `json:"chunk" yaml:"chunk"`

	// RelevanceScore is the cosine similarity clamped to [0,1].
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`
}

// ResearchStep holds the evidence gathered for a single sub-query.
type ResearchStep struct {
	// SubQuery is the sub-query text that produced this step.
	SubQuery string `json:"sub_query" yaml:"sub_query"`

	// Results are ordered best first.
	Results []QueryResult `json:"results" yaml:"results"`

	// Confidence estimates retrieval quality in [0,1].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Broadened is set when the results came from the retry with the
	// original query.
	Broadened bool `json:"broadened,omitempty" yaml:"broadened,omitempty"`

	// Error describes a fault caught while evaluating the step.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// TopScore returns the relevance of the best result, or 0 with no results.
func (s *ResearchStep) TopScore() float64 {
	if len(s.Results) == 0 {
		return 0
	}
	return s.Results[0].RelevanceScore
}

// Best returns the best-scoring result, if any.
func (s *ResearchStep) Best() (QueryResult, bool) {
	if len(s.Results) == 0 {
		return QueryResult{}, false
	}
	best := s.Results[0]
	for _, r := range s.Results[1:] {
		if r.RelevanceScore > best.RelevanceScore {
			best = r
		}
	}
	return best, true
}

// ResearchReport is the outcome of a research call. The caller owns it.
type ResearchReport struct {
	// ID identifies the report in archives.
	ID string `json:"id" yaml:"id"`

	// Query is the original query text.
	Query string `json:"query" yaml:"query"`

	// Steps are ordered as the sub-queries were emitted.
	Steps []ResearchStep `json:"steps" yaml:"steps"`

	// Synthesis is the composed answer.
	Synthesis string `json:"synthesis" yaml:"synthesis"`

	// ConfidenceScore is the aggregate confidence in [0,1].
	ConfidenceScore float64 `json:"confidence_score" yaml:"confidence_score"`

	// SourcesUsed lists contributing document IDs in first-seen order.
	SourcesUsed []string `json:"sources_used" yaml:"sources_used"`

	// CreatedAt is when the report was assembled.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// ReportSummary is a lightweight listing entry for archived reports.
type ReportSummary struct {
	ID              string    `json:"id" yaml:"id"`
	Query           string    `json:"query" yaml:"query"`
	ConfidenceScore float64   `json:"confidence_score" yaml:"confidence_score"`
	Sources         int       `json:"sources" yaml:"sources"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
}

// Synthesis is the output of the synthesis stage.
type Synthesis struct {
	// Text is the composed answer.
	Text string

	// Confidence is the relevance-weighted mean of step confidences.
	Confidence float64

	// Sources lists contributing document IDs in first-seen order.
	Sources []string
}

// Clamp01 limits v to the closed unit interval.
func Clamp01(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
