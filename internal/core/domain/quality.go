package domain

// QualityGrade is a coarse rating of a research report.
type QualityGrade string

// Quality grades.
const (
	QualityHigh   QualityGrade = "high"
	QualityMedium QualityGrade = "medium"
	QualityLow    QualityGrade = "low"
)

// QualityAssessment summarises how well a report is supported by evidence.
type QualityAssessment struct {
	// Steps is the number of research steps.
	Steps int `json:"steps"`

	// EvidenceCoverage is the fraction of steps at or above the confidence floor.
	EvidenceCoverage float64 `json:"evidence_coverage"`

	// SourceDiversity is the number of distinct documents among step results.
	SourceDiversity int `json:"source_diversity"`

	// MeanTopRelevance is the mean best relevance across steps.
	MeanTopRelevance float64 `json:"mean_top_relevance"`

	// WeakSubQueries lists sub-queries below the confidence floor.
	WeakSubQueries []string `json:"weak_sub_queries,omitempty"`

	// Grade is the overall rating.
	Grade QualityGrade `json:"grade"`
}
