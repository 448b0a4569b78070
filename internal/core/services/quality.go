package services

import (
	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driving"
)

// Ensure QualityAnalyzer implements the interface.
var _ driving.QualityService = (*QualityAnalyzer)(nil)

// Grade thresholds.
const (
	highCoverage     = 0.75
	highConfidence   = 0.5
	mediumCoverage   = 0.5
	mediumConfidence = 0.25
)

// QualityAnalyzer grades how well a report is supported by evidence.
type QualityAnalyzer struct {
	confidenceFloor float64
}

// NewQualityAnalyzer creates an analyzer using the settings' confidence floor.
func NewQualityAnalyzer(settings domain.ResearchSettings) *QualityAnalyzer {
	return &QualityAnalyzer{confidenceFloor: settings.ConfidenceFloor}
}

// Assess rates a report. A report without steps is graded low.
func (a *QualityAnalyzer) Assess(report *domain.ResearchReport) domain.QualityAssessment {
	assessment := domain.QualityAssessment{Grade: domain.QualityLow}
	if report == nil || len(report.Steps) == 0 {
		return assessment
	}

	docs := make(map[string]struct{})
	covered := 0
	var topSum float64
	for i := range report.Steps {
		step := &report.Steps[i]
		if step.Confidence >= a.confidenceFloor {
			covered++
		} else {
			assessment.WeakSubQueries = append(assessment.WeakSubQueries, step.SubQuery)
		}
		topSum += step.TopScore()
		for _, r := range step.Results {
			docs[r.Chunk.DocumentID] = struct{}{}
		}
	}

	n := float64(len(report.Steps))
	assessment.Steps = len(report.Steps)
	assessment.EvidenceCoverage = float64(covered) / n
	assessment.SourceDiversity = len(docs)
	assessment.MeanTopRelevance = topSum / n

	switch {
	case assessment.EvidenceCoverage >= highCoverage && report.ConfidenceScore >= highConfidence:
		assessment.Grade = domain.QualityHigh
	case assessment.EvidenceCoverage >= mediumCoverage && report.ConfidenceScore >= mediumConfidence:
		assessment.Grade = domain.QualityMedium
	}
	return assessment
}
