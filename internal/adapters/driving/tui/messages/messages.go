// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/sercha-research/internal/core/domain"
)

// ResearchRequested records a question submitted from the input.
type ResearchRequested struct {
	Question string

	// FollowUp is set when the question continues an existing session.
	FollowUp bool
}

// ResearchCompleted carries a research report back to the model.
type ResearchCompleted struct {
	Question string
	FollowUp bool
	Report   *domain.ResearchReport
	Quality  *domain.QualityAssessment
	Err      error
}

// SessionReset is sent after the session history is cleared.
type SessionReset struct{}

// ErrorOccurred carries an error to display.
type ErrorOccurred struct {
	Err error
}
