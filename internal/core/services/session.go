package services

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driving"
)

// Session context limits.
const (
	// SessionContextReports is how many recent reports feed follow-up context.
	SessionContextReports = 2

	// SessionFindingConfidence is the step confidence a finding must exceed.
	SessionFindingConfidence = 0.5

	// SessionFindingChars is the length a finding is truncated to, in runes.
	SessionFindingChars = 100

	// SessionFindingsPerReport caps findings taken from one report.
	SessionFindingsPerReport = 3
)

// Ensure Session implements the interface.
var _ driving.SessionService = (*Session)(nil)

// Session is an interactive research conversation. It keeps the reports of
// earlier questions and flattens their strongest findings into the text of
// follow-up queries, so the research service itself stays stateless.
type Session struct {
	research driving.ResearchService

	mu      sync.Mutex
	history []*domain.ResearchReport
}

// NewSession creates an empty session.
func NewSession(research driving.ResearchService) *Session {
	return &Session{research: research}
}

// Start researches an opening query as is, without prior findings. Its
// report joins the history; only Reset clears it.
func (s *Session) Start(ctx context.Context, query string) (*domain.ResearchReport, error) {
	return s.run(ctx, query)
}

// Ask researches a follow-up question enriched with prior findings.
func (s *Session) Ask(ctx context.Context, followup string) (*domain.ResearchReport, error) {
	return s.run(ctx, s.EnrichedQuery(followup))
}

// EnrichedQuery returns the text a follow-up is researched with.
func (s *Session) EnrichedQuery(followup string) string {
	prior := s.Context()
	if prior == "" {
		return followup
	}
	return prior + " " + followup
}

// Context returns the findings of the most recent reports joined by spaces.
func (s *Session) Context() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	recent := s.history
	if len(recent) > SessionContextReports {
		recent = recent[len(recent)-SessionContextReports:]
	}

	var parts []string
	for _, report := range recent {
		parts = append(parts, findings(report)...)
	}
	return strings.Join(parts, " ")
}

// History returns the reports produced in this session, oldest first.
func (s *Session) History() []*domain.ResearchReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.ResearchReport(nil), s.history...)
}

// Reset clears the session history.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

func (s *Session) run(ctx context.Context, query string) (*domain.ResearchReport, error) {
	report, err := s.research.Research(ctx, query)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.history = append(s.history, report)
	s.mu.Unlock()
	return report, nil
}

// findings returns the truncated best results of a report's confident steps.
func findings(report *domain.ResearchReport) []string {
	var out []string
	for i := range report.Steps {
		if len(out) == SessionFindingsPerReport {
			break
		}
		step := &report.Steps[i]
		if step.Confidence <= SessionFindingConfidence {
			continue
		}
		best, ok := step.Best()
		if !ok {
			continue
		}
		text := []rune(strings.TrimSpace(best.Chunk.Content))
		if len(text) > SessionFindingChars {
			text = text[:SessionFindingChars]
		}
		if len(text) > 0 {
			out = append(out, string(text))
		}
	}
	return out
}
