package services

import (
	"strings"
	"unicode"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
)

// NoEvidenceText is the synthesis returned when no step produced evidence.
const NoEvidenceText = "No evidence was available in the corpus to answer this query."

// SynthesisEngine merges research steps into an answer.
type SynthesisEngine struct {
	sourceThreshold float64
	maxSnippetChars int
}

// NewSynthesisEngine creates a synthesis engine from settings.
func NewSynthesisEngine(settings domain.ResearchSettings) *SynthesisEngine {
	return &SynthesisEngine{
		sourceThreshold: settings.SourceThreshold,
		maxSnippetChars: settings.MaxSnippetChars,
	}
}

// Synthesize composes the answer text, aggregate confidence and sources.
//
// The best result of each step is its representative evidence; a snippet
// already used for the same document is not repeated. Confidence is the mean
// of step confidences weighted by each step's top relevance. Sources are the
// documents of every result above the source threshold, in first-seen order.
func (s *SynthesisEngine) Synthesize(steps []domain.ResearchStep) domain.Synthesis {
	var (
		paragraphs     []string
		used           = make(map[string]struct{})
		weighted, mass float64
	)

	for i := range steps {
		step := &steps[i]

		top := step.TopScore()
		weighted += top * domain.Clamp01(step.Confidence)
		mass += top

		best, ok := step.Best()
		if !ok || best.RelevanceScore <= 0 {
			continue
		}
		key := best.Chunk.DocumentID + "\x00" + strings.TrimSpace(best.Chunk.Content)
		if _, dup := used[key]; dup {
			continue
		}
		used[key] = struct{}{}

		if snippet := Snippet(best.Chunk.Content, s.maxSnippetChars); snippet != "" {
			paragraphs = append(paragraphs, snippet)
		}
	}

	confidence := 0.0
	if mass > 0 {
		confidence = domain.Clamp01(weighted / mass)
	}

	text := NoEvidenceText
	if len(paragraphs) > 0 {
		text = strings.Join(paragraphs, "\n\n")
	}

	return domain.Synthesis{
		Text:       text,
		Confidence: confidence,
		Sources:    s.sources(steps),
	}
}

func (s *SynthesisEngine) sources(steps []domain.ResearchStep) []string {
	sources := []string{}
	seen := make(map[string]struct{})
	for _, step := range steps {
		for _, r := range step.Results {
			if r.RelevanceScore <= s.sourceThreshold {
				continue
			}
			id := r.Chunk.DocumentID
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			sources = append(sources, id)
		}
	}
	return sources
}

// Snippet collapses whitespace in text and shortens it to at most maxChars
// runes, cutting at a word boundary and appending "..." when shortened.
func Snippet(text string, maxChars int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if maxChars <= 0 || len(runes) <= maxChars {
		return text
	}

	cut := maxChars
	for cut > 0 && !unicode.IsSpace(runes[cut]) {
		cut--
	}
	if cut == 0 {
		cut = maxChars
	}
	return strings.TrimSpace(string(runes[:cut])) + "..."
}
