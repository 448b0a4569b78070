package services

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/logger"
)

var (
	// conjunctionPattern matches separators that may join two questions.
	conjunctionPattern = regexp.MustCompile(`(?i)\s*;\s*|,?\s+(?:and|or)\s+`)

	// clauseLeadPattern matches the opening word of a question clause.
	clauseLeadPattern = regexp.MustCompile(
		`(?i)^(?:what|why|how|who|whom|whose|when|where|which|is|are|was|were|does|do|did|can|could|should|would|will|has|have)\b`)

	// aspectPattern matches requests that ask for a topic to be covered broadly.
	aspectPattern = regexp.MustCompile(
		`(?i)^(?:please\s+)?(?:explain|analy[sz]e|describe|tell me about|research|investigate|give an overview of)\s+(.+?)[\s.?!]*$`)
)

// QueryDecomposer expands a query into ordered sub-queries.
//
// Queries holding several questions are split on question marks and on
// conjunctions that introduce a new question clause ("What is X and how
// does it work?"). A single request to explain or analyse a topic is
// expanded into what/why/how aspects of that topic. Anything else is
// returned unchanged as the only sub-query.
type QueryDecomposer struct {
	maxSubQueries int
}

// NewQueryDecomposer creates a decomposer emitting at most maxSubQueries.
func NewQueryDecomposer(maxSubQueries int) *QueryDecomposer {
	if maxSubQueries <= 0 {
		maxSubQueries = domain.DefaultMaxSubQueries
	}
	return &QueryDecomposer{maxSubQueries: maxSubQueries}
}

// MaxSubQueries returns the upper bound on emitted sub-queries.
func (d *QueryDecomposer) MaxSubQueries() int {
	return d.maxSubQueries
}

// Decompose returns between 1 and MaxSubQueries sub-queries for query.
func (d *QueryDecomposer) Decompose(query string) []string {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return []string{query}
	}

	var parts []string
	for _, question := range splitQuestions(trimmed) {
		parts = append(parts, splitClauses(question)...)
	}

	if len(parts) <= 1 {
		if topic, ok := aspectTopic(trimmed); ok {
			parts = []string{
				trimmed,
				"What is " + topic + "?",
				"Why is " + topic + " important?",
				"How does " + topic + " work?",
			}
		}
	}

	subQueries := d.limit(dedupe(parts))
	if len(subQueries) == 0 {
		return []string{trimmed}
	}

	if len(subQueries) > 1 {
		logger.Debug("Decomposed %q into %d sub-queries", trimmed, len(subQueries))
	}
	return subQueries
}

func (d *QueryDecomposer) limit(parts []string) []string {
	if len(parts) > d.maxSubQueries {
		return parts[:d.maxSubQueries]
	}
	return parts
}

// splitQuestions splits text holding more than one question mark into
// individual questions, each keeping its mark.
func splitQuestions(text string) []string {
	if strings.Count(text, "?") < 2 {
		return []string{text}
	}

	var questions []string
	for _, seg := range strings.SplitAfter(text, "?") {
		if seg = strings.TrimSpace(seg); seg != "" && seg != "?" {
			questions = append(questions, seg)
		}
	}
	return questions
}

// splitClauses splits a question at conjunctions that are followed by a new
// question clause. Conjunctions inside a noun phrase ("cats and dogs") are
// left alone.
func splitClauses(question string) []string {
	matches := conjunctionPattern.FindAllStringIndex(question, -1)
	if len(matches) == 0 {
		return []string{question}
	}

	asked := strings.HasSuffix(question, "?")

	var clauses []string
	start := 0
	for _, m := range matches {
		if !clauseLeadPattern.MatchString(question[m[1]:]) {
			continue
		}
		clauses = append(clauses, question[start:m[0]])
		start = m[1]
	}
	clauses = append(clauses, question[start:])

	if len(clauses) == 1 {
		return []string{question}
	}

	out := make([]string, 0, len(clauses))
	for _, c := range clauses {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if asked && !strings.HasSuffix(c, "?") {
			c += "?"
		}
		out = append(out, capitalise(c))
	}
	return out
}

// aspectTopic extracts the topic of a broad request such as
// "Explain quantum computing".
func aspectTopic(query string) (string, bool) {
	m := aspectPattern.FindStringSubmatch(query)
	if m == nil {
		return "", false
	}
	topic := strings.TrimSpace(m[1])
	if topic == "" {
		return "", false
	}
	return topic, true
}

// dedupe removes blank entries and case-insensitive duplicates, keeping the
// first occurrence.
func dedupe(parts []string) []string {
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		key := strings.ToLower(strings.TrimRight(p, " ?.!"))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

func capitalise(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
