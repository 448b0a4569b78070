// Package monitor records call counts and latencies for the research service.
//
// Monitor decorates a driving.ResearchService; callers use it in place of the
// wrapped service and read the collected figures with Snapshot or Report.
package monitor

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driving"
)

// Operation names.
const (
	OpAddDocuments = "add_documents"
	OpResearch     = "research"
	OpExportReport = "export_report"
)

// Ensure Monitor implements the interface.
var _ driving.ResearchService = (*Monitor)(nil)

// Stats aggregates timings for one operation.
type Stats struct {
	Operation string
	Calls     int
	Failures  int
	Total     time.Duration
	Min       time.Duration
	Max       time.Duration
	Last      time.Duration
}

// Mean returns the average call duration.
func (s Stats) Mean() time.Duration {
	if s.Calls == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Calls)
}

// Monitor is a timing decorator around a research service.
type Monitor struct {
	next driving.ResearchService
	now  func() time.Time

	mu    sync.Mutex
	stats map[string]*Stats
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

// New wraps next.
func New(next driving.ResearchService, opts ...Option) *Monitor {
	m := &Monitor{
		next:  next,
		now:   time.Now,
		stats: make(map[string]*Stats),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddDocuments times the wrapped call. Per-document failures in the outcome
// do not count as a failed call.
func (m *Monitor) AddDocuments(ctx context.Context, docs []domain.Document) (*domain.IngestOutcome, error) {
	start := m.now()
	outcome, err := m.next.AddDocuments(ctx, docs)
	m.record(OpAddDocuments, start, err)
	return outcome, err
}

// Research times the wrapped call.
func (m *Monitor) Research(ctx context.Context, query string) (*domain.ResearchReport, error) {
	start := m.now()
	report, err := m.next.Research(ctx, query)
	m.record(OpResearch, start, err)
	return report, err
}

// ExportReport times the wrapped call.
func (m *Monitor) ExportReport(report *domain.ResearchReport, format string) (string, error) {
	start := m.now()
	out, err := m.next.ExportReport(report, format)
	m.record(OpExportReport, start, err)
	return out, err
}

func (m *Monitor) record(op string, start time.Time, err error) {
	elapsed := m.now().Sub(start)

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.stats[op]
	if !ok {
		s = &Stats{Operation: op, Min: elapsed}
		m.stats[op] = s
	}
	s.Calls++
	if err != nil {
		s.Failures++
	}
	s.Total += elapsed
	s.Last = elapsed
	if elapsed < s.Min {
		s.Min = elapsed
	}
	if elapsed > s.Max {
		s.Max = elapsed
	}
}

// Snapshot returns a copy of the collected stats sorted by operation.
func (m *Monitor) Snapshot() []Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Stats, 0, len(m.stats))
	for _, s := range m.stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Operation < out[j].Operation
	})
	return out
}

// Report writes the stats as an aligned table.
func (m *Monitor) Report(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "OPERATION\tCALLS\tFAILED\tMEAN\tMIN\tMAX")
	for _, s := range m.Snapshot() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\n",
			s.Operation, s.Calls, s.Failures,
			round(s.Mean()), round(s.Min), round(s.Max))
	}
	return tw.Flush()
}

func round(d time.Duration) time.Duration {
	return d.Round(time.Microsecond)
}
