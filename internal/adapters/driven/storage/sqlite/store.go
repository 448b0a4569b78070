package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/sercha-research/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/core/ports/driven"
)

// DefaultListLimit bounds List when the caller passes a non-positive limit.
const DefaultListLimit = 20

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Ensure Store implements the interface.
var _ driven.ReportStore = (*Store)(nil)

// Store is a SQLite-based report archive.
type Store struct {
	db   *sqlx.DB
	path string
}

// reportRow maps the reports table.
type reportRow struct {
	ID              string  `db:"id"`
	Query           string  `db:"query"`
	ConfidenceScore float64 `db:"confidence_score"`
	Sources         int     `db:"sources"`
	Body            string  `db:"body"`
	CreatedAt       string  `db:"created_at"`
}

// NewStore opens the archive at the given database file path.
// If dbPath is empty, defaults to ~/.sercha-research/data/reports.db.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".sercha-research", "data", "reports.db")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	if err := s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations"); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_reports.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// Save stores or replaces a report.
func (s *Store) Save(ctx context.Context, report *domain.ResearchReport) error {
	if report == nil || report.ID == "" {
		return fmt.Errorf("%w: report id is required", domain.ErrValidation)
	}

	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshalling report: %w", err)
	}

	row := reportRow{
		ID:              report.ID,
		Query:           report.Query,
		ConfidenceScore: report.ConfidenceScore,
		Sources:         len(report.SourcesUsed),
		Body:            string(body),
		CreatedAt:       report.CreatedAt.UTC().Format(timeLayout),
	}

	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO reports (id, query, confidence_score, sources, body, created_at)
		VALUES (:id, :query, :confidence_score, :sources, :body, :created_at)
		ON CONFLICT(id) DO UPDATE SET
			query = excluded.query,
			confidence_score = excluded.confidence_score,
			sources = excluded.sources,
			body = excluded.body,
			created_at = excluded.created_at
	`, row)
	if err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}

// Get retrieves a report by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.ResearchReport, error) {
	var body string
	err := s.db.GetContext(ctx, &body, "SELECT body FROM reports WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: report %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying report: %w", err)
	}

	var report domain.ResearchReport
	if err := json.Unmarshal([]byte(body), &report); err != nil {
		return nil, fmt.Errorf("unmarshalling report %s: %w", id, err)
	}
	return &report, nil
}

// List returns summaries of the most recent reports, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]domain.ReportSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var rows []reportRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, query, confidence_score, sources, '' AS body, created_at
		FROM reports
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}

	summaries := make([]domain.ReportSummary, 0, len(rows))
	for _, row := range rows {
		createdAt, err := time.Parse(timeLayout, row.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at for %s: %w", row.ID, err)
		}
		summaries = append(summaries, domain.ReportSummary{
			ID:              row.ID,
			Query:           row.Query,
			ConfidenceScore: row.ConfidenceScore,
			Sources:         row.Sources,
			CreatedAt:       createdAt,
		})
	}
	return summaries, nil
}

// Delete removes a report.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: report %s", domain.ErrNotFound, id)
	}
	return nil
}
