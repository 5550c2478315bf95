package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/wWordDevw/terap-ia/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/wWordDevw/terap-ia/internal/core/domain"
	"github.com/wWordDevw/terap-ia/internal/core/ports/driven"
)

// DatabaseName is the history database file name inside the data directory.
const DatabaseName = "history.db"

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Ensure Store implements the interface.
var _ driven.HistoryStore = (*Store)(nil)

// Store is a SQLite-backed run history.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.noteverify/history.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".noteverify")
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseName)

	// WAL lets a second noteverify process read while one records.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

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

// migrate runs all pending up migrations in version order.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_history.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// apply runs one migration and records its version atomically.
func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(script); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Save stores or replaces a run.
func (s *Store) Save(ctx context.Context, record domain.RunRecord) error {
	if record.RunID == "" {
		return fmt.Errorf("%w: run id is empty", domain.ErrInvalidInput)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, group_id, week_id, source, strategy, generated_at,
			verified, passed, failed, unverifiable, digest, document)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			group_id = excluded.group_id,
			week_id = excluded.week_id,
			source = excluded.source,
			strategy = excluded.strategy,
			generated_at = excluded.generated_at,
			verified = excluded.verified,
			passed = excluded.passed,
			failed = excluded.failed,
			unverifiable = excluded.unverifiable,
			digest = excluded.digest,
			document = excluded.document
	`, record.RunID, record.GroupID, record.WeekID, record.Source, record.Strategy,
		formatTime(record.GeneratedAt),
		record.Summary.Verified, record.Summary.Passed, record.Summary.Failed, record.Summary.Unverifiable,
		record.Digest, record.Document)

	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// List returns matching runs, newest first, without documents.
func (s *Store) List(ctx context.Context, filter domain.HistoryFilter) ([]domain.RunRecord, error) {
	query := `
		SELECT run_id, group_id, week_id, source, strategy, generated_at,
			verified, passed, failed, unverifiable, digest
		FROM runs WHERE 1 = 1`
	var args []any
	if filter.GroupID != "" {
		query += " AND group_id = ?"
		args = append(args, filter.GroupID)
	}
	if filter.WeekID != "" {
		query += " AND week_id = ?"
		args = append(args, filter.WeekID)
	}
	query += " ORDER BY generated_at DESC, rowid DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var records []domain.RunRecord
	for rows.Next() {
		record, err := scanRun(rows, false)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return records, nil
}

// Get retrieves a run with its document.
func (s *Store) Get(ctx context.Context, runID string) (*domain.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, group_id, week_id, source, strategy, generated_at,
			verified, passed, failed, unverifiable, digest, document
		FROM runs WHERE run_id = ?
	`, runID)

	record, err := scanRun(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRun reads one runs row. withDocument matches a query that also selects document.
func scanRun(row scanner, withDocument bool) (*domain.RunRecord, error) {
	var record domain.RunRecord
	var generatedAt string
	dest := []any{
		&record.RunID, &record.GroupID, &record.WeekID, &record.Source, &record.Strategy, &generatedAt,
		&record.Summary.Verified, &record.Summary.Passed, &record.Summary.Failed, &record.Summary.Unverifiable,
		&record.Digest,
	}
	if withDocument {
		dest = append(dest, &record.Document)
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	at, err := parseTime(generatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing generated_at of %s: %w", record.RunID, err)
	}
	record.GeneratedAt = at
	return &record, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
