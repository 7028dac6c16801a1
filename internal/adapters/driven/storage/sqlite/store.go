package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/ghharvest/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/ghharvest/internal/core/domain"
	"github.com/custodia-labs/ghharvest/internal/core/ports/driven"
)

// DatabaseFile is the database file name inside the data directory.
const DatabaseFile = "harvest.db"

// Ensure Store implements the interface.
var _ driven.FindingStore = (*Store)(nil)

// Store is a SQLite-based FindingStore.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.ghharvest/data/harvest.db.
func NewStore(dataDir string) (*Store, error) {
	dataDir, err := resolveDataDir(dataDir)
	if err != nil {
		return nil, err
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return openDB(filepath.Join(dataDir, DatabaseFile))
}

// OpenExisting opens the store in dataDir only if its database file is
// already there. Nothing is created on disk; a missing database yields
// domain.ErrNotFound.
func OpenExisting(dataDir string) (*Store, error) {
	dataDir, err := resolveDataDir(dataDir)
	if err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)
	info, err := os.Stat(dbPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: no run history at %s", domain.ErrNotFound, dbPath)
	}
	if err != nil {
		return nil, fmt.Errorf("checking database: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, dbPath)
	}

	return openDB(dbPath)
}

func resolveDataDir(dataDir string) (string, error) {
	if dataDir != "" {
		return dataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".ghharvest", "data"), nil
}

func openDB(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
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

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
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
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
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

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Seen reports whether a record for (username, email) was stored before.
func (s *Store) Seen(ctx context.Context, username, email string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM records WHERE username_key = ? AND email = ? LIMIT 1
	`, strings.ToLower(username), strings.ToLower(email)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying records: %w", err)
	}
	return true, nil
}

// SaveRun stores a run and its records in one transaction.
// Records already stored by an earlier run are ignored.
func (s *Store) SaveRun(ctx context.Context, run domain.RunSummary, records []domain.Record) error {
	if run.RunID == "" {
		return fmt.Errorf("%w: run id is required", domain.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, query, accounts_found, accounts_processed, accounts_failed,
			record_count, unique_emails, interrupted, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			record_count = excluded.record_count,
			finished_at = excluded.finished_at
	`, run.RunID, run.Query, run.AccountsFound, run.AccountsProcessed, run.AccountsFailed,
		len(records), run.UniqueEmails, run.Interrupted, run.StartedAt.UTC(), finishedAt(run))
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO records (run_id, username, username_key, email, name, location,
			category, source, repo, commit_sha, collected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, run.RunID, r.Username, strings.ToLower(r.Username),
			strings.ToLower(r.Email), r.Name, r.Location, r.Category, string(r.Source),
			r.Repository, r.CommitSHA, r.CollectedAt.UTC()); err != nil {
			return fmt.Errorf("saving record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListRuns returns stored runs, most recent first.
// A non-positive limit returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]domain.RunInfo, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, query, record_count, started_at, finished_at
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunInfo //nolint:prealloc // size unknown from query
	for rows.Next() {
		var info domain.RunInfo
		var startedAt, finishedAt sql.NullTime
		if err := rows.Scan(&info.ID, &info.Query, &info.Records, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if startedAt.Valid {
			info.StartedAt = startedAt.Time
		}
		if finishedAt.Valid {
			info.FinishedAt = finishedAt.Time
		}
		runs = append(runs, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return runs, nil
}

// RunRecords returns the records stored for a run in insertion order.
func (s *Store) RunRecords(ctx context.Context, runID string) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, email, name, location, category, source, repo, commit_sha, collected_at
		FROM records WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []domain.Record //nolint:prealloc // size unknown from query
	for rows.Next() {
		var r domain.Record
		var source string
		var collectedAt sql.NullTime
		if err := rows.Scan(&r.Username, &r.Email, &r.Name, &r.Location, &r.Category,
			&source, &r.Repository, &r.CommitSHA, &collectedAt); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.Source = domain.SourceKind(source)
		if collectedAt.Valid {
			r.CollectedAt = collectedAt.Time
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	return records, nil
}

func finishedAt(run domain.RunSummary) sql.NullTime {
	if run.FinishedAt.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: run.FinishedAt.UTC(), Valid: true}
}
