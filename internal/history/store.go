// Package history keeps a SQLite record of finished consolidation runs.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harrison/ctxgen/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// DefaultLimit is the number of runs Recent returns when limit is not positive
const DefaultLimit = 20

// Store manages the SQLite database of run summaries
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a new Store instance and initializes the database
func NewStore(dbPath string) (*Store, error) {
	if dbPath == ":memory:" {
		return openAndInitStore(dbPath)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	return openAndInitStore(dbPath)
}

func openAndInitStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Every connection of an in-memory database is a separate database
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// busy_timeout must be first so the remaining statements wait on locks
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := execWithRetry(db, schemaSQL, 5, 10*time.Millisecond); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// execWithRetry executes a SQL statement with exponential backoff retry on lock errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}

		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}

		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Path returns the database location
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores a finished run. Recording the same RunID twice is an error.
func (s *Store) Record(ctx context.Context, summary models.RunSummary) error {
	if summary.RunID == "" {
		return fmt.Errorf("record run: missing run id")
	}

	skipped := "[]"
	if len(summary.Skipped) > 0 {
		data, err := json.Marshal(summary.Skipped)
		if err != nil {
			return fmt.Errorf("marshal skipped directories: %w", err)
		}
		skipped = string(data)
	}

	query := `INSERT INTO runs
		(run_id, status, root_directory, output_path, files_processed, files_failed, total_lines, output_size_bytes, skipped, message, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		summary.RunID,
		string(summary.Status),
		summary.RootDirectory,
		summary.OutputPath,
		summary.FilesProcessed,
		summary.FilesFailed,
		summary.TotalLines,
		summary.OutputSizeBytes,
		skipped,
		summary.Message,
		nullTime(summary.StartedAt),
		nullTime(summary.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]models.RunSummary, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	query := `SELECT run_id, status, root_directory, output_path, files_processed, files_failed,
			total_lines, output_size_bytes, skipped, message, started_at, finished_at
		FROM runs
		ORDER BY id DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.RunSummary
	for rows.Next() {
		var (
			run        models.RunSummary
			status     string
			skipped    string
			startedAt  sql.NullTime
			finishedAt sql.NullTime
		)
		if err := rows.Scan(
			&run.RunID,
			&status,
			&run.RootDirectory,
			&run.OutputPath,
			&run.FilesProcessed,
			&run.FilesFailed,
			&run.TotalLines,
			&run.OutputSizeBytes,
			&skipped,
			&run.Message,
			&startedAt,
			&finishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}

		run.Status = models.RunStatus(status)
		if skipped != "" && skipped != "[]" {
			if err := json.Unmarshal([]byte(skipped), &run.Skipped); err != nil {
				return nil, fmt.Errorf("unmarshal skipped directories: %w", err)
			}
		}
		if startedAt.Valid {
			run.StartedAt = startedAt.Time
		}
		if finishedAt.Valid {
			run.FinishedAt = finishedAt.Time
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Count returns the number of recorded runs
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
