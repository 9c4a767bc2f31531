// Package sqlite stores search history in a SQLite database
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"tokentrace/internal/domain"
	"tokentrace/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// History implements ports.SearchHistory using SQLite
type History struct {
	db     *sql.DB
	dbPath string
	logger zerolog.Logger
}

// Ensure History implements SearchHistory
var _ ports.SearchHistory = (*History)(nil)

// Open opens (or creates) the history database at path. An empty path uses
// the default location under $XDG_DATA_HOME.
func Open(path string, logger zerolog.Logger) (*History, error) {
	if path == "" {
		path = DefaultPath()
	}

	// Expand ~ in path
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA foreign_keys = ON;

		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			page_id TEXT NOT NULL,
			instances_only INTEGER NOT NULL,
			cancelled INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS run_variables (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			variable_id TEXT NOT NULL,
			variable_name TEXT NOT NULL,
			matches INTEGER NOT NULL,
			PRIMARY KEY (run_id, position)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}

	logger.Debug().Str("path", path).Msg("history opened")
	return &History{db: db, dbPath: path, logger: logger}, nil
}

// DefaultPath returns the history database location
func DefaultPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "tokentrace", "history.db")
}

// Path returns the database file in use
func (h *History) Path() string {
	return h.dbPath
}

// Close closes the database connection
func (h *History) Close() error {
	if h.db != nil {
		return h.db.Close()
	}
	return nil
}

// Record stores a run and its per-variable outcomes atomically
func (h *History) Record(ctx context.Context, run domain.SearchRun) error {
	tx, err := h.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.insertRun(run); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	for i, v := range run.Variables {
		if err := tx.insertVariable(run.ID, i, v); err != nil {
			return fmt.Errorf("failed to insert run variable: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	h.logger.Debug().Str("run_id", run.ID).Int("variables", len(run.Variables)).Msg("run recorded")
	return nil
}

// Recent returns up to limit runs, newest first
func (h *History) Recent(ctx context.Context, limit int) ([]domain.SearchRun, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, started_at, duration_ms, page_id, instances_only, cancelled
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []domain.SearchRun
	for rows.Next() {
		var run domain.SearchRun
		var startedAt, durationMs int64
		if err := rows.Scan(&run.ID, &startedAt, &durationMs, &run.PageID, &run.InstancesOnly, &run.Cancelled); err != nil {
			return nil, err
		}
		run.StartedAt = time.UnixMilli(startedAt)
		run.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		vars, err := h.variables(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Variables = vars
	}

	return runs, nil
}

func (h *History) variables(ctx context.Context, runID string) ([]domain.RunVariable, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT variable_id, variable_name, matches
		FROM run_variables
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vars []domain.RunVariable
	for rows.Next() {
		var v domain.RunVariable
		if err := rows.Scan(&v.VariableID, &v.VariableName, &v.Matches); err != nil {
			return nil, err
		}
		vars = append(vars, v)
	}
	return vars, rows.Err()
}
