package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// SQLiteStore implements Store using a local SQLite file.
type SQLiteStore struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string, logger *logrus.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = logrus.New()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("connect to sqlite: %w", err)
	}

	// WAL keeps readers from blocking the writer on repeated runs.
	db.Exec("PRAGMA foreign_keys = ON")
	db.Exec("PRAGMA journal_mode = WAL")

	store := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id TEXT PRIMARY KEY,
		repo TEXT NOT NULL,
		commit_sha TEXT NOT NULL,
		orphan_threshold REAL NOT NULL,
		truck_factor INTEGER NOT NULL,
		files_analyzed INTEGER NOT NULL,
		files_owned INTEGER NOT NULL,
		authors INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS risk_events (
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		author TEXT NOT NULL,
		files_impacted INTEGER NOT NULL,
		loc_impacted INTEGER NOT NULL,
		PRIMARY KEY (run_id, position),
		FOREIGN KEY (run_id) REFERENCES analysis_runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON analysis_runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_repo ON analysis_runs(repo);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun inserts or replaces a run and rewrites its events.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT OR REPLACE INTO analysis_runs
		(id, repo, commit_sha, orphan_threshold, truck_factor,
		 files_analyzed, files_owned, authors, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		run.ID, run.Repo, run.CommitSHA, run.OrphanThreshold, run.TruckFactor,
		run.FilesAnalyzed, run.FilesOwned, run.Authors, run.CreatedAt)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM risk_events WHERE run_id = ?`, run.ID); err != nil {
		return err
	}

	eventQuery := `
		INSERT INTO risk_events
		(run_id, position, author, files_impacted, loc_impacted)
		VALUES (?, ?, ?, ?, ?)
	`
	for _, ev := range run.Events {
		_, err := tx.ExecContext(ctx, eventQuery,
			run.ID, ev.Position, ev.Author, ev.FilesImpacted, ev.LOCImpacted)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetRun returns a run with its events.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	query := `SELECT id, repo, commit_sha, orphan_threshold, truck_factor,
		files_analyzed, files_owned, authors, created_at
		FROM analysis_runs WHERE id = ?`

	err := s.db.GetContext(ctx, &run, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	eventQuery := `SELECT run_id, position, author, files_impacted, loc_impacted
		FROM risk_events WHERE run_id = ? ORDER BY position`
	if err := s.db.SelectContext(ctx, &run.Events, eventQuery, id); err != nil {
		return nil, err
	}

	return &run, nil
}

// ListRuns returns runs newest first, without events.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	var runs []*Run
	query := `SELECT id, repo, commit_sha, orphan_threshold, truck_factor,
		files_analyzed, files_owned, authors, created_at
		FROM analysis_runs ORDER BY created_at DESC, id`
	args := []interface{}{}

	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	err := s.db.SelectContext(ctx, &runs, query, args...)
	if err != nil {
		return nil, err
	}

	return runs, nil
}

// DeleteRun removes a run and its events.
func (s *SQLiteStore) DeleteRun(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM risk_events WHERE run_id = ?`, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM analysis_runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}
