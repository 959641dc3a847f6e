package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// PostgresStore implements Store using PostgreSQL, for teams sharing one
// run history across machines.
type PostgresStore struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewPostgresStore connects to the database at dsn and ensures the schema
// exists.
func NewPostgresStore(dsn string, logger *logrus.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = logrus.New()
	}

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store := &PostgresStore{
		db:     db,
		logger: logger,
	}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id TEXT PRIMARY KEY,
		repo TEXT NOT NULL,
		commit_sha TEXT NOT NULL,
		orphan_threshold DOUBLE PRECISION NOT NULL,
		truck_factor INTEGER NOT NULL,
		files_analyzed INTEGER NOT NULL,
		files_owned INTEGER NOT NULL,
		authors INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS risk_events (
		run_id TEXT NOT NULL REFERENCES analysis_runs(id),
		position INTEGER NOT NULL,
		author TEXT NOT NULL,
		files_impacted INTEGER NOT NULL,
		loc_impacted INTEGER NOT NULL,
		PRIMARY KEY (run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON analysis_runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_repo ON analysis_runs(repo);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// SaveRun inserts or updates a run and rewrites its events.
func (s *PostgresStore) SaveRun(ctx context.Context, run *Run) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO analysis_runs (id, repo, commit_sha, orphan_threshold,
			truck_factor, files_analyzed, files_owned, authors, created_at)
		VALUES (:id, :repo, :commit_sha, :orphan_threshold,
			:truck_factor, :files_analyzed, :files_owned, :authors, :created_at)
		ON CONFLICT (id) DO UPDATE SET
			repo = EXCLUDED.repo,
			commit_sha = EXCLUDED.commit_sha,
			orphan_threshold = EXCLUDED.orphan_threshold,
			truck_factor = EXCLUDED.truck_factor,
			files_analyzed = EXCLUDED.files_analyzed,
			files_owned = EXCLUDED.files_owned,
			authors = EXCLUDED.authors,
			created_at = EXCLUDED.created_at
	`
	if _, err := tx.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM risk_events WHERE run_id = $1`, run.ID); err != nil {
		return fmt.Errorf("clear run events: %w", err)
	}

	eventQuery := `
		INSERT INTO risk_events (run_id, position, author, files_impacted, loc_impacted)
		VALUES (:run_id, :position, :author, :files_impacted, :loc_impacted)
	`
	for _, ev := range run.Events {
		if _, err := tx.NamedExecContext(ctx, eventQuery, ev); err != nil {
			return fmt.Errorf("save run event: %w", err)
		}
	}

	return tx.Commit()
}

// GetRun returns a run with its events.
func (s *PostgresStore) GetRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	query := `SELECT id, repo, commit_sha, orphan_threshold, truck_factor,
		files_analyzed, files_owned, authors, created_at
		FROM analysis_runs WHERE id = $1`

	err := s.db.GetContext(ctx, &run, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get run: %w", err)
	}

	eventQuery := `SELECT run_id, position, author, files_impacted, loc_impacted
		FROM risk_events WHERE run_id = $1 ORDER BY position`
	if err := s.db.SelectContext(ctx, &run.Events, eventQuery, id); err != nil {
		return nil, fmt.Errorf("get run events: %w", err)
	}

	return &run, nil
}

// ListRuns returns runs newest first, without events.
func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	var runs []*Run
	query := `SELECT id, repo, commit_sha, orphan_threshold, truck_factor,
		files_analyzed, files_owned, authors, created_at
		FROM analysis_runs ORDER BY created_at DESC, id`
	args := []interface{}{}

	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	err := s.db.SelectContext(ctx, &runs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	return runs, nil
}

// DeleteRun removes a run and its events.
func (s *PostgresStore) DeleteRun(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM risk_events WHERE run_id = $1`, id); err != nil {
		return fmt.Errorf("delete run events: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM analysis_runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
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
