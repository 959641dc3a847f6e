// Package storage persists ownership risk runs so past results can be
// listed and compared. Two backends implement the same Store interface:
// SQLite for local use and Postgres for shared deployments.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/thoughtful-solutions/metrics/internal/ownership"
)

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = errors.New("not found")

// Run is one persisted ownership risk computation.
type Run struct {
	ID              string    `json:"id" db:"id"`
	Repo            string    `json:"repo" db:"repo"`
	CommitSHA       string    `json:"commit_sha" db:"commit_sha"`
	OrphanThreshold float64   `json:"orphan_threshold" db:"orphan_threshold"`
	TruckFactor     int       `json:"truck_factor" db:"truck_factor"`
	FilesAnalyzed   int       `json:"files_analyzed" db:"files_analyzed"`
	FilesOwned      int       `json:"files_owned" db:"files_owned"`
	Authors         int       `json:"authors" db:"authors"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`

	// Events is populated by GetRun; ListRuns leaves it nil.
	Events []RunEvent `json:"events,omitempty"`
}

// RunEvent is one simulated contributor removal within a run, ordered by
// Position (1 = removed first).
type RunEvent struct {
	RunID         string `json:"run_id" db:"run_id"`
	Position      int    `json:"position" db:"position"`
	Author        string `json:"author" db:"author"`
	FilesImpacted int    `json:"files_impacted" db:"files_impacted"`
	LOCImpacted   int    `json:"loc_impacted" db:"loc_impacted"`
}

// NewRun converts an ownership report into a persistable run with a fresh id.
func NewRun(repo, commitSHA string, report *ownership.Report) *Run {
	run := &Run{
		ID:              uuid.NewString(),
		Repo:            repo,
		CommitSHA:       commitSHA,
		OrphanThreshold: report.OrphanThreshold,
		TruckFactor:     report.TruckFactor,
		FilesAnalyzed:   report.FilesAnalyzed,
		FilesOwned:      report.FilesOwned,
		Authors:         report.Authors,
		CreatedAt:       time.Now().UTC(),
	}
	for i, ev := range report.RiskEvents {
		run.Events = append(run.Events, RunEvent{
			RunID:         run.ID,
			Position:      i + 1,
			Author:        ev.Author,
			FilesImpacted: ev.FilesImpacted,
			LOCImpacted:   ev.LOCImpacted,
		})
	}
	return run
}

// Store is the persistence interface for analysis runs.
type Store interface {
	// SaveRun inserts or replaces a run together with its events.
	SaveRun(ctx context.Context, run *Run) error

	// GetRun returns a run with its events, or ErrNotFound.
	GetRun(ctx context.Context, id string) (*Run, error)

	// ListRuns returns runs newest first without their events.
	// limit <= 0 returns all runs.
	ListRuns(ctx context.Context, limit int) ([]*Run, error)

	// DeleteRun removes a run and its events, or returns ErrNotFound.
	DeleteRun(ctx context.Context, id string) error

	// Close releases the underlying connection.
	Close() error
}
