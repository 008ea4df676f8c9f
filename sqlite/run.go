package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/casescrape"
	"github.com/google/uuid"
)

// Ensure RunService implements casescrape.RunService at compile time.
var _ casescrape.RunService = (*RunService)(nil)

// RunService records run summaries.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun records the start of a run. An empty ID is filled with a new
// UUID and a zero StartedAt with the current time.
func (s *RunService) CreateRun(ctx context.Context, run *casescrape.Run) error {
	if run.SiteURL == "" {
		return casescrape.Errorf(casescrape.EINVALID, "run site URL required")
	}
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, site_url, started_at)
		VALUES (?, ?, ?)
	`, run.ID, run.SiteURL, formatRFC3339(run.StartedAt))
	return err
}

// FinishRun stores the final counts of run and marks it finished.
func (s *RunService) FinishRun(ctx context.Context, run *casescrape.Run) error {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, case_count = ?, row_count = ?, skipped_count = ?
		WHERE id = ?
	`, formatRFC3339(run.FinishedAt), run.Cases, run.Rows, run.Skipped, run.ID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return casescrape.Errorf(casescrape.ENOTFOUND, "run not found")
	}
	return nil
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*casescrape.Run, error) {
	var run casescrape.Run
	var startedAt, finishedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, site_url, started_at, finished_at, case_count, row_count, skipped_count
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.SiteURL, &startedAt, &finishedAt, &run.Cases, &run.Rows, &run.Skipped)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, casescrape.Errorf(casescrape.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	return &run, nil
}
