package casescrape

import (
	"context"
	"time"
)

// Run is the persisted summary of one scrape.
type Run struct {
	ID         string
	SiteURL    string
	StartedAt  time.Time
	FinishedAt time.Time // zero while the run is in progress

	Cases   int
	Rows    int
	Skipped int
}

// RowFilter selects stored rows.
type RowFilter struct {
	RunID string

	Limit  int
	Offset int
}

// RunService persists run summaries.
type RunService interface {
	// CreateRun records the start of run. An empty ID is filled in.
	CreateRun(ctx context.Context, run *Run) error

	// FinishRun stores the final counts of run. Returns ENOTFOUND if the
	// run does not exist.
	FinishRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run. Returns ENOTFOUND if it does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)
}
