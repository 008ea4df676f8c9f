package mock

import (
	"context"

	"github.com/fwojciec/casescrape"
)

var _ casescrape.RunService = (*RunService)(nil)

// RunService is a mock implementation of casescrape.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *casescrape.Run) error
	FinishRunFn   func(ctx context.Context, run *casescrape.Run) error
	FindRunByIDFn func(ctx context.Context, id string) (*casescrape.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *casescrape.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FinishRun(ctx context.Context, run *casescrape.Run) error {
	return s.FinishRunFn(ctx, run)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*casescrape.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}
