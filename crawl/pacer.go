package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/casescrape"
)

// Ensure Pacer implements casescrape.Pacer at compile time.
var _ casescrape.Pacer = (*Pacer)(nil)

// Pacer pauses for a fixed delay on every call, however long the previous
// request took. The walker skips it before its first render.
type Pacer struct {
	delay time.Duration
}

// NewPacer creates a Pacer. A non-positive delay disables pacing.
func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{delay: delay}
}

// Wait blocks for the configured delay or until ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.delay <= 0 {
		return nil
	}

	timer := time.NewTimer(p.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
