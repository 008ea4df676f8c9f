package mock

import (
	"context"

	"github.com/fwojciec/casescrape"
)

var _ casescrape.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of casescrape.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, url string, wait casescrape.WaitCondition) (string, error)
	CloseFn  func() error
}

func (r *Renderer) Render(ctx context.Context, url string, wait casescrape.WaitCondition) (string, error) {
	return r.RenderFn(ctx, url, wait)
}

func (r *Renderer) Close() error {
	return r.CloseFn()
}

var _ casescrape.Pacer = (*Pacer)(nil)

// Pacer is a mock implementation of casescrape.Pacer.
type Pacer struct {
	WaitFn func(ctx context.Context) error
}

func (p *Pacer) Wait(ctx context.Context) error {
	return p.WaitFn(ctx)
}

var _ casescrape.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of casescrape.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
