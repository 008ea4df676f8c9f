// Package rod renders pages of the case site in a headless Chrome driven by
// github.com/go-rod/rod. The site builds its listings with scripts, so a
// plain HTTP fetch does not see them.
package rod

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/casescrape"
	"github.com/go-rod/rod"
)

// DefaultRenderTimeout bounds a single render, navigation and waiting
// included.
const DefaultRenderTimeout = 60 * time.Second

// DefaultIdleWindow is how long the network must stay quiet before a page
// counts as idle.
const DefaultIdleWindow = 500 * time.Millisecond

var errClosed = errors.New("browser is closed")

// Ensure Renderer implements casescrape.Renderer at compile time.
var _ casescrape.Renderer = (*Renderer)(nil)

// Renderer renders URLs with a recycling browser.
// Renderer is safe for concurrent use by multiple goroutines.
type Renderer struct {
	manager *BrowserManager
	timeout time.Duration
	idle    time.Duration
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithRenderTimeout sets the per-render timeout.
// Defaults to DefaultRenderTimeout if not specified.
func WithRenderTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithIdleWindow sets the quiet period WaitNetworkIdle waits for.
func WithIdleWindow(d time.Duration) Option {
	return func(r *Renderer) {
		r.idle = d
	}
}

// NewRenderer creates a Renderer over manager. The Renderer takes
// ownership: closing it closes the manager.
func NewRenderer(manager *BrowserManager, opts ...Option) *Renderer {
	r := &Renderer{
		manager: manager,
		timeout: DefaultRenderTimeout,
		idle:    DefaultIdleWindow,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render navigates to url in a fresh tab and returns the rendered HTML once
// wait is satisfied. Every failure is an EFETCH error wrapping its cause,
// so a timeout still satisfies errors.Is(err, context.DeadlineExceeded).
func (r *Renderer) Render(ctx context.Context, url string, wait casescrape.WaitCondition) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if r.manager.Closed() {
		return "", casescrape.Errorf(casescrape.EINVALID, "renderer is closed")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	page, err := r.manager.NewPage()
	if err != nil {
		return "", casescrape.Errorf(casescrape.EFETCH, "rendering %s: %w", url, err)
	}
	defer page.Close()

	html, err := r.render(ctx, page.Context(ctx), url, wait)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = ctxErr
		}
		return "", casescrape.Errorf(casescrape.EFETCH, "rendering %s: %w", url, err)
	}
	return html, nil
}

func (r *Renderer) render(ctx context.Context, page *rod.Page, url string, wait casescrape.WaitCondition) (string, error) {
	var idle func()
	if wait == casescrape.WaitNetworkIdle {
		// Must be armed before navigation so early requests are tracked.
		idle = page.WaitRequestIdle(r.idle, nil, nil, nil)
	}

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}
	if idle != nil {
		idle()
		if err := ctx.Err(); err != nil {
			return "", err
		}
	}
	return page.HTML()
}

// Close releases browser resources. Close is idempotent.
func (r *Renderer) Close() error {
	return r.manager.Close()
}
