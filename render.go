package casescrape

import "context"

// WaitCondition tells a Renderer when a page counts as rendered.
type WaitCondition string

// Supported wait conditions.
const (
	// WaitNetworkIdle waits until the page has no pending network activity.
	WaitNetworkIdle WaitCondition = "network_idle"
	// WaitLoad waits for the load event only.
	WaitLoad WaitCondition = "load"
)

// Renderer turns a URL into a rendered DOM snapshot.
// Implementations may use browser automation to execute page scripts.
type Renderer interface {
	// Render navigates to url, waits according to wait, and returns the
	// rendered HTML. Failures are reported with code EFETCH.
	Render(ctx context.Context, url string, wait WaitCondition) (html string, err error)

	// Close releases browser resources.
	Close() error
}

// Pacer enforces the politeness delay between consecutive requests to the
// source site.
type Pacer interface {
	// Wait blocks until the next request may be issued.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context) error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
