// Package http provides the plain-HTTP collaborators of a scrape: the asset
// downloader and the sitemap reader. Both share a resty client.
package http

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout is the default timeout for a single HTTP request.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type clientOptions struct {
	timeout   time.Duration
	userAgent string
}

// Option configures a client built by NewClient.
type Option func(*clientOptions)

// WithTimeout sets the per-request timeout.
// Defaults to DefaultTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *clientOptions) {
		o.userAgent = ua
	}
}

// NewClient creates a resty client with the package defaults applied.
func NewClient(opts ...Option) *resty.Client {
	o := clientOptions{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(&o)
	}

	client := resty.New()
	client.SetTimeout(o.timeout)
	client.SetHeader("User-Agent", o.userAgent)
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	return client
}
