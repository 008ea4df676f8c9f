package http

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/casescrape"
	"golang.org/x/time/rate"
)

var _ casescrape.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces asset downloads per host. Hosts are compared
// case-insensitively and a leading "www." is ignored, so a site and its
// bare domain share one bucket.
type DomainLimiter struct {
	rps float64

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewDomainLimiter allows rps requests per second to each host, without
// bursting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{rps: rps, buckets: make(map[string]*rate.Limiter)}
}

// Wait blocks until a request to domain is allowed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return d.bucket(domain).Wait(ctx)
}

func (d *DomainLimiter) bucket(domain string) *rate.Limiter {
	key := strings.TrimPrefix(strings.ToLower(domain), "www.")

	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.buckets[key]
	if !ok {
		b = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.buckets[key] = b
	}
	return b
}
