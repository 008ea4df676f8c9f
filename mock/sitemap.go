package mock

import (
	"context"

	"github.com/fwojciec/casescrape"
)

var _ casescrape.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of casescrape.SitemapService.
type SitemapService struct {
	EntriesFn func(ctx context.Context, siteURL string) ([]string, error)
}

func (s *SitemapService) Entries(ctx context.Context, siteURL string) ([]string, error) {
	return s.EntriesFn(ctx, siteURL)
}
