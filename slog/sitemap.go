// Package slog provides logging decorators for the casescrape service
// interfaces, built on log/slog.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/casescrape"
)

// Ensure LoggingSitemapService implements casescrape.SitemapService.
var _ casescrape.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with logging.
type LoggingSitemapService struct {
	next   casescrape.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next casescrape.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// Entries delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) Entries(ctx context.Context, siteURL string) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("sitemap entries",
			"url", siteURL,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Entries(ctx, siteURL)
}
