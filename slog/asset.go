package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/casescrape"
)

// Ensure LoggingAssetFetcher implements casescrape.AssetFetcher.
var _ casescrape.AssetFetcher = (*LoggingAssetFetcher)(nil)

// LoggingAssetFetcher wraps an AssetFetcher with debug logging.
type LoggingAssetFetcher struct {
	next   casescrape.AssetFetcher
	logger *slog.Logger
}

// NewLoggingAssetFetcher creates a new LoggingAssetFetcher.
func NewLoggingAssetFetcher(next casescrape.AssetFetcher, logger *slog.Logger) *LoggingAssetFetcher {
	return &LoggingAssetFetcher{next: next, logger: logger}
}

// Get logs the download and delegates to the wrapped fetcher.
func (f *LoggingAssetFetcher) Get(ctx context.Context, url string) (status int, body []byte, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("asset get",
			"url", url,
			"status", status,
			"bytes", len(body),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Get(ctx, url)
}
