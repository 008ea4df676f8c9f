package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/casescrape"
)

// Ensure LoggingRenderer implements casescrape.Renderer.
var _ casescrape.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with logging.
type LoggingRenderer struct {
	next   casescrape.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next casescrape.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render logs the URL being rendered and delegates to the wrapped renderer.
func (r *LoggingRenderer) Render(ctx context.Context, url string, wait casescrape.WaitCondition) (html string, err error) {
	defer func(begin time.Time) {
		r.logger.Info("render",
			"url", url,
			"wait", string(wait),
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Render(ctx, url, wait)
}

// Close delegates to the wrapped renderer.
func (r *LoggingRenderer) Close() error {
	return r.next.Close()
}
