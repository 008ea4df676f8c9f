package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/casescrape"
)

// Ensure LoggingRecordSink implements casescrape.RecordSink.
var _ casescrape.RecordSink = (*LoggingRecordSink)(nil)

// LoggingRecordSink wraps a RecordSink, logging every row at debug level
// and every failure at error level.
type LoggingRecordSink struct {
	next   casescrape.RecordSink
	logger *slog.Logger
}

// NewLoggingRecordSink creates a new LoggingRecordSink.
func NewLoggingRecordSink(next casescrape.RecordSink, logger *slog.Logger) *LoggingRecordSink {
	return &LoggingRecordSink{next: next, logger: logger}
}

// Write delegates to the wrapped sink and logs the row.
func (s *LoggingRecordSink) Write(ctx context.Context, row *casescrape.OutputRow) error {
	err := s.next.Write(ctx, row)
	if err != nil {
		s.logger.Error("write row",
			"case", row.CaseTitle,
			"url", row.SourceURL,
			"err", err,
		)
		return err
	}
	s.logger.Debug("write row",
		"case", row.CaseTitle,
		"url", row.SourceURL,
		"image", row.ImagePath,
	)
	return nil
}

// Close delegates to the wrapped sink.
func (s *LoggingRecordSink) Close() error {
	return s.next.Close()
}
