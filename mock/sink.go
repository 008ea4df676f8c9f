package mock

import (
	"context"

	"github.com/fwojciec/casescrape"
)

var _ casescrape.RecordSink = (*RecordSink)(nil)

// RecordSink is a mock implementation of casescrape.RecordSink.
type RecordSink struct {
	WriteFn func(ctx context.Context, row *casescrape.OutputRow) error
	CloseFn func() error
}

func (s *RecordSink) Write(ctx context.Context, row *casescrape.OutputRow) error {
	return s.WriteFn(ctx, row)
}

func (s *RecordSink) Close() error {
	return s.CloseFn()
}
