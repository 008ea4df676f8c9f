package casescrape

import "context"

// RecordSink writes output rows incrementally.
type RecordSink interface {
	// Write appends row and makes it durable before returning.
	Write(ctx context.Context, row *OutputRow) error

	// Close releases the underlying storage. Close is idempotent.
	Close() error
}
