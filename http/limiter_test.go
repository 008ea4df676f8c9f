package http_test

import (
	"context"
	"testing"
	"time"

	casescrapehttp "github.com/fwojciec/casescrape/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter_Wait(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		first    string
		second   string
		wantWait bool
	}{
		{"same host waits", "cdn.example.com", "cdn.example.com", true},
		{"other host is independent", "cdn.example.com", "img.example.org", false},
		{"www prefix shares the bucket", "www.example.com", "example.com", true},
		{"host case is ignored", "Example.COM", "example.com", true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			limiter := casescrapehttp.NewDomainLimiter(10)
			require.NoError(t, limiter.Wait(context.Background(), tt.first))

			start := time.Now()
			require.NoError(t, limiter.Wait(context.Background(), tt.second))
			elapsed := time.Since(start)

			if tt.wantWait {
				assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond)
			} else {
				assert.Less(t, elapsed, 50*time.Millisecond)
			}
		})
	}

	t.Run("returns when the context expires", func(t *testing.T) {
		t.Parallel()

		limiter := casescrapehttp.NewDomainLimiter(1)
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		assert.Error(t, limiter.Wait(ctx, "example.com"))
	})
}
