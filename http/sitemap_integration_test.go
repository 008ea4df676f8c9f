//go:build integration

package http_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/casescrape"
	casescrapehttp "github.com/fwojciec/casescrape/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapService_Integration_UltrasoundCases(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	svc := casescrapehttp.NewSitemapService(nil)

	urls, err := svc.Entries(ctx, "https://www.ultrasoundcases.info")
	require.NoError(t, err)
	assert.NotEmpty(t, urls, "expected at least some URLs from the sitemap")

	a := casescrape.AnalyzeSitemap(urls, nil)
	assert.Len(t, a.Entries, len(urls))
}
