package http

import (
	"context"
	"net/url"

	"github.com/fwojciec/casescrape"
	"github.com/go-resty/resty/v2"
)

// Ensure AssetClient implements casescrape.AssetFetcher at compile time.
var _ casescrape.AssetFetcher = (*AssetClient)(nil)

// AssetClient downloads binary assets with plain GET requests.
type AssetClient struct {
	client  *resty.Client
	limiter casescrape.DomainLimiter
}

// NewAssetClient creates an AssetClient. If client is nil, NewClient() is
// used. limiter may be nil to disable rate limiting.
func NewAssetClient(client *resty.Client, limiter casescrape.DomainLimiter) *AssetClient {
	if client == nil {
		client = NewClient()
	}
	return &AssetClient{client: client, limiter: limiter}
}

// Get fetches rawURL and returns the status code and full body. Only
// transport failures are errors; the caller decides what a status means.
func (c *AssetClient) Get(ctx context.Context, rawURL string) (int, []byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, nil, casescrape.Errorf(casescrape.EINVALID, "invalid asset URL %q", rawURL)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, u.Hostname()); err != nil {
			return 0, nil, err
		}
	}

	resp, err := c.client.R().
		SetContext(ctx).
		Get(rawURL)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode(), resp.Body(), nil
}
