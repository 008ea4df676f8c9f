package mock

import (
	"context"

	"github.com/fwojciec/casescrape"
)

var _ casescrape.AssetFetcher = (*AssetFetcher)(nil)

// AssetFetcher is a mock implementation of casescrape.AssetFetcher.
type AssetFetcher struct {
	GetFn func(ctx context.Context, url string) (int, []byte, error)
}

func (f *AssetFetcher) Get(ctx context.Context, url string) (int, []byte, error) {
	return f.GetFn(ctx, url)
}

var _ casescrape.AssetRetriever = (*AssetRetriever)(nil)

// AssetRetriever is a mock implementation of casescrape.AssetRetriever.
type AssetRetriever struct {
	RetrieveFn func(ctx context.Context, url string, kind casescrape.AssetKind) (string, error)
}

func (r *AssetRetriever) Retrieve(ctx context.Context, url string, kind casescrape.AssetKind) (string, error) {
	return r.RetrieveFn(ctx, url, kind)
}
