package casescrape

import "context"

// AssetKind selects the destination folder of a downloaded asset.
type AssetKind string

// Asset kinds.
const (
	AssetImage AssetKind = "images"
	AssetVideo AssetKind = "videos"
)

// AssetFetcher performs plain HTTP GETs for binary assets.
type AssetFetcher interface {
	// Get returns the response status and the full body. A transport
	// failure is returned as an error; a non-success status is not.
	Get(ctx context.Context, url string) (status int, body []byte, err error)
}

// AssetRetriever materialises remote assets as local files.
type AssetRetriever interface {
	// Retrieve downloads url into the folder for kind and returns the local
	// path. A failed or non-success download returns an EFETCH error and
	// leaves no file behind. Repeated URLs within a run are served from a
	// cache without a new request.
	Retrieve(ctx context.Context, url string, kind AssetKind) (localPath string, err error)
}
