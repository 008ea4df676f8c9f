package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/casescrape"
)

// Ensure AssetStore implements casescrape.AssetRetriever at compile time.
var _ casescrape.AssetRetriever = (*AssetStore)(nil)

// AssetName returns the file name an asset URL is stored under: the base
// name of the URL path, or file_<hash> when the path has none.
func AssetName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "file_" + urlHash(rawURL)
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == ".." || name == "/" {
		return "file_" + urlHash(rawURL)
	}
	return name
}

func urlHash(rawURL string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(rawURL))
}

// AssetStore downloads assets into a Layout. Outcomes are cached for the
// lifetime of the store, so one store corresponds to one run.
type AssetStore struct {
	fetcher casescrape.AssetFetcher
	layout  Layout

	mu      sync.Mutex
	results map[string]retrieval
	owners  map[string]string // kind/name -> URL
}

type retrieval struct {
	path string
	err  error
}

// NewAssetStore creates an AssetStore writing into layout.
func NewAssetStore(fetcher casescrape.AssetFetcher, layout Layout) *AssetStore {
	return &AssetStore{
		fetcher: fetcher,
		layout:  layout,
		results: make(map[string]retrieval),
		owners:  make(map[string]string),
	}
}

// Retrieve downloads rawURL into the folder for kind and returns the local
// path. Repeated URLs return the cached outcome, failures included, without
// a new request.
func (s *AssetStore) Retrieve(ctx context.Context, rawURL string, kind casescrape.AssetKind) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.results[rawURL]; ok {
		return r.path, r.err
	}

	p, err := s.download(ctx, rawURL, kind)
	if err != nil && ctx.Err() != nil {
		// Interrupted downloads are not outcomes of the URL itself.
		return "", err
	}
	s.results[rawURL] = retrieval{path: p, err: err}
	return p, err
}

func (s *AssetStore) download(ctx context.Context, rawURL string, kind casescrape.AssetKind) (string, error) {
	status, body, err := s.fetcher.Get(ctx, rawURL)
	if err != nil {
		return "", casescrape.Errorf(casescrape.EFETCH, "downloading %s: %w", rawURL, err)
	}
	if status < 200 || status > 299 {
		return "", casescrape.Errorf(casescrape.EFETCH, "downloading %s: status %d", rawURL, status)
	}

	dir := s.layout.Dir(kind)
	dst := filepath.Join(dir, s.claimName(rawURL, kind))
	if err := writeFile(dir, dst, body); err != nil {
		return "", casescrape.Errorf(casescrape.EINTERNAL, "saving %s: %v", rawURL, err)
	}
	return dst, nil
}

// claimName picks the file name for rawURL. A name already taken by a
// different URL in this run gets the URL hash appended to its stem.
func (s *AssetStore) claimName(rawURL string, kind casescrape.AssetKind) string {
	name := AssetName(rawURL)
	key := string(kind) + "/" + name
	if owner, ok := s.owners[key]; ok && owner != rawURL {
		ext := path.Ext(name)
		name = strings.TrimSuffix(name, ext) + "_" + urlHash(rawURL) + ext
		key = string(kind) + "/" + name
	}
	s.owners[key] = rawURL
	return name
}

// writeFile writes data to a temporary file in dir and renames it to dst,
// so dst never holds a partial payload.
func writeFile(dir, dst string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
