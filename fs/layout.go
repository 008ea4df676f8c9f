// Package fs provides file-based storage for downloaded assets and sitemap
// analysis output.
package fs

import (
	"os"
	"path/filepath"

	"github.com/fwojciec/casescrape"
)

// Layout describes the output tree of a run: one folder per asset kind
// under Root.
type Layout struct {
	Root string
}

// Dir returns the folder assets of kind are written to.
func (l Layout) Dir(kind casescrape.AssetKind) string {
	return filepath.Join(l.Root, string(kind))
}

// Prepare creates the asset folders. It must run before the first asset is
// retrieved. Returns ECONFIG if a folder cannot be created.
func (l Layout) Prepare() error {
	for _, kind := range []casescrape.AssetKind{casescrape.AssetImage, casescrape.AssetVideo} {
		if err := os.MkdirAll(l.Dir(kind), 0755); err != nil {
			return casescrape.Errorf(casescrape.ECONFIG, "creating %s folder: %v", kind, err)
		}
	}
	return nil
}
