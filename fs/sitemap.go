package fs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/casescrape"
)

// Sitemap analysis file names.
const (
	AllURLsFile     = "all_urls.txt"
	DigitEndingFile = "digit_ending_urls.txt"
)

// WriteSitemapAnalysis writes a into dir as two text files: AllURLsFile with
// every entry and its last path segment, and DigitEndingFile with one URL
// per line. Existing files are replaced.
func WriteSitemapAnalysis(dir string, a *casescrape.SitemapAnalysis) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return casescrape.Errorf(casescrape.ECONFIG, "creating output folder: %v", err)
	}

	separator := strings.Repeat("-", 80)
	err := writeLines(filepath.Join(dir, AllURLsFile), func(w *bufio.Writer) {
		for _, e := range a.Entries {
			fmt.Fprintf(w, "URL: %s\n", e.URL)
			fmt.Fprintf(w, "Last segment: %s\n", e.LastSegment)
			fmt.Fprintln(w, separator)
		}
	})
	if err != nil {
		return err
	}

	return writeLines(filepath.Join(dir, DigitEndingFile), func(w *bufio.Writer) {
		for _, u := range a.DigitEnding {
			fmt.Fprintln(w, u)
		}
	})
}

func writeLines(name string, fill func(w *bufio.Writer)) error {
	f, err := os.Create(name)
	if err != nil {
		return casescrape.Errorf(casescrape.ECONFIG, "creating %s: %v", filepath.Base(name), err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fill(w)
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}
