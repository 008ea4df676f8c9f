package casescrape

import (
	"context"
	"net/url"
	"regexp"
	"strings"
)

// SitemapService discovers URLs from website sitemaps.
type SitemapService interface {
	// Entries returns every URL listed in the site's sitemaps, in document
	// order and without duplicates. It first checks robots.txt for sitemap
	// directives, then falls back to /sitemap.xml. Sitemap indexes are
	// resolved recursively. Unparsable XML is reported as EMALFORMED.
	Entries(ctx context.Context, siteURL string) ([]string, error)
}

// SitemapEntry is one analysed sitemap URL.
type SitemapEntry struct {
	URL         string
	LastSegment string
}

// SitemapAnalysis is the result of AnalyzeSitemap.
type SitemapAnalysis struct {
	Entries     []SitemapEntry
	DigitEnding []string
}

// AnalyzeSitemap records the last path segment of each URL and collects
// the URLs whose last segment ends in a decimal digit. URLs rejected by
// filter are left out entirely; a nil filter keeps everything.
func AnalyzeSitemap(urls []string, filter *URLFilter) *SitemapAnalysis {
	a := &SitemapAnalysis{}
	for _, u := range urls {
		if !filter.Match(u) {
			continue
		}
		seg := LastSegment(u)
		a.Entries = append(a.Entries, SitemapEntry{URL: u, LastSegment: seg})
		if endsInDigit(seg) {
			a.DigitEnding = append(a.DigitEnding, u)
		}
	}
	return a
}

// LastSegment returns the final non-empty path segment of rawURL.
// Trailing slashes are ignored: https://x/cases/case-100/ yields "case-100".
func LastSegment(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		p = u.Path
	}
	p = strings.TrimRight(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

func endsInDigit(s string) bool {
	if s == "" {
		return false
	}
	c := s[len(s)-1]
	return c >= '0' && c <= '9'
}

// URLFilter specifies patterns for including/excluding URLs.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one pattern are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// NewURLFilter compiles include and exclude patterns into a filter.
// Returns EINVALID if a pattern does not compile, and nil if both lists are
// empty.
func NewURLFilter(include, exclude []string) (*URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}
	f := &URLFilter{}
	for _, p := range include {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid include pattern %q: %v", p, err)
		}
		f.Include = append(f.Include, re)
	}
	for _, p := range exclude {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid exclude pattern %q: %v", p, err)
		}
		f.Exclude = append(f.Exclude, re)
	}
	return f, nil
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(url) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}

	return true
}
