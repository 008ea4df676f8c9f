package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/casescrape"
	"github.com/go-resty/resty/v2"
)

// Ensure SitemapService implements casescrape.SitemapService.
var _ casescrape.SitemapService = (*SitemapService)(nil)

// SitemapService reads a site's sitemaps over HTTP.
type SitemapService struct {
	client *resty.Client
}

// NewSitemapService creates a SitemapService. If client is nil, NewClient()
// is used.
func NewSitemapService(client *resty.Client) *SitemapService {
	if client == nil {
		client = NewClient()
	}
	return &SitemapService{client: client}
}

// Entries lists the URLs of the site's sitemaps. A siteURL with a path, such
// as https://example.com/cases/, keeps only URLs below that path. A site
// without sitemaps yields an empty, non-nil slice.
func (s *SitemapService) Entries(ctx context.Context, siteURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	base, err := url.Parse(siteURL)
	if err != nil || !base.IsAbs() {
		return nil, casescrape.Errorf(casescrape.EINVALID, "invalid site URL %q", siteURL)
	}

	locations, err := s.locate(ctx, base.Scheme+"://"+base.Host)
	if err != nil {
		return nil, err
	}

	w := &sitemapWalk{
		svc:     s,
		scope:   scope(base.Path),
		visited: make(map[string]bool),
		listed:  make(map[string]bool),
		entries: []string{},
	}
	for _, loc := range locations {
		if err := w.visit(ctx, loc); err != nil {
			return nil, err
		}
	}
	return w.entries, nil
}

// locate returns the sitemaps announced in robots.txt, or /sitemap.xml when
// robots.txt names none and that file exists.
func (s *SitemapService) locate(ctx context.Context, origin string) ([]string, error) {
	if body, err := s.fetch(ctx, origin+"/robots.txt"); err == nil {
		if found := robotsSitemaps(string(body)); len(found) > 0 {
			return found, nil
		}
	} else if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	fallback := origin + "/sitemap.xml"
	resp, err := s.client.R().SetContext(ctx).Head(fallback)
	switch {
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case err != nil, resp.StatusCode() != http.StatusOK:
		return nil, nil
	}
	return []string{fallback}, nil
}

// robotsSitemaps returns the values of Sitemap: directives, matched
// case-insensitively.
func robotsSitemaps(robots string) []string {
	var found []string
	for _, line := range strings.Split(robots, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "sitemap") {
			continue
		}
		if v := strings.TrimSpace(value); v != "" {
			found = append(found, v)
		}
	}
	return found
}

// scope turns a site path into a prefix ending in a slash; the root path
// yields no scope.
func scope(p string) string {
	if p == "" || p == "/" {
		return ""
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// sitemapWalk collects URLs across nested sitemaps in document order.
type sitemapWalk struct {
	svc     *SitemapService
	scope   string
	visited map[string]bool
	listed  map[string]bool
	entries []string
}

func (w *sitemapWalk) visit(ctx context.Context, sitemapURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.visited[sitemapURL] {
		return nil
	}
	w.visited[sitemapURL] = true

	body, err := w.svc.fetch(ctx, sitemapURL)
	if err != nil {
		return err
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return casescrape.Errorf(casescrape.EMALFORMED, "parsing sitemap %s: %v", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return casescrape.Errorf(casescrape.EMALFORMED, "sitemap %s has no root element", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		for _, loc := range root.FindElements("./sitemap/loc") {
			if child := strings.TrimSpace(loc.Text()); child != "" {
				if err := w.visit(ctx, child); err != nil {
					return err
				}
			}
		}
		return nil
	}
	for _, loc := range root.FindElements("./url/loc") {
		w.add(strings.TrimSpace(loc.Text()))
	}
	return nil
}

func (w *sitemapWalk) add(u string) {
	if u == "" || w.listed[u] || !w.inScope(u) {
		return
	}
	w.listed[u] = true
	w.entries = append(w.entries, u)
}

// inScope respects path boundaries: /cases/ admits /cases/1 but not
// /casesheet.
func (w *sitemapWalk) inScope(u string) bool {
	if w.scope == "" {
		return true
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	return strings.HasPrefix(parsed.Path+"/", w.scope)
}

// fetch GETs target and returns the body of a 200 response.
func (s *SitemapService) fetch(ctx context.Context, target string) ([]byte, error) {
	resp, err := s.client.R().SetContext(ctx).Get(target)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, casescrape.Errorf(casescrape.EFETCH, "fetching %s: %v", target, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, casescrape.Errorf(casescrape.EFETCH, "HTTP %d for %s", resp.StatusCode(), target)
	}
	return resp.Body(), nil
}
