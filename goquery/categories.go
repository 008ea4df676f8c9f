package goquery

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/casescrape"
	"github.com/titanous/json5"
)

// jsonCategory is one entry of the category list the site embeds as JSON in
// <div id="jsoncats">.
type jsonCategory struct {
	ID           any    `json:"id"`
	Header       string `json:"header"`
	ListLocation string `json:"listLocation"`
}

var jsonCatsChain = MustChain(
	CSS("div#jsoncats"),
	CSS("#jsoncats"),
	CSS("script#jsoncats"),
)

// ParseCategories decodes the embedded category list of a rendered site
// root. Each category URL is <site root>/cases/<listLocation>/.
//
// Returns ENOTFOUND if the page carries no category list and EMALFORMED if
// the list cannot be decoded. The decoder accepts JSON5, so trailing commas
// and unquoted keys do not break extraction.
func ParseCategories(doc *goquery.Document, pageURL *url.URL) ([]*casescrape.Category, error) {
	m := Resolve(doc.Selection, jsonCatsChain)
	if m.Kind == NoMatch {
		return nil, casescrape.Errorf(casescrape.ENOTFOUND, "no embedded category list")
	}

	raw := m.First().Text()
	if strings.TrimSpace(raw) == "" {
		raw, _ = m.First().Attr("data-json")
	}
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end < start {
		return nil, casescrape.Errorf(casescrape.EMALFORMED, "embedded category list is not an array")
	}

	var entries []jsonCategory
	if err := json5.Unmarshal([]byte(raw[start:end+1]), &entries); err != nil {
		return nil, casescrape.Errorf(casescrape.EMALFORMED, "decoding embedded category list: %v", err)
	}

	root := siteRoot(pageURL)
	categories := make([]*casescrape.Category, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.Header)
		loc := strings.Trim(strings.TrimSpace(e.ListLocation), "/")
		if name == "" || loc == "" {
			continue
		}
		categories = append(categories, &casescrape.Category{
			ID:           formatID(e.ID),
			Name:         name,
			ListLocation: loc,
			URL:          ResolveURL(root, "/cases/"+loc+"/"),
		})
	}
	return categories, nil
}

// formatID renders a decoded id; numbers decode as float64.
func formatID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case float64:
		return fmt.Sprintf("%.0f", id)
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}
