// Package goquery implements page extraction for the case site on top of
// github.com/PuerkitoBio/goquery. Every structural lookup goes through a
// locator Chain so that the template variants the site serves for the same
// content are tried in a fixed order.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/casescrape"
)

// Ensure Extractor implements casescrape.Extractor at compile time.
var _ casescrape.Extractor = (*Extractor)(nil)

// Locator chains for each page template. Order matters: the first locator
// that matches wins.
var (
	// Category links when the site root carries no embedded list.
	categoryLinkChain = MustChain(
		CSS("div.category-list a[href]"),
		CSS("nav.categories a[href]"),
	)

	// Subcategory links not introduced by a heading naming the category.
	subcategoryLinkChain = MustChain(
		CSS("ul.subcategories li"),
		CSS("div.option-title.active a[href]"),
		CSS("div.category-list a[href]"),
	)

	groupContainerChain = MustChain(
		Element("div", "filtered-candidate-wrapper"),
		Element("div", "candidate-filter-result", "visible"),
		Element("div", "candidate-filter-result"),
		Element("div", "candidate-container"),
		Element("div", "content-container"),
	)
	groupItemChain = MustChain(
		Element("div", "candidate"),
		Element("a", "candidate"),
		Element("div", "case-item"),
	)
	groupTitleChain = MustChain(Element("h3"), Element("h2"), CSS(".title"))
	groupCountChain = MustChain(Element("span", "cases-count"), Element("span", "count"))

	stubContainerChain = MustChain(
		Element("div", "half-grid"),
		Element("div", "cases-grid"),
		Element("div", "candidate-filter-result"),
	)
	stubItemChain = MustChain(
		Element("div", "thumb"),
		Element("div", "case-item"),
		Element("div", "candidate", "half-grid"),
		Element("div", "candidate"),
	)
	stubTitleChain       = MustChain(Element("h3"), Element("h2"), CSS(".title"))
	stubDescriptionChain = MustChain(Element("p"), Element("div", "description"))

	linkChain = MustChain(Attribute("a", "href"))

	caseScopeChain = MustChain(
		Element("div", "case-content"),
		Element("div", "case"),
		Element("article"),
		Element("main"),
		Element("div", "content-container"),
	)
	caseTitleChain       = MustChain(Element("h1"), CSS(".case-title"), Element("h2"))
	caseDescriptionChain = MustChain(
		Element("div", "case-description"),
		Element("div", "description"),
		Element("p", "description"),
	)
	patientDetailChain = MustChain(
		CSS("ul.patient-details li"),
		CSS("ul.case-details li"),
		CSS("div.patient-details li"),
		CSS(".details ul li"),
	)
	galleryChain = MustChain(
		Element("div", "case-images"),
		Element("div", "gallery"),
		Element("div", "images"),
		Element("figure"),
	)
)

// Heading labels for heading-relative fields.
var (
	descriptionLabels = []string{"Description"}
	clinicalLabels    = []string{"Clinical information", "Clinical info", "Clinical history"}
	conclusionLabels  = []string{"Conclusion", "Diagnosis"}
)

// Extractor extracts categories, subcategories, groups and cases from
// rendered pages of the case site.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Categories extracts the top-level categories from the site root, from the
// embedded JSON list when present and from category links otherwise.
// Returns EMALFORMED if the embedded list exists but cannot be decoded.
func (e *Extractor) Categories(html, pageURL string) ([]*casescrape.Category, error) {
	doc, base, err := parse(html, pageURL)
	if err != nil {
		return nil, err
	}

	categories, err := ParseCategories(doc, base)
	if err == nil {
		return categories, nil
	}
	if casescrape.ErrorCode(err) != casescrape.ENOTFOUND {
		return nil, err
	}

	m := Resolve(doc.Selection, categoryLinkChain)
	m.Selection.Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		u := ResolveURL(base, href)
		name := normalizeSpace(a.Text())
		if u == "" || name == "" {
			return
		}
		categories = append(categories, &casescrape.Category{
			Name:         name,
			ListLocation: casescrape.LastSegment(u),
			URL:          u,
		})
	})
	return categories, nil
}

// Subcategories extracts the subcategories of category from its page. The
// list following a heading that names the category is preferred; otherwise
// the first subcategory link list found is used.
func (e *Extractor) Subcategories(html, pageURL string, category *casescrape.Category) ([]*casescrape.Subcategory, error) {
	doc, base, err := parse(html, pageURL)
	if err != nil {
		return nil, err
	}

	var subs []*casescrape.Subcategory
	seen := make(map[string]bool)
	add := func(item *goquery.Selection) {
		a := item
		if goquery.NodeName(item) != "a" {
			a = Resolve(item, linkChain).First()
		}
		href, _ := a.Attr("href")
		u := ResolveURL(base, href)
		name := normalizeSpace(item.Text())
		if u == "" || name == "" || seen[u] {
			return
		}
		seen[u] = true
		subs = append(subs, &casescrape.Subcategory{
			Name:           name,
			URL:            u,
			ParentCategory: category.Name,
		})
	}

	doc.Find("h4, h3").Each(func(_ int, h *goquery.Selection) {
		if category.Name == "" || !strings.Contains(h.Text(), category.Name) {
			return
		}
		list := h.NextAllFiltered("ul").First()
		if list.Length() == 0 {
			list = h.Parent().NextAllFiltered("ul").First()
		}
		list.Find("li").Each(func(_ int, li *goquery.Selection) { add(li) })
	})
	if len(subs) > 0 {
		return subs, nil
	}

	Resolve(doc.Selection, subcategoryLinkChain).Selection.Each(func(_ int, s *goquery.Selection) { add(s) })
	return subs, nil
}

// Groups extracts the candidate groups listed on a subcategory page.
func (e *Extractor) Groups(html, pageURL string) ([]*casescrape.CandidateGroup, error) {
	doc, base, err := parse(html, pageURL)
	if err != nil {
		return nil, err
	}

	var groups []*casescrape.CandidateGroup
	items := resolveItems(doc, groupContainerChain, groupItemChain)
	items.Each(func(_ int, item *goquery.Selection) {
		count := Resolve(item, groupCountChain)
		title, n := ParseCaseCount(item.Text(), count.Selection.First().Text())
		if h := Resolve(item, groupTitleChain); h.OK() {
			title = h.Text()
		}
		groups = append(groups, &casescrape.CandidateGroup{
			Title:             title,
			DeclaredCaseCount: n.Value,
			URL:               itemLink(item, base),
		})
	})
	return groups, nil
}

// CaseStubs extracts the case tiles listed on a group page.
func (e *Extractor) CaseStubs(html, pageURL string) ([]*casescrape.CaseStub, error) {
	doc, base, err := parse(html, pageURL)
	if err != nil {
		return nil, err
	}

	var stubs []*casescrape.CaseStub
	items := resolveItems(doc, stubContainerChain, stubItemChain)
	items.Each(func(_ int, item *goquery.Selection) {
		title := Resolve(item, stubTitleChain).Text()
		if title == "" {
			title = normalizeSpace(item.Text())
		}
		stubs = append(stubs, &casescrape.CaseStub{
			Title:       title,
			Description: Resolve(item, stubDescriptionChain).Text(),
			URL:         itemLink(item, base),
			Thumbnails:  HarvestImages(item, base),
		})
	})
	return stubs, nil
}

// Case extracts a case from its own page. Title, description and images
// missing from the page are taken from stub when it is non-nil.
func (e *Extractor) Case(html, pageURL string, stub *casescrape.CaseStub) (*casescrape.Case, error) {
	doc, base, err := parse(html, pageURL)
	if err != nil {
		return nil, err
	}
	if stub == nil {
		stub = &casescrape.CaseStub{}
	}

	scope := doc.Selection
	if m := Resolve(doc.Selection, caseScopeChain); m.OK() {
		scope = m.First()
	}

	c := &casescrape.Case{
		Title:          Resolve(scope, caseTitleChain).Text(),
		ClinicalInfo:   HeadingText(scope, clinicalLabels...).Value,
		Conclusion:     HeadingText(scope, conclusionLabels...).Value,
		Options:        EnumeratedOptions(scope).Value,
		PatientDetails: LabelValues(Resolve(scope, patientDetailChain).Selection).Value,
		Videos:         HarvestVideos(scope, base),
		SourceURL:      base.String(),
	}

	if d := HeadingText(scope, descriptionLabels...); d.Resolved {
		c.Description = d.Value
	} else {
		c.Description = Resolve(scope, caseDescriptionChain).Text()
	}

	if g := Resolve(scope, galleryChain); g.OK() {
		c.Images = HarvestImages(g.Selection, base)
	}
	if len(c.Images) == 0 {
		c.Images = HarvestImages(scope, base)
	}

	if c.Title == "" {
		c.Title = stub.Title
	}
	if c.Description == "" {
		c.Description = stub.Description
	}
	if len(c.Images) == 0 {
		c.Images = append(c.Images, stub.Thumbnails...)
	}
	return c, nil
}

// parse parses html and pageURL. Returns EINVALID if either is unusable.
func parse(html, pageURL string) (*goquery.Document, *url.URL, error) {
	base, err := url.Parse(pageURL)
	if err != nil || !base.IsAbs() {
		return nil, nil, casescrape.Errorf(casescrape.EINVALID, "invalid page URL %q", pageURL)
	}
	base.Fragment = ""

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, nil, casescrape.Errorf(casescrape.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, base, nil
}

// resolveItems finds listing items inside the first matching container.
// When the container holds none of the item shapes, the whole document is
// searched instead.
func resolveItems(doc *goquery.Document, containers, items Chain) *goquery.Selection {
	if c := Resolve(doc.Selection, containers); c.Kind != NoMatch {
		if m := Resolve(c.Selection, items); m.Kind != NoMatch {
			return m.Selection
		}
	}
	return Resolve(doc.Selection, items).Selection
}

// itemLink returns the absolute link of a listing item: its own href or
// data-href, else its first anchor.
func itemLink(item *goquery.Selection, base *url.URL) string {
	for _, k := range []string{"href", "data-href"} {
		if v, ok := item.Attr(k); ok {
			if u := ResolveURL(base, v); u != "" {
				return u
			}
		}
	}
	href := Resolve(item, linkChain).Text()
	return ResolveURL(base, href)
}
