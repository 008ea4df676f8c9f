package goquery

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/casescrape"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Field is the result of an extraction recipe. Resolved is false when the
// value is a default because the structure it comes from was absent.
type Field[T any] struct {
	Value    T
	Resolved bool
}

func resolved[T any](v T) Field[T] { return Field[T]{Value: v, Resolved: true} }
func defaulted[T any](v T) Field[T] { return Field[T]{Value: v} }

var headingChain = MustChain(CSS("h1, h2, h3, h4, h5, h6, dt, th, strong, b"))

// HeadingText finds the first heading under sel whose text starts with one
// of labels, ignoring case and a trailing colon, and returns the text of the
// paragraph-like node that follows it. Inline headings (strong, b) inside a
// paragraph yield the rest of that paragraph. Defaults to "".
func HeadingText(sel *goquery.Selection, labels ...string) Field[string] {
	m := Resolve(sel, headingChain)
	if m.Kind == NoMatch {
		return defaulted("")
	}

	var value string
	var ok bool
	m.Selection.EachWithBreak(func(_ int, h *goquery.Selection) bool {
		text := normalizeSpace(h.Text())
		if !matchesLabel(text, labels) {
			return true
		}
		value, ok = headingValue(h, text)
		return !ok
	})
	if !ok {
		return defaulted("")
	}
	return resolved(value)
}

func matchesLabel(text string, labels []string) bool {
	text = strings.ToLower(casescrape.CleanLabel(text))
	for _, l := range labels {
		l = strings.ToLower(casescrape.CleanLabel(l))
		if l != "" && strings.HasPrefix(text, l) {
			return true
		}
	}
	return false
}

// headingValue returns the text attached to heading h.
func headingValue(h *goquery.Selection, headingText string) (string, bool) {
	n := h.Nodes[0]

	if n.DataAtom == atom.Strong || n.DataAtom == atom.B {
		if p := n.Parent; p != nil && isParagraphLike(p) {
			rest := strings.TrimSpace(strings.TrimPrefix(normalizeSpace(nodeText(p)), headingText))
			rest = strings.TrimSpace(strings.TrimLeft(rest, ":"))
			if rest != "" {
				return rest, true
			}
			n = p
		}
	}

	for s := n.NextSibling; s != nil; s = s.NextSibling {
		switch s.Type {
		case html.TextNode:
			if t := normalizeSpace(s.Data); t != "" {
				return t, true
			}
		case html.ElementNode:
			if isHeading(s) {
				return "", false
			}
			if !isParagraphLike(s) {
				continue
			}
			if t := normalizeSpace(nodeText(s)); t != "" {
				return t, true
			}
		}
	}
	return "", false
}

func isHeading(n *html.Node) bool {
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Dt, atom.Th:
		return true
	}
	return false
}

func isParagraphLike(n *html.Node) bool {
	switch n.DataAtom {
	case atom.P, atom.Div, atom.Dd, atom.Span, atom.Blockquote, atom.Section,
		atom.Ul, atom.Ol, atom.Pre, atom.Td:
		return true
	}
	return false
}

// nodeText concatenates the text nodes below n.
func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
		if c.Type == html.ElementNode && c.DataAtom == atom.Br {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

var labelChain = MustChain(
	Element("strong"),
	Element("b"),
	Element("label"),
	Element("span", "label"),
	Element("em"),
)

// LabelValues parses list items of the form "<strong>Label:</strong> value"
// into a map keyed by the cleaned label. Items without a leading label
// element are split on their first colon. The first occurrence of a label wins.
// Defaults to an empty, non-nil map.
func LabelValues(items *goquery.Selection) Field[map[string]string] {
	out := make(map[string]string)
	if items == nil {
		return defaulted(out)
	}

	items.Each(func(_ int, item *goquery.Selection) {
		text := normalizeSpace(item.Text())
		if text == "" {
			return
		}

		var label, value string
		if m := Resolve(item, labelChain); m.OK() && strings.HasPrefix(text, m.Text()) {
			raw := m.Text()
			label = casescrape.CleanLabel(raw)
			value = strings.TrimSpace(strings.TrimPrefix(text, raw))
			value = strings.TrimSpace(strings.TrimLeft(value, ":"))
		} else if i := strings.Index(text, ":"); i > 0 {
			label = casescrape.CleanLabel(text[:i])
			value = strings.TrimSpace(text[i+1:])
		}

		if label == "" {
			return
		}
		if _, exists := out[label]; exists {
			return
		}
		out[label] = value
	})

	if len(out) == 0 {
		return defaulted(out)
	}
	return resolved(out)
}

var (
	optionRe    = regexp.MustCompile(`^[A-D]\)`)
	optionChain = MustChain(CSS("p, li"))
)

// EnumeratedOptions collects paragraph-like nodes whose text starts with a
// single uppercase letter A-D followed by a closing parenthesis and joins them
// with newlines in document order. Defaults to "".
func EnumeratedOptions(sel *goquery.Selection) Field[string] {
	m := Resolve(sel, optionChain)
	if m.Kind == NoMatch {
		return defaulted("")
	}

	var options []string
	m.Selection.Each(func(_ int, s *goquery.Selection) {
		text := normalizeSpace(s.Text())
		if optionRe.MatchString(text) {
			options = append(options, text)
		}
	})
	if len(options) == 0 {
		return defaulted("")
	}
	return resolved(strings.Join(options, "\n"))
}

var caseCountRe = regexp.MustCompile(`(?is)^\s*(.*?)\s*(\d+)\s*cases?\b`)

// ParseCaseCount splits text of the form "<name> <digits> Cases" into a
// title and a count. When the pattern does not match, the whole text is the
// title and the count is built from every digit in fallback, or 0.
func ParseCaseCount(text, fallback string) (string, Field[int]) {
	text = normalizeSpace(text)
	if m := caseCountRe.FindStringSubmatch(text); m != nil {
		title := m[1]
		if title == "" {
			title = text
		}
		if n, err := strconv.Atoi(m[2]); err == nil {
			return title, resolved(n)
		}
		return title, defaulted(0)
	}
	return text, digitsCount(fallback)
}

func digitsCount(s string) Field[int] {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return defaulted(0)
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return defaulted(0)
	}
	return resolved(n)
}

// Source attributes tried in order for images and videos; lazy-loading
// templates keep the real URL in a data attribute.
var sourceAttrs = []string{"src", "data-src", "data-original", "data-lazy-src"}

var (
	imageChain  = MustChain(Element("img"))
	videoChain  = MustChain(CSS("video, video source, a[href$='.mp4'], a[href$='.webm']"))
	anchorChain = MustChain(Attribute("a", "href"))
)

// HarvestImages visits every img in sel, including sel itself, and returns
// one AssetRef per distinct absolute URL in document order. Captions come
// from the enclosing figure's figcaption, then data-caption, title and alt.
func HarvestImages(sel *goquery.Selection, base *url.URL) []casescrape.AssetRef {
	return harvest(sel, imageChain, base)
}

// HarvestVideos is like HarvestImages for video elements, their source
// children, and links to video files.
func HarvestVideos(sel *goquery.Selection, base *url.URL) []casescrape.AssetRef {
	return harvest(sel, videoChain, base)
}

func harvest(sel *goquery.Selection, chain Chain, base *url.URL) []casescrape.AssetRef {
	if sel == nil {
		return nil
	}
	var refs []casescrape.AssetRef
	seen := make(map[string]bool)
	visit := func(_ int, s *goquery.Selection) {
		n := s.Nodes[0]
		src := ""
		if n.DataAtom == atom.A {
			src = attr(n, "href")
		} else {
			src = firstAttr(n, sourceAttrs)
		}
		abs := ResolveURL(base, src)
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true
		refs = append(refs, casescrape.AssetRef{
			SourceURL: abs,
			Caption:   caption(s),
		})
	}

	for _, m := range chain.matchers {
		sel.FilterMatcher(m).Each(visit)
		sel.FindMatcher(m).Each(visit)
	}
	return refs
}

func firstAttr(n *html.Node, keys []string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(attr(n, k)); v != "" {
			return v
		}
	}
	return ""
}

func caption(s *goquery.Selection) string {
	if fig := s.Closest("figure"); fig.Length() > 0 {
		if t := normalizeSpace(fig.Find("figcaption").First().Text()); t != "" {
			return t
		}
	}
	for _, k := range []string{"data-caption", "title", "alt"} {
		if v, ok := s.Attr(k); ok && strings.TrimSpace(v) != "" {
			return normalizeSpace(v)
		}
	}
	return ""
}

// HarvestLinks returns the distinct absolute hrefs of the anchors in sel,
// including sel itself, in document order.
func HarvestLinks(sel *goquery.Selection, base *url.URL) []string {
	if sel == nil {
		return nil
	}
	var links []string
	seen := make(map[string]bool)
	visit := func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		abs := ResolveURL(base, href)
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true
		links = append(links, abs)
	}
	m := anchorChain.matchers[0]
	sel.FilterMatcher(m).Each(visit)
	sel.FindMatcher(m).Each(visit)
	return links
}
