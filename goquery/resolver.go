package goquery

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Locator describes one structural match: an element kind with required
// classes, optionally narrowed to elements carrying Attr (equal to Value when
// Value is set). When Attr is set, the attribute is also the content that
// decides whether a match is blank. CSS, when set, is used verbatim instead
// of the other fields.
type Locator struct {
	Tag     string
	Classes []string
	Attr    string
	Value   string
	CSS     string
}

// Element returns a Locator for a tag carrying all the given classes.
func Element(tag string, classes ...string) Locator {
	return Locator{Tag: tag, Classes: classes}
}

// Attribute returns a Locator for a tag whose content is attribute attr.
func Attribute(tag, attr string) Locator {
	return Locator{Tag: tag, Attr: attr}
}

// CSS returns a Locator matching a raw CSS selector.
func CSS(selector string) Locator {
	return Locator{CSS: selector}
}

// Selector returns the CSS selector the locator compiles to.
func (l Locator) Selector() string {
	if l.CSS != "" {
		return l.CSS
	}
	var b strings.Builder
	b.WriteString(l.Tag)
	for _, c := range l.Classes {
		b.WriteByte('.')
		b.WriteString(c)
	}
	if l.Attr != "" {
		if l.Value != "" {
			fmt.Fprintf(&b, "[%s=%q]", l.Attr, l.Value)
		} else {
			fmt.Fprintf(&b, "[%s]", l.Attr)
		}
	}
	if b.Len() == 0 {
		return "*"
	}
	return b.String()
}

// String implements fmt.Stringer.
func (l Locator) String() string {
	return l.Selector()
}

// Chain is an ordered list of locators tried in sequence until one matches.
type Chain struct {
	locators []Locator
	matchers []cascadia.Selector
}

// NewChain compiles locators into a Chain.
// Returns an error naming the first locator that does not compile.
func NewChain(locators ...Locator) (Chain, error) {
	c := Chain{
		locators: locators,
		matchers: make([]cascadia.Selector, len(locators)),
	}
	for i, l := range locators {
		m, err := cascadia.Compile(l.Selector())
		if err != nil {
			return Chain{}, fmt.Errorf("compiling locator %d (%s): %w", i, l, err)
		}
		c.matchers[i] = m
	}
	return c, nil
}

// MustChain is like NewChain but panics if a locator does not compile.
// It is intended for package-level chain declarations.
func MustChain(locators ...Locator) Chain {
	c, err := NewChain(locators...)
	if err != nil {
		panic(err)
	}
	return c
}

// Locators returns the chain's locators in evaluation order.
func (c Chain) Locators() []Locator {
	return c.locators
}

// Len returns the number of locators in the chain.
func (c Chain) Len() int {
	return len(c.locators)
}

// MatchKind is the outcome of resolving a Chain.
type MatchKind int

// Match outcomes.
const (
	// NoMatch means the chain was exhausted without a structural match.
	NoMatch MatchKind = iota
	// FoundButEmpty means a locator matched but every match is blank.
	FoundButEmpty
	// Found means a locator matched with content.
	Found
)

// String implements fmt.Stringer.
func (k MatchKind) String() string {
	switch k {
	case Found:
		return "found"
	case FoundButEmpty:
		return "found-but-empty"
	default:
		return "no-match"
	}
}

// MatchResult is the result of Resolve.
type MatchResult struct {
	Kind MatchKind

	// Selection holds every node matched by the winning locator.
	// It is an empty selection on NoMatch.
	Selection *goquery.Selection

	// Locator is the winning locator and Index its position in the chain.
	// Index is -1 on NoMatch.
	Locator Locator
	Index   int
}

// OK reports whether the result is Found.
func (m MatchResult) OK() bool {
	return m.Kind == Found
}

// First returns the first matched node as a selection.
func (m MatchResult) First() *goquery.Selection {
	return m.Selection.First()
}

// Text returns the normalised text of the first matched node, or of its
// Attr when the winning locator names one. Returns "" unless Found.
func (m MatchResult) Text() string {
	if m.Kind != Found {
		return ""
	}
	first := m.First()
	if m.Locator.Attr != "" {
		v, _ := first.Attr(m.Locator.Attr)
		return strings.TrimSpace(v)
	}
	return normalizeSpace(first.Text())
}

// Resolve evaluates chain against the descendants of sel in order and
// returns the first locator that matches at least one node. Resolve never
// fails: an exhausted chain, or a nil selection, is NoMatch.
func Resolve(sel *goquery.Selection, chain Chain) MatchResult {
	if sel == nil {
		return noMatch()
	}
	for i, m := range chain.matchers {
		matched := sel.FindMatcher(m)
		if matched.Length() == 0 {
			continue
		}
		loc := chain.locators[i]
		kind := FoundButEmpty
		for _, n := range matched.Nodes {
			if hasContent(n, loc) {
				kind = Found
				break
			}
		}
		return MatchResult{Kind: kind, Selection: matched, Locator: loc, Index: i}
	}
	return noMatch()
}

func noMatch() MatchResult {
	return MatchResult{Kind: NoMatch, Selection: &goquery.Selection{}, Index: -1}
}

// hasContent reports whether n carries non-blank content for loc.
func hasContent(n *html.Node, loc Locator) bool {
	if loc.Attr != "" {
		return strings.TrimSpace(attr(n, loc.Attr)) != ""
	}
	if isMedia(n) {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return true
			}
		case html.ElementNode:
			if hasContent(c, loc) {
				return true
			}
		}
	}
	return false
}

// isMedia reports whether n is an element whose content is an attribute
// rather than text: an image or video with a source, or a link.
func isMedia(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Img, atom.Video, atom.Source, atom.Iframe:
		return attr(n, "src") != "" || attr(n, "data-src") != ""
	case atom.A:
		return attr(n, "href") != ""
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// normalizeSpace collapses runs of whitespace into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
