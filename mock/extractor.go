package mock

import "github.com/fwojciec/casescrape"

var _ casescrape.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of casescrape.Extractor.
type Extractor struct {
	CategoriesFn    func(html, pageURL string) ([]*casescrape.Category, error)
	SubcategoriesFn func(html, pageURL string, category *casescrape.Category) ([]*casescrape.Subcategory, error)
	GroupsFn        func(html, pageURL string) ([]*casescrape.CandidateGroup, error)
	CaseStubsFn     func(html, pageURL string) ([]*casescrape.CaseStub, error)
	CaseFn          func(html, pageURL string, stub *casescrape.CaseStub) (*casescrape.Case, error)
}

func (e *Extractor) Categories(html, pageURL string) ([]*casescrape.Category, error) {
	return e.CategoriesFn(html, pageURL)
}

func (e *Extractor) Subcategories(html, pageURL string, category *casescrape.Category) ([]*casescrape.Subcategory, error) {
	return e.SubcategoriesFn(html, pageURL, category)
}

func (e *Extractor) Groups(html, pageURL string) ([]*casescrape.CandidateGroup, error) {
	return e.GroupsFn(html, pageURL)
}

func (e *Extractor) CaseStubs(html, pageURL string) ([]*casescrape.CaseStub, error) {
	return e.CaseStubsFn(html, pageURL)
}

func (e *Extractor) Case(html, pageURL string, stub *casescrape.CaseStub) (*casescrape.Case, error) {
	return e.CaseFn(html, pageURL, stub)
}
