package casescrape

// Extractor turns rendered pages into domain objects. Every method is pure:
// missing structure yields empty results, never an error. Errors are
// reserved for input that cannot be processed at all (EINVALID) and for
// embedded data that cannot be interpreted (EMALFORMED).
type Extractor interface {
	// Categories extracts the top-level categories from the site root.
	Categories(html, pageURL string) ([]*Category, error)

	// Subcategories extracts the subcategories listed on a category page.
	Subcategories(html, pageURL string, category *Category) ([]*Subcategory, error)

	// Groups extracts the candidate groups listed on a subcategory page.
	Groups(html, pageURL string) ([]*CandidateGroup, error)

	// CaseStubs extracts the case tiles listed on a group page.
	CaseStubs(html, pageURL string) ([]*CaseStub, error)

	// Case extracts a case from its own page. Fields missing on the page
	// are filled from stub when it is non-nil.
	Case(html, pageURL string, stub *CaseStub) (*Case, error)
}
