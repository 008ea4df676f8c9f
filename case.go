package casescrape

import (
	"slices"
	"strings"
)

// Category is a top-level section of the case site.
type Category struct {
	ID           string
	Name         string
	ListLocation string
	URL          string

	Subcategories []*Subcategory
}

// Subcategory is a section within a Category. ParentCategory holds the
// parent's name only.
type Subcategory struct {
	Name           string
	URL            string
	ParentCategory string
}

// CandidateGroup is an intermediate listing page grouping several cases.
// DeclaredCaseCount is parsed from free text and may disagree with the number
// of cases actually found on the group page.
type CandidateGroup struct {
	Title             string
	DeclaredCaseCount int
	URL               string
}

// CaseStub is a case as it appears on a listing page, before its own page
// has been rendered. URL is empty when the tile carries no link.
type CaseStub struct {
	Title       string
	Description string
	URL         string
	Thumbnails  []AssetRef
}

// Case is a fully extracted case.
type Case struct {
	Title          string
	Description    string
	ClinicalInfo   string
	Conclusion     string
	Options        string
	PatientDetails map[string]string
	Images         []AssetRef
	Videos         []AssetRef
	SourceURL      string
}

// Info returns the case description with the enumerated options block
// appended when present.
func (c *Case) Info() string {
	switch {
	case c.Options == "":
		return c.Description
	case c.Description == "":
		return c.Options
	}
	return c.Description + "\n\n" + c.Options
}

// Detail returns the patient detail stored under label, ignoring case.
// Among labels that differ only by case, the lowest in byte order wins.
func (c *Case) Detail(label string) string {
	if v, ok := c.PatientDetails[label]; ok {
		return v
	}
	keys := make([]string, 0, len(c.PatientDetails))
	for k := range c.PatientDetails {
		if strings.EqualFold(k, label) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	slices.Sort(keys)
	return c.PatientDetails[keys[0]]
}

// AssetRef describes one media reference. LocalPath is empty until the
// asset has been materialised; an unresolved ref is kept for auditability.
type AssetRef struct {
	SourceURL string
	LocalPath string
	Caption   string
}

// Resolved reports whether the asset was downloaded.
func (a AssetRef) Resolved() bool {
	return a.LocalPath != ""
}

// CleanLabel trims whitespace and trailing punctuation from a patient-detail
// label so it can be used as a map key.
func CleanLabel(label string) string {
	return strings.TrimRight(strings.TrimSpace(label), " \t\n:;.,-")
}
