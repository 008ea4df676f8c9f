// Package casescrape extracts structured medical-case records from a
// hierarchically organised case website. It walks categories, subcategories,
// case groups and individual cases, downloads the media each case references,
// and streams one output row per case image to durable storage.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, sqlite/).
package casescrape
