package crawl

import "fmt"

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		// Too short for "..." prefix, just return dots
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatOutcome renders an outcome as a single line for run summaries.
func FormatOutcome(o NodeOutcome) string {
	label := o.URL
	if o.Name != "" {
		label = fmt.Sprintf("%s (%s)", o.Name, o.URL)
	}
	if o.Err == nil {
		return fmt.Sprintf("%s %s: %s", o.Level, o.State, label)
	}
	return fmt.Sprintf("%s %s: %s: %v", o.Level, o.State, label, o.Err)
}
