package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/casescrape"
	"github.com/fwojciec/casescrape/fs"
)

// Run executes the sitemap command.
func (c *SitemapCmd) Run(deps *Dependencies) error {
	filter, err := casescrape.NewURLFilter(c.Include, c.Exclude)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	site := c.Site
	if site == "" {
		site = deps.Config.SiteURL
	}
	dir := c.Out
	if dir == "" {
		dir = deps.Config.OutputRoot
	}

	urls, err := deps.Sitemaps.Entries(deps.Ctx, site)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	analysis := casescrape.AnalyzeSitemap(urls, filter)
	if err := fs.WriteSitemapAnalysis(dir, analysis); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Found %d URLs, %d ending in a digit\n", len(analysis.Entries), len(analysis.DigitEnding))
	fmt.Fprintf(deps.Stdout, "Wrote %s and %s\n",
		filepath.Join(dir, fs.AllURLsFile), filepath.Join(dir, fs.DigitEndingFile))
	return nil
}
