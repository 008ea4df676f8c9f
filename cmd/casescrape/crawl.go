package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/fwojciec/casescrape"
	"github.com/fwojciec/casescrape/config"
	"github.com/fwojciec/casescrape/crawl"
)

// apply overrides configuration values with the flags that were set.
func (c *CrawlCmd) apply(cfg *config.Config) {
	if c.Site != "" {
		cfg.SiteURL = c.Site
	}
	if c.Format != "" {
		cfg.Format = c.Format
	}
	if c.Output != "" {
		cfg.OutputFile = c.Output
	}
}

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	if deps.Walker == nil {
		return casescrape.Errorf(casescrape.ECONFIG, "crawler not configured")
	}
	siteURL := deps.Config.SiteURL

	var category *casescrape.Category
	if c.Category != "" {
		var err error
		if category, err = c.category(siteURL); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
			return err
		}
	}

	run := &casescrape.Run{ID: deps.Walker.RunID, SiteURL: siteURL}
	if deps.Runs != nil {
		if err := deps.Runs.CreateRun(deps.Ctx, run); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
			return err
		}
		deps.Walker.RunID = run.ID
	}
	fmt.Fprintf(deps.Stdout, "Run %s: writing to %s\n", run.ID, deps.Config.OutputPath())

	progress := func(event crawl.ProgressEvent) {
		if event.Type == crawl.ProgressRowsWritten {
			fmt.Fprintf(deps.Stdout, "  %5d rows  %s\n", event.Rows, crawl.TruncateURL(event.URL, 70))
		}
	}

	var report *crawl.Report
	var err error
	if category != nil {
		report, err = deps.Walker.WalkCategory(deps.Ctx, category, progress)
	} else {
		report, err = deps.Walker.Run(deps.Ctx, siteURL, progress)
	}

	if report != nil {
		skipped := report.Skipped()
		if deps.Runs != nil {
			run.Cases, run.Rows, run.Skipped = report.Cases, report.Rows, len(skipped)
			// Record the summary even when the run was interrupted.
			if ferr := deps.Runs.FinishRun(context.WithoutCancel(deps.Ctx), run); ferr != nil && err == nil {
				err = ferr
			}
		}
		if len(skipped) > 0 {
			renderSkipped(deps.Stderr, skipped)
		}
		fmt.Fprintf(deps.Stdout, "Wrote %d rows for %d cases (%d assets saved, %d unresolved, %d nodes skipped)\n",
			report.Rows, report.Cases, report.Assets, report.Unresolved, len(skipped))
	}

	if err != nil {
		if report != nil {
			if o, ok := report.Interrupted(); ok {
				fmt.Fprintf(deps.Stderr, "interrupted at %s\n", crawl.FormatOutcome(o))
			}
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}
	return nil
}

// category builds the category to walk from --category, which is either a
// list location below /cases/ or an absolute category URL.
func (c *CrawlCmd) category(siteURL string) (*casescrape.Category, error) {
	loc := strings.TrimSpace(c.Category)
	if u, err := url.Parse(loc); err == nil && u.IsAbs() {
		return &casescrape.Category{
			Name:         c.nameOr(casescrape.LastSegment(loc)),
			ListLocation: casescrape.LastSegment(loc),
			URL:          loc,
		}, nil
	}

	base, err := url.Parse(siteURL)
	if err != nil {
		return nil, casescrape.Errorf(casescrape.EINVALID, "invalid site URL %q", siteURL)
	}
	loc = strings.Trim(loc, "/")
	if loc == "" {
		return nil, casescrape.Errorf(casescrape.EINVALID, "empty category location")
	}
	u := base.ResolveReference(&url.URL{Path: "/cases/" + loc + "/"})
	return &casescrape.Category{
		Name:         c.nameOr(loc),
		ListLocation: loc,
		URL:          u.String(),
	}, nil
}

func (c *CrawlCmd) nameOr(fallback string) string {
	if c.Name != "" {
		return c.Name
	}
	return fallback
}
