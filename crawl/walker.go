// Package crawl walks a case site depth-first, from categories down to the
// media assets of individual cases, and streams one output row per case
// image to a record sink.
package crawl

import (
	"context"
	"errors"

	"github.com/fwojciec/casescrape"
)

// Walker traverses the category → subcategory → group → case hierarchy.
// Pages are rendered one at a time; Pacer spaces consecutive renders.
type Walker struct {
	Renderer  casescrape.Renderer
	Extractor casescrape.Extractor
	Assets    casescrape.AssetRetriever
	Sink      casescrape.RecordSink
	Pacer     casescrape.Pacer
	Wait      casescrape.WaitCondition
	RunID     string
}

// Run renders the site root, discovers its categories and walks each one.
// Failures below the fatal level are recorded as skipped nodes in the
// report. The returned error is non-nil only when the run aborted: on a
// configuration error, a sink write failure, or when ctx is done.
func (w *Walker) Run(ctx context.Context, siteURL string, progress ProgressFunc) (*Report, error) {
	r, err := w.start(progress)
	if err != nil {
		return nil, err
	}
	err = r.walkSite(ctx, siteURL)
	r.finish()
	return r.report, err
}

// WalkCategory walks a single category without visiting the site root.
func (w *Walker) WalkCategory(ctx context.Context, category *casescrape.Category, progress ProgressFunc) (*Report, error) {
	if category == nil || category.URL == "" {
		return nil, casescrape.Errorf(casescrape.EINVALID, "category URL required")
	}
	r, err := w.start(progress)
	if err != nil {
		return nil, err
	}
	err = r.walkCategory(ctx, category)
	r.finish()
	return r.report, err
}

func (w *Walker) start(progress ProgressFunc) (*run, error) {
	switch {
	case w.Renderer == nil:
		return nil, casescrape.Errorf(casescrape.ECONFIG, "walker has no renderer")
	case w.Extractor == nil:
		return nil, casescrape.Errorf(casescrape.ECONFIG, "walker has no extractor")
	case w.Assets == nil:
		return nil, casescrape.Errorf(casescrape.ECONFIG, "walker has no asset retriever")
	case w.Sink == nil:
		return nil, casescrape.Errorf(casescrape.ECONFIG, "walker has no record sink")
	}
	wait := w.Wait
	if wait == "" {
		wait = casescrape.WaitNetworkIdle
	}
	return &run{
		w:        w,
		wait:     wait,
		report:   &Report{RunID: w.RunID},
		progress: progress,
	}, nil
}

// abortError marks a failure that must stop the whole run.
type abortError struct {
	err error
}

func (e *abortError) Error() string { return e.err.Error() }
func (e *abortError) Unwrap() error { return e.err }

// run holds the state of a single traversal. Every walk method returns a
// non-nil error only when the run must abort; other failures are recorded
// as skips and swallowed.
type run struct {
	w        *Walker
	wait     casescrape.WaitCondition
	report   *Report
	progress ProgressFunc
	rendered int
}

type node struct {
	level Level
	url   string
	name  string
	state NodeState
}

func (r *run) emit(event ProgressEvent) {
	if r.progress != nil {
		r.progress(event)
	}
}

func (r *run) begin(level Level, url, name string) *node {
	r.emit(ProgressEvent{Type: ProgressStarted, Level: level, URL: url, Rows: r.report.Rows})
	return &node{level: level, url: url, name: name, state: NodePending}
}

func (r *run) record(n *node, err error) {
	r.report.Outcomes = append(r.report.Outcomes, NodeOutcome{
		Level: n.level,
		URL:   n.url,
		Name:  n.name,
		State: n.state,
		Err:   err,
	})
}

func (r *run) succeed(n *node) {
	n.state = NodeSucceeded
	r.record(n, nil)
	r.emit(ProgressEvent{Type: ProgressSucceeded, Level: n.level, URL: n.url, Rows: r.report.Rows})
}

// fail settles n after err. Aborting errors keep the node in its current
// state and are returned; anything else marks the node skipped.
func (r *run) fail(ctx context.Context, n *node, err error) error {
	if aborts(ctx, err) {
		r.record(n, err)
		return err
	}
	n.state = NodeSkipped
	r.record(n, err)
	r.emit(ProgressEvent{Type: ProgressSkipped, Level: n.level, URL: n.url, Rows: r.report.Rows, Err: err})
	return nil
}

func (r *run) finish() {
	r.emit(ProgressEvent{Type: ProgressFinished, Rows: r.report.Rows})
}

func aborts(ctx context.Context, err error) bool {
	var abort *abortError
	return casescrape.IsFatal(err) || ctx.Err() != nil || errors.As(err, &abort)
}

// render paces, then renders n's page.
func (r *run) render(ctx context.Context, n *node) (string, error) {
	if r.rendered > 0 && r.w.Pacer != nil {
		if err := r.w.Pacer.Wait(ctx); err != nil {
			return "", &abortError{err: err}
		}
	}
	r.rendered++

	n.state = NodeFetching
	html, err := r.w.Renderer.Render(ctx, n.url, r.wait)
	if err != nil {
		return "", err
	}
	n.state = NodeExtracting
	return html, nil
}

func (r *run) walkSite(ctx context.Context, siteURL string) error {
	n := r.begin(LevelSite, siteURL, "")
	html, err := r.render(ctx, n)
	if err != nil {
		return r.fail(ctx, n, err)
	}
	categories, err := r.w.Extractor.Categories(html, siteURL)
	if err != nil {
		return r.fail(ctx, n, err)
	}
	if len(categories) == 0 {
		return r.fail(ctx, n, casescrape.Errorf(casescrape.ENOTFOUND, "no categories found on %s", siteURL))
	}
	for _, c := range categories {
		if err := r.walkCategory(ctx, c); err != nil {
			return r.fail(ctx, n, err)
		}
	}
	r.succeed(n)
	return nil
}

// walkCategory walks a category page. A page listing no subcategories is
// read as a listing of groups.
func (r *run) walkCategory(ctx context.Context, c *casescrape.Category) error {
	n := r.begin(LevelCategory, c.URL, c.Name)
	if c.URL == "" {
		return r.fail(ctx, n, casescrape.Errorf(casescrape.ENOTFOUND, "category %q has no link", c.Name))
	}
	html, err := r.render(ctx, n)
	if err != nil {
		return r.fail(ctx, n, err)
	}
	subs, err := r.w.Extractor.Subcategories(html, c.URL, c)
	if err != nil {
		return r.fail(ctx, n, err)
	}
	c.Subcategories = subs

	ancestry := casescrape.Ancestry{Category: c.Name}
	if len(subs) == 0 {
		if err := r.walkListing(ctx, ancestry, html, c.URL); err != nil {
			return r.fail(ctx, n, err)
		}
		r.succeed(n)
		return nil
	}
	for _, sub := range subs {
		if err := r.walkSubcategory(ctx, ancestry, sub); err != nil {
			return r.fail(ctx, n, err)
		}
	}
	r.succeed(n)
	return nil
}

func (r *run) walkSubcategory(ctx context.Context, ancestry casescrape.Ancestry, sub *casescrape.Subcategory) error {
	n := r.begin(LevelSubcategory, sub.URL, sub.Name)
	if sub.URL == "" {
		return r.fail(ctx, n, casescrape.Errorf(casescrape.ENOTFOUND, "subcategory %q has no link", sub.Name))
	}
	html, err := r.render(ctx, n)
	if err != nil {
		return r.fail(ctx, n, err)
	}
	ancestry.Subcategory = sub.Name
	if err := r.walkListing(ctx, ancestry, html, sub.URL); err != nil {
		return r.fail(ctx, n, err)
	}
	r.succeed(n)
	return nil
}

// walkListing walks the groups listed on an already rendered page. A page
// without groups is read as a case listing.
func (r *run) walkListing(ctx context.Context, ancestry casescrape.Ancestry, html, pageURL string) error {
	groups, err := r.w.Extractor.Groups(html, pageURL)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		return r.walkCases(ctx, ancestry, html, pageURL)
	}
	for _, g := range groups {
		if err := r.walkGroup(ctx, ancestry, g); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) walkGroup(ctx context.Context, ancestry casescrape.Ancestry, g *casescrape.CandidateGroup) error {
	n := r.begin(LevelGroup, g.URL, g.Title)
	if g.URL == "" {
		return r.fail(ctx, n, casescrape.Errorf(casescrape.ENOTFOUND, "group %q has no link", g.Title))
	}
	html, err := r.render(ctx, n)
	if err != nil {
		return r.fail(ctx, n, err)
	}
	ancestry.Group = g.Title
	if err := r.walkCases(ctx, ancestry, html, g.URL); err != nil {
		return r.fail(ctx, n, err)
	}
	r.succeed(n)
	return nil
}

func (r *run) walkCases(ctx context.Context, ancestry casescrape.Ancestry, html, pageURL string) error {
	stubs, err := r.w.Extractor.CaseStubs(html, pageURL)
	if err != nil {
		return err
	}
	for _, stub := range stubs {
		if err := r.walkCase(ctx, ancestry, stub); err != nil {
			return err
		}
	}
	return nil
}

// walkCase renders a case page, materialises its assets and writes its
// rows. Unresolved assets leave their rows with an empty image path.
func (r *run) walkCase(ctx context.Context, ancestry casescrape.Ancestry, stub *casescrape.CaseStub) error {
	n := r.begin(LevelCase, stub.URL, stub.Title)
	if stub.URL == "" {
		return r.fail(ctx, n, casescrape.Errorf(casescrape.ENOTFOUND, "case %q has no link", stub.Title))
	}
	html, err := r.render(ctx, n)
	if err != nil {
		return r.fail(ctx, n, err)
	}
	c, err := r.w.Extractor.Case(html, stub.URL, stub)
	if err != nil {
		return r.fail(ctx, n, err)
	}

	if err := r.retrieve(ctx, c.Images, casescrape.AssetImage); err != nil {
		return r.fail(ctx, n, err)
	}
	if err := r.retrieve(ctx, c.Videos, casescrape.AssetVideo); err != nil {
		return r.fail(ctx, n, err)
	}

	for _, row := range casescrape.CaseRows(ancestry, c) {
		if err := r.w.Sink.Write(ctx, row); err != nil {
			return r.fail(ctx, n, &abortError{err: err})
		}
		r.report.Rows++
	}
	r.report.Cases++
	r.emit(ProgressEvent{Type: ProgressRowsWritten, Level: LevelCase, URL: stub.URL, Rows: r.report.Rows})
	r.succeed(n)
	return nil
}

// retrieve downloads refs in place. A failed download leaves the ref
// unresolved and is recorded as a skipped asset.
func (r *run) retrieve(ctx context.Context, refs []casescrape.AssetRef, kind casescrape.AssetKind) error {
	for i := range refs {
		ref := &refs[i]
		if ref.SourceURL == "" {
			continue
		}
		n := r.begin(LevelAsset, ref.SourceURL, ref.Caption)
		n.state = NodeFetching
		path, err := r.w.Assets.Retrieve(ctx, ref.SourceURL, kind)
		if err != nil {
			if ferr := r.fail(ctx, n, err); ferr != nil {
				return ferr
			}
			r.report.Unresolved++
			continue
		}
		ref.LocalPath = path
		r.report.Assets++
		r.succeed(n)
	}
	return nil
}
