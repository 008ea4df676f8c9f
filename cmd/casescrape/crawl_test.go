package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/casescrape"
	main "github.com/fwojciec/casescrape/cmd/casescrape"
	"github.com/fwojciec/casescrape/config"
	"github.com/fwojciec/casescrape/crawl"
	"github.com/fwojciec/casescrape/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testWalker returns a walker over a site with one category whose page
// lists a single case with one image.
func testWalker(renderErr map[string]error, rows *[]*casescrape.OutputRow) *crawl.Walker {
	return &crawl.Walker{
		Renderer: &mock.Renderer{
			RenderFn: func(_ context.Context, url string, _ casescrape.WaitCondition) (string, error) {
				if err := renderErr[url]; err != nil {
					return "", err
				}
				return "<html></html>", nil
			},
		},
		Extractor: &mock.Extractor{
			CategoriesFn: func(string, string) ([]*casescrape.Category, error) {
				return []*casescrape.Category{{Name: "Abdomen", URL: "https://example.com/cases/abdomen/"}}, nil
			},
			SubcategoriesFn: func(string, string, *casescrape.Category) ([]*casescrape.Subcategory, error) {
				return nil, nil
			},
			GroupsFn: func(string, string) ([]*casescrape.CandidateGroup, error) { return nil, nil },
			CaseStubsFn: func(string, string) ([]*casescrape.CaseStub, error) {
				return []*casescrape.CaseStub{{Title: "Simple cyst", URL: "https://example.com/case/1/"}}, nil
			},
			CaseFn: func(_, pageURL string, stub *casescrape.CaseStub) (*casescrape.Case, error) {
				return &casescrape.Case{
					Title:     stub.Title,
					SourceURL: pageURL,
					Images:    []casescrape.AssetRef{{SourceURL: "https://example.com/img/1.jpg"}},
				}, nil
			},
		},
		Assets: &mock.AssetRetriever{
			RetrieveFn: func(context.Context, string, casescrape.AssetKind) (string, error) {
				return "images/1.jpg", nil
			},
		},
		Sink: &mock.RecordSink{
			WriteFn: func(_ context.Context, row *casescrape.OutputRow) error {
				*rows = append(*rows, row)
				return nil
			},
		},
		RunID: "run-1",
	}
}

func testDeps(walker *crawl.Walker, runs casescrape.RunService) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
		Config: &config.Config{
			SiteURL:    "https://example.com/",
			OutputRoot: "out",
			Format:     config.FormatCSV,
		},
		Walker: walker,
		Runs:   runs,
	}, stdout, stderr
}

func TestCrawlCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("walks the site and prints a summary", func(t *testing.T) {
		t.Parallel()

		var rows []*casescrape.OutputRow
		deps, stdout, stderr := testDeps(testWalker(nil, &rows), nil)

		err := (&main.CrawlCmd{}).Run(deps)

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Abdomen", rows[0].Category)
		assert.Equal(t, "images/1.jpg", rows[0].ImagePath)
		assert.Contains(t, stdout.String(), "Run run-1")
		assert.Contains(t, stdout.String(), "Wrote 1 rows for 1 cases (1 assets saved, 0 unresolved, 0 nodes skipped)")
		assert.Empty(t, stderr.String())
	})

	t.Run("reports skipped nodes on stderr", func(t *testing.T) {
		t.Parallel()

		var rows []*casescrape.OutputRow
		walker := testWalker(map[string]error{
			"https://example.com/case/1/": casescrape.Errorf(casescrape.EFETCH, "navigation timeout"),
		}, &rows)
		deps, stdout, stderr := testDeps(walker, nil)

		err := (&main.CrawlCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Empty(t, rows)
		assert.Contains(t, stderr.String(), "Skipped")
		assert.Contains(t, stderr.String(), "Simple cyst")
		assert.Contains(t, stderr.String(), "navigation timeout")
		assert.Contains(t, stdout.String(), "1 nodes skipped")
	})

	t.Run("walks a single category by list location", func(t *testing.T) {
		t.Parallel()

		var rendered []string
		var rows []*casescrape.OutputRow
		walker := testWalker(nil, &rows)
		walker.Renderer = &mock.Renderer{
			RenderFn: func(_ context.Context, url string, _ casescrape.WaitCondition) (string, error) {
				rendered = append(rendered, url)
				return "<html></html>", nil
			},
		}
		deps, _, _ := testDeps(walker, nil)

		err := (&main.CrawlCmd{Category: "abdomen-and-retroperitoneum", Name: "Abdomen and retroperitoneum"}).Run(deps)

		require.NoError(t, err)
		require.NotEmpty(t, rendered)
		assert.Equal(t, "https://example.com/cases/abdomen-and-retroperitoneum/", rendered[0])
		require.Len(t, rows, 1)
		assert.Equal(t, "Abdomen and retroperitoneum", rows[0].Category)
	})

	t.Run("accepts an absolute category URL", func(t *testing.T) {
		t.Parallel()

		var rows []*casescrape.OutputRow
		deps, _, _ := testDeps(testWalker(nil, &rows), nil)

		err := (&main.CrawlCmd{Category: "https://example.com/cases/thorax/"}).Run(deps)

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "thorax", rows[0].Category)
	})

	t.Run("records the run when a run service is configured", func(t *testing.T) {
		t.Parallel()

		var created, finished *casescrape.Run
		runs := &mock.RunService{
			CreateRunFn: func(_ context.Context, run *casescrape.Run) error {
				created = run
				return nil
			},
			FinishRunFn: func(_ context.Context, run *casescrape.Run) error {
				finished = run
				return nil
			},
		}
		var rows []*casescrape.OutputRow
		deps, _, _ := testDeps(testWalker(nil, &rows), runs)

		err := (&main.CrawlCmd{}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "run-1", created.ID)
		assert.Equal(t, "https://example.com/", created.SiteURL)
		require.NotNil(t, finished)
		assert.Equal(t, 1, finished.Cases)
		assert.Equal(t, 1, finished.Rows)
		assert.Zero(t, finished.Skipped)
	})

	t.Run("records the run and fails when the sink aborts", func(t *testing.T) {
		t.Parallel()

		var finished *casescrape.Run
		runs := &mock.RunService{
			CreateRunFn: func(context.Context, *casescrape.Run) error { return nil },
			FinishRunFn: func(_ context.Context, run *casescrape.Run) error {
				finished = run
				return nil
			},
		}
		var rows []*casescrape.OutputRow
		walker := testWalker(nil, &rows)
		walker.Sink = &mock.RecordSink{
			WriteFn: func(context.Context, *casescrape.OutputRow) error {
				return casescrape.Errorf(casescrape.EINTERNAL, "disk full")
			},
		}
		deps, _, stderr := testDeps(walker, runs)

		err := (&main.CrawlCmd{}).Run(deps)

		require.Error(t, err)
		require.NotNil(t, finished)
		assert.Zero(t, finished.Rows)
		assert.Contains(t, stderr.String(), "interrupted at case extracting")
		assert.Contains(t, stderr.String(), "disk full")
	})

	t.Run("returns error when the run cannot be created", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			CreateRunFn: func(context.Context, *casescrape.Run) error {
				return casescrape.Errorf(casescrape.EINVALID, "run site URL required")
			},
		}
		var rows []*casescrape.OutputRow
		deps, _, stderr := testDeps(testWalker(nil, &rows), runs)

		err := (&main.CrawlCmd{}).Run(deps)

		require.Error(t, err)
		assert.Empty(t, rows)
		assert.Contains(t, stderr.String(), "run site URL required")
	})

	t.Run("returns ECONFIG without a walker", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := testDeps(nil, nil)
		err := (&main.CrawlCmd{}).Run(deps)
		assert.Equal(t, casescrape.ECONFIG, casescrape.ErrorCode(err))
	})
}
