package main_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/casescrape"
	main "github.com/fwojciec/casescrape/cmd/casescrape"
	"github.com/fwojciec/casescrape/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	p := filepath.Join(dir, "casescrape.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("returns error without a command", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), nil, stdout, stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
		assert.Contains(t, stdout.String(), "crawl")
	})

	t.Run("prints help", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), []string{"--help"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "sitemap")
		assert.Contains(t, stdout.String(), "status")
	})

	t.Run("rejects an invalid format before starting a browser", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfg := writeConfig(t, dir, fmt.Sprintf("output_root: %s\n", dir))
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), []string{"--config", cfg, "crawl", "--format", "json"}, stdout, stderr)

		require.Error(t, err)
		assert.Equal(t, casescrape.ECONFIG, casescrape.ErrorCode(err))
	})

	t.Run("status requires the sqlite format", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfg := writeConfig(t, dir, fmt.Sprintf("output_root: %s\nformat: csv\n", dir))
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), []string{"-c", cfg, "status", "some-id"}, stdout, stderr)

		assert.Equal(t, casescrape.ECONFIG, casescrape.ErrorCode(err))
	})

	t.Run("shows a stored run", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db := sqlite.NewDB(filepath.Join(dir, "casescrape.db"))
		require.NoError(t, db.Open())
		run := &casescrape.Run{SiteURL: "https://www.ultrasoundcases.info/"}
		runs := sqlite.NewRunService(db)
		require.NoError(t, runs.CreateRun(context.Background(), run))
		run.Cases, run.Rows, run.Skipped = 3, 7, 1
		require.NoError(t, runs.FinishRun(context.Background(), run))
		require.NoError(t, db.Close())

		cfg := writeConfig(t, dir, fmt.Sprintf("output_root: %s\nformat: sqlite\n", dir))
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), []string{"-c", cfg, "status", run.ID}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), run.ID)
		assert.Regexp(t, `Rows\s+│ 7`, stdout.String())
		assert.Regexp(t, `Skipped\s+│ 1`, stdout.String())
	})

	t.Run("exports the sitemap analysis", func(t *testing.T) {
		t.Parallel()

		var srv *httptest.Server
		mux := http.NewServeMux()
		mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, "User-agent: *\nSitemap: %s/sitemap.xml\n", srv.URL)
		})
		mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>%[1]s/cases/case-100/</loc></url>
  <url><loc>%[1]s/cases/overview/</loc></url>
</urlset>`, srv.URL)
		})
		srv = httptest.NewServer(mux)
		defer srv.Close()

		dir := t.TempDir()
		out := filepath.Join(dir, "analysis")
		cfg := writeConfig(t, dir, fmt.Sprintf("output_root: %s\n", dir))
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), []string{"-c", cfg, "sitemap", srv.URL, "--out", out}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Found 2 URLs, 1 ending in a digit")

		digits, err := os.ReadFile(filepath.Join(out, "digit_ending_urls.txt"))
		require.NoError(t, err)
		assert.Equal(t, srv.URL+"/cases/case-100/\n", string(digits))

		all, err := os.ReadFile(filepath.Join(out, "all_urls.txt"))
		require.NoError(t, err)
		assert.Contains(t, string(all), "Last segment: overview")
	})
}
