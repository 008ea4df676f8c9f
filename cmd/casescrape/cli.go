package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/casescrape"
	"github.com/fwojciec/casescrape/config"
	"github.com/fwojciec/casescrape/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Config   *config.Config
	Logger   *slog.Logger
	Walker   *crawl.Walker
	Runs     casescrape.RunService
	Sitemaps casescrape.SitemapService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"c" type:"path" env:"CASESCRAPE_CONFIG" help:"YAML configuration file"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Crawl   CrawlCmd   `cmd:"" help:"Scrape cases and their media into the output file"`
	Sitemap SitemapCmd `cmd:"" help:"Export the site's sitemap URLs and the digit-ending subset"`
	Status  StatusCmd  `cmd:"" help:"Show the summary of a stored run (sqlite format)"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Site     string `help:"Site root URL (overrides site_url)"`
	Category string `help:"Walk only the category at this list location, e.g. abdomen-and-retroperitoneum"`
	Name     string `help:"Display name of --category; defaults to its list location"`
	Format   string `short:"f" help:"Output format: csv or sqlite (overrides format)"`
	Output   string `short:"o" help:"Output file (overrides output_file)"`
}

// SitemapCmd is the "sitemap" subcommand.
type SitemapCmd struct {
	Site    string   `arg:"" optional:"" help:"Site root URL; defaults to site_url"`
	Out     string   `short:"o" help:"Output directory; defaults to output_root"`
	Include []string `short:"i" help:"Keep only URLs matching regex (repeatable)"`
	Exclude []string `short:"x" help:"Drop URLs matching regex (repeatable)"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct {
	RunID string `arg:"" name:"run-id" help:"Run ID printed by crawl"`
}
