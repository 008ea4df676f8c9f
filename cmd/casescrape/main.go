package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/casescrape"
	"github.com/fwojciec/casescrape/config"
	"github.com/fwojciec/casescrape/crawl"
	"github.com/fwojciec/casescrape/csv"
	"github.com/fwojciec/casescrape/fs"
	"github.com/fwojciec/casescrape/goquery"
	cshttp "github.com/fwojciec/casescrape/http"
	"github.com/fwojciec/casescrape/rod"
	csslog "github.com/fwojciec/casescrape/slog"
	"github.com/fwojciec/casescrape/sqlite"
	"github.com/google/uuid"
	"github.com/lmittmann/tint"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database, open when the sqlite format is in use.
	DB *sqlite.DB

	// Resources opened for a crawl, closed by Close.
	Renderer casescrape.Renderer
	Sink     casescrape.RecordSink
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close releases the sink, the browser and the database, in that order.
func (m *Main) Close() error {
	var errs []error
	if m.Sink != nil {
		errs = append(errs, m.Sink.Close())
		m.Sink = nil
	}
	if m.Renderer != nil {
		errs = append(errs, m.Renderer.Close())
		m.Renderer = nil
	}
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
		m.DB = nil
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments. Resources opened for the
// command are closed before Run returns.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	defer func() {
		if cerr := m.Close(); err == nil {
			err = cerr
		}
	}()

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("casescrape"),
		kong.Description("Scrape structured case records and media from a medical case site."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'casescrape --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if cmd == "crawl" {
		cli.Crawl.apply(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	deps.Config = cfg

	deps.Logger = newLogger(stderr, cli.Verbose)

	switch cmd {
	case "crawl":
		if err := m.wireCrawl(deps); err != nil {
			return err
		}
	case "sitemap":
		client := cshttp.NewClient(cshttp.WithTimeout(cfg.AssetTimeout))
		deps.Sitemaps = csslog.NewLoggingSitemapService(cshttp.NewSitemapService(client), deps.Logger)
	case "status":
		if cfg.Format != config.FormatSQLite {
			return casescrape.Errorf(casescrape.ECONFIG, "status requires the sqlite format")
		}
		if err := m.openDB(cfg.OutputPath()); err != nil {
			return err
		}
		deps.Runs = sqlite.NewRunService(m.DB)
	}

	return kongCtx.Run(deps)
}

// wireCrawl builds the walker and its collaborators. Output folders and the
// sink are prepared before the browser starts so configuration problems
// surface first.
func (m *Main) wireCrawl(deps *Dependencies) error {
	cfg := deps.Config
	logger := deps.Logger

	layout := fs.Layout{Root: cfg.OutputRoot}
	if err := layout.Prepare(); err != nil {
		return err
	}

	runID := uuid.New().String()
	switch cfg.Format {
	case config.FormatSQLite:
		if err := m.openDB(cfg.OutputPath()); err != nil {
			return err
		}
		deps.Runs = sqlite.NewRunService(m.DB)
		m.Sink = sqlite.NewRowStore(m.DB, runID)
	default:
		sink, err := csv.Open(cfg.OutputPath(), casescrape.CaseColumns())
		if err != nil {
			return err
		}
		m.Sink = sink
	}

	manager, err := rod.NewBrowserManager(
		rod.WithMaxPages(cfg.MaxPages),
		rod.WithHeadless(cfg.Headless),
	)
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	m.Renderer = rod.NewRenderer(manager, rod.WithRenderTimeout(cfg.RenderTimeout))

	client := cshttp.NewClient(cshttp.WithTimeout(cfg.AssetTimeout))
	fetcher := cshttp.NewAssetClient(client, cshttp.NewDomainLimiter(cfg.AssetRPS))

	deps.Walker = &crawl.Walker{
		Renderer:  csslog.NewLoggingRenderer(m.Renderer, logger),
		Extractor: goquery.NewExtractor(),
		Assets:    fs.NewAssetStore(csslog.NewLoggingAssetFetcher(fetcher, logger), layout),
		Sink:      csslog.NewLoggingRecordSink(m.Sink, logger),
		Pacer:     crawl.NewPacer(cfg.Delay),
		Wait:      cfg.WaitCondition(),
		RunID:     runID,
	}
	return nil
}

func (m *Main) openDB(path string) error {
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		m.DB = nil
		return err
	}
	return nil
}

// newLogger logs to w, in color only when w is a terminal file.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	f, ok := w.(*os.File)
	color := ok && isTerminal(f)
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !color,
	}))
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// errorText returns the user-facing message of an application error and
// the raw text of anything else.
func errorText(err error) string {
	if casescrape.ErrorCode(err) == casescrape.EINTERNAL {
		return err.Error()
	}
	return casescrape.ErrorMessage(err)
}
