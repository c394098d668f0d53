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

	"github.com/alecthomas/kong"
	"github.com/fwojciec/crawlx"
	"github.com/fwojciec/crawlx/crawl"
	"github.com/fwojciec/crawlx/extract"
	"github.com/fwojciec/crawlx/goquery"
	"github.com/fwojciec/crawlx/htmltomarkdown"
	crawlxhttp "github.com/fwojciec/crawlx/http"
	"github.com/fwojciec/crawlx/jobs"
	"github.com/fwojciec/crawlx/postgres"
	crawlxprom "github.com/fwojciec/crawlx/prometheus"
	"github.com/fwojciec/crawlx/readability"
	"github.com/fwojciec/crawlx/rod"
	"github.com/fwojciec/crawlx/schedule"
	crawlxslog "github.com/fwojciec/crawlx/slog"
	"github.com/fwojciec/crawlx/sqlite"
	"github.com/fwojciec/crawlx/trafilatura"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. When Scraper and Runner are both
	// set, Run skips wiring the production stack.
	Scraper crawlx.Scraper
	Runner  crawlx.JobRunner

	closers []func() error
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close releases everything opened by Run, most recent first.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	m.closers = nil
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("crawlx"),
		kong.Description("Scheduled crawling and ad-hoc page extraction."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'crawlx --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger, err = NewLogger(stderr, cli.LogFormat, cli.LogLevel)
	if err != nil {
		return err
	}

	if m.Scraper != nil && m.Runner != nil {
		deps.Scraper = m.Scraper
		deps.Runner = m.Runner
		return kongCtx.Run(deps)
	}

	defer m.Close()
	if err := m.wire(ctx, cli, deps); err != nil {
		return err
	}

	return kongCtx.Run(deps)
}

// wire builds the production object graph into deps.
func (m *Main) wire(ctx context.Context, cli *CLI, deps *Dependencies) error {
	logger := deps.Logger

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := crawlxprom.NewMetrics(reg)
	deps.Metrics = crawlxprom.Handler(reg)

	records, err := openRecords(ctx, cli.Database)
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Set DATABASE_URL to a sqlite path or a postgres:// URL")
		return err
	}
	m.closers = append(m.closers, records.Close)
	sink := crawlxslog.NewLoggingRecordService(records, logger)

	var httpOpts []crawlxhttp.Option
	if cli.ChromeTLS {
		httpOpts = append(httpOpts, crawlxhttp.WithChromeTLS())
	}
	var fetcher crawlx.Fetcher = &crawlx.ModeFetcher{
		Lightweight: crawlxhttp.NewFetcher(httpOpts...),
		Rendered:    rod.NewFetcher(rod.NewPool()),
	}
	fetcher = crawlxslog.NewLoggingFetcher(crawlxprom.NewMetricsFetcher(fetcher, metrics), logger)
	m.closers = append(m.closers, fetcher.Close)

	engine, err := articleEngine(cli.ArticleEngine)
	if err != nil {
		return err
	}
	plain, markdown := newPipelines(engine)

	deps.Scraper = &crawlx.ScrapeService{
		Fetcher:   fetcher,
		Extractor: crawlxslog.NewLoggingExtractor(crawlxprom.NewMetricsExtractor(plain, metrics), logger),
		Markdown:  crawlxslog.NewLoggingExtractor(crawlxprom.NewMetricsExtractor(markdown, metrics), logger),
		Sink:      sink,
		Logger:    logger,
	}

	opts := []schedule.Option{
		schedule.WithDefaults(cli.Spiders...),
		schedule.WithLogger(logger),
		schedule.WithObserver(metrics),
	}
	if cli.Serve.IntervalHours > 0 {
		opts = append(opts, schedule.WithInterval(hours(cli.Serve.IntervalHours)))
	}
	sched := schedule.New(opts...)

	limiter := crawl.NewDomainLimiter(cli.Rate)
	for _, site := range []jobs.Site{jobs.News(), jobs.RemoteOK()} {
		job := jobs.NewSiteJob(site, fetcher, sink)
		job.Limiter = limiter
		job.Logger = logger
		sched.Register(job)
	}
	for name, path := range cli.Commands {
		sched.Register(&jobs.Command{
			JobName: name,
			Path:    path,
			Stdout:  deps.Stderr,
			Stderr:  deps.Stderr,
		})
	}

	deps.Runner = sched
	deps.Scheduler = sched
	return nil
}

// recordStore is a sink that owns a connection.
type recordStore interface {
	crawlx.RecordService
	Close() error
}

// openRecords opens the sink named by target: a postgres URL or a sqlite
// database path.
func openRecords(ctx context.Context, target string) (recordStore, error) {
	if IsPostgresURL(target) {
		rs, err := postgres.Open(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		return rs, nil
	}

	db := sqlite.NewDB(target)
	if err := db.Open(ctx); err != nil {
		return nil, fmt.Errorf("failed to open database at %q: %w", target, err)
	}
	return &sqliteStore{RecordService: sqlite.NewRecordService(db), db: db}, nil
}

type sqliteStore struct {
	*sqlite.RecordService
	db *sqlite.DB
}

func (s *sqliteStore) Close() error { return s.db.Close() }

// IsPostgresURL reports whether target selects the postgres sink.
func IsPostgresURL(target string) bool {
	return strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://")
}

// articleEngine returns the article extractor named by name.
func articleEngine(name string) (crawlx.ArticleExtractor, error) {
	switch name {
	case "", "trafilatura":
		return trafilatura.NewExtractor(), nil
	case "readability":
		return readability.NewExtractor(), nil
	default:
		return nil, crawlx.Errorf(crawlx.EINVALID, "unknown article engine %q", name)
	}
}

// newPipelines returns the plain-text pipeline and the pipeline whose
// article strategy renders Markdown.
func newPipelines(engine crawlx.ArticleExtractor) (plain, markdown *extract.Pipeline) {
	text := goquery.NewTextStrategy()
	structured := goquery.NewStructuredStrategy()

	md := goquery.NewArticleStrategy(engine)
	md.Converter = htmltomarkdown.NewConverter()

	plain = extract.NewPipeline(extract.Strategies{
		Article:    goquery.NewArticleStrategy(engine),
		Text:       text,
		Structured: structured,
	})
	markdown = extract.NewPipeline(extract.Strategies{
		Article:    md,
		Text:       text,
		Structured: structured,
	})
	return plain, markdown
}

// NewLogger builds the process logger writing to w.
func NewLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, crawlx.Errorf(crawlx.EINVALID, "unknown log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, crawlx.Errorf(crawlx.EINVALID, "unknown log format %q", format)
	}
}
