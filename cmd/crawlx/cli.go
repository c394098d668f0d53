package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/crawlx"
	"github.com/fwojciec/crawlx/schedule"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Scraper   crawlx.Scraper
	Runner    crawlx.JobRunner
	Scheduler *schedule.Scheduler
	Metrics   http.Handler
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	LogFormat     string            `name:"log-format" enum:"text,json" default:"text" env:"CRAWLX_LOG_FORMAT" help:"Log output format (text, json)"`
	LogLevel      string            `name:"log-level" enum:"debug,info,warn,error" default:"info" env:"CRAWLX_LOG_LEVEL" help:"Minimum log level"`
	Database      string            `name:"database" default:"crawlx.db" env:"DATABASE_URL" help:"SQLite path or postgres:// URL for scraped records"`
	Spiders       []string          `name:"spiders" default:"news,jobs" env:"SCRAPER_SPIDERS" help:"Jobs run when none are named"`
	Rate          float64           `name:"rate" default:"1" env:"CRAWLX_RATE" help:"Requests per second per domain for jobs (0 disables limiting)"`
	ArticleEngine string            `name:"article-engine" enum:"trafilatura,readability" default:"trafilatura" env:"CRAWLX_ARTICLE_ENGINE" help:"Article extraction engine"`
	ChromeTLS     bool              `name:"chrome-tls" env:"CRAWLX_CHROME_TLS" help:"Present a Chrome TLS fingerprint on lightweight fetches"`
	Commands      map[string]string `name:"command" env:"CRAWLX_COMMANDS" help:"Extra jobs running an executable, as name=path (repeatable)"`

	Serve  ServeCmd  `cmd:"" help:"Run scheduled jobs and serve the HTTP API"`
	Run    RunCmd    `cmd:"" help:"Run jobs now and print their outcomes"`
	Scrape ScrapeCmd `cmd:"" help:"Fetch and extract a single URL"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr          string  `default:":8000" env:"CRAWLX_ADDR" help:"HTTP listen address"`
	IntervalHours float64 `name:"interval-hours" default:"6" env:"SCRAPE_INTERVAL_HOURS" help:"Hours between scheduled runs"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Jobs []string `arg:"" optional:"" help:"Job names (defaults to --spiders)"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URL      string        `arg:"" help:"URL to scrape"`
	Mode     string        `short:"m" enum:"auto,article,text,structured" default:"auto" help:"Extraction mode"`
	Rendered bool          `short:"r" help:"Render the page in a headless browser"`
	Wait     time.Duration `short:"w" default:"0s" help:"Settle time after load for rendered fetches"`
	Markdown bool          `help:"Return article content as Markdown"`
}

func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
