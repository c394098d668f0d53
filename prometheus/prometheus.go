// Package prometheus exposes crawl, extraction and job metrics.
package prometheus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fwojciec/crawlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ensure Metrics implements crawlx.JobObserver at compile time.
var _ crawlx.JobObserver = (*Metrics)(nil)

// Metrics holds the collectors. Create it once per registry.
type Metrics struct {
	jobRuns     *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec

	fetches       *prometheus.CounterVec
	fetchBytes    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec

	extractions *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		jobRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "crawlx_job_runs_total",
			Help: "Job executions, labeled by job and status.",
		}, []string{"job", "status"}),
		jobDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crawlx_job_duration_seconds",
			Help:    "Job execution time, labeled by job.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"job"}),
		fetches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "crawlx_fetches_total",
			Help: "Page fetches, labeled by mode and status.",
		}, []string{"mode", "status"}),
		fetchBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "crawlx_fetch_bytes_total",
			Help: "HTML bytes fetched, labeled by mode.",
		}, []string{"mode"}),
		fetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crawlx_fetch_duration_seconds",
			Help:    "Fetch latency, labeled by mode.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"mode"}),
		extractions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "crawlx_extractions_total",
			Help: "Extraction requests, labeled by the method used and status.",
		}, []string{"method", "status"}),
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// JobFinished implements crawlx.JobObserver.
func (m *Metrics) JobFinished(name string, duration time.Duration, err error) {
	m.jobRuns.WithLabelValues(name, status(err)).Inc()
	m.jobDuration.WithLabelValues(name).Observe(duration.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// fetchStatus classifies a fetch outcome as success, http_4xx, http_5xx
// or error.
func fetchStatus(err error) string {
	if err == nil {
		return "success"
	}
	var fe *crawlx.FetchError
	if errors.As(err, &fe) && fe.StatusCode > 0 {
		return fmt.Sprintf("http_%dxx", fe.StatusCode/100)
	}
	return "error"
}

// Ensure MetricsFetcher implements crawlx.Fetcher at compile time.
var _ crawlx.Fetcher = (*MetricsFetcher)(nil)

// MetricsFetcher wraps a Fetcher and records fetch metrics.
type MetricsFetcher struct {
	next    crawlx.Fetcher
	metrics *Metrics
}

// NewMetricsFetcher creates a MetricsFetcher.
func NewMetricsFetcher(next crawlx.Fetcher, m *Metrics) *MetricsFetcher {
	return &MetricsFetcher{next: next, metrics: m}
}

// Fetch implements crawlx.Fetcher.
func (f *MetricsFetcher) Fetch(ctx context.Context, url string, opts crawlx.FetchOptions) (*crawlx.RenderedPage, error) {
	mode := string(opts.Mode)
	if mode == "" {
		mode = string(crawlx.FetchLightweight)
	}

	begin := time.Now()
	page, err := f.next.Fetch(ctx, url, opts)
	f.metrics.fetchDuration.WithLabelValues(mode).Observe(time.Since(begin).Seconds())
	f.metrics.fetches.WithLabelValues(mode, fetchStatus(err)).Inc()
	if page != nil {
		f.metrics.fetchBytes.WithLabelValues(mode).Add(float64(len(page.HTML)))
	}
	return page, err
}

// Close implements crawlx.Fetcher.
func (f *MetricsFetcher) Close() error {
	return f.next.Close()
}

// Ensure MetricsExtractor implements crawlx.Extractor at compile time.
var _ crawlx.Extractor = (*MetricsExtractor)(nil)

// MetricsExtractor wraps an Extractor and counts results by method.
type MetricsExtractor struct {
	next    crawlx.Extractor
	metrics *Metrics
}

// NewMetricsExtractor creates a MetricsExtractor.
func NewMetricsExtractor(next crawlx.Extractor, m *Metrics) *MetricsExtractor {
	return &MetricsExtractor{next: next, metrics: m}
}

// Extract implements crawlx.Extractor.
func (e *MetricsExtractor) Extract(html, url string, mode crawlx.ExtractMode) *crawlx.ExtractionResult {
	res := e.next.Extract(html, url, mode)
	st := "success"
	if !res.Success {
		st = "error"
	}
	e.metrics.extractions.WithLabelValues(res.Method, st).Inc()
	return res
}
