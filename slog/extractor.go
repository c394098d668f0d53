package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/crawlx"
)

// Ensure LoggingExtractor implements crawlx.Extractor.
var _ crawlx.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor and logs the method each request
// ended up using.
type LoggingExtractor struct {
	next   crawlx.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next crawlx.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(html, url string, mode crawlx.ExtractMode) *crawlx.ExtractionResult {
	begin := time.Now()
	res := e.next.Extract(html, url, mode)
	attrs := []any{
		"url", url,
		"mode", string(mode),
		"method", res.Method,
		"success", res.Success,
		"words", res.WordCount,
		"duration", time.Since(begin),
	}
	if !res.Success {
		e.logger.Warn("extract", append(attrs, "err", res.Error)...)
		return res
	}
	e.logger.Info("extract", attrs...)
	return res
}
