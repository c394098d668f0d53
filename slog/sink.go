package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/crawlx"
)

// Ensure LoggingRecordService implements crawlx.RecordService.
var _ crawlx.RecordService = (*LoggingRecordService)(nil)

// LoggingRecordService wraps a RecordService with debug logging.
type LoggingRecordService struct {
	next   crawlx.RecordService
	logger *slog.Logger
}

// NewLoggingRecordService creates a new LoggingRecordService.
func NewLoggingRecordService(next crawlx.RecordService, logger *slog.Logger) *LoggingRecordService {
	return &LoggingRecordService{next: next, logger: logger}
}

// Upsert delegates to the wrapped service and logs the operation.
func (s *LoggingRecordService) Upsert(ctx context.Context, rec *crawlx.CrawlRecord) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("upsert record",
			"source", rec.Source,
			"url", rec.URL,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Upsert(ctx, rec)
}

// FindRecords delegates to the wrapped service and logs the operation.
func (s *LoggingRecordService) FindRecords(ctx context.Context, filter crawlx.RecordFilter) (records []*crawlx.CrawlRecord, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find records",
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindRecords(ctx, filter)
}
