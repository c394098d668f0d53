package mock

import (
	"context"

	"github.com/fwojciec/crawlx"
)

var (
	_ crawlx.Sink          = (*Sink)(nil)
	_ crawlx.RecordService = (*RecordService)(nil)
)

// Sink is a mock implementation of crawlx.Sink.
type Sink struct {
	UpsertFn func(ctx context.Context, rec *crawlx.CrawlRecord) error
}

func (s *Sink) Upsert(ctx context.Context, rec *crawlx.CrawlRecord) error {
	return s.UpsertFn(ctx, rec)
}

// RecordService is a mock implementation of crawlx.RecordService.
type RecordService struct {
	UpsertFn      func(ctx context.Context, rec *crawlx.CrawlRecord) error
	FindRecordsFn func(ctx context.Context, filter crawlx.RecordFilter) ([]*crawlx.CrawlRecord, error)
}

func (s *RecordService) Upsert(ctx context.Context, rec *crawlx.CrawlRecord) error {
	return s.UpsertFn(ctx, rec)
}

func (s *RecordService) FindRecords(ctx context.Context, filter crawlx.RecordFilter) ([]*crawlx.CrawlRecord, error) {
	return s.FindRecordsFn(ctx, filter)
}
