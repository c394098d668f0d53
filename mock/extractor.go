package mock

import (
	"context"

	"github.com/fwojciec/crawlx"
)

var (
	_ crawlx.Extractor        = (*Extractor)(nil)
	_ crawlx.Strategy         = (*Strategy)(nil)
	_ crawlx.ArticleExtractor = (*ArticleExtractor)(nil)
)

// Extractor is a mock implementation of crawlx.Extractor.
type Extractor struct {
	ExtractFn func(html, url string, mode crawlx.ExtractMode) *crawlx.ExtractionResult
}

func (e *Extractor) Extract(html, url string, mode crawlx.ExtractMode) *crawlx.ExtractionResult {
	return e.ExtractFn(html, url, mode)
}

// Strategy is a mock implementation of crawlx.Strategy.
type Strategy struct {
	MethodName string
	ExtractFn  func(html, url string) (*crawlx.ExtractionResult, error)
}

func (s *Strategy) Method() string {
	return s.MethodName
}

func (s *Strategy) Extract(html, url string) (*crawlx.ExtractionResult, error) {
	return s.ExtractFn(html, url)
}

// ArticleExtractor is a mock implementation of crawlx.ArticleExtractor.
type ArticleExtractor struct {
	ExtractArticleFn func(html, url string) (*crawlx.Article, error)
}

func (a *ArticleExtractor) ExtractArticle(html, url string) (*crawlx.Article, error) {
	return a.ExtractArticleFn(html, url)
}

var _ crawlx.Scraper = (*Scraper)(nil)

// Scraper is a mock implementation of crawlx.Scraper.
type Scraper struct {
	ScrapeFn func(ctx context.Context, req crawlx.ScrapeRequest) (*crawlx.ExtractionResult, error)
}

func (s *Scraper) Scrape(ctx context.Context, req crawlx.ScrapeRequest) (*crawlx.ExtractionResult, error) {
	return s.ScrapeFn(ctx, req)
}
