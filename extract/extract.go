// Package extract implements the extraction pipeline: an ordered list of
// strategies per mode, each run in isolation, with the first usable result
// winning.
package extract

import (
	"errors"
	"fmt"

	"github.com/fwojciec/crawlx"
)

// Ensure Pipeline implements crawlx.Extractor at compile time.
var _ crawlx.Extractor = (*Pipeline)(nil)

// errEmptyHTML is reported when there is nothing to extract from.
var errEmptyHTML = errors.New("empty HTML document")

// Strategies are the building blocks of a Pipeline.
type Strategies struct {
	Article    crawlx.Strategy
	Text       crawlx.Strategy
	Structured crawlx.Strategy
}

// Pipeline dispatches an extraction request to the strategies registered
// for its mode and returns the first usable result.
type Pipeline struct {
	modes    map[crawlx.ExtractMode][]crawlx.Strategy
	fallback []crawlx.Strategy
}

// NewPipeline creates a Pipeline. Auto runs article then text; every other
// known mode runs its own strategy; unknown modes run text.
func NewPipeline(s Strategies) *Pipeline {
	return &Pipeline{
		modes: map[crawlx.ExtractMode][]crawlx.Strategy{
			crawlx.ExtractAuto:       {s.Article, s.Text},
			crawlx.ExtractArticle:    {s.Article},
			crawlx.ExtractText:       {s.Text},
			crawlx.ExtractStructured: {s.Structured},
		},
		fallback: []crawlx.Strategy{s.Text},
	}
}

// Strategies returns the ordered strategies used for mode.
func (p *Pipeline) Strategies(mode crawlx.ExtractMode) []crawlx.Strategy {
	if ss, ok := p.modes[mode]; ok {
		return ss
	}
	return p.fallback
}

// Extract implements crawlx.Extractor.
//
// Strategies run in order until one succeeds with content. When none
// produces content, the last successful result is returned as is. When
// every strategy fails, the result is unsuccessful and carries the last
// failure.
func (p *Pipeline) Extract(html, url string, mode crawlx.ExtractMode) *crawlx.ExtractionResult {
	strategies := p.Strategies(mode)
	if html == "" {
		return crawlx.FailedResult(url, methodOf(strategies), errEmptyHTML)
	}

	var (
		fallback *crawlx.ExtractionResult
		failure  outcome
	)
	for _, s := range strategies {
		o := run(s, html, url)
		if o.err != nil {
			failure = o
			continue
		}
		if o.result.HasContent() {
			return o.result
		}
		fallback = o.result
	}
	if fallback != nil {
		return fallback
	}
	return crawlx.FailedResult(url, failure.method, &crawlx.ExtractionError{
		Method: failure.method,
		Err:    failure.err,
	})
}

// outcome is the tagged result of one strategy run: either result or err
// is set.
type outcome struct {
	method string
	result *crawlx.ExtractionResult
	err    error
}

// run executes one strategy, converting panics and nil results into
// errors and normalizing a successful result.
func run(s crawlx.Strategy, html, url string) (o outcome) {
	o.method = s.Method()
	defer func() {
		if r := recover(); r != nil {
			o.result = nil
			o.err = fmt.Errorf("panic: %v", r)
		}
	}()

	res, err := s.Extract(html, url)
	switch {
	case err != nil:
		o.err = err
	case res == nil:
		o.err = errors.New("no result")
	case !res.Success:
		o.err = errors.New(res.Error)
		if res.Error == "" {
			o.err = errors.New("strategy reported failure")
		}
	default:
		normalize(res, url, o.method)
		o.result = res
	}
	return o
}

// normalize fills fields every successful result must have.
func normalize(res *crawlx.ExtractionResult, url, method string) {
	if res.URL == "" {
		res.URL = url
	}
	if res.Method == "" {
		res.Method = method
	}
	if res.Title == "" {
		res.Title = crawlx.UntitledTitle
	}
	if res.Tags == nil {
		res.Tags = []string{}
	}
	if res.Tables == nil {
		res.Tables = []crawlx.Table{}
	}
	if res.Lists == nil {
		res.Lists = [][]string{}
	}
	res.Error = ""
}

func methodOf(strategies []crawlx.Strategy) string {
	if len(strategies) == 0 {
		return ""
	}
	return strategies[0].Method()
}
