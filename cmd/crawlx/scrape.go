package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/crawlx"
)

// Run executes the scrape command and prints the result as JSON.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	res, err := deps.Scraper.Scrape(deps.Ctx, crawlx.ScrapeRequest{
		URL:      c.URL,
		Mode:     crawlx.ExtractMode(c.Mode),
		Rendered: c.Rendered,
		Settle:   c.Wait,
		Markdown: c.Markdown,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scrapeMessage(err))
		return err
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}

	if !res.Success {
		return fmt.Errorf("extraction failed: %s", res.Error)
	}
	return nil
}

// scrapeMessage prefers the fetch failure text over the generic message.
func scrapeMessage(err error) string {
	if crawlx.ErrorCode(err) == crawlx.EINVALID {
		return crawlx.ErrorMessage(err)
	}
	return err.Error()
}
