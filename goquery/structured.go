package goquery

import (
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/crawlx"
)

// Ensure StructuredStrategy implements crawlx.Strategy at compile time.
var _ crawlx.Strategy = (*StructuredStrategy)(nil)

// MethodStructured names the structured strategy.
const MethodStructured = "structured"

// StructuredStrategy extracts tables and lists. The first crawlx.MaxTables
// <table> elements and the first crawlx.MaxLists <ul>/<ol> elements are
// examined; empty ones are dropped.
type StructuredStrategy struct{}

// NewStructuredStrategy creates a StructuredStrategy.
func NewStructuredStrategy() *StructuredStrategy {
	return &StructuredStrategy{}
}

// Method implements crawlx.Strategy.
func (s *StructuredStrategy) Method() string { return MethodStructured }

// Extract implements crawlx.Strategy.
func (s *StructuredStrategy) Extract(rawHTML, url string) (*crawlx.ExtractionResult, error) {
	doc, err := parse(rawHTML)
	if err != nil {
		return nil, err
	}

	return &crawlx.ExtractionResult{
		Success:     true,
		URL:         url,
		Title:       Title(doc),
		Tags:        []string{},
		Tables:      Tables(doc, crawlx.MaxTables),
		Lists:       Lists(doc, crawlx.MaxLists),
		Method:      MethodStructured,
		ExtractedAt: crawlx.Timestamp(time.Now()),
	}, nil
}

// Tables returns the rows of the first max tables in the document. Each
// row holds the normalized text of its td and th cells.
func Tables(doc *goquery.Document, max int) []crawlx.Table {
	tables := []crawlx.Table{}
	doc.Find("table").EachWithBreak(func(i int, table *goquery.Selection) bool {
		if i >= max {
			return false
		}
		var rows crawlx.Table
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, normalize(cell.Text()))
			})
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
		})
		if len(rows) > 0 {
			tables = append(tables, rows)
		}
		return true
	})
	return tables
}

// Lists returns the direct <li> items of the first max ul/ol elements.
func Lists(doc *goquery.Document, max int) [][]string {
	lists := [][]string{}
	doc.Find("ul, ol").EachWithBreak(func(i int, list *goquery.Selection) bool {
		if i >= max {
			return false
		}
		var items []string
		list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
			items = append(items, normalize(li.Text()))
		})
		if len(items) > 0 {
			lists = append(lists, items)
		}
		return true
	})
	return lists
}
