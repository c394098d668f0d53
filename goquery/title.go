package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/crawlx"
)

// ExtractTitle returns the page title using the cascade <title>, og:title,
// first <h1>, and finally crawlx.UntitledTitle. It never returns "".
func ExtractTitle(rawHTML string) string {
	doc, err := parse(rawHTML)
	if err != nil {
		return crawlx.UntitledTitle
	}
	return Title(doc)
}

// Title applies the title cascade to a parsed document.
func Title(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if t := strings.TrimSpace(og); t != "" {
			return t
		}
	}
	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		if t := normalize(h1.Text()); t != "" {
			return t
		}
	}
	return crawlx.UntitledTitle
}
