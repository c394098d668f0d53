package goquery

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/crawlx"
)

// Listing describes where items sit on a listing page. Title, Byline and
// Link are matched inside each row.
type Listing struct {
	Rows  string
	Title string
	Link  string

	// Byline is optional secondary text such as a company name. When
	// present it is appended to the title as "title - byline".
	Byline string
}

// ListingItem is one item read from a listing page.
type ListingItem struct {
	Title string
	URL   string
}

// ParseListing reads every row of the listing. Rows without a title or a
// resolvable link are skipped. Relative links are resolved against
// baseURL; duplicates keep their first occurrence.
func ParseListing(rawHTML, baseURL string, l Listing) ([]ListingItem, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, crawlx.Errorf(crawlx.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := parse(rawHTML)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var items []ListingItem
	doc.Find(l.Rows).Each(func(_ int, row *goquery.Selection) {
		title := normalize(row.Find(l.Title).First().Text())
		if title == "" {
			return
		}
		href, _ := row.Find(l.Link).First().Attr("href")
		link := ResolveURL(base, href)
		if link == "" {
			return
		}
		if _, ok := seen[link]; ok {
			return
		}
		seen[link] = struct{}{}

		if l.Byline != "" {
			if by := normalize(row.Find(l.Byline).First().Text()); by != "" {
				title = title + " - " + by
			}
		}
		items = append(items, ListingItem{Title: title, URL: link})
	})
	return items, nil
}
