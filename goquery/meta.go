package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// metaContent returns the content attribute of the first matching meta
// tag with a non-blank value.
func metaContent(doc *goquery.Document, selectors ...string) string {
	for _, s := range selectors {
		var found string
		doc.Find(s).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if v, ok := sel.Attr("content"); ok && strings.TrimSpace(v) != "" {
				found = strings.TrimSpace(v)
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// Author returns the author declared in page metadata.
func Author(doc *goquery.Document) string {
	return metaContent(doc, `meta[name="author"]`, `meta[property="article:author"]`)
}

// PublishedDate returns the publication date declared in page metadata,
// as written by the page.
func PublishedDate(doc *goquery.Document) string {
	return metaContent(doc, `meta[property="article:published_time"]`, `meta[name="date"]`)
}

// Description returns the meta description, falling back to og:description.
func Description(doc *goquery.Document) string {
	return metaContent(doc, `meta[name="description"]`, `meta[property="og:description"]`)
}

// Tags returns article:tag values and comma-separated meta keywords.
func Tags(doc *goquery.Document) []string {
	var tags []string
	seen := make(map[string]struct{})
	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	doc.Find(`meta[property="article:tag"]`).Each(func(_ int, sel *goquery.Selection) {
		v, _ := sel.Attr("content")
		add(v)
	})
	for _, kw := range strings.Split(metaContent(doc, `meta[name="keywords"]`), ",") {
		add(kw)
	}
	return tags
}
