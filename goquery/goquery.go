// Package goquery implements the DOM-driven extraction strategies, the
// title cascade, link resolution and listing-page parsing on goquery.
package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/crawlx"
	"golang.org/x/net/html"
)

// parse builds a document from raw HTML.
func parse(rawHTML string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, crawlx.Errorf(crawlx.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// normalize trims s and collapses internal whitespace runs to one space.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// textLines returns the text of every non-empty text node under sel, one
// stripped node per line, in document order.
func textLines(sel *goquery.Selection) []string {
	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				lines = append(lines, t)
			}
			return
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return lines
}

// cleanText splits lines on runs of two or more spaces, trims every
// phrase and joins the non-empty ones with newlines.
func cleanText(lines []string) string {
	var chunks []string
	for _, line := range lines {
		for _, phrase := range strings.Split(strings.TrimSpace(line), "  ") {
			if phrase = strings.TrimSpace(phrase); phrase != "" {
				chunks = append(chunks, phrase)
			}
		}
	}
	return strings.Join(chunks, "\n")
}

// truncate caps s at max runes.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// wordCount counts whitespace-delimited words.
func wordCount(s string) int {
	return len(strings.Fields(s))
}
