package goquery

import (
	"net/url"
	"time"

	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/crawlx"
)

// Ensure TextStrategy implements crawlx.Strategy at compile time.
var _ crawlx.Strategy = (*TextStrategy)(nil)

// MethodText names the text strategy.
const MethodText = "text"

// contentSelectors are tried in order; the first match supplies the text.
var contentSelectors = []cascadia.Selector{
	cascadia.MustCompile("main"),
	cascadia.MustCompile("article"),
	cascadia.MustCompile(`[role="main"]`),
	cascadia.MustCompile(".content"),
	cascadia.MustCompile("#content"),
}

// boilerplate elements are removed before any text is read.
const boilerplate = "script, style, noscript, nav, footer, aside"

// TextStrategy extracts readable text from any page. It falls back to the
// whole body when no content container is found, so it succeeds on any
// parseable input.
type TextStrategy struct {
	// MaxContent caps the content length in characters.
	// Defaults to crawlx.MaxTextContent.
	MaxContent int
}

// NewTextStrategy creates a TextStrategy with the default cap.
func NewTextStrategy() *TextStrategy {
	return &TextStrategy{MaxContent: crawlx.MaxTextContent}
}

// Method implements crawlx.Strategy.
func (s *TextStrategy) Method() string { return MethodText }

// Extract implements crawlx.Strategy.
func (s *TextStrategy) Extract(rawHTML, pageURL string) (*crawlx.ExtractionResult, error) {
	doc, err := parse(rawHTML)
	if err != nil {
		return nil, err
	}

	title := Title(doc)
	description := Description(doc)

	// Links are read before boilerplate removal so navigation counts.
	var links []string
	if base, err := url.Parse(pageURL); err == nil {
		links = documentLinks(doc, base)
	}

	doc.Find(boilerplate).Remove()

	var lines []string
	for _, m := range contentSelectors {
		if sel := doc.FindMatcher(m).First(); sel.Length() > 0 {
			lines = textLines(sel)
			break
		}
	}
	if len(lines) == 0 {
		lines = textLines(doc.Find("body"))
	}

	limit := s.MaxContent
	if limit <= 0 {
		limit = crawlx.MaxTextContent
	}
	content := truncate(cleanText(lines), limit)

	return &crawlx.ExtractionResult{
		Success:     true,
		URL:         pageURL,
		Title:       title,
		Content:     content,
		Description: description,
		Tags:        []string{},
		Links:       links,
		WordCount:   wordCount(content),
		Method:      MethodText,
		ExtractedAt: crawlx.Timestamp(time.Now()),
	}, nil
}
