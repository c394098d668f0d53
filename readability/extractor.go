// Package readability implements crawlx.ArticleExtractor on go-readability.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/crawlx"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements crawlx.ArticleExtractor at compile time.
var _ crawlx.ArticleExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main article from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractArticle processes raw HTML and returns the main article.
// Readability reports no publication date or tags.
func (e *Extractor) ExtractArticle(rawHTML, pageURL string) (*crawlx.Article, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, crawlx.Errorf(crawlx.EINVALID, "empty HTML input")
	}

	var base *url.URL
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		base = u
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), base)
	if err != nil {
		return nil, err
	}

	return &crawlx.Article{
		Title:       strings.TrimSpace(article.Title),
		Author:      strings.TrimSpace(article.Byline),
		Description: strings.TrimSpace(article.Excerpt),
		ContentText: strings.TrimSpace(article.TextContent),
		ContentHTML: article.Content,
	}, nil
}
