// Package trafilatura implements crawlx.ArticleExtractor on go-trafilatura,
// which is tuned for news and blog pages.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/crawlx"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements crawlx.ArticleExtractor at compile time.
var _ crawlx.ArticleExtractor = (*Extractor)(nil)

// dateLayout is how publication dates are reported.
const dateLayout = "2006-01-02"

// Extractor wraps go-trafilatura to extract the main article from HTML.
type Extractor struct {
	// Options are passed to every extraction. OriginalURL is set per call.
	Options trafilatura.Options
}

// NewExtractor creates an Extractor that favors precision over recall,
// keeps tables and drops comment sections.
func NewExtractor() *Extractor {
	return &Extractor{
		Options: trafilatura.Options{
			EnableFallback:  true,
			Focus:           trafilatura.FavorPrecision,
			ExcludeComments: true,
			ExcludeTables:   false,
		},
	}
}

// ExtractArticle processes raw HTML and returns the main article along with
// the metadata trafilatura found.
func (e *Extractor) ExtractArticle(rawHTML, pageURL string) (*crawlx.Article, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, crawlx.Errorf(crawlx.EINVALID, "empty HTML input")
	}

	opts := e.Options
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	meta := result.Metadata
	article := &crawlx.Article{
		Title:       strings.TrimSpace(meta.Title),
		Author:      strings.TrimSpace(meta.Author),
		Description: strings.TrimSpace(meta.Description),
		Tags:        mergeTags(meta.Tags, meta.Categories),
		ContentText: strings.TrimSpace(result.ContentText),
		ContentHTML: contentHTML,
	}
	if !meta.Date.IsZero() {
		article.PublishedDate = meta.Date.Format(dateLayout)
	}
	return article, nil
}

// mergeTags joins tag and category lists, dropping blanks and duplicates.
func mergeTags(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, tag := range list {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
