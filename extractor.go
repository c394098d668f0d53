package crawlx

import "time"

// ExtractMode selects which extraction strategies a request runs.
type ExtractMode string

// ExtractMode constants.
const (
	ExtractAuto       ExtractMode = "auto"
	ExtractArticle    ExtractMode = "article"
	ExtractText       ExtractMode = "text"
	ExtractStructured ExtractMode = "structured"
)

// UntitledTitle is returned by the title cascade when a page carries no
// <title>, og:title or <h1>.
const UntitledTitle = "Untitled"

// MaxTextContent caps the length of content produced by the text strategy.
const MaxTextContent = 10000

// Limits on the structured strategy.
const (
	MaxTables = 5
	MaxLists  = 10
)

// Table is an ordered sequence of rows, each an ordered sequence of cells.
type Table [][]string

// ExtractionResult is the structured outcome of extracting a page.
//
// When Success is false, only URL, Error, Method and ExtractedAt are set.
// When Success is true, Content or at least one of Tables/Lists is present.
type ExtractionResult struct {
	Success       bool       `json:"success"`
	URL           string     `json:"url"`
	Title         string     `json:"title,omitempty"`
	Content       string     `json:"content,omitempty"`
	Author        string     `json:"author,omitempty"`
	PublishedDate string     `json:"published_date,omitempty"`
	Description   string     `json:"description,omitempty"`
	Tags          []string   `json:"tags"`
	Tables        []Table    `json:"tables"`
	Lists         [][]string `json:"lists"`
	Links         []string   `json:"links,omitempty"`
	WordCount     int        `json:"word_count,omitempty"`
	Method        string     `json:"extraction_method,omitempty"`
	ExtractedAt   string     `json:"extracted_at"`
	Error         string     `json:"error,omitempty"`
}

// HasContent reports whether the result carries body text or structure.
func (r *ExtractionResult) HasContent() bool {
	return r.Content != "" || len(r.Tables) > 0 || len(r.Lists) > 0
}

// FailedResult builds an unsuccessful result that preserves the URL.
func FailedResult(url, method string, err error) *ExtractionResult {
	return &ExtractionResult{
		URL:         url,
		Method:      method,
		ExtractedAt: Timestamp(time.Now()),
		Error:       err.Error(),
	}
}

// Timestamp formats t the way ExtractionResult.ExtractedAt is reported.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Strategy is one self-contained algorithm for turning HTML into an
// ExtractionResult. Strategies return an error instead of a result when
// they fail or produce nothing usable.
type Strategy interface {
	// Method names the strategy in ExtractionResult.Method.
	Method() string

	// Extract processes html fetched from url.
	Extract(html, url string) (*ExtractionResult, error)
}

// Extractor turns raw HTML into an ExtractionResult for a requested mode.
// It never returns an error; failures are reported on the result.
type Extractor interface {
	Extract(html, url string, mode ExtractMode) *ExtractionResult
}

// Article is the main content of a news or blog page together with its
// metadata, as produced by a readability-style engine.
type Article struct {
	Title         string
	Author        string
	PublishedDate string
	Description   string
	Tags          []string

	// ContentText is the main content as plain text.
	ContentText string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// ArticleExtractor extracts the main article from HTML pages.
type ArticleExtractor interface {
	// ExtractArticle processes raw HTML fetched from url. The url may be
	// empty when unknown.
	ExtractArticle(html, url string) (*Article, error)
}
