package goquery

import (
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/crawlx"
)

// Ensure ArticleStrategy implements crawlx.Strategy at compile time.
var _ crawlx.Strategy = (*ArticleStrategy)(nil)

// MethodArticle names the article strategy.
const MethodArticle = "article"

// errNoArticle is returned when the engine finds no main content.
var errNoArticle = errors.New("no article content found")

// ArticleStrategy runs an article engine and fills metadata gaps from the
// page's meta tags. The title falls back to the cascade in Title.
type ArticleStrategy struct {
	Extractor crawlx.ArticleExtractor

	// Converter, when set, turns the article HTML into Markdown for the
	// content field instead of using the engine's plain text.
	Converter crawlx.Converter
}

// NewArticleStrategy creates an ArticleStrategy around ext.
func NewArticleStrategy(ext crawlx.ArticleExtractor) *ArticleStrategy {
	return &ArticleStrategy{Extractor: ext}
}

// Method implements crawlx.Strategy.
func (s *ArticleStrategy) Method() string { return MethodArticle }

// Extract implements crawlx.Strategy. It fails when the engine errors or
// produces no body content.
func (s *ArticleStrategy) Extract(rawHTML, url string) (*crawlx.ExtractionResult, error) {
	article, err := s.Extractor.ExtractArticle(rawHTML, url)
	if err != nil {
		return nil, err
	}

	content := article.ContentText
	if s.Converter != nil && article.ContentHTML != "" {
		md, err := s.Converter.Convert(article.ContentHTML, url)
		if err != nil {
			return nil, err
		}
		content = md
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errNoArticle
	}

	doc, err := parse(rawHTML)
	if err != nil {
		return nil, err
	}

	res := &crawlx.ExtractionResult{
		Success:       true,
		URL:           url,
		Title:         article.Title,
		Content:       content,
		Author:        article.Author,
		PublishedDate: article.PublishedDate,
		Description:   article.Description,
		Tags:          article.Tags,
		WordCount:     wordCount(content),
		Method:        MethodArticle,
		ExtractedAt:   crawlx.Timestamp(time.Now()),
	}
	if res.Title == "" {
		res.Title = Title(doc)
	}
	if res.Author == "" {
		res.Author = Author(doc)
	}
	if res.PublishedDate == "" {
		res.PublishedDate = PublishedDate(doc)
	}
	if res.Description == "" {
		res.Description = Description(doc)
	}
	if len(res.Tags) == 0 {
		res.Tags = Tags(doc)
	}
	return res, nil
}
