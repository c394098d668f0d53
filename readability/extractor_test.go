package readability_test

import (
	"testing"

	"github.com/fwojciec/crawlx"
	"github.com/fwojciec/crawlx/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postURL = "https://blog.example.com/posts/queues"

func TestExtractor_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	ext := readability.NewExtractor()
	_, err := ext.ExtractArticle("", postURL)

	require.Error(t, err)
	assert.Equal(t, crawlx.EINVALID, crawlx.ErrorCode(err))
}

func TestExtractor_ExtractsTitleAndByline(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Designing Work Queues</title><meta name="author" content="Sam Lee"></head>
<body><article><p>Work queues decouple producers from consumers so that bursts of traffic do not overwhelm downstream services.</p></article></body>
</html>`

	ext := readability.NewExtractor()
	article, err := ext.ExtractArticle(html, postURL)

	require.NoError(t, err)
	assert.Equal(t, "Designing Work Queues", article.Title)
	assert.Equal(t, "Sam Lee", article.Author)
}

func TestExtractor_KeepsArticleDropsChrome(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav><a href="/home">Home Nav Link</a><a href="/about">About Nav Link</a></nav>
<aside class="sidebar"><p>Sidebar navigation content</p></aside>
<article>
<p>This is the important article paragraph text that must be kept in the output.</p>
<p>A second paragraph adds enough weight for the scorer to pick this container.</p>
</article>
<footer><p>Footer copyright text 2024</p></footer>
</body>
</html>`

	ext := readability.NewExtractor()
	article, err := ext.ExtractArticle(html, postURL)

	require.NoError(t, err)
	assert.Contains(t, article.ContentHTML, "important article paragraph text")
	assert.Contains(t, article.ContentText, "important article paragraph text")
	assert.NotContains(t, article.ContentHTML, "Home Nav Link")
	assert.NotContains(t, article.ContentHTML, "Sidebar navigation content")
	assert.NotContains(t, article.ContentHTML, "Footer copyright text")
}

func TestExtractor_AcceptsRelativeOrEmptyURL(t *testing.T) {
	t.Parallel()

	html := `<html><head><title>T</title></head><body><article><p>Some body text for the article.</p></article></body></html>`

	ext := readability.NewExtractor()
	for _, u := range []string{"", "/relative/path"} {
		_, err := ext.ExtractArticle(html, u)
		require.NoError(t, err, "url %q", u)
	}
}
