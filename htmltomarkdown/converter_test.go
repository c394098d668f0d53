package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/crawlx"
	"github.com/fwojciec/crawlx/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("renders article structure", func(t *testing.T) {
		t.Parallel()

		html := `<article>
<h2>Launch day</h2>
<p>The team shipped <strong>v2</strong> with <em>fewer</em> bugs.</p>
<blockquote><p>It just works.</p></blockquote>
<ul><li>Faster</li><li>Smaller</li></ul>
</article>`

		md, err := htmltomarkdown.NewConverter().Convert(html, "")

		require.NoError(t, err)
		assert.Contains(t, md, "## Launch day")
		assert.Contains(t, md, "**v2**")
		assert.Contains(t, md, "*fewer*")
		assert.Contains(t, md, "> It just works.")
		assert.Contains(t, md, "- Faster")
		assert.Contains(t, md, "- Smaller")
	})

	t.Run("resolves relative links against base URL", func(t *testing.T) {
		t.Parallel()

		html := `<p>Read the <a href="/docs/intro">intro</a>.</p>`

		md, err := htmltomarkdown.NewConverter().Convert(html, "https://site.test/blog/post")

		require.NoError(t, err)
		assert.Contains(t, md, "[intro](https://site.test/docs/intro)")
	})

	t.Run("keeps absolute links", func(t *testing.T) {
		t.Parallel()

		html := `<p>Visit <a href="https://example.com">Example</a>.</p>`

		md, err := htmltomarkdown.NewConverter().Convert(html, "")

		require.NoError(t, err)
		assert.Contains(t, md, "[Example](https://example.com)")
	})

	t.Run("renders tables", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<thead><tr><th>Plan</th><th>Price</th></tr></thead>
<tbody><tr><td>Free</td><td>0</td></tr></tbody>
</table>`

		md, err := htmltomarkdown.NewConverter().Convert(html, "")

		require.NoError(t, err)
		assert.Contains(t, md, "Plan")
		assert.Contains(t, md, "Free")
		assert.Contains(t, md, "|")
		assert.Contains(t, md, "---")
	})

	t.Run("drops scripts", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p>Text</p><script>track()</script>`, "")

		require.NoError(t, err)
		assert.Equal(t, "Text", md)
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert("  ", "")

		require.Error(t, err)
		assert.Equal(t, crawlx.EINVALID, crawlx.ErrorCode(err))
	})
}
