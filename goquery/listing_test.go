package goquery_test

import (
	"testing"

	"github.com/fwojciec/crawlx/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListing(t *testing.T) {
	t.Parallel()

	t.Run("reads rows with title and link", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<tr class="athing"><td><span class="titleline"><a href="https://a.test/story">First story</a><span class="sitebit">(a.test)</span></span></td></tr>
<tr><td class="subtext">120 points</td></tr>
<tr class="athing"><td><span class="titleline"><a href="item?id=42">Ask HN: Something</a></span></td></tr>
<tr class="athing"><td><span class="titleline"><a>No link</a></span></td></tr>
</table>`

		items, err := goquery.ParseListing(html, "https://news.ycombinator.com/", goquery.Listing{
			Rows:  "tr.athing",
			Title: "span.titleline > a",
			Link:  "span.titleline > a",
		})

		require.NoError(t, err)
		assert.Equal(t, []goquery.ListingItem{
			{Title: "First story", URL: "https://a.test/story"},
			{Title: "Ask HN: Something", URL: "https://news.ycombinator.com/item?id=42"},
		}, items)
	})

	t.Run("appends byline and resolves relative links against site root", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<tr class="job"><td><a class="preventLink" href="/remote-jobs/1"><h2> Go Engineer </h2></a><h3>Acme</h3></td></tr>
<tr class="job"><td><a class="preventLink" href="/remote-jobs/2"><h2>SRE</h2></a></td></tr>
<tr class="job"><td><a class="preventLink" href="/remote-jobs/1"><h2>Duplicate</h2></a></td></tr>
</table>`

		items, err := goquery.ParseListing(html, "https://remoteok.com/remote-dev-jobs", goquery.Listing{
			Rows:   "tr.job",
			Title:  "h2",
			Link:   "a.preventLink",
			Byline: "h3",
		})

		require.NoError(t, err)
		assert.Equal(t, []goquery.ListingItem{
			{Title: "Go Engineer - Acme", URL: "https://remoteok.com/remote-jobs/1"},
			{Title: "SRE", URL: "https://remoteok.com/remote-jobs/2"},
		}, items)
	})
}
