package gin

import (
	"net/http"
	"time"

	"github.com/fwojciec/crawlx"
	"github.com/gin-gonic/gin"
)

// MaxWait caps the settle time a client may ask for.
const MaxWait = 60 * time.Second

// scrapeRequest is the body of POST /scrape/url.
type scrapeRequest struct {
	URL         string  `json:"url" binding:"required"`
	ExtractType string  `json:"extract_type"`
	WaitFor     float64 `json:"wait_for"`
	Rendered    bool    `json:"rendered"`
	Format      string  `json:"format"`
}

func (r scrapeRequest) toDomain() (crawlx.ScrapeRequest, error) {
	if r.WaitFor < 0 {
		return crawlx.ScrapeRequest{}, crawlx.Errorf(crawlx.EINVALID, "wait_for must not be negative")
	}
	wait := time.Duration(r.WaitFor * float64(time.Second))
	if wait > MaxWait {
		return crawlx.ScrapeRequest{}, crawlx.Errorf(crawlx.EINVALID, "wait_for must be at most %d seconds", int(MaxWait.Seconds()))
	}

	var markdown bool
	switch r.Format {
	case "", "text":
	case "markdown":
		markdown = true
	default:
		return crawlx.ScrapeRequest{}, crawlx.Errorf(crawlx.EINVALID, "unknown format %q", r.Format)
	}

	return crawlx.ScrapeRequest{
		URL:      r.URL,
		Mode:     crawlx.ExtractMode(r.ExtractType),
		Rendered: r.Rendered,
		Settle:   wait,
		Markdown: markdown,
	}, nil
}

// handleScrapeURL fetches and extracts one URL. A failed extraction is
// returned with 422 and the result body.
func (s *Server) handleScrapeURL(c *gin.Context) {
	var body scrapeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, crawlx.Errorf(crawlx.EINVALID, "invalid request: %v", err), "")
		return
	}
	req, err := body.toDomain()
	if err != nil {
		writeError(c, err, body.URL)
		return
	}

	res, err := s.scraper.Scrape(c.Request.Context(), req)
	if err != nil {
		s.logger.Warn("scrape failed", "url", body.URL, "err", err)
		writeError(c, err, body.URL)
		return
	}
	if !res.Success {
		c.JSON(http.StatusUnprocessableEntity, res)
		return
	}
	c.JSON(http.StatusOK, res)
}
