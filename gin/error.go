package gin

import (
	"errors"
	"net/http"

	"github.com/fwojciec/crawlx"
	"github.com/gin-gonic/gin"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
	URL   string `json:"url,omitempty"`
}

// codes maps application error codes to HTTP statuses.
var codes = map[string]int{
	crawlx.EINVALID:  http.StatusBadRequest,
	crawlx.ENOTFOUND: http.StatusNotFound,
	crawlx.ECONFLICT: http.StatusConflict,
	crawlx.EINTERNAL: http.StatusInternalServerError,
}

// statusOf returns the HTTP status and client-facing message for err.
// Fetch failures other than 404 are reported as 502.
func statusOf(err error) (int, string) {
	var fe *crawlx.FetchError
	if errors.As(err, &fe) {
		if fe.StatusCode == http.StatusNotFound {
			return http.StatusNotFound, fe.Error()
		}
		return http.StatusBadGateway, fe.Error()
	}
	code := crawlx.ErrorCode(err)
	status, ok := codes[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	return status, crawlx.ErrorMessage(err)
}

// writeError writes err as a JSON error response.
func writeError(c *gin.Context, err error, url string) {
	status, msg := statusOf(err)
	c.AbortWithStatusJSON(status, errorResponse{Error: msg, URL: url})
}
