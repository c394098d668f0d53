package gin

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// runResult reports one job of a triggered run.
type runResult struct {
	Job      string  `json:"job"`
	Success  bool    `json:"success"`
	Message  string  `json:"message"`
	RunID    string  `json:"run_id"`
	Duration float64 `json:"duration"`
	Shared   bool    `json:"shared,omitempty"`
}

// runResponse is the body of POST /scrape/run.
type runResponse struct {
	Status  string      `json:"status"`
	Spiders []string    `json:"spiders"`
	Message string      `json:"message"`
	Results []runResult `json:"results"`
}

// handleRun runs the jobs named in the spiders query parameter, or the
// defaults when it is empty, and waits for them to finish.
func (s *Server) handleRun(c *gin.Context) {
	names := splitNames(c.Query("spiders"))

	outcomes, err := s.runner.RunJobs(c.Request.Context(), names)
	if err != nil {
		writeError(c, err, "")
		return
	}

	resp := runResponse{
		Status:  "accepted",
		Spiders: make([]string, 0, len(outcomes)),
		Results: make([]runResult, 0, len(outcomes)),
	}
	succeeded := 0
	for _, o := range outcomes {
		if o.Success {
			succeeded++
		}
		resp.Spiders = append(resp.Spiders, o.Job)
		resp.Results = append(resp.Results, runResult{
			Job:      o.Job,
			Success:  o.Success,
			Message:  o.Message,
			RunID:    o.RunID,
			Duration: o.Duration.Seconds(),
			Shared:   o.Shared,
		})
	}
	resp.Message = fmt.Sprintf("%d of %d jobs succeeded", succeeded, len(outcomes))
	c.JSON(http.StatusOK, resp)
}

// splitNames parses a comma-separated list, dropping blanks.
func splitNames(s string) []string {
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
