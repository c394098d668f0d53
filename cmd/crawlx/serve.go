package main

import (
	crawlxgin "github.com/fwojciec/crawlx/gin"
	"github.com/gin-gonic/gin"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	gin.SetMode(gin.ReleaseMode)

	opts := []crawlxgin.Option{crawlxgin.WithLogger(deps.Logger)}
	if deps.Metrics != nil {
		opts = append(opts, crawlxgin.WithMetrics(deps.Metrics))
	}
	srv := crawlxgin.NewServer(deps.Scraper, deps.Runner, opts...)

	if deps.Scheduler != nil {
		deps.Scheduler.Start(deps.Ctx)
		defer deps.Scheduler.Stop()
		deps.Logger.Info("jobs registered", "jobs", deps.Scheduler.Names(), "defaults", deps.Scheduler.Defaults())
	}

	return srv.Serve(deps.Ctx, c.Addr)
}
