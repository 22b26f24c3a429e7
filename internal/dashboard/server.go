// Package dashboard serves the read-side HTTP API the goal views consume:
// filtered goal lists, goal detail with dependencies, hierarchy subtrees, the
// strategy-map subset, and an SSE change feed. All mutations stay on the
// engine's in-process API; the dashboard never writes.
package dashboard

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/northstar/summit/internal/goal"
)

// StartOpts holds configuration for the dashboard server.
type StartOpts struct {
	Store *goal.Store
	Port  int
	Out   io.Writer
}

// Start launches the dashboard HTTP server. It blocks until ctx is cancelled,
// then shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.Store == nil {
		return fmt.Errorf("dashboard: store is required")
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}

	gin.SetMode(gin.ReleaseMode)
	router := newRouter(opts.Store)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Dashboard running at http://localhost:%d\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

// newRouter builds the Gin engine with all routes registered.
func newRouter(store *goal.Store) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	registerRoutes(router, store)
	return router
}
