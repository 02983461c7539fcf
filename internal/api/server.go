// Package api serves the repository operations over HTTP. Local repositories
// are addressed under /api/git, GitHub repositories under /api/github, and the
// agent tools under /api/agent.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gitscope.dev/gitscope/internal/agent"
	"gitscope.dev/gitscope/internal/backend"
	"gitscope.dev/gitscope/internal/ops"
	"gitscope.dev/gitscope/internal/repo"
)

const shutdownTimeout = 10 * time.Second

// Options configures a Server
type Options struct {
	Factory *backend.Factory
	Service *ops.Service
	Limits  agent.Limits
	Logger  *slog.Logger
}

// Server is the HTTP API
type Server struct {
	engine *gin.Engine
	logger *slog.Logger
}

// New builds the router
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	registerValidators()

	engine := gin.New()
	engine.Use(requestID(), requestLogger(opts.Logger), recovery(opts.Logger))
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody{Error: "Not found"})
	})

	local := &handlers{factory: opts.Factory, svc: opts.Service, kind: repo.KindLocal}
	local.register(engine.Group("/api/git"))

	remote := &handlers{factory: opts.Factory, svc: opts.Service, kind: repo.KindGitHub}
	remote.register(engine.Group("/api/github"))

	tools := &toolHandlers{handlers: handlers{factory: opts.Factory, svc: opts.Service}, limits: opts.Limits}
	tools.register(engine.Group("/api/agent"))

	return &Server{engine: engine, logger: opts.Logger}
}

// Handler returns the root http.Handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
