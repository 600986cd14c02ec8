// Package server exposes the download resolver over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ochairo/chromium-snapshots/internal/domain/interfaces"
)

const defaultShutdownTimeout = 10 * time.Second

// Config configures the HTTP server
type Config struct {
	// Addr is the TCP listen address, e.g. ":8000"
	Addr string
	// StaticDir is served, with directory listings, for every non-API path
	StaticDir       string
	DevMode         bool
	ShutdownTimeout time.Duration
}

// Server is the HTTP front end
type Server struct {
	router          *gin.Engine
	addr            string
	shutdownTimeout time.Duration
	logger          interfaces.Logger
}

// NewServer creates the server and its routes
func NewServer(cfg Config, resolver Resolver, logger interfaces.Logger) *Server {
	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	s := &Server{
		router:          gin.New(),
		addr:            cfg.Addr,
		shutdownTimeout: timeout,
		logger:          logger,
	}

	s.router.Use(gin.Recovery(), requestLogger(logger))
	NewHandler(resolver, logger).RegisterRoutes(s.router)

	// Everything else is a static asset
	if cfg.StaticDir != "" {
		s.router.NoRoute(staticHandler(cfg.StaticDir))
	}

	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve listens on the configured address until ctx is cancelled, then waits
// up to the shutdown timeout for in-flight requests
func (s *Server) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.ServeListener(ctx, listener)
}

// ServeListener is Serve on an already bound listener
func (s *Server) ServeListener(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", interfaces.F("addr", listener.Addr().String()))
		errCh <- httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// staticHandler serves dir with directory listings. gin primes NoRoute
// responses with 404, which the file server does not always overwrite.
func staticHandler(dir string) gin.HandlerFunc {
	files := http.FileServer(http.Dir(dir))
	return func(c *gin.Context) {
		c.Status(http.StatusOK)
		files.ServeHTTP(c.Writer, c.Request)
	}
}

// requestLogger logs one line per request through the domain logger
func requestLogger(logger interfaces.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			interfaces.F("method", c.Request.Method),
			interfaces.F("path", c.Request.URL.Path),
			interfaces.F("query", c.Request.URL.RawQuery),
			interfaces.F("status", c.Writer.Status()),
			interfaces.F("duration", time.Since(start)))
	}
}
