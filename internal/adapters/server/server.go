package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trebuchet-org/proxyforge/internal/domain/config"
)

const shutdownTimeout = 15 * time.Second

// NewEngine builds the gin engine with health check and the v1 API.
func NewEngine(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	h.Register(r.Group("/v1"))
	return r
}

// Server runs the HTTP API until its context is cancelled.
type Server struct {
	addr    string
	handler *Handler
	log     *slog.Logger
}

func NewServer(cfg *config.RuntimeConfig, handler *Handler, log *slog.Logger) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	return &Server{addr: cfg.ServerAddr, handler: handler, log: log.With("component", "HTTPServer")}
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Run listens on the configured address and shuts down gracefully when ctx
// is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           NewEngine(s.handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server starting", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	return nil
}
