package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/metalagman/taskdeck/internal/config"
)

// HTTPServer is the API listener managed by the fx lifecycle.
type HTTPServer struct {
	srv             *http.Server
	shutdownTimeout time.Duration

	mu   sync.Mutex
	addr string
}

// NewHTTPServer registers start and stop hooks for the API server.
func NewHTTPServer(lc fx.Lifecycle, cfg config.Config, handler http.Handler) *HTTPServer {
	s := &HTTPServer{
		srv: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      handler,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		shutdownTimeout: cfg.Server.ShutdownTimeout,
	}
	lc.Append(fx.Hook{
		OnStart: s.start,
		OnStop:  s.stop,
	})
	return s
}

// Addr is the bound listen address once started.
func (s *HTTPServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

func (s *HTTPServer) start(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.mu.Unlock()

	log.Info().Str("addr", s.Addr()).Msg("api listening")
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("api server stopped")
		}
	}()
	return nil
}

func (s *HTTPServer) stop(ctx context.Context) error {
	if t := s.shutdownTimeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	log.Info().Msg("api shutting down")
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown api: %w", err)
	}
	return nil
}
