package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const (
	DEFAULT_READ_TIMEOUT     = 60 * time.Second
	DEFAULT_WRITE_TIMEOUT    = DEFAULT_READ_TIMEOUT
	DEFAULT_SHUTDOWN_TIMEOUT = 30 * time.Second
)

// Server wraps http.Server with signal driven graceful shutdown.
type Server struct {
	*http.Server

	shutdownTimeout time.Duration
	onShutdown      []func() error
}

// NewServer creates a Server with timeouts and handler.
func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *Server {
	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       readTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      writeTimeout,
		},
		shutdownTimeout: DEFAULT_SHUTDOWN_TIMEOUT,
	}
}

// OnShutdown registers a cleanup hook run after the HTTP server has drained, in registration order.
func (srv *Server) OnShutdown(fn func() error) {
	srv.onShutdown = append(srv.onShutdown, fn)
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts down gracefully.
func (srv *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", srv.listenAddr())
	if err != nil {
		return fmt.Errorf("net.Listen error: %w", err)
	}
	return srv.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (srv *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		srv.runHooks()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		Sugar.Info("shutdown requested, draining HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), srv.shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		Sugar.Errorf("HTTP server shutdown error: %v", err)
	} else {
		Sugar.Info("HTTP server shutdown success")
	}
	srv.runHooks()
	return err
}

func (srv *Server) runHooks() {
	for _, fn := range srv.onShutdown {
		if err := fn(); err != nil {
			Logger.Warn("shutdown hook failed", zap.Error(err))
		}
	}
	srv.onShutdown = nil
}

func (srv *Server) listenAddr() string {
	if srv.Addr == "" {
		return ":http"
	}
	return srv.Addr
}

// GraceServer starts an HTTP server that shuts down on SIGINT/SIGTERM, running hooks afterwards.
func GraceServer(addr string, handler http.Handler, hooks ...func() error) error {
	srv := NewServer(addr, handler, DEFAULT_READ_TIMEOUT, DEFAULT_WRITE_TIMEOUT)
	for _, h := range hooks {
		srv.OnShutdown(h)
	}
	return srv.Run(context.Background())
}
