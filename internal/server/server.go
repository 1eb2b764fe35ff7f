// Package server exposes the engine over HTTP: a JSON now-playing endpoint,
// simple transport controls and a websocket feed of state changes.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/airwaves/internal/playback"
)

// Engine is the part of playback.Engine the server uses.
type Engine interface {
	Snapshot() playback.Snapshot
	Subscribe() *playback.Subscription
	Unsubscribe(sub *playback.Subscription)
	Play()
	Pause()
	Stop()
	TogglePlaying()
	SetVolume(level float64)
}

// Verify playback.Engine implements Engine at compile time.
var _ Engine = (*playback.Engine)(nil)

type Server struct {
	engine Engine
	logger *log.Logger

	// pingInterval keeps idle websocket connections alive.
	pingInterval time.Duration
}

func New(engine Engine, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		engine:       engine,
		logger:       logger,
		pingInterval: 30 * time.Second,
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/now-playing", s.handleNowPlaying)
	mux.HandleFunc("POST /api/play", s.handleControl(s.engine.Play))
	mux.HandleFunc("POST /api/pause", s.handleControl(s.engine.Pause))
	mux.HandleFunc("POST /api/stop", s.handleControl(s.engine.Stop))
	mux.HandleFunc("POST /api/toggle", s.handleControl(s.engine.TogglePlaying))
	mux.HandleFunc("POST /api/volume", s.handleVolume)
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	return s.loggingMiddleware(mux)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("now-playing feed listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
