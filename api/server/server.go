package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/ValentinKolb/kvapp/lib/store/mstore"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("server")

// ShutdownTimeout bounds how long in-flight requests may run after shutdown starts.
const ShutdownTimeout = 10 * time.Second

// DefaultMaxValueBytes is the PUT body limit used when Options.MaxValueBytes is not set.
const DefaultMaxValueBytes int64 = 64 << 20

// StatsSource provides the store operation snapshot served on /stats.
type StatsSource interface {
	Snapshot() map[string]mstore.OpSnapshot
}

// Options configure the optional parts of the server.
type Options struct {
	// Version reported by the index route
	Version string
	// Metrics exposes GET /metrics in Prometheus text format
	Metrics bool
	// Stats, if set, exposes GET /stats
	Stats StatsSource
	// MaxValueBytes caps PUT bodies. Zero means DefaultMaxValueBytes.
	MaxValueBytes int64
}

// Server routes HTTP requests to the store held by a ServerState.
type Server struct {
	state   *ServerState
	opts    Options
	metrics *serverMetrics
	mux     *http.ServeMux
}

// New creates a server for state and registers all routes.
//
// Usage:
//
//	state := server.NewServerState("default", st)
//	s := server.New(state, server.Options{Version: common.Version, Metrics: true})
//	if err := s.Serve(ctx, "127.0.0.1:8080"); err != nil {
//		return err
//	}
func New(state *ServerState, opts Options) *Server {
	s := &Server{
		state: state,
		opts:  opts,
		mux:   http.NewServeMux(),
	}
	if s.opts.MaxValueBytes <= 0 {
		s.opts.MaxValueBytes = DefaultMaxValueBytes
	}
	if opts.Metrics {
		s.metrics = newServerMetrics()
	}
	s.routes()
	return s
}

// routes registers the routing table
func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.instrument("index", s.index))
	s.mux.HandleFunc("GET /health", s.instrument("health", s.health))
	s.mux.HandleFunc("GET /api/{key}", s.instrument("get", s.get))
	s.mux.HandleFunc("PUT /api/{key}", s.instrument("put", s.put))
	s.mux.HandleFunc("DELETE /api/{key}", s.instrument("delete", s.delete))

	if s.metrics != nil {
		s.mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain; version=0.0.4")
			s.metrics.write(w)
		})
	}
	if s.opts.Stats != nil {
		s.mux.HandleFunc("GET /stats", s.instrument("stats", s.stats))
	}

	// everything else
	s.mux.HandleFunc("/", s.instrument("fallback", s.fallback))
}

// Handler returns the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Serve listens on addr and blocks until ctx is done or the listener fails.
// On return the store has been closed.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		_ = s.state.Close()
		return err
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener is like Serve but uses an existing listener.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		Logger.Infof("Starting HTTP server on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	case <-ctx.Done():
		Logger.Infof("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			Logger.Warningf("graceful shutdown failed: %v", err)
			serveErr = err
		}
	}

	if err := s.state.Close(); err != nil {
		Logger.Errorf("failed to close store: %v", err)
		if serveErr == nil {
			serveErr = err
		}
	}
	Logger.Infof("store closed")
	return serveErr
}
