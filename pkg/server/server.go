// Package server exposes reports and the leaderboard over HTTP.
//
// Routes:
//
//	GET  /healthz
//	GET  /api/leaderboard?year=&category=&limit=&search=
//	POST /api/leaderboard/submit
//	GET  /api/github/{username}?year=
//	POST /api/report?format=
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/netip"
	"time"

	"golang.org/x/time/rate"

	"github.com/0xmhha/year-in-code/pkg/adapter"
	"github.com/0xmhha/year-in-code/pkg/leaderboard"
	"github.com/0xmhha/year-in-code/pkg/logger"
)

// Defaults for Config.
const (
	DefaultAddr           = "127.0.0.1:8080"
	DefaultRateLimit      = 2.0
	DefaultBurst          = 10
	DefaultMaxUploadBytes = 50 << 20
	shutdownTimeout       = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr string

	// RateLimit is requests per second per client IP. Negative disables
	// limiting.
	RateLimit float64
	Burst     int

	// TrustedProxies are the peers allowed to set X-Forwarded-For.
	TrustedProxies []netip.Prefix

	// MaxUploadBytes caps POST bodies.
	MaxUploadBytes int64
}

// Server serves the HTTP API.
type Server struct {
	cfg    Config
	store  leaderboard.Store
	github adapter.GitHubSource
	opts   adapter.Options
	logger logger.Logger
}

// New creates a Server. store and gh may be nil, in which case their routes
// answer 503.
func New(cfg Config, store leaderboard.Store, gh adapter.GitHubSource, opts adapter.Options) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}

	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}

	return &Server{
		cfg:    cfg,
		store:  store,
		github: gh,
		opts:   opts,
		logger: log.Named("server"),
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("POST /api/leaderboard/submit", s.handleSubmit)
	mux.HandleFunc("GET /api/github/{username}", s.handleGitHub)
	mux.HandleFunc("POST /api/report", s.handleReport)

	var h http.Handler = mux
	if s.cfg.RateLimit > 0 {
		h = NewIPRateLimiter(rate.Limit(s.cfg.RateLimit), s.cfg.Burst, s.cfg.TrustedProxies).Limit(h)
	}
	h = SecurityHeaders(h)
	return RequestLogger(s.logger, h)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
