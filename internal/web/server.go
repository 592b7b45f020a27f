// Package web is the browser front end: upload a gate workbook, pick a
// project and gate, and create the epic and its tasks.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/indiesemi/gate2jira/internal/config"
	"github.com/indiesemi/gate2jira/internal/importer"
	"github.com/indiesemi/gate2jira/internal/jira"
)

// TrackerFactory builds the Jira client for one set of credentials.
type TrackerFactory func(creds jira.Credentials) importer.Tracker

// Server serves the upload form and runs imports.
type Server struct {
	config   config.Config
	http     *http.Server
	sessions *SessionStore
	metrics  *Metrics
	tracker  TrackerFactory
	cancel   context.CancelFunc
}

// Option configures a Server.
type Option func(*Server)

// WithTrackerFactory replaces the Jira client constructor.
func WithTrackerFactory(f TrackerFactory) Option {
	return func(s *Server) { s.tracker = f }
}

// NewServer creates a Server for cfg.
func NewServer(cfg config.Config, opts ...Option) *Server {
	s := &Server{
		config:   cfg,
		sessions: NewSessionStore(SessionTTL),
		metrics:  NewMetrics(),
	}
	s.tracker = func(creds jira.Credentials) importer.Tracker {
		return jira.New(cfg.BaseURL, creds, cfg.Timeout)
	}
	for _, opt := range opts {
		opt(s)
	}

	s.http = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.routes(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Start begins listening for HTTP requests (non-blocking) and returns
// the bound address.
func (s *Server) Start() (string, error) {
	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return "", fmt.Errorf("listen: %w", err)
	}

	go func() {
		if err := s.http.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("http server", "err", err)
		}
	}()

	// Periodically drop expired sessions and their uploads
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.sessions.Cleanup(); n > 0 {
					slog.Info("expired sessions removed", "count", n)
				}
			}
		}
	}()

	return ln.Addr().String(), nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	return s.http.Shutdown(ctx)
}

// routes builds the HTTP handler with all routes and middleware.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /metricz", s.handleMetrics)

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /connect", s.handleConnect)
	mux.HandleFunc("POST /run", s.handleRun)
	mux.HandleFunc("POST /signout", s.handleSignOut)

	// Multipart framing and the other form fields ride on top of the workbook.
	return chain(mux, tagRequest, recoverPanics, observe(s.metrics), noStore, limitBody(s.config.MaxUpload+1<<20))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write json response", "err", err)
	}
}
