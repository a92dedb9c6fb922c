package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danish/blueprint/pkg/archive"
	"github.com/danish/blueprint/pkg/registry"
	"github.com/gorilla/websocket"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// DefaultPollInterval is the cadence at which websocket clients
// receive snapshots, matching the documented UI polling interval.
const DefaultPollInterval = 2 * time.Second

// GenerateFunc creates a new session for an idea and starts its
// generation run in the background, returning the session id.
type GenerateFunc func(idea string) string

// Server exposes the poller-facing HTTP surface: blueprint creation,
// snapshot polling, archive download and a websocket progress stream.
type Server struct {
	host           string
	port           int
	token          string
	pollInterval   time.Duration
	registry       *registry.Registry
	generate       GenerateFunc
	archiver       *archive.Builder
	archiveOrder   []string
	metricsHandler http.Handler
	upgrader       websocket.Upgrader
	server         *http.Server
	logger         zerolog.Logger
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	Token          string
	PollInterval   time.Duration
	Registry       *registry.Registry
	Generate       GenerateFunc
	Archiver       *archive.Builder
	ArchiveOrder   []string
	MetricsHandler http.Handler
	Logger         zerolog.Logger
}

// NewServer creates a gateway server
func NewServer(cfg Config) (*Server, error) {
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if cfg.Generate == nil {
		return nil, fmt.Errorf("generate function is required")
	}
	if cfg.Archiver == nil {
		cfg.Archiver = archive.NewBuilder()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	return &Server{
		host:           cfg.Host,
		port:           cfg.Port,
		token:          cfg.Token,
		pollInterval:   cfg.PollInterval,
		registry:       cfg.Registry,
		generate:       cfg.Generate,
		archiver:       cfg.Archiver,
		archiveOrder:   cfg.ArchiveOrder,
		metricsHandler: cfg.MetricsHandler,
		logger:         cfg.Logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // same-host UI; no cross-origin restriction needed
			},
		},
	}, nil
}

// Handler builds the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/blueprints", s.withAuth(s.handleCreate))
	mux.HandleFunc("GET /api/blueprints/{id}", s.withAuth(s.handleGet))
	mux.HandleFunc("GET /api/blueprints/{id}/archive", s.withAuth(s.handleArchive))
	mux.HandleFunc("GET /ws", s.withAuth(s.handleWebSocket))
	if s.metricsHandler != nil {
		mux.Handle("GET /metrics", s.metricsHandler)
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	return mux
}

// Start starts the HTTP server in the background
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.host, s.port),
		Handler: s.Handler(),
	}

	s.logger.Info().Str("addr", s.server.Addr).Msg("Starting gateway server")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Gateway server error")
		}
	}()

	return nil
}

// Stop gracefully shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info().Msg("Stopping gateway server")
	return s.server.Shutdown(ctx)
}

// withAuth enforces the optional bearer token and tags each request
// with a short request id for log correlation.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID, _ := gonanoid.New(10)
		logger := s.logger.With().Str("request_id", reqID).Str("path", r.URL.Path).Logger()

		if s.token != "" {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") || strings.TrimPrefix(header, "Bearer ") != s.token {
				logger.Warn().Msg("Unauthorized request")
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
		}

		next(w, r.WithContext(logger.WithContext(r.Context())))
	}
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
