package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/scientist/pkg/domain"
	"github.com/aretw0/scientist/pkg/ports"
	"github.com/go-chi/chi/v5"
)

// DefaultLimit is the number of reports returned when no limit is requested.
const DefaultLimit = 20

// Server exposes a ReportStore as a read-only JSON API.
type Server struct {
	Store   ports.ReportStore
	Metrics http.Handler
	Logger  *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithMetrics mounts h under GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewHandler creates a new HTTP handler for the store.
func NewHandler(store ports.ReportStore, opts ...Option) http.Handler {
	server := &Server{
		Store:  store,
		Logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Get("/healthz", server.Health)
	r.Get("/experiments", server.ListExperiments)
	r.Get("/experiments/{name}/reports", server.ListReports)
	r.Get("/experiments/{name}/stats", server.GetStats)
	if server.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.Metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// ListExperiments handles GET /experiments.
func (s *Server) ListExperiments(w http.ResponseWriter, r *http.Request) {
	names, err := s.Store.Experiments(r.Context())
	if err != nil {
		http.Error(w, "Failed to list experiments", http.StatusInternalServerError)
		s.Logger.Error("ListExperiments failed", "err", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, names)
}

// ListReports handles GET /experiments/{name}/reports.
func (s *Server) ListReports(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	limit := DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit: expected a positive integer", http.StatusBadRequest)
			s.Logger.Warn("ListReports: invalid limit", "limit", raw)
			return
		}
		limit = n
	}

	reports, err := s.Store.Recent(r.Context(), name, limit)
	if err != nil {
		http.Error(w, "Failed to read reports", http.StatusInternalServerError)
		s.Logger.Error("ListReports failed", "experiment", name, "err", err)
		return
	}
	if reports == nil {
		reports = []domain.Report{}
	}
	s.writeJSON(w, reports)
}

// GetStats handles GET /experiments/{name}/stats.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	stats, err := s.Store.Stats(r.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrExperimentNotFound) {
			http.Error(w, "Experiment not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to read stats", http.StatusInternalServerError)
		s.Logger.Error("GetStats failed", "experiment", name, "err", err)
		return
	}
	s.writeJSON(w, stats)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}
