package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"fleet-dashboard/internal/console"
	"fleet-dashboard/internal/export"
	"fleet-dashboard/internal/logger"
	"fleet-dashboard/internal/models"
	"fleet-dashboard/internal/report"
)

// Store is the persistence the API reads statistics and preferences from
type Store interface {
	GetStats() (map[string]interface{}, error)
	LoadPreferences() models.Preferences
	SavePreferences(p models.Preferences) error
}

// Config tunes the API
type Config struct {
	// WebDir holds the static dashboard bundle; empty disables it
	WebDir          string
	PageSize        int
	PageSizeOptions []int
	PeriodDays      int
	ExportFormat    export.Format
}

// Server represents the API server
type Server struct {
	store   Store
	dataset models.Dataset
	catalog *report.Catalog
	console *console.Controller
	cfg     Config
	router  *mux.Router
	log     zerolog.Logger
}

// NewServer creates a new API server over the seed dataset
func NewServer(store Store, ds models.Dataset, catalog *report.Catalog, cfg Config) *Server {
	if cfg.PeriodDays <= 0 {
		cfg.PeriodDays = report.DefaultPeriodDays
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = report.DefaultPageSize
	}
	if cfg.ExportFormat == "" {
		cfg.ExportFormat = export.CSV
	}

	s := &Server{
		store:   store,
		dataset: ds,
		catalog: catalog,
		console: console.NewController(catalog, console.Config{
			PageSize:        cfg.PageSize,
			PageSizeOptions: cfg.PageSizeOptions,
			Scope:           models.Scope{PeriodDays: cfg.PeriodDays},
		}),
		cfg:    cfg,
		router: mux.NewRouter(),
		log:    logger.WithComponent("api"),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)

	// Health check
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.Use(jsonMiddleware)

	// Fleet endpoints
	api.HandleFunc("/overview", s.handleOverview).Methods("GET")
	api.HandleFunc("/vehicles", s.handleListVehicles).Methods("GET")
	api.HandleFunc("/vehicles/export", s.handleExportVehicles).Methods("GET")
	api.HandleFunc("/vehicles/{id}", s.handleGetVehicle).Methods("GET")
	api.HandleFunc("/routes", s.handleListRoutes).Methods("GET")
	api.HandleFunc("/events", s.handleListEvents).Methods("GET")
	api.HandleFunc("/events/recent", s.handleRecentEvents).Methods("GET")

	// Report catalog endpoints
	api.HandleFunc("/reports", s.handleListReports).Methods("GET")
	api.HandleFunc("/reports/{id}", s.handleGetReport).Methods("GET")
	api.HandleFunc("/reports/{id}/page", s.handleReportPage).Methods("GET")
	api.HandleFunc("/reports/{id}/export", s.handleReportExport).Methods("GET")

	// Report console endpoints
	api.HandleFunc("/console", s.handleConsoleView).Methods("GET")
	api.HandleFunc("/console/category", s.handleConsoleCategory).Methods("POST")
	api.HandleFunc("/console/report", s.handleConsoleReport).Methods("POST")
	api.HandleFunc("/console/scope", s.handleConsoleScope).Methods("POST")
	api.HandleFunc("/console/filter", s.handleConsoleFilter).Methods("POST")
	api.HandleFunc("/console/apply", s.handleConsoleApply).Methods("POST")
	api.HandleFunc("/console/reset", s.handleConsoleReset).Methods("POST")
	api.HandleFunc("/console/reload", s.handleConsoleReload).Methods("POST")
	api.HandleFunc("/console/page", s.handleConsolePage).Methods("POST")
	api.HandleFunc("/console/page-size", s.handleConsolePageSize).Methods("POST")
	api.HandleFunc("/console/search", s.handleConsoleSearch).Methods("POST")
	api.HandleFunc("/console/sort/{col}", s.handleConsoleSort).Methods("POST")
	api.HandleFunc("/console/next", s.handleConsoleNext).Methods("POST")
	api.HandleFunc("/console/prev", s.handleConsolePrev).Methods("POST")
	api.HandleFunc("/console/export", s.handleConsoleExport).Methods("GET")

	// Preferences and stats
	api.HandleFunc("/preferences", s.handleGetPreferences).Methods("GET")
	api.HandleFunc("/preferences", s.handleUpdatePreferences).Methods("PUT")
	api.HandleFunc("/stats", s.handleStats).Methods("GET")

	if s.cfg.WebDir != "" {
		s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.cfg.WebDir)))
	}
}

// Router returns the configured router
func (s *Server) Router() *mux.Router {
	return s.router
}

// Console returns the report console driven by the API
func (s *Server) Console() *console.Controller {
	return s.console
}

// Middleware
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.log.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("latency", time.Since(start)).
			Msg("request")
	})
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Response helpers
type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    *meta       `json:"meta,omitempty"`
}

type meta struct {
	Total   int   `json:"total,omitempty"`
	Page    int   `json:"page,omitempty"`
	Size    int   `json:"size,omitempty"`
	QueryMs int64 `json:"query_ms,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{Success: false, Error: message})
}

func respondWithMeta(w http.ResponseWriter, data interface{}, m *meta) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(apiResponse{Success: true, Data: data, Meta: m})
}

// statusFor maps domain errors to HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, report.ErrUnknownReport):
		return http.StatusNotFound
	case errors.Is(err, console.ErrNoActiveReport):
		return http.StatusConflict
	case errors.Is(err, console.ErrUnknownCategory),
		errors.Is(err, console.ErrUnknownFilter),
		errors.Is(err, console.ErrUnsortableColumn),
		errors.Is(err, export.ErrUnknownFormat):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func decode(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	return json.NewDecoder(r.Body).Decode(v)
}

// queryInt reads an integer query parameter, returning def when absent or
// malformed
func queryInt(r *http.Request, key string, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Handlers
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetStats()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
