// Package httpapi is the service HTTP surface: the incident and report feed
// endpoints, report submission, and the health, readiness, and metrics routes.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/VarunUmapathy/Urbanlytic/internal/domain"
)

// minDescriptionLen is the shortest description accepted on submission.
const minDescriptionLen = 10

// IncidentReader serves the two read operations.
type IncidentReader interface {
	ListIncidents(ctx context.Context) ([]domain.Incident, error)
	ListUserReports(ctx context.Context) ([]domain.Incident, error)
}

// ReportWriter accepts validated report submissions.
type ReportWriter interface {
	SubmitReport(ctx context.Context, sub domain.ReportSubmission) (string, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	Ping(ctx context.Context) error
}

// Server exposes the incident API over HTTP.
type Server struct {
	httpServer *http.Server
	reader     IncidentReader
	writer     ReportWriter
	ready      ReadinessChecker
	logger     *slog.Logger
}

// NewServer creates the API server with all routes registered.
func NewServer(addr string, reader IncidentReader, writer ReportWriter,
	ready ReadinessChecker, logger *slog.Logger) *Server {
	s := &Server{
		reader: reader,
		writer: writer,
		ready:  ready,
		logger: logger,
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/incidents", s.handleListIncidents).Methods(http.MethodGet)
	r.HandleFunc("/api/reports", s.handleListReports).Methods(http.MethodGet)
	r.HandleFunc("/api/reports", s.handleSubmitReport).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	handler := handlers.RecoveryHandler(handlers.RecoveryLogger(&recoveryLogger{logger}))(r)
	handler = handlers.CORS(
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(handler)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleListIncidents(w http.ResponseWriter, r *http.Request) {
	incidents, err := s.reader.ListIncidents(r.Context())
	if err != nil {
		s.logger.Error("list incidents failed", "error", err)
		writeError(w, http.StatusBadGateway, "upstream store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, incidents)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.reader.ListUserReports(r.Context())
	if err != nil {
		s.logger.Error("list user reports failed", "error", err)
		writeError(w, http.StatusBadGateway, "upstream store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// submitRequest is the submission DTO. Location is a pointer so a missing
// location is distinguishable from coordinate {0, 0}.
type submitRequest struct {
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Location    *domain.LatLng `json:"location"`
	MediaURLs   []string       `json:"mediaUrls"`
}

func (s *Server) handleSubmitReport(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sub, err := validateSubmission(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.writer.SubmitReport(r.Context(), sub)
	if err != nil {
		s.logger.Error("submit report failed", "error", err)
		writeError(w, http.StatusInternalServerError, "report could not be stored")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"id": id})
}

func validateSubmission(req submitRequest) (domain.ReportSubmission, error) {
	typ := domain.IncidentType(strings.TrimSpace(req.Type))
	if !typ.Valid() {
		return domain.ReportSubmission{}, errors.New("type must be one of the supported incident types")
	}
	if len(strings.TrimSpace(req.Description)) < minDescriptionLen {
		return domain.ReportSubmission{}, errors.New("description must be at least 10 characters")
	}
	if req.Location == nil {
		return domain.ReportSubmission{}, errors.New("location is required")
	}
	return domain.ReportSubmission{
		Type:        typ,
		Description: strings.TrimSpace(req.Description),
		Location:    *req.Location,
		MediaURLs:   req.MediaURLs,
	}, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.ready.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// recoveryLogger adapts slog to the gorilla recovery handler.
type recoveryLogger struct {
	logger *slog.Logger
}

func (l *recoveryLogger) Println(v ...any) {
	l.logger.Error("panic recovered in http handler", "detail", v)
}
