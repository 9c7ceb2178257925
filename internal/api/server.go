// Package api serves the dashboard, session and report operations as JSON
// over HTTP, plus Prometheus metrics.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/errors"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/logger"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/metrics"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/planner"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/report"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/storage"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/tracker"
)

// maxRequestBodySize limits POST body sizes.
const maxRequestBodySize = 1 << 16

type Server struct {
	tracker  *tracker.Tracker
	reports  *report.Engine
	plans    *planner.Service
	store    storage.Provider
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	log      *log.Logger
}

type Deps struct {
	Tracker  *tracker.Tracker
	Reports  *report.Engine
	Plans    *planner.Service
	Store    storage.Provider
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

func NewServer(d Deps) *Server {
	return &Server{
		tracker:  d.Tracker,
		reports:  d.Reports,
		plans:    d.Plans,
		store:    d.Store,
		metrics:  d.Metrics,
		gatherer: d.Gatherer,
		log:      logger.With("component", "api"),
	}
}

// RegisterHTTPHandlers registers:
//
//	GET  /api/dashboard?date=YYYY-MM-DD
//	POST /api/view
//	POST /api/sessions/start
//	POST /api/sessions/stop
//	GET  /api/report?range=rolling|calendar
//	GET  /api/plans
//	GET  /metrics
func (s *Server) RegisterHTTPHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/dashboard", s.instrument("dashboard", s.handleDashboard))
	mux.HandleFunc("POST /api/view", s.instrument("view", s.handleView))
	mux.HandleFunc("POST /api/sessions/start", s.instrument("start", s.handleStart))
	mux.HandleFunc("POST /api/sessions/stop", s.instrument("stop", s.handleStop))
	mux.HandleFunc("GET /api/report", s.instrument("report", s.handleReport))
	mux.HandleFunc("GET /api/plans", s.instrument("plans", s.handlePlans))
	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterHTTPHandlers(mux)
	return mux
}

// ListenAndServe runs until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		s.metrics.Request(route, strconv.Itoa(rec.status))
		s.log.Debug("request", "route", route, "status", rec.status)
	}
}

type errorResponse struct {
	Error       string `json:"error"`
	Field       string `json:"field,omitempty"`
	OverMinutes int    `json:"over_minutes,omitempty"`
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var verr *apperrors.ValidationError
	switch {
	case errors.Is(err, apperrors.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrHistoricalView), errors.Is(err, tracker.ErrBusy),
		errors.Is(err, tracker.ErrStoppedElsewhere):
		return http.StatusConflict
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case apperrors.IsPersistence(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		resp.Field = verr.Field
		resp.OverMinutes = verr.OverMinutes
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing useful to do with an encode error.
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.NewValidationError("body", "invalid JSON: %v", err)
	}
	return nil
}
