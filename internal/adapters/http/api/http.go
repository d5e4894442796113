// Package api exposes the stored score history over a read-only HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/securescore/internal/domain/history"
	"github.com/okian/securescore/internal/domain/jsondoc"
	"github.com/okian/securescore/internal/domain/record"
)

// HistoryReader loads the current history. Every request reads the file
// anew so that ingestions by other processes are picked up.
type HistoryReader interface {
	Load(ctx context.Context) (history.Snapshot, error)
}

// Server wires HTTP routes for the history API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	historyHandler *HistoryHandler
	trendHandler   *TrendHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(reader HistoryReader) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(reader),
		historyHandler: NewHistoryHandler(reader),
		trendHandler:   NewTrendHandler(reader),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/history", MetricsMiddleware(s.historyHandler.HandleGetHistory, "history"))
	mux.HandleFunc("/history/latest", MetricsMiddleware(s.historyHandler.HandleGetLatest, "history_latest"))
	mux.HandleFunc("/trend", MetricsMiddleware(s.trendHandler.HandleGetTrend, "trend"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeLoadError maps a failure to read the history to a response. A file
// that exists but cannot be understood is 422, anything else 500.
func writeLoadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, jsondoc.ErrSyntax),
		errors.Is(err, record.ErrValidation),
		errors.Is(err, record.ErrFieldNotNumeric):
		writeError(w, http.StatusUnprocessableEntity, "invalid_history", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// parseLimit reads ?limit=N. Zero means no limit.
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, ErrBadRequest
	}
	return n, nil
}

// tail returns the last n elements of s, or all of s when n is zero.
func tail[T any](s []T, n int) []T {
	if n == 0 || n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}
