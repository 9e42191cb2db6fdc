// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/collide/internal/adapters/repository"
	"github.com/okian/collide/internal/domain/events"
	"github.com/okian/collide/internal/domain/model"
	"github.com/okian/collide/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Submit resolves a fleet and stores the run.
	Submit(ctx context.Context, records []model.Record, distance float64) (types.Run, error)

	// Read operations expose stored runs.
	Run(ctx context.Context, id string) (types.Run, error)
	Runs(ctx context.Context, n int) ([]types.Run, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	runsHandler   *RunsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxRunsLimit int) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		runsHandler:   NewRunsHandler(deps, maxRunsLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/runs", MetricsMiddleware(s.runsHandler.HandleRuns, "runs"))
	mux.HandleFunc("/runs/", MetricsMiddleware(s.runsHandler.HandleGetRun, "run"))
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

// writeUpstreamError maps domain and store errors to a status code.
func writeUpstreamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, events.ErrInvalidDistance),
		errors.Is(err, repository.ErrInvalidLimit),
		errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
