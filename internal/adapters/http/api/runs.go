package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/collide/internal/domain/model"
)

const (
	defaultRunsLimit = 10
	maxRequestBytes  = 8 << 20
)

// RunsHandler handles run submission and retrieval.
type RunsHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(deps Dependencies, maxLimit int) *RunsHandler {
	if maxLimit < 1 {
		maxLimit = defaultRunsLimit
	}
	return &RunsHandler{deps: deps, maxLimit: maxLimit}
}

// runRequest mirrors the OpenAPI schema for POST /runs.
type runRequest struct {
	CollisionDistance *float64       `json:"collision_distance,omitempty"`
	Vehicles          []model.Record `json:"vehicles"`
}

func (r runRequest) validate() error {
	if r.Vehicles == nil {
		return errors.New("missing vehicles")
	}
	if r.CollisionDistance != nil && *r.CollisionDistance <= 0 {
		return fmt.Errorf("collision_distance must be positive, got %v", *r.CollisionDistance)
	}
	for i, v := range r.Vehicles {
		if strings.TrimSpace(v.Label) == "" {
			return fmt.Errorf("vehicles[%d]: missing label", i)
		}
	}
	return nil
}

func (r runRequest) distance() float64 {
	if r.CollisionDistance == nil {
		return 0
	}
	return *r.CollisionDistance
}

// HandleRuns handles POST /runs and GET /runs?limit=N.
func (h *RunsHandler) HandleRuns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handlePost(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *RunsHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_run"
	var req runRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	run, err := h.deps.Submit(r.Context(), req.Vehicles, req.distance())
	if err != nil {
		writeUpstreamError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, run)
}

func (h *RunsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_runs"
	n := min(defaultRunsLimit, h.maxLimit)
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		n = v
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrLimitExceeded))
		return
	}
	runs, err := h.deps.Runs(r.Context(), n)
	if err != nil {
		writeUpstreamError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// HandleGetRun handles GET /runs/{id}.
func (h *RunsHandler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_run"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/runs/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	run, err := h.deps.Run(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, run)
}
