package api

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/go-playground/validator/v10"

	"mapmatch/pkg/geo"
	"mapmatch/pkg/graph"
	"mapmatch/pkg/match"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	graph    *graph.Graph
	validate *validator.Validate
	defaults match.Options
	stats    StatsResponse
}

// NewHandlers creates handlers matching against g, using defaults for any
// MatchRequest field the caller leaves at its zero value.
func NewHandlers(g *graph.Graph, defaults match.Options, stats StatsResponse) *Handlers {
	return &Handlers{graph: g, validate: validator.New(), defaults: defaults, stats: stats}
}

// HandleMatch handles POST /api/v1/match.
func (h *Handlers) HandleMatch(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	var req MatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", fieldOf(err))
		return
	}

	trajectory := make([]geo.LatLon, len(req.Trajectory))
	for i, ll := range req.Trajectory {
		trajectory[i] = geo.LatLon{Lat: ll.Lat, Lon: ll.Lng}
	}

	opts := h.defaults
	if req.Radius > 0 {
		opts.Radius = req.Radius
	}
	if req.InterpDist > 0 {
		opts.InterpDist = req.InterpDist
	}
	if req.Sigma > 0 {
		opts.Sigma = req.Sigma
	}
	if req.Beta > 0 {
		opts.Beta = req.Beta
	}
	if req.AllowGaps {
		opts.AllowGaps = true
	}

	result, err := match.Match(h.graph, trajectory, opts)
	if err != nil {
		switch {
		case errors.Is(err, match.ErrNoCandidates):
			writeError(w, http.StatusUnprocessableEntity, "no_candidates", "trajectory")
		case errors.Is(err, match.ErrUnreachable):
			writeError(w, http.StatusNotFound, "unreachable", "")
		case errors.Is(err, match.ErrNoRoute):
			writeError(w, http.StatusNotFound, "no_route", "")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "")
		}
		return
	}

	resp := MatchResponse{JointLogProb: result.JointLogProb}
	resp.ChosenNodeIDs = make([]int64, len(result.ChosenNodeIDs))
	for i, id := range result.ChosenNodeIDs {
		resp.ChosenNodeIDs[i] = int64(id)
	}
	resp.Polyline = make([]LatLngJSON, len(result.Polyline))
	for i, ll := range result.Polyline {
		resp.Polyline[i] = LatLngJSON{Lat: ll.Lat, Lng: ll.Lon}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.stats)
}

// fieldOf extracts the first offending field name from a validator error,
// for the response's Field hint.
func fieldOf(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field()
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field})
}
