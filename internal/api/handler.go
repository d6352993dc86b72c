package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eugenenazirov/eggsolve/internal/metrics"
	"github.com/eugenenazirov/eggsolve/internal/solver"
	"github.com/eugenenazirov/eggsolve/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const defaultMaxEggs = 9

var errInvalidSolveRequest = errors.New("invalid solve request")

// cachingSolver is implemented by solvers that can report cache hits.
type cachingSolver interface {
	SolveCached(walk solver.Distance, eggs []*solver.Egg) (solver.Result, bool, error)
}

// Handler wires solver and storage dependencies into HTTP handlers.
type Handler struct {
	solver  solver.Solver
	storage storage.Storage
	metrics *metrics.Metrics
	maxEggs int

	clock func() time.Time

	mu                 sync.RWMutex
	distancesUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithMaxEggs limits how many eggs a single solve request may carry.
func WithMaxEggs(n int) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxEggs = n
		}
	}
}

// WithMetrics records solve outcomes on m.
func WithMetrics(m *metrics.Metrics) HandlerOption {
	return func(h *Handler) {
		h.metrics = m
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(s solver.Solver, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		solver:  s,
		storage: store,
		maxEggs: defaultMaxEggs,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.distancesUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetDistances(w http.ResponseWriter, _ *http.Request) {
	distances, err := h.storage.GetDistances()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := distancesResponse{
		Distances: distances,
		UpdatedAt: h.currentDistancesUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutDistances(w http.ResponseWriter, r *http.Request) {
	var req distancesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if len(req.Distances) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid distances", "distances must contain at least one value")
		return
	}

	if err := h.storage.SetDistances(req.Distances); err != nil {
		if errors.Is(err, storage.ErrInvalidDistances) {
			writeError(w, http.StatusBadRequest, "Invalid distances", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markDistancesUpdated()

	distances, err := h.storage.GetDistances()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := distancesResponse{
		Distances: distances,
		UpdatedAt: h.currentDistancesUpdatedAt(),
		Message:   "Distances updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSolvePath serves /solve/distance/{distance}/eggs/{egg}/{egg}/...
// Anything that does not name an accepted walk and egg set is reported as not found.
func (h *Handler) handleSolvePath(w http.ResponseWriter, r *http.Request) {
	walk, eggs, err := h.parseSolvePath(chi.URLParam(r, "distance"), chi.URLParam(r, "*"))
	if err != nil {
		h.countSolve(metrics.Invalid)
		writeError(w, http.StatusNotFound, "Not found", err.Error())
		return
	}
	h.solve(w, walk, eggs)
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.countSolve(metrics.Invalid)
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if err := h.validate(req.WalkingDistance, req.Eggs); err != nil {
		h.countSolve(metrics.Invalid)
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	h.solve(w, req.WalkingDistance, req.Eggs)
}

func (h *Handler) solve(w http.ResponseWriter, walk solver.Distance, distances []solver.Distance) {
	eggs := solver.EggsFrom(distances)

	var (
		result   solver.Result
		cached   bool
		solveErr error
	)
	start := time.Now()
	if cs, ok := h.solver.(cachingSolver); ok {
		result, cached, solveErr = cs.SolveCached(walk, eggs)
	} else {
		result, solveErr = h.solver.Solve(walk, eggs)
	}
	elapsed := time.Since(start)

	if solveErr != nil {
		switch {
		case errors.Is(solveErr, solver.ErrNoFeasibleEggs):
			h.countSolve(metrics.NoFeasible)
			suggestion := fmt.Sprintf("Walk at least %s or add an egg no longer than %s", shortestEgg(distances), walk)
			writeError(w, http.StatusUnprocessableEntity, "Cannot hatch any egg", solveErr.Error(), suggestion)
		default:
			writeInternalError(w, solveErr)
		}
		return
	}

	h.countSolve(metrics.Ok)
	if h.metrics != nil {
		h.metrics.SolveDurationSeconds.Observe(elapsed.Seconds())
		h.metrics.IncubatorsUsed.Observe(float64(len(result.IncubatorDistances)))
	}

	resp := solveResponse{
		WalkingDistance:   walk,
		InfiniteIncubator: result.InfiniteDistances,
		Incubators:        result.IncubatorDistances,
		Infeasible:        result.InfeasibleDistances,
		TotalEggs:         result.TotalEggs(),
		IncubatorsUsed:    len(result.IncubatorDistances),
		Cached:            cached,
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) parseSolvePath(rawWalk, rawEggs string) (solver.Distance, []solver.Distance, error) {
	walk, err := strconv.Atoi(rawWalk)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: distance %q is not an integer", errInvalidSolveRequest, rawWalk)
	}

	parts := strings.Split(strings.Trim(rawEggs, "/"), "/")
	eggs := make([]solver.Distance, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		value, err := strconv.Atoi(part)
		if err != nil {
			return 0, nil, fmt.Errorf("%w: egg %q is not an integer", errInvalidSolveRequest, part)
		}
		eggs = append(eggs, solver.Distance(value))
	}

	if err := h.validate(solver.Distance(walk), eggs); err != nil {
		return 0, nil, err
	}
	return solver.Distance(walk), eggs, nil
}

// validate checks walk and eggs against the accepted distance classes and the egg limit.
func (h *Handler) validate(walk solver.Distance, eggs []solver.Distance) error {
	if len(eggs) == 0 || len(eggs) > h.maxEggs {
		return fmt.Errorf("%w: between 1 and %d eggs are required, got %d", errInvalidSolveRequest, h.maxEggs, len(eggs))
	}
	if !h.storage.IsAdmissible(walk) {
		return fmt.Errorf("%w: walking distance %d is not an accepted distance", errInvalidSolveRequest, walk)
	}
	for _, egg := range eggs {
		if !h.storage.IsAdmissible(egg) {
			return fmt.Errorf("%w: egg distance %d is not an accepted distance", errInvalidSolveRequest, egg)
		}
	}
	return nil
}

func (h *Handler) countSolve(result string) {
	if h.metrics != nil {
		h.metrics.SolveTotal.WithLabelValues(result).Inc()
	}
}

func (h *Handler) currentDistancesUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.distancesUpdatedAt
}

func (h *Handler) markDistancesUpdated() {
	h.mu.Lock()
	h.distancesUpdatedAt = h.clock()
	h.mu.Unlock()
}

func shortestEgg(distances []solver.Distance) solver.Distance {
	shortest := distances[0]
	for _, d := range distances[1:] {
		if d < shortest {
			shortest = d
		}
	}
	return shortest
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type distancesRequest struct {
	Distances []solver.Distance `json:"distances"`
}

type solveRequest struct {
	WalkingDistance solver.Distance   `json:"walkingDistance"`
	Eggs            []solver.Distance `json:"eggs"`
}

type solveResponse struct {
	WalkingDistance   solver.Distance     `json:"walkingDistance"`
	InfiniteIncubator []solver.Distance   `json:"infiniteIncubator"`
	Incubators        [][]solver.Distance `json:"incubators"`
	Infeasible        []solver.Distance   `json:"infeasible"`
	TotalEggs         int                 `json:"totalEggs"`
	IncubatorsUsed    int                 `json:"incubatorsUsed"`
	Cached            bool                `json:"cached"`
	CalculationTimeMs int64               `json:"calculationTimeMs"`
}

type distancesResponse struct {
	Distances []solver.Distance `json:"distances"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Message   string            `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
