/*
handlers.go - HTTP API handlers for the land price estimator

PURPOSE:
  Exposes the price index via a JSON API. Handles HTTP request/response,
  input validation and presentation, and delegates to pricing.Index.

ENDPOINTS:
  Districts:
    GET    /api/districts                         List districts
    GET    /api/districts/{district}/localities   Known localities

  Estimates:
    GET    /api/estimate?district=&locality=      Estimate a price
    POST   /api/estimate                          Same, JSON body

  Operations:
    GET    /healthz                               Index status
    GET    /metrics                               Prometheus metrics

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Missing district or locality, invalid body
  - 404: District has no observations
  NotFound is an ordinary query outcome; it is logged at debug level only.

CONCURRENCY:
  The index is immutable, so handlers share it without locking. A reload
  swaps the whole index, together with its result cache, through an
  atomic pointer.

SEE ALSO:
  - dto.go: Request/response data structures
  - format.go: Currency display and warnings
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/landprice/pricing"
	"go.uber.org/zap"
)

// maxEstimateBody caps POST /api/estimate bodies.
const maxEstimateBody = 4 << 10

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Metrics *Metrics

	current atomic.Pointer[served]
}

// NewHandler creates a new handler serving idx.
func NewHandler(idx *pricing.Index) *Handler {
	h := &Handler{Metrics: NewMetrics()}
	h.current.Store(newServed(idx))
	return h
}

// Index returns the index currently being served.
func (h *Handler) Index() *pricing.Index {
	return h.current.Load().index
}

// SwapIndex replaces the served index. Requests already running keep the old one.
func (h *Handler) SwapIndex(idx *pricing.Index) {
	h.current.Store(newServed(idx))
	zap.L().Info("price index swapped", zap.Int("observations", idx.Len()))
}

// =============================================================================
// DISTRICT HANDLERS
// =============================================================================

// ListDistricts returns every district, sorted.
func (h *Handler) ListDistricts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Index().Districts())
}

// ListLocalities returns the localities known for one district.
func (h *Handler) ListLocalities(w http.ResponseWriter, r *http.Request) {
	district := urlParam(r, "district")

	localities := h.Index().Localities(district)
	if localities == nil {
		writeError(w, http.StatusNotFound, "District not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, LocalitiesDTO{
		District:   district,
		Localities: localities,
	})
}

// =============================================================================
// ESTIMATE HANDLERS
// =============================================================================

// GetEstimate estimates a price from query parameters.
// GET /api/estimate?district=Chennai&locality=Anna%20Nagar
func (h *Handler) GetEstimate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.estimate(w, r, q.Get("district"), q.Get("locality"))
}

// PostEstimate estimates a price from a JSON body.
// POST /api/estimate
func (h *Handler) PostEstimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	body := http.MaxBytesReader(w, r.Body, maxEstimateBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	h.estimate(w, r, req.District, req.Locality)
}

func (h *Handler) estimate(w http.ResponseWriter, r *http.Request, district, locality string) {
	if MissingInput(district, locality) {
		writeError(w, http.StatusBadRequest, MissingInputMessage, nil)
		return
	}

	start := time.Now()
	res, cached := h.current.Load().estimate(district, locality)
	h.Metrics.ObserveEstimate(res.Kind(), cached, start)

	dto, ok := NewEstimateDTO(district, locality, res)
	if !ok {
		zap.L().Debug("estimate: district not found",
			zap.String("district", district),
			zap.String("request_id", requestID(r)),
		)
		writeError(w, http.StatusNotFound, NotFoundMessage, nil)
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Health reports the size of the loaded index.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	idx := h.Index()
	writeJSON(w, http.StatusOK, HealthDTO{
		Status:       "ok",
		Observations: idx.Len(),
		Districts:    len(idx.Districts()),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// urlParam returns a decoded path parameter. chi matches on URL.Path, which is
// already decoded, unless the request carried an escape URL.Path cannot
// represent (such as %2F), in which case it matches on URL.RawPath.
func urlParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}
