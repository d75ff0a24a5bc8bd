/*
dto.go - Data Transfer Objects for API requests and responses

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

PRICES:
  Prices are json.Number built from the decimal's fixed 2-place string, so
  clients receive 110000.00 exactly rather than a float approximation.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.
*/
package api

import (
	"encoding/json"

	"github.com/warp/landprice/pricing"
)

// EstimateRequest is the body of POST /api/estimate.
type EstimateRequest struct {
	District string `json:"district"`
	Locality string `json:"locality"`
}

// EstimateDTO is a resolved price estimate.
type EstimateDTO struct {
	District          string      `json:"district"`
	Locality          string      `json:"locality"`
	Match             string      `json:"match"`
	Similarity        *float64    `json:"similarity,omitempty"`
	PerCent           json.Number `json:"per_cent"`
	TotalPrice        json.Number `json:"total_price"`
	PerCentDisplay    string      `json:"per_cent_display"`
	TotalPriceDisplay string      `json:"total_price_display"`
	Warning           string      `json:"warning,omitempty"`
}

// LocalitiesDTO lists the known localities of a district.
type LocalitiesDTO struct {
	District   string   `json:"district"`
	Localities []string `json:"localities"`
}

// HealthDTO reports whether the index is loaded.
type HealthDTO struct {
	Status       string `json:"status"`
	Observations int    `json:"observations"`
	Districts    int    `json:"districts"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// NewEstimateDTO converts a query result for display. It returns false for
// NotFound, which has nothing to show.
func NewEstimateDTO(district, locality string, res pricing.Result) (EstimateDTO, bool) {
	est, ok := pricing.EstimateOf(res)
	if !ok {
		return EstimateDTO{}, false
	}

	dto := EstimateDTO{
		District:          district,
		Locality:          locality,
		Match:             string(res.Kind()),
		PerCent:           json.Number(est.PerCent.StringFixed(2)),
		TotalPrice:        json.Number(est.Total.StringFixed(2)),
		PerCentDisplay:    FormatRupees(est.PerCent),
		TotalPriceDisplay: FormatRupees(est.Total),
		Warning:           Warning(locality, res),
	}
	if resolved, ok := pricing.ResolvedLocality(res); ok {
		dto.Locality = resolved
	}
	if f, ok := res.(pricing.Fuzzy); ok {
		sim := f.Similarity
		dto.Similarity = &sim
	}
	return dto, true
}
