/*
handlers_test.go - Tests for the price API handlers

Tests for:
- District and locality listings
- Estimates over GET and POST for every match tier
- Input validation and NotFound responses
- Health and metrics endpoints
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/landprice/pricing"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	obs := func(district, locality, area, price string) pricing.Observation {
		return pricing.NewObservation(district, locality,
			decimal.RequireFromString(area), decimal.RequireFromString(price))
	}
	idx := pricing.NewIndex([]pricing.Observation{
		obs("Chennai", "Anna Nagar", "2178", "500000"),
		obs("Chennai", "Anna Nagar", "2178", "600000"),
		obs("Chennai", "T Nagar", "4356", "2000000"),
		obs("Chennai", "Velachery", "871.2", "300000"),
		obs("Kochi", "Kakkanad", "4356", "1500000"),
		obs("Kochi", "Edappally", "2178", "1000000"),
	})
	return NewRouter(NewHandler(idx), nil)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func estimateURL(district, locality string) string {
	q := url.Values{}
	q.Set("district", district)
	q.Set("locality", locality)
	return "/api/estimate?" + q.Encode()
}

func decodeEstimate(t *testing.T, rec *httptest.ResponseRecorder) EstimateDTO {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var dto EstimateDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	return dto
}

// =============================================================================
// DISTRICTS
// =============================================================================

func TestListDistricts(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/districts")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var districts []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &districts))
	assert.Equal(t, []string{"Chennai", "Kochi"}, districts)
}

func TestListLocalities(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/districts/chennai/localities")

	require.Equal(t, http.StatusOK, rec.Code)
	var dto LocalitiesDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, "chennai", dto.District)
	assert.Equal(t, []string{"Anna Nagar", "T Nagar", "Velachery"}, dto.Localities)
}

func TestListLocalities_EscapedDistrictNames(t *testing.T) {
	obs := func(district string) pricing.Observation {
		return pricing.NewObservation(district, "Ward 1", decimal.NewFromInt(4356), decimal.NewFromInt(100000))
	}
	h := NewRouter(NewHandler(pricing.NewIndex([]pricing.Observation{
		obs("Ward%41"),
		obs("Thrissur/North"),
		obs("Kollam East"),
	})), nil)

	tests := []struct {
		target string
		want   string
	}{
		{"/api/districts/Ward%2541/localities", "Ward%41"},
		{"/api/districts/Thrissur%2FNorth/localities", "Thrissur/North"},
		{"/api/districts/Kollam%20East/localities", "Kollam East"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			rec := get(t, h, tt.target)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var dto LocalitiesDTO
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
			assert.Equal(t, tt.want, dto.District)
		})
	}
}

func TestListLocalities_UnknownDistrict(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/districts/Madurai/localities")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// ESTIMATES
// =============================================================================

func TestGetEstimate_Exact(t *testing.T) {
	dto := decodeEstimate(t, get(t, newTestServer(t), estimateURL("Chennai", "Anna Nagar")))

	assert.Equal(t, "Chennai", dto.District)
	assert.Equal(t, "Anna Nagar", dto.Locality)
	assert.Equal(t, "exact", dto.Match)
	assert.Equal(t, json.Number("110000.00"), dto.PerCent)
	assert.Equal(t, json.Number("550000.00"), dto.TotalPrice)
	assert.Equal(t, "₹110,000", dto.PerCentDisplay)
	assert.Equal(t, "₹550,000", dto.TotalPriceDisplay)
	assert.Empty(t, dto.Warning)
	assert.Nil(t, dto.Similarity)
}

func TestGetEstimate_PricesAreJSONNumbers(t *testing.T) {
	rec := get(t, newTestServer(t), estimateURL("Chennai", "Anna Nagar"))

	assert.Contains(t, rec.Body.String(), `"per_cent":110000.00`)
	assert.Contains(t, rec.Body.String(), `"total_price":550000.00`)
}

func TestGetEstimate_Fuzzy(t *testing.T) {
	dto := decodeEstimate(t, get(t, newTestServer(t), estimateURL("Chennai", "Anna Nagor")))

	assert.Equal(t, "fuzzy", dto.Match)
	assert.Equal(t, "Anna Nagar", dto.Locality)
	assert.Equal(t, "Locality not found. Showing closest match: 'Anna Nagar'", dto.Warning)
	require.NotNil(t, dto.Similarity)
	assert.InDelta(t, 0.9, *dto.Similarity, 1e-9)
}

func TestGetEstimate_DistrictFallback(t *testing.T) {
	dto := decodeEstimate(t, get(t, newTestServer(t), estimateURL("Chennai", "Xyzzy Qwert")))

	assert.Equal(t, "district", dto.Match)
	assert.Equal(t, "Xyzzy Qwert", dto.Locality)
	assert.Equal(t, json.Number("142500.00"), dto.PerCent)
	assert.Equal(t, json.Number("850000.00"), dto.TotalPrice)
	assert.Equal(t, "Locality 'Xyzzy Qwert' not found. Showing district average instead.", dto.Warning)
}

func TestGetEstimate_NotFound(t *testing.T) {
	rec := get(t, newTestServer(t), estimateURL("Madurai", "Anna Nagar"))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, NotFoundMessage, resp.Error)
}

func TestGetEstimate_MissingInput(t *testing.T) {
	h := newTestServer(t)

	for _, target := range []string{
		"/api/estimate",
		"/api/estimate?district=Chennai",
		"/api/estimate?locality=Anna%20Nagar",
		estimateURL("  ", "Anna Nagar"),
	} {
		rec := get(t, h, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Contains(t, rec.Body.String(), MissingInputMessage, target)
	}
}

func TestPostEstimate(t *testing.T) {
	body, _ := json.Marshal(EstimateRequest{District: "kochi", Locality: "Edapally"})
	req := httptest.NewRequest(http.MethodPost, "/api/estimate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newTestServer(t).ServeHTTP(rec, req)

	dto := decodeEstimate(t, rec)
	assert.Equal(t, "fuzzy", dto.Match)
	assert.Equal(t, "kochi", dto.District)
	assert.Equal(t, "Edappally", dto.Locality)
	assert.Equal(t, "₹200,000", dto.PerCentDisplay)
}

func TestPostEstimate_InvalidBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/estimate", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	newTestServer(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostEstimate_OversizedBody(t *testing.T) {
	body, _ := json.Marshal(EstimateRequest{
		District: "Chennai",
		Locality: strings.Repeat("a", maxEstimateBody),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/estimate", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newTestServer(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request body")
}

// =============================================================================
// OPERATIONS
// =============================================================================

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(t), "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	var dto HealthDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, HealthDTO{Status: "ok", Observations: 6, Districts: 2}, dto)
}

func TestMetrics_CountsMatchTiers(t *testing.T) {
	h := newTestServer(t)

	get(t, h, estimateURL("Chennai", "Anna Nagar"))
	get(t, h, estimateURL("Chennai", "Anna Nagar"))
	get(t, h, estimateURL("Madurai", "Anna Nagar"))

	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `landprice_estimates_total{match="exact"} 2`)
	assert.Contains(t, body, `landprice_estimates_total{match="not_found"} 1`)
	assert.Contains(t, body, "landprice_estimate_duration_seconds_count 3")
	assert.Contains(t, body, "landprice_estimate_cache_hits_total 1")
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/districts", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()

	newTestServer(t).ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
