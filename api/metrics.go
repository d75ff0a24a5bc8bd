package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/warp/landprice/pricing"
)

// Metrics tracks estimate outcomes per resolution tier.
type Metrics struct {
	registry *prometheus.Registry

	Estimates        *prometheus.CounterVec
	EstimateDuration prometheus.Histogram
	CacheHits        prometheus.Counter
}

// NewMetrics creates metrics on a private registry, so several handlers
// (one per test) can coexist.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Estimates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "landprice_estimates_total",
			Help: "Total number of price estimates by match tier",
		}, []string{"match"}),
		EstimateDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "landprice_estimate_duration_seconds",
			Help:    "Duration of Estimate queries against the price index",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "landprice_estimate_cache_hits_total",
			Help: "Estimates answered from the per-index result cache",
		}),
	}
}

// ObserveEstimate records one query. Call with time.Now() taken before the query.
func (m *Metrics) ObserveEstimate(kind pricing.MatchKind, cached bool, start time.Time) {
	m.Estimates.WithLabelValues(string(kind)).Inc()
	if cached {
		m.CacheHits.Inc()
	}
	m.EstimateDuration.Observe(time.Since(start).Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
