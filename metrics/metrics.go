// Package metrics bundles Prometheus collectors for the extraction engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all collectors on a dedicated registry. A nil *Metrics is
// valid and records nothing, so wiring is optional in tests.
type Metrics struct {
	Registry *prometheus.Registry

	FetchAttemptsTotal *prometheus.CounterVec
	FetchDuration      prometheus.Histogram
	ExtractionsTotal   *prometheus.CounterVec
	StrategyHitsTotal  *prometheus.CounterVec
	RetriesTotal       prometheus.Counter
}

// New constructs and registers all metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	fetchAttempts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extractor_fetch_attempts_total",
			Help: "Fetch attempts against target sites by outcome.",
		},
		[]string{"outcome"},
	)
	fetchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "extractor_fetch_duration_seconds",
			Help:    "Latency of individual fetch attempts.",
			Buckets: prometheus.DefBuckets,
		},
	)
	extractions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extractor_extractions_total",
			Help: "Extraction calls by operation and result.",
		},
		[]string{"operation", "result"},
	)
	strategyHits := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extractor_strategy_hits_total",
			Help: "Selector-chain strategies that produced a result.",
		},
		[]string{"operation", "strategy"},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "extractor_retries_total",
			Help: "Extraction attempts retried after a failed cycle.",
		},
	)

	registry.MustRegister(fetchAttempts, fetchDuration, extractions, strategyHits, retries)

	return &Metrics{
		Registry:           registry,
		FetchAttemptsTotal: fetchAttempts,
		FetchDuration:      fetchDuration,
		ExtractionsTotal:   extractions,
		StrategyHitsTotal:  strategyHits,
		RetriesTotal:       retries,
	}
}

// Handler returns an HTTP handler exposing the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// IncFetchAttempt records one fetch attempt outcome ("success" or "failure").
func (m *Metrics) IncFetchAttempt(outcome string) {
	if m == nil {
		return
	}
	m.FetchAttemptsTotal.WithLabelValues(outcome).Inc()
}

// ObserveFetchDuration records the latency of one fetch attempt.
func (m *Metrics) ObserveFetchDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

// IncExtraction records one completed extraction call.
func (m *Metrics) IncExtraction(operation, result string) {
	if m == nil {
		return
	}
	m.ExtractionsTotal.WithLabelValues(operation, result).Inc()
}

// IncStrategyHit records which selector strategy produced the result.
func (m *Metrics) IncStrategyHit(operation, strategy string) {
	if m == nil {
		return
	}
	m.StrategyHitsTotal.WithLabelValues(operation, strategy).Inc()
}

// IncRetries records one retried extraction cycle.
func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}
