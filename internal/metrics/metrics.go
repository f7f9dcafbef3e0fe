// Package metrics keeps explorer metrics on a private registry so /metrics
// only shows what this service records.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()
var auto = promauto.With(registry)

// Outcome label values
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
)

var (
	// SnapshotRequests counts dashboard requests by outcome.
	SnapshotRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Name: "explorer_snapshot_requests_total",
		Help: "Number of blockchain snapshot requests by outcome",
	}, []string{"outcome"})

	// AddressRequests counts address detail requests by outcome.
	AddressRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Name: "explorer_address_requests_total",
		Help: "Number of address detail requests by outcome",
	}, []string{"outcome"})

	// SourceCallDuration observes data source calls.
	SourceCallDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "explorer_source_call_duration_seconds",
		Help:    "Latency of data source calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"source", "call", "outcome"})

	// SyncRounds counts background sync rounds by outcome.
	SyncRounds = auto.NewCounterVec(prometheus.CounterOpts{
		Name: "explorer_sync_rounds_total",
		Help: "Number of background sync rounds by outcome",
	}, []string{"outcome"})

	// RecorderWriteFailures counts failed writes of fetched data into pebble.
	RecorderWriteFailures = auto.NewCounter(prometheus.CounterOpts{
		Name: "explorer_recorder_write_failures_total",
		Help: "Number of failed writes of fetched chain data into the local store",
	})
)

// Handler serves the private registry
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
