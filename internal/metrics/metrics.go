// Package metrics provides Prometheus metrics for psalistings.
// They are only scraped when the scheduler runs with a metrics address.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// eBay API Metrics
	EbayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "psa_ebay_requests_total",
			Help: "Total number of eBay API requests by endpoint and HTTP status",
		},
		[]string{"endpoint", "status"},
	)

	EbayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "psa_ebay_request_duration_seconds",
			Help:    "eBay API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Pipeline Metrics
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "psa_searches_total",
			Help: "Total number of searches run, by outcome",
		},
		[]string{"outcome"},
	)

	ListingsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "psa_listings_total",
			Help: "Total number of listings normalized",
		},
	)

	FilesWrittenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "psa_files_written_total",
			Help: "Total number of output files written, by format",
		},
		[]string{"format"},
	)

	// Scheduler Metrics
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "psa_runs_total",
			Help: "Total number of batch runs, by outcome",
		},
		[]string{"outcome"},
	)

	LastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "psa_last_run_timestamp_seconds",
			Help: "Unix time the last batch run finished",
		},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "psa_run_duration_seconds",
			Help:    "Time taken to complete a batch run",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)
)

// ObserveEbayRequest records one eBay API call.
func ObserveEbayRequest(endpoint string, status int, seconds float64) {
	EbayRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	EbayRequestDuration.WithLabelValues(endpoint).Observe(seconds)
}

// Outcome returns the label value used for success/failure counters.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
