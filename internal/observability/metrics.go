package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce      sync.Once
	requestsTotal     *prometheus.CounterVec
	latencySeconds    *prometheus.HistogramVec
	errorsTotal       *prometheus.CounterVec
	analysesTotal     *prometheus.CounterVec
	oracleFallbacks   *prometheus.CounterVec
	creditsDeducted   prometheus.Counter
	bulkItemsRejected *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semak",
			Name:      "http_requests_total",
			Help:      "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "semak",
			Name:      "http_latency_seconds",
			Help:      "Latency distribution for API requests.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semak",
			Name:      "http_errors_total",
			Help:      "Total number of error responses returned.",
		}, []string{"method", "route", "status"})

		analysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semak",
			Name:      "analyses_total",
			Help:      "Completed essay analyses by scoring policy.",
		}, []string{"policy"})

		oracleFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semak",
			Name:      "oracle_fallbacks_total",
			Help:      "Oracle calls replaced by their fallback value.",
		}, []string{"task"})

		creditsDeducted = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "semak",
			Name:      "credits_deducted_total",
			Help:      "Credits charged for batch analyses.",
		})

		bulkItemsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semak",
			Name:      "bulk_item_errors_total",
			Help:      "Batch items that ended with an item error.",
		}, []string{"mode"})

		prometheus.MustRegister(requestsTotal, latencySeconds, errorsTotal, analysesTotal, oracleFallbacks, creditsDeducted, bulkItemsRejected)
	})
}

// Requests exposes the request counter.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the request latency histogram.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// Errors exposes the error response counter.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// Analyses exposes the completed analysis counter.
func Analyses() *prometheus.CounterVec {
	RegisterMetrics()
	return analysesTotal
}

// OracleFallbacks exposes the oracle fallback counter.
func OracleFallbacks() *prometheus.CounterVec {
	RegisterMetrics()
	return oracleFallbacks
}

// CreditsDeducted exposes the deducted credit counter.
func CreditsDeducted() prometheus.Counter {
	RegisterMetrics()
	return creditsDeducted
}

// BulkItemErrors exposes the batch item error counter.
func BulkItemErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return bulkItemsRejected
}
