package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Tracks the number of outbound API calls to the warden backend.
	// The status label carries the HTTP code, or "timeout" / "network_error"
	// when no response was received.
	WardenRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_api_requests_total",
			Help: "Total number of warden API requests made (by endpoint and method).",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Measures duration of API requests to the warden backend.
	WardenRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "warden_api_request_duration_seconds",
			Help:    "Duration of warden API requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms → ~16s
		},
		[]string{"endpoint", "method"},
	)

	// Tracks access token reuse vs. fresh logins.
	TokenCacheAccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_token_cache_access_total",
			Help: "Number of token cache hits/misses.",
		},
		[]string{"result"}, // hit | miss
	)

	// Tracks cache hits and misses for resolved service-account credentials.
	CredentialsCacheAccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_credentials_cache_access_total",
			Help: "Number of cache hits/misses in the credentials cache.",
		},
		[]string{"result"}, // hit | miss
	)
)

// ObserveDuration records the time taken for a function and updates the given histogram.
func ObserveDuration(v interface{}, start time.Time, labels ...string) {
	duration := time.Since(start).Seconds()

	switch metric := v.(type) {
	case *prometheus.HistogramVec:
		metric.WithLabelValues(labels...).Observe(duration)
	case *prometheus.SummaryVec:
		metric.WithLabelValues(labels...).Observe(duration)
	default:
		// silently ignore counters; they're not meant for duration tracking
	}
}

func IncRequest(endpoint, method, status string) {
	WardenRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
}

func IncTokenCache(result string) {
	TokenCacheAccess.WithLabelValues(result).Inc()
}

func IncCredentialsCache(result string) {
	CredentialsCacheAccess.WithLabelValues(result).Inc()
}
