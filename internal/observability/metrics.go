package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts data access calls by operation and outcome
	// ("live", "fallback", "error", "synthetic").
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialpulse_api_requests_total",
		Help: "Total number of data access calls by operation and outcome",
	}, []string{"operation", "outcome"})

	// APIAttemptsTotal counts individual HTTP attempts including retries.
	APIAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialpulse_api_attempts_total",
		Help: "Total number of HTTP attempts against the remote API",
	}, []string{"operation", "result"})

	// APIRequestLatency records the latency of whole data access calls.
	APIRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "socialpulse_api_request_latency_seconds",
		Help:    "Remote API call latency in seconds, retries included",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// FeedPollsTotal counts feed refreshes by result ("applied", "stale").
	FeedPollsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialpulse_feed_polls_total",
		Help: "Total number of feed refreshes",
	}, []string{"result"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialpulse_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// FeedSubscribers is the gauge of connected live feed clients.
	FeedSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "socialpulse_feed_subscribers",
		Help: "Number of connected live feed clients",
	})

	// WebSocketDrops counts messages dropped for slow or closed live feed clients.
	WebSocketDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialpulse_websocket_dropped_messages_total",
		Help: "Live feed messages dropped because the client buffer was full or closed",
	}, []string{"reason"})
)

// APIMetrics records metrics for one data access operation.
type APIMetrics struct {
	operation string
}

// NewAPIMetrics returns metrics bound to operation.
func NewAPIMetrics(operation string) *APIMetrics {
	return &APIMetrics{operation: operation}
}

// Track returns a function that records the call latency when called (e.g. defer).
func (m *APIMetrics) Track() func() {
	start := time.Now()
	return func() {
		APIRequestLatency.WithLabelValues(m.operation).Observe(time.Since(start).Seconds())
	}
}

// Attempt records one HTTP attempt.
func (m *APIMetrics) Attempt(ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	APIAttemptsTotal.WithLabelValues(m.operation, result).Inc()
}

// Outcome records how the call ended.
func (m *APIMetrics) Outcome(outcome string) {
	APIRequestsTotal.WithLabelValues(m.operation, outcome).Inc()
}
