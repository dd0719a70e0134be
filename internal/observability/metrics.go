package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	sessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "corral",
			Subsystem: "transport",
			Name:      "sessions_total",
			Help:      "Accepted control-channel sessions by handshake outcome.",
		},
		[]string{"outcome"},
	)
	messagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "corral",
			Subsystem: "transport",
			Name:      "messages_total",
			Help:      "Decoded control messages by opcode.",
		},
		[]string{"opcode"},
	)
	engineActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "corral",
			Subsystem: "engine",
			Name:      "actions_total",
			Help:      "Container engine actions by operation and outcome.",
		},
		[]string{"engine", "operation", "outcome"},
	)
	engineDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "corral",
			Subsystem: "engine",
			Name:      "action_duration_seconds",
			Help:      "Container engine action duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"engine", "operation"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "corral",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "corral",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(sessionsTotal, messagesTotal, engineActions, engineDuration, httpRequests, httpDuration)
	})
}

func RecordSession(outcome string) {
	RegisterMetrics()
	sessionsTotal.WithLabelValues(outcome).Inc()
}

func RecordMessage(opcode string) {
	RegisterMetrics()
	messagesTotal.WithLabelValues(opcode).Inc()
}

func RecordEngineAction(engine, operation, outcome string, duration time.Duration) {
	RegisterMetrics()
	engineActions.WithLabelValues(engine, operation, outcome).Inc()
	engineDuration.WithLabelValues(engine, operation).Observe(duration.Seconds())
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}
