package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_op_duration_seconds",
			Help:    "Progress store operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"op", "status"},
	)

	PersistDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "persist_duration_seconds",
			Help:    "Persistence adapter write/hydrate duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"op", "backend"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)

	NotificationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_count",
			Help: "Total number of outbound notifications attempted",
		},
		[]string{"kind", "status"}, // status: sent, failed
	)

	StreakCompletionCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streak_completion_count",
			Help: "Total number of fully completed days counted toward streaks",
		},
	)
)

func RecordStoreOp(op, status string, duration time.Duration) {
	StoreOpDuration.WithLabelValues(op, status).Observe(duration.Seconds())
}

func RecordPersist(op, backend string, duration time.Duration) {
	PersistDuration.WithLabelValues(op, backend).Observe(duration.Seconds())
}

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func IncrementNotification(kind, status string) {
	NotificationCount.WithLabelValues(kind, status).Inc()
}
