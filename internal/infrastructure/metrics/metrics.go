package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reconciliation metrics
var (
	ReconcileTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assistant",
			Subsystem: "function_gateway",
			Name:      "reconcile_total",
			Help:      "Total number of registry reconciliations",
		},
		[]string{"mode", "status"},
	)

	ReconcileDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "assistant",
			Subsystem: "function_gateway",
			Name:      "reconcile_duration_seconds",
			Help:      "Reconciliation duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"mode"},
	)
)

// Dispatch metrics
var (
	DispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assistant",
			Subsystem: "function_gateway",
			Name:      "dispatch_total",
			Help:      "Total number of notification dispatch attempts",
		},
		[]string{"channel_type", "status"},
	)

	DispatchDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "assistant",
			Subsystem: "function_gateway",
			Name:      "dispatch_duration_seconds",
			Help:      "Notification dispatch duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"channel_type"},
	)
)

// Resolution metrics
var (
	ResolutionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assistant",
			Subsystem: "function_gateway",
			Name:      "resolution_total",
			Help:      "Total number of invocation name resolutions by matched tier",
		},
		[]string{"tier"},
	)
)

// Background queue metrics
var (
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "assistant",
			Subsystem: "function_gateway",
			Name:      "reconcile_queue_depth",
			Help:      "Number of queued background reconcile tasks",
		},
	)
)

// RecordReconcile records one reconciliation outcome.
func RecordReconcile(mode, status string, duration time.Duration) {
	ReconcileTotal.WithLabelValues(mode, status).Inc()
	ReconcileDurationSeconds.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordDispatch records one dispatch attempt.
func RecordDispatch(channelType, status string, duration time.Duration) {
	DispatchTotal.WithLabelValues(channelType, status).Inc()
	DispatchDurationSeconds.WithLabelValues(channelType).Observe(duration.Seconds())
}

// RecordResolution records the tier an invocation name matched at,
// or "none" when resolution failed.
func RecordResolution(tier string) {
	ResolutionTotal.WithLabelValues(tier).Inc()
}

// SetQueueDepth sets the current background queue depth.
func SetQueueDepth(depth int64) {
	QueueDepth.Set(float64(depth))
}
