package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pointledger_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pointledger_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ChargesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pointledger_charges_total",
			Help: "Total number of charge operations by outcome",
		},
		[]string{"status"},
	)

	UsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pointledger_uses_total",
			Help: "Total number of use operations by outcome",
		},
		[]string{"status"},
	)

	LockWaitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pointledger_lock_wait_seconds",
			Help:    "Time spent waiting for a per-user lock",
			Buckets: []float64{.0001, .001, .01, .05, .1, .5, 1, 5},
		},
	)

	UserBalance = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pointledger_user_balance_points",
			Help: "Current point balance per user",
		},
		[]string{"user_id"},
	)

	EventQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pointledger_event_queue_length",
			Help: "Current length of the transaction event queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordCharge(status string) {
	ChargesTotal.WithLabelValues(status).Inc()
}

func RecordUse(status string) {
	UsesTotal.WithLabelValues(status).Inc()
}

func ObserveLockWait(seconds float64) {
	LockWaitDuration.Observe(seconds)
}

func SetBalance(userID, points int64) {
	UserBalance.WithLabelValues(strconv.FormatInt(userID, 10)).Set(float64(points))
}
