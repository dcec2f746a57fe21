package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_sends_total",
			Help: "Total terminal send outcomes by result",
		},
		[]string{"outcome"},
	)

	sendRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_send_retries_total",
			Help: "Total retry attempts across all sends",
		},
	)

	rateLimitHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_rate_limit_hits_total",
			Help: "Total sends delayed by the per-destination window limit",
		},
	)

	rateLimitWaitSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notification_rate_limit_wait_seconds",
			Help:    "Time spent waiting for the per-destination window to open",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	broadcastsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_broadcasts_total",
			Help: "Total completed broadcasts",
		},
	)

	broadcastDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notification_broadcast_duration_seconds",
			Help:    "End-to-end broadcast duration in seconds",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	auditWriteFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_audit_write_failures_total",
			Help: "Total swallowed audit log write failures by table",
		},
		[]string{"table"},
	)
)

func recordSendOutcome(outcome string) {
	sendsTotal.WithLabelValues(outcome).Inc()
}

func recordRetry() {
	sendRetriesTotal.Inc()
}

func recordRateLimitHit() {
	rateLimitHitsTotal.Inc()
}

func recordRateLimitWait(d time.Duration) {
	rateLimitWaitSeconds.Observe(d.Seconds())
}

func recordBroadcast(d time.Duration) {
	broadcastsTotal.Inc()
	broadcastDurationSeconds.Observe(d.Seconds())
}

func recordAuditWriteFailure(table string) {
	auditWriteFailuresTotal.WithLabelValues(table).Inc()
}
