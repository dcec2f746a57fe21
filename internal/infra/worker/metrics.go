package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WorkerMetrics tracks shift-reminder job execution.
type WorkerMetrics struct {
	// ReminderRunsTotal counts job runs by status (success/failure).
	ReminderRunsTotal *prometheus.CounterVec

	// ReminderRunDurationSeconds measures one job run end to end,
	// including all Telegram round trips and retries.
	ReminderRunDurationSeconds prometheus.Histogram

	// ReminderRecipientsTotal counts recipients reached across all
	// runs, by outcome.
	ReminderRecipientsTotal *prometheus.CounterVec

	// ReminderLastSuccessTimestamp is the Unix time of the last
	// successful run, for staleness alerts.
	ReminderLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics registers and returns the worker metrics.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ReminderRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_reminder_runs_total",
			Help: "Total shift reminder job runs by status",
		}, []string{"status"}),

		ReminderRunDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_reminder_run_duration_seconds",
			Help:    "Duration of one shift reminder job run in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		}),

		ReminderRecipientsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_reminder_recipients_total",
			Help: "Total reminder recipients by delivery outcome",
		}, []string{"outcome"}),

		ReminderLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_reminder_last_success_timestamp",
			Help: "Unix timestamp of the last successful reminder run",
		}),
	}
}

// RecordRun records one completed job run.
func (m *WorkerMetrics) RecordRun(status string, duration time.Duration) {
	m.ReminderRunsTotal.WithLabelValues(status).Inc()
	m.ReminderRunDurationSeconds.Observe(duration.Seconds())
}

// RecordRecipients records the per-run delivery split.
func (m *WorkerMetrics) RecordRecipients(successful, failed int) {
	m.ReminderRecipientsTotal.WithLabelValues("success").Add(float64(successful))
	m.ReminderRecipientsTotal.WithLabelValues("failure").Add(float64(failed))
}

// RecordLastSuccess stamps the last-success gauge with the current
// time.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.ReminderLastSuccessTimestamp.SetToCurrentTime()
}
