// Package metrics provides Prometheus metrics for the stmcore engine
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the benchmark-side Prometheus metrics
type Metrics struct {
	// Transaction metrics observed by the caller
	TxDuration  *prometheus.HistogramVec
	TxInFlight  prometheus.Gauge
	WorkersBusy prometheus.Gauge

	// Server metrics
	UptimeSeconds prometheus.Gauge
	StartTime     time.Time
}

// NewMetrics creates and registers the benchmark metrics
func NewMetrics() *Metrics {
	m := &Metrics{
		StartTime: time.Now(),
	}

	m.TxDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stmcore_tx_duration_seconds",
			Help:    "Wall-clock duration of atomic blocks, retries included",
			Buckets: []float64{.000001, .00001, .0001, .001, .01, .1, 1},
		},
		[]string{"workload"},
	)

	m.TxInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stmcore_tx_in_flight",
			Help: "Number of atomic blocks currently executing",
		},
	)

	m.WorkersBusy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stmcore_workers_busy",
			Help: "Number of benchmark workers still running",
		},
	)

	m.UptimeSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stmcore_uptime_seconds",
			Help: "Process uptime in seconds",
		},
	)

	go m.updateUptime()

	return m
}

// updateUptime periodically updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.UptimeSeconds.Set(time.Since(m.StartTime).Seconds())
	}
}

// ObserveTx records one atomic block execution
func (m *Metrics) ObserveTx(workload string, duration time.Duration) {
	m.TxDuration.WithLabelValues(workload).Observe(duration.Seconds())
}
