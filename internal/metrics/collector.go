// ABOUTME: Prometheus collector over the engine's internal counters
// ABOUTME: Scrapes stm.Snapshot so the hot paths stay free of metric calls

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nainya/stmcore/pkg/stm"
)

// EngineCollector exposes the stm engine counters as Prometheus metrics.
// The engine bumps cheap atomic tallies; this collector reads them only at
// scrape time.
type EngineCollector struct {
	commits             *prometheus.Desc
	lockConflicts       *prometheus.Desc
	validationConflicts *prometheus.Desc
	reruns              *prometheus.Desc
	retryWaits          *prometheus.Desc
	wakeups             *prometheus.Desc
	nestedCommits       *prometheus.Desc
	varsCreated         *prometheus.Desc
}

// NewEngineCollector creates a collector for the engine counters
func NewEngineCollector() *EngineCollector {
	return &EngineCollector{
		commits: prometheus.NewDesc(
			"stmcore_commits_total",
			"Successful top-level commits, read-only ones included",
			nil, nil,
		),
		lockConflicts: prometheus.NewDesc(
			"stmcore_lock_conflicts_total",
			"Commit attempts that failed to lock their write set",
			nil, nil,
		),
		validationConflicts: prometheus.NewDesc(
			"stmcore_validation_conflicts_total",
			"Commit attempts invalidated under write-set locks",
			nil, nil,
		),
		reruns: prometheus.NewDesc(
			"stmcore_reruns_total",
			"Commit attempts abandoned by a before-commit hook",
			nil, nil,
		),
		retryWaits: prometheus.NewDesc(
			"stmcore_retry_waits_total",
			"Atomic blocks that blocked in retry",
			nil, nil,
		),
		wakeups: prometheus.NewDesc(
			"stmcore_wakeups_total",
			"Retry waiters woken by committed writes",
			nil, nil,
		),
		nestedCommits: prometheus.NewDesc(
			"stmcore_nested_commits_total",
			"Nested transaction logs folded into their parents",
			nil, nil,
		),
		varsCreated: prometheus.NewDesc(
			"stmcore_vars_created_total",
			"Transactional variables created",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *EngineCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.commits
	ch <- c.lockConflicts
	ch <- c.validationConflicts
	ch <- c.reruns
	ch <- c.retryWaits
	ch <- c.wakeups
	ch <- c.nestedCommits
	ch <- c.varsCreated
}

// Collect implements prometheus.Collector
func (c *EngineCollector) Collect(ch chan<- prometheus.Metric) {
	s := stm.Snapshot()
	ch <- prometheus.MustNewConstMetric(c.commits, prometheus.CounterValue, float64(s.Commits))
	ch <- prometheus.MustNewConstMetric(c.lockConflicts, prometheus.CounterValue, float64(s.LockConflicts))
	ch <- prometheus.MustNewConstMetric(c.validationConflicts, prometheus.CounterValue, float64(s.ValidationConflicts))
	ch <- prometheus.MustNewConstMetric(c.reruns, prometheus.CounterValue, float64(s.Reruns))
	ch <- prometheus.MustNewConstMetric(c.retryWaits, prometheus.CounterValue, float64(s.RetryWaits))
	ch <- prometheus.MustNewConstMetric(c.wakeups, prometheus.CounterValue, float64(s.Wakeups))
	ch <- prometheus.MustNewConstMetric(c.nestedCommits, prometheus.CounterValue, float64(s.NestedCommits))
	ch <- prometheus.MustNewConstMetric(c.varsCreated, prometheus.CounterValue, float64(s.VarsCreated))
}
