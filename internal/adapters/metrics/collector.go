// Package metrics exposes cache and orchestrator counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/tasklens/internal/core/domain"
)

const namespace = "tasklens"

// CacheStatsSource reports derived-data cache counters.
type CacheStatsSource interface {
	Stats() domain.CacheStatistics
}

// OrchestratorSource reports orchestrator counters.
type OrchestratorSource interface {
	GetMetrics() domain.OrchestratorMetrics
}

// Collector reads cache and orchestrator snapshots on every scrape.
type Collector struct {
	cache CacheStatsSource
	orch  OrchestratorSource

	lookups       *prometheus.Desc
	hits          *prometheus.Desc
	dirHits       *prometheus.Desc
	configHits    *prometheus.Desc
	evictions     *prometheus.Desc
	entries       *prometheus.Desc
	directories   *prometheus.Desc
	pending       *prometheus.Desc
	operations    *prometheus.Desc
	fallbacks     *prometheus.Desc
	latency       *prometheus.Desc
	successRate   *prometheus.Desc
	workerPath    *prometheus.Desc
	circuitOpen   *prometheus.Desc
	circuitFails  *prometheus.Desc
	workerPending *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a collector over the given sources. Either may be nil.
func NewCollector(cache CacheStatsSource, orch OrchestratorSource) *Collector {
	return &Collector{
		cache: cache,
		orch:  orch,

		lookups:     desc("cache", "lookups_total", "Files requested through batch reads."),
		hits:        desc("cache", "hits_total", "Batch reads served from a valid cache entry."),
		dirHits:     desc("cache", "directory_hits_total", "Directory snapshots reused because the config artifact was unchanged."),
		configHits:  desc("cache", "config_hits_total", "Cache hits attributed to directory configuration."),
		evictions:   desc("cache", "evictions_total", "File entries evicted by the LRU bound."),
		entries:     desc("cache", "entries", "File entries currently cached."),
		directories: desc("cache", "directories", "Directory snapshots currently cached."),
		pending:     desc("cache", "pending_updates", "Paths waiting for a batch refresh."),

		operations:    desc("orchestrator", "operations_total", "Worker operations by kind and result.", "kind", "result"),
		fallbacks:     desc("orchestrator", "fallbacks_total", "Calls served on the calling goroutine."),
		latency:       desc("orchestrator", "average_latency_ms", "Weighted average worker latency in milliseconds.", "kind"),
		successRate:   desc("orchestrator", "success_rate", "Share of worker operations that succeeded.", "kind"),
		workerPath:    desc("orchestrator", "worker_path_enabled", "1 when worker dispatch is enabled."),
		circuitOpen:   desc("orchestrator", "circuit_tripped", "1 while the circuit breaker is open."),
		circuitFails:  desc("orchestrator", "circuit_failures", "Failures counted by the circuit breaker."),
		workerPending: desc("worker", "pending_jobs", "Jobs queued or running.", "worker"),
	}
}

func desc(subsystem, name, help string, labels ...string) *prometheus.Desc {
	return prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, name), help, labels, nil)
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		c.lookups, c.hits, c.dirHits, c.configHits, c.evictions, c.entries, c.directories, c.pending,
		c.operations, c.fallbacks, c.latency, c.successRate, c.workerPath, c.circuitOpen, c.circuitFails,
		c.workerPending,
	} {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c.cache != nil {
		s := c.cache.Stats()
		ch <- prometheus.MustNewConstMetric(c.lookups, prometheus.CounterValue, float64(s.TotalFiles))
		ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.CachedFiles))
		ch <- prometheus.MustNewConstMetric(c.dirHits, prometheus.CounterValue, float64(s.DirectoryCacheHits))
		ch <- prometheus.MustNewConstMetric(c.configHits, prometheus.CounterValue, float64(s.ConfigCacheHits))
		ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions))
		ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(s.FileCacheSize))
		ch <- prometheus.MustNewConstMetric(c.directories, prometheus.GaugeValue, float64(s.DirectoryCacheSize))
		ch <- prometheus.MustNewConstMetric(c.pending, prometheus.GaugeValue, float64(s.PendingUpdates))
	}

	if c.orch == nil {
		return
	}
	m := c.orch.GetMetrics()
	ch <- prometheus.MustNewConstMetric(c.operations, prometheus.CounterValue, float64(m.TaskParsingSuccess), "parse", "success")
	ch <- prometheus.MustNewConstMetric(c.operations, prometheus.CounterValue, float64(m.TaskParsingFailures), "parse", "failure")
	ch <- prometheus.MustNewConstMetric(c.operations, prometheus.CounterValue, float64(m.ProjectDataSuccess), "project", "success")
	ch <- prometheus.MustNewConstMetric(c.operations, prometheus.CounterValue, float64(m.ProjectDataFailures), "project", "failure")
	ch <- prometheus.MustNewConstMetric(c.fallbacks, prometheus.CounterValue, float64(m.FallbackToMainThread))
	ch <- prometheus.MustNewConstMetric(c.latency, prometheus.GaugeValue, m.AverageTaskParsingMs, "parse")
	ch <- prometheus.MustNewConstMetric(c.latency, prometheus.GaugeValue, m.AverageProjectDataMs, "project")
	ch <- prometheus.MustNewConstMetric(c.successRate, prometheus.GaugeValue, m.TaskParsingSuccessRate, "parse")
	ch <- prometheus.MustNewConstMetric(c.successRate, prometheus.GaugeValue, m.ProjectDataSuccessRate, "project")
	ch <- prometheus.MustNewConstMetric(c.workerPath, prometheus.GaugeValue, boolValue(m.WorkersEnabled && m.WorkerProcessingEnabled))
	ch <- prometheus.MustNewConstMetric(c.circuitOpen, prometheus.GaugeValue, boolValue(m.Circuit.Tripped))
	ch <- prometheus.MustNewConstMetric(c.circuitFails, prometheus.GaugeValue, float64(m.Circuit.Failures))
	ch <- prometheus.MustNewConstMetric(c.workerPending, prometheus.GaugeValue, float64(m.TaskWorker.Pending), "task")
	ch <- prometheus.MustNewConstMetric(c.workerPending, prometheus.GaugeValue, float64(m.ProjectWorker.Pending), "project")
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
