package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "jira_exporter"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	cacheLookups    *prom.CounterVec
	refreshDuration *prom.HistogramVec
	refreshOutcomes *prom.CounterVec
	queryFailures   *prom.CounterVec
	queryRetries    *prom.CounterVec
	snapshotSeries  prom.Gauge
}

// NewPrometheusRecorder constructs the self-metrics and registers them on reg.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		cacheLookups: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Snapshot cache lookups by result",
		}, []string{"result"}),
		refreshDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Duration of upstream refreshes",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"outcome"}),
		refreshOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "refreshes_total",
			Help:      "Upstream refreshes by outcome",
		}, []string{"outcome"}),
		queryFailures: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "query_failures_total",
			Help:      "Issue count queries that failed, by project",
		}, []string{"project"}),
		queryRetries: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "query_retries_total",
			Help:      "Issue count queries retried after a transient failure, by project",
		}, []string{"project"}),
		snapshotSeries: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_series",
			Help:      "Issue series held by the current snapshot",
		}),
	}
	reg.MustRegister(pr.cacheLookups, pr.refreshDuration, pr.refreshOutcomes, pr.queryFailures, pr.queryRetries, pr.snapshotSeries)
	return pr
}

// RegisterRuntimeCollectors adds the Go runtime and process collectors to reg.
func RegisterRuntimeCollectors(reg prom.Registerer) {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

func (p *PrometheusRecorder) IncCacheHit() {
	if p == nil {
		return
	}
	p.cacheLookups.WithLabelValues("hit").Inc()
}

func (p *PrometheusRecorder) IncCacheMiss() {
	if p == nil {
		return
	}
	p.cacheLookups.WithLabelValues("miss").Inc()
}

func (p *PrometheusRecorder) ObserveRefresh(d time.Duration, outcome RefreshOutcome) {
	if p == nil {
		return
	}
	p.refreshDuration.WithLabelValues(string(outcome)).Observe(d.Seconds())
	p.refreshOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncQueryFailure(project string) {
	if p == nil {
		return
	}
	p.queryFailures.WithLabelValues(project).Inc()
}

func (p *PrometheusRecorder) IncQueryRetry(project string) {
	if p == nil {
		return
	}
	p.queryRetries.WithLabelValues(project).Inc()
}

func (p *PrometheusRecorder) SetSnapshotSeries(n int) {
	if p == nil {
		return
	}
	p.snapshotSeries.Set(float64(n))
}
