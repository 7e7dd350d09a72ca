// Package metrics holds the exported metric schema and the exporter's self-metrics.
//
// # Schema registry
//
// IssuesTotal and ScrapeDuration are fixed, immutable families. Each refresh obtains
// fresh, independent Instances through Family.New, fills them, seals them and publishes
// them inside a snapshot. Sealed instances reject further samples with ErrSealed, so a
// published snapshot never changes under a concurrent scrape.
//
// # Self-metrics
//
// Components receive a Recorder. NoopRecorder is the default; PrometheusRecorder is
// injected when self-metrics are enabled:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	c := collector.New(dialer, collector.WithRecorder(rec))
package metrics
