package metrics

import "time"

// RefreshOutcome classifies how a cache refresh ended.
type RefreshOutcome string

const (
	RefreshSuccess RefreshOutcome = "success"
	RefreshPartial RefreshOutcome = "partial" // at least one project skipped
	RefreshFailed  RefreshOutcome = "failed"
)

// Recorder receives the exporter's own operational metrics. Implementations may forward
// to Prometheus; NoopRecorder is used when self-metrics are disabled.
type Recorder interface {
	IncCacheHit()
	IncCacheMiss()
	ObserveRefresh(d time.Duration, outcome RefreshOutcome)
	IncQueryFailure(project string)
	IncQueryRetry(project string)
	SetSnapshotSeries(n int)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) IncCacheHit()                                 {}
func (NoopRecorder) IncCacheMiss()                                {}
func (NoopRecorder) ObserveRefresh(time.Duration, RefreshOutcome) {}
func (NoopRecorder) IncQueryFailure(string)                       {}
func (NoopRecorder) IncQueryRetry(string)                         {}
func (NoopRecorder) SetSnapshotSeries(int)                        {}
