package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder(_ *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncCacheHit()
	r.IncCacheMiss()
	r.ObserveRefresh(time.Second, RefreshSuccess)
	r.IncQueryFailure("OPS")
	r.IncQueryRetry("OPS")
	r.SetSnapshotSeries(3)
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncCacheHit()
	pr.IncCacheHit()
	pr.IncCacheMiss()
	pr.ObserveRefresh(2*time.Second, RefreshPartial)
	pr.IncQueryFailure("OPS")
	pr.SetSnapshotSeries(4)

	assert.Equal(t, float64(2), testutil.ToFloat64(pr.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, float64(1), testutil.ToFloat64(pr.cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, float64(1), testutil.ToFloat64(pr.refreshOutcomes.WithLabelValues("partial")))
	assert.Equal(t, float64(1), testutil.ToFloat64(pr.queryFailures.WithLabelValues("OPS")))
	assert.Equal(t, float64(4), testutil.ToFloat64(pr.snapshotSeries))

	n, err := testutil.GatherAndCount(reg, "jira_exporter_refresh_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPrometheusRecorder_NilSafe(_ *testing.T) {
	var pr *PrometheusRecorder
	pr.IncCacheHit()
	pr.ObserveRefresh(time.Second, RefreshFailed)
}

func TestRegisterRuntimeCollectors(t *testing.T) {
	reg := prom.NewRegistry()
	RegisterRuntimeCollectors(reg)
	mfs, err := reg.Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range mfs {
		if strings.HasPrefix(mf.GetName(), "go_") {
			found = true
		}
	}
	assert.True(t, found)
}

type failingCollector struct{}

func (failingCollector) Describe(ch chan<- *prom.Desc) { ch <- IssuesTotal.Desc() }
func (failingCollector) Collect(ch chan<- prom.Metric) {
	ch <- prom.NewInvalidMetric(IssuesTotal.Desc(), assert.AnError)
}

func TestHTTPHandler_ErrorIs500(t *testing.T) {
	reg := prom.NewRegistry()
	reg.MustRegister(failingCollector{})

	rec := httptest.NewRecorder()
	HTTPHandler(reg, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
