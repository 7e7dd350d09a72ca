package collector

import (
	"sync/atomic"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/jira-exporter/internal/metrics"
)

// Snapshot is the immutable result of one completed refresh.
type Snapshot struct {
	Issues   *metrics.Instance // sealed jira_issues_total samples
	Duration *metrics.Instance // sealed jira_scrape_duration_seconds sample

	UpdatedAt      time.Time
	RefreshID      string
	FailedProjects []string
}

// Fresh reports whether the snapshot may still be served at now.
func (s *Snapshot) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.UpdatedAt) <= ttl
}

// Series returns the number of issue series held.
func (s *Snapshot) Series() int {
	return s.Issues.Len()
}

// Metrics returns the snapshot's samples as constant gauges.
func (s *Snapshot) Metrics() []prom.Metric {
	return append(s.Issues.Metrics(), s.Duration.Metrics()...)
}

// Cache holds the latest published snapshot. The snapshot and its timestamp are
// published as one unit.
type Cache struct {
	current atomic.Pointer[Snapshot]
}

// Load returns the current snapshot or nil.
func (c *Cache) Load() *Snapshot {
	return c.current.Load()
}

// Fresh returns the current snapshot if it is still within ttl at now.
func (c *Cache) Fresh(now time.Time, ttl time.Duration) (*Snapshot, bool) {
	s := c.current.Load()
	if s == nil || !s.Fresh(now, ttl) {
		return nil, false
	}
	return s, true
}

// Publish replaces the current snapshot.
func (c *Cache) Publish(s *Snapshot) {
	c.current.Store(s)
}

// Clear drops the current snapshot.
func (c *Cache) Clear() {
	c.current.Store(nil)
}
