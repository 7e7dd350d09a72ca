// Package collector serves Jira issue counts to Prometheus. A scrape is answered from a
// cached snapshot while it is younger than the configured TTL; otherwise one refresh
// queries Jira for every project and status and publishes a new snapshot.
package collector

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	prom "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"git.home.luguber.info/inful/jira-exporter/internal/events"
	"git.home.luguber.info/inful/jira-exporter/internal/jira"
	"git.home.luguber.info/inful/jira-exporter/internal/logfields"
	"git.home.luguber.info/inful/jira-exporter/internal/metrics"
	"git.home.luguber.info/inful/jira-exporter/internal/retry"
)

// ErrNotConfigured is returned by Snapshot before Configure has been called.
var ErrNotConfigured = errors.New("collector: not configured")

const tracerName = "git.home.luguber.info/inful/jira-exporter/internal/collector"

// Collector is a prometheus.Collector exposing Jira issue counts.
type Collector struct {
	dialer      jira.Dialer
	clock       clockwork.Clock
	logger      *slog.Logger
	recorder    metrics.Recorder
	publisher   events.Publisher
	tracer      trace.Tracer
	retry       retry.Policy
	concurrency int

	cache  Cache
	flight singleflight.Group
	notify sync.WaitGroup

	mu       sync.Mutex
	settings settings
}

// settings is the configuration a refresh runs with. gen increases on every change of
// endpoint so refreshes started under an older endpoint never publish.
type settings struct {
	endpoint   jira.Endpoint
	ttl        time.Duration
	gen        uint64
	configured bool
}

// Option customizes a Collector.
type Option func(*Collector)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Collector) { c.clock = clock }
}

// WithLogger sets the logger; slog.Default is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) { c.logger = logger }
}

// WithRecorder enables self-metrics.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Collector) { c.recorder = r }
}

// WithPublisher enables refresh notifications.
func WithPublisher(p events.Publisher) Option {
	return func(c *Collector) { c.publisher = p }
}

// WithTracer overrides the tracer obtained from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(c *Collector) { c.tracer = t }
}

// WithConcurrency sets how many projects are queried in parallel.
func WithConcurrency(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithRetryPolicy retries transient count failures according to p.
func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Collector) { c.retry = p }
}

// New creates an unconfigured collector using dialer to reach Jira.
func New(dialer jira.Dialer, opts ...Option) *Collector {
	c := &Collector{
		dialer:      dialer,
		clock:       clockwork.NewRealClock(),
		logger:      slog.Default(),
		recorder:    metrics.NoopRecorder{},
		publisher:   events.NoopPublisher{},
		tracer:      otel.Tracer(tracerName),
		retry:       retry.DefaultPolicy(),
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configure sets the Jira endpoint and cache TTL. It must be called before the first
// scrape and may be called again at any time; a changed endpoint drops the cached
// snapshot.
func (c *Collector) Configure(endpoint jira.Endpoint, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.settings.configured || c.settings.endpoint != endpoint {
		c.settings.gen++
		c.cache.Clear()
	}
	c.settings.endpoint = endpoint
	c.settings.ttl = ttl
	c.settings.configured = true
}

// Invalidate drops the cached snapshot so the next scrape refreshes.
func (c *Collector) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings.gen++
	c.cache.Clear()
}

func (c *Collector) current() settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// publish stores snap unless the configuration changed since the refresh began.
func (c *Collector) publish(gen uint64, snap *Snapshot) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.settings.gen != gen {
		return false
	}
	c.cache.Publish(snap)
	return true
}

// Cached returns the last published snapshot regardless of its age, or nil.
func (c *Collector) Cached() *Snapshot {
	return c.cache.Load()
}

// Snapshot returns a snapshot no older than the TTL, refreshing from Jira when needed.
// Concurrent callers that miss the cache share a single refresh. The refresh is not
// cancelled when ctx is; the caller merely stops waiting for it.
func (c *Collector) Snapshot(ctx context.Context) (*Snapshot, error) {
	start := c.clock.Now()
	st := c.current()
	if !st.configured {
		return nil, ErrNotConfigured
	}

	if snap, ok := c.cache.Fresh(start, st.ttl); ok {
		c.recorder.IncCacheHit()
		c.logger.Debug("Using cached result",
			logfields.RefreshID(snap.RefreshID),
			slog.Time("updated_at", snap.UpdatedAt))
		return snap, nil
	}
	c.recorder.IncCacheMiss()

	refreshCtx := context.WithoutCancel(ctx)
	return c.await(ctx, c.flight.DoChan(flightKey(st), func() (any, error) {
		if snap, ok := c.cache.Fresh(c.clock.Now(), st.ttl); ok {
			return snap, nil
		}
		return c.refresh(refreshCtx, st, start)
	}))
}

// Refresh queries Jira even when the cached snapshot is still fresh. Scrapes keep being
// served from the cache meanwhile; scrapes that miss join the running refresh.
func (c *Collector) Refresh(ctx context.Context) (*Snapshot, error) {
	start := c.clock.Now()
	st := c.current()
	if !st.configured {
		return nil, ErrNotConfigured
	}
	refreshCtx := context.WithoutCancel(ctx)
	return c.await(ctx, c.flight.DoChan(flightKey(st), func() (any, error) {
		return c.refresh(refreshCtx, st, start)
	}))
}

func flightKey(st settings) string {
	return strconv.FormatUint(st.gen, 10)
}

func (c *Collector) await(ctx context.Context, ch <-chan singleflight.Result) (*Snapshot, error) {
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Wait blocks until pending refresh notifications have been delivered.
func (c *Collector) Wait() {
	c.notify.Wait()
}

// Describe sends the descriptors of both metric families.
func (c *Collector) Describe(ch chan<- *prom.Desc) {
	for _, f := range metrics.Families() {
		ch <- f.Desc()
	}
}

// Collect sends the current snapshot. When no snapshot can be produced every family
// is reported invalid, which fails the scrape.
func (c *Collector) Collect(ch chan<- prom.Metric) {
	snap, err := c.Snapshot(context.Background())
	if err != nil {
		c.logger.Error("Scrape failed", logfields.Error(err))
		for _, f := range metrics.Families() {
			ch <- prom.NewInvalidMetric(f.Desc(), err)
		}
		return
	}
	for _, m := range snap.Metrics() {
		ch <- m
	}
}
