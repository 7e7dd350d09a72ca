// Package warmer refreshes the collector on a schedule so scrapes rarely wait on Jira.
package warmer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/jira-exporter/internal/collector"
	"git.home.luguber.info/inful/jira-exporter/internal/logfields"
)

// Refresher forces a collector refresh.
type Refresher interface {
	Refresh(ctx context.Context) (*collector.Snapshot, error)
}

// Warmer wraps a gocron scheduler running one periodic refresh job.
type Warmer struct {
	scheduler gocron.Scheduler
	refresher Refresher
	interval  time.Duration
	ctx       context.Context
}

// New creates a warmer refreshing every interval. Scheduler options (e.g. a fake clock)
// are passed through to gocron.
func New(refresher Refresher, interval time.Duration, opts ...gocron.SchedulerOption) (*Warmer, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("warm interval must be > 0, got %s", interval)
	}
	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Warmer{scheduler: s, refresher: refresher, interval: interval}, nil
}

// Start schedules the job, running it once immediately. Refreshes run on ctx.
func (w *Warmer) Start(ctx context.Context) error {
	w.ctx = ctx
	_, err := w.scheduler.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(w.warm),
		gocron.WithName("cache-warmer"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to create warm job: %w", err)
	}
	slog.Info("Starting cache warmer", slog.Duration("interval", w.interval))
	w.scheduler.Start()
	return nil
}

// Stop waits for a running refresh and shuts the scheduler down.
func (w *Warmer) Stop() error {
	slog.Info("Stopping cache warmer")
	return w.scheduler.Shutdown()
}

func (w *Warmer) warm() {
	snap, err := w.refresher.Refresh(w.ctx)
	if err != nil {
		slog.Warn("Cache warm-up failed", logfields.Error(err))
		return
	}
	slog.Debug("Cache warmed", logfields.RefreshID(snap.RefreshID), slog.Int("series", snap.Series()))
}
