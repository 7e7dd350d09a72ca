package collector

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"git.home.luguber.info/inful/jira-exporter/internal/events"
	"git.home.luguber.info/inful/jira-exporter/internal/foundation"
	"git.home.luguber.info/inful/jira-exporter/internal/jira"
	"git.home.luguber.info/inful/jira-exporter/internal/logfields"
	"git.home.luguber.info/inful/jira-exporter/internal/metrics"
)

// projectCounts is what one project contributes to a refresh.
type projectCounts struct {
	key    string
	counts []statusCount
	failed bool
}

type statusCount struct {
	status string
	count  int
}

// refresh runs one full upstream cycle and publishes its snapshot. start is the time the
// triggering scrape began and anchors the duration sample.
func (c *Collector) refresh(ctx context.Context, st settings, start time.Time) (snap *Snapshot, err error) {
	id := uuid.NewString()
	logger := c.logger.With(logfields.RefreshID(id))

	ctx, span := c.tracer.Start(ctx, "collector.refresh", trace.WithAttributes(
		attribute.String("refresh.id", id),
		attribute.String("jira.url", st.endpoint.URL),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "refresh failed")
			c.recorder.ObserveRefresh(c.clock.Since(start), metrics.RefreshFailed)
		}
		span.End()
	}()

	logger.Debug("Refreshing from Jira", logfields.URL(st.endpoint.URL))

	sess, err := c.dialer.Open(ctx, st.endpoint)
	if err != nil {
		logger.Error("Failed to open Jira session", logfields.URL(st.endpoint.URL), logfields.Error(err))
		return nil, err
	}

	issues := metrics.IssuesTotal.New()
	duration := metrics.ScrapeDuration.New()

	statuses, err := sess.Statuses(ctx)
	if err != nil {
		logger.Error("Failed to list statuses", logfields.Error(err))
		return nil, err
	}
	projects, err := sess.Projects(ctx)
	if err != nil {
		logger.Error("Failed to list projects", logfields.Error(err))
		return nil, err
	}
	statusNames := uniqueStatusNames(statuses)
	projectKeys := uniqueProjectKeys(projects)
	span.SetAttributes(attribute.Int("jira.projects", len(projectKeys)), attribute.Int("jira.statuses", len(statusNames)))

	results := runOrdered(projectKeys, c.concurrency, func(key string) projectCounts {
		return c.countProject(ctx, logger, sess, key, statusNames)
	})

	var failed []string
	for _, pc := range results {
		for _, sc := range pc.counts {
			if err := issues.Add(float64(sc.count), pc.key, sc.status); err != nil {
				return nil, err
			}
		}
		if pc.failed {
			failed = append(failed, pc.key)
		}
	}

	stop := c.clock.Now()
	elapsed := stop.Sub(start)
	if err := duration.Add(elapsed.Seconds()); err != nil {
		return nil, err
	}
	issues.Seal()
	duration.Seal()

	snap = &Snapshot{
		Issues:         issues,
		Duration:       duration,
		UpdatedAt:      stop,
		RefreshID:      id,
		FailedProjects: failed,
	}
	if !c.publish(st.gen, snap) {
		logger.Info("Configuration changed during refresh, result not cached")
	}

	outcome := metrics.RefreshSuccess
	if len(failed) > 0 {
		outcome = metrics.RefreshPartial
	}
	c.recorder.ObserveRefresh(elapsed, outcome)
	c.recorder.SetSnapshotSeries(snap.Series())
	logger.Info("Refresh completed",
		logfields.DurationMS(float64(elapsed.Microseconds())/1000),
		slog.Int("projects", len(projectKeys)),
		slog.Int("statuses", len(statusNames)),
		slog.Int("series", snap.Series()),
		slog.Any("failed_projects", failed))

	c.announce(ctx, snap, elapsed)
	return snap, nil
}

// countProject queries every status of one project. The first failing query ends the
// project; counts gathered before it are kept.
func (c *Collector) countProject(ctx context.Context, logger *slog.Logger, sess jira.Session, key string, statuses []string) projectCounts {
	ctx, span := c.tracer.Start(ctx, "collector.project", trace.WithAttributes(attribute.String("jira.project", key)))
	defer span.End()

	pc := projectCounts{key: key}
	for _, status := range statuses {
		res := c.count(ctx, sess, key, status)
		if res.IsErr() {
			err := res.UnwrapErr()
			logger.Warn("Error for project, ignored",
				logfields.Project(key),
				logfields.Status(status),
				logfields.Error(err))
			c.recorder.IncQueryFailure(key)
			span.RecordError(err)
			span.SetStatus(codes.Error, "query failed")
			pc.failed = true
			break
		}
		if n := res.Unwrap(); n > 0 {
			pc.counts = append(pc.counts, statusCount{status: status, count: n})
		}
	}
	return pc
}

func (c *Collector) count(ctx context.Context, sess jira.Session, key, status string) foundation.Result[int, error] {
	var n int
	err := c.retry.Do(ctx, c.clock, func(attempt int) error {
		if attempt > 0 {
			c.recorder.IncQueryRetry(key)
			c.logger.Debug("Retrying issue count", logfields.Project(key), logfields.Status(status), logfields.Attempt(attempt))
		}
		var qerr error
		n, qerr = sess.CountIssues(ctx, key, status)
		return qerr
	})
	return foundation.FromTuple(n, err)
}

// announce publishes the refresh event without holding up the scrape.
func (c *Collector) announce(ctx context.Context, snap *Snapshot, elapsed time.Duration) {
	ev := events.RefreshEvent{
		RefreshID:       snap.RefreshID,
		UpdatedAt:       snap.UpdatedAt,
		DurationSeconds: elapsed.Seconds(),
		Series:          snap.Series(),
		FailedProjects:  snap.FailedProjects,
	}
	c.notify.Add(1)
	go func() {
		defer c.notify.Done()
		if err := c.publisher.PublishRefresh(ctx, ev); err != nil {
			c.logger.Warn("Failed to publish refresh event", logfields.RefreshID(ev.RefreshID), logfields.Error(err))
		}
	}()
}

// uniqueStatusNames keeps the first status of each name. Jira allows equally named
// statuses in different workflows; JQL matches them all by name.
func uniqueStatusNames(statuses []jira.Status) []string {
	seen := make(map[string]struct{}, len(statuses))
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		if _, dup := seen[s.Name]; dup {
			continue
		}
		seen[s.Name] = struct{}{}
		out = append(out, s.Name)
	}
	return out
}

func uniqueProjectKeys(projects []jira.Project) []string {
	seen := make(map[string]struct{}, len(projects))
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		if _, dup := seen[p.Key]; dup {
			continue
		}
		seen[p.Key] = struct{}{}
		out = append(out, p.Key)
	}
	return out
}
