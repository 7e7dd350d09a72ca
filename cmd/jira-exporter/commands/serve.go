package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/jira-exporter/internal/collector"
	"git.home.luguber.info/inful/jira-exporter/internal/config"
	"git.home.luguber.info/inful/jira-exporter/internal/events"
	"git.home.luguber.info/inful/jira-exporter/internal/jira"
	"git.home.luguber.info/inful/jira-exporter/internal/logfields"
	"git.home.luguber.info/inful/jira-exporter/internal/metrics"
	"git.home.luguber.info/inful/jira-exporter/internal/server"
	"git.home.luguber.info/inful/jira-exporter/internal/tracing"
	"git.home.luguber.info/inful/jira-exporter/internal/version"
	"git.home.luguber.info/inful/jira-exporter/internal/warmer"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct{}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunServe(ctx, root.Resolved(), g.Logger, root.Config, root.flagConfig)
}

// RunServe serves metrics until ctx is cancelled. When configPath is set the file is
// watched; a change is layered under flags() and applied to the collector.
func RunServe(ctx context.Context, cfg config.Config, logger *slog.Logger, configPath string, flags func() config.Config) error {
	logger.Info("Starting jira-exporter",
		slog.String("version", version.Version),
		logfields.URL(cfg.Jira.URL),
		slog.String("addr", cfg.Server.ListenAddr()),
		slog.Int("ttl_seconds", cfg.Cache.TTLSeconds))

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		sctx, scancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer scancel()
		if serr := shutdownTracing(sctx); serr != nil {
			logger.Warn("Tracing shutdown failed", logfields.Error(serr))
		}
	}()

	reg := prom.NewRegistry()
	var opts []collector.Option
	if cfg.Server.SelfMetrics {
		opts = append(opts, collector.WithRecorder(metrics.NewPrometheusRecorder(reg)))
		metrics.RegisterRuntimeCollectors(reg)
	}
	if cfg.Events.NATSURL != "" {
		pub, perr := events.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.Subject)
		if perr != nil {
			return fmt.Errorf("connect to nats: %w", perr)
		}
		defer pub.Close()
		opts = append(opts, collector.WithPublisher(pub))
	}

	c, err := newCollector(cfg, jira.NewHTTPDialer(cfg.Jira.RequestTimeout), reg, logger, opts...)
	if err != nil {
		return fmt.Errorf("register collector: %w", err)
	}
	defer c.Wait()

	if cfg.Cache.WarmInterval > 0 {
		w, werr := warmer.New(c, cfg.Cache.WarmInterval)
		if werr != nil {
			return werr
		}
		if werr := w.Start(ctx); werr != nil {
			return werr
		}
		defer func() {
			if serr := w.Stop(); serr != nil {
				logger.Warn("Cache warmer shutdown failed", logfields.Error(serr))
			}
		}()
	}

	grp, gctx := errgroup.WithContext(ctx)
	if configPath != "" {
		grp.Go(func() error {
			return config.Watch(gctx, configPath, func(file config.File) {
				applyReload(c, config.Merge(flags(), file), logger)
			})
		})
	}
	srv := server.New(cfg.Server, reg, c, logger)
	grp.Go(func() error {
		return srv.ListenAndServe(gctx)
	})

	if err := grp.Wait(); err != nil {
		return err
	}
	logger.Info("jira-exporter stopped")
	return nil
}

// applyReload reconfigures the collector from a reloaded configuration. Only the Jira
// connection settings and the cache TTL take effect without a restart.
func applyReload(c *collector.Collector, cfg config.Config, logger *slog.Logger) {
	warnings, err := config.Validate(cfg)
	if err != nil {
		logger.Warn("Reloaded configuration is invalid, keeping previous", logfields.Error(err))
		return
	}
	for _, w := range warnings {
		logger.Warn(w)
	}
	c.Configure(endpointFor(cfg.Jira), cfg.Cache.TTL())
	logger.Info("Configuration reloaded", logfields.URL(cfg.Jira.URL), slog.Int("ttl_seconds", cfg.Cache.TTLSeconds))
}
