package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"git.home.luguber.info/inful/jira-exporter/internal/config"
	"git.home.luguber.info/inful/jira-exporter/internal/jira"
	"git.home.luguber.info/inful/jira-exporter/internal/logfields"
)

// CollectCmd implements the 'collect' command.
type CollectCmd struct {
	Timeout time.Duration `help:"Give up on the refresh after this long" default:"5m"`
}

func (c *CollectCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()
	cfg := root.Resolved()
	return RunCollect(ctx, cfg, jira.NewHTTPDialer(cfg.Jira.RequestTimeout), g.Logger, os.Stdout)
}

// RunCollect performs one refresh and writes the text exposition to w.
func RunCollect(ctx context.Context, cfg config.Config, dialer jira.Dialer, logger *slog.Logger, w io.Writer) error {
	// One run refreshes once, whatever the configured TTL.
	cfg.Cache.TTLSeconds = int(time.Hour / time.Second)
	reg := prom.NewRegistry()
	c, err := newCollector(cfg, dialer, reg, logger)
	if err != nil {
		return err
	}
	defer c.Wait()

	snap, err := c.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	for _, p := range snap.FailedProjects {
		logger.Warn("Project incomplete in output", logfields.Project(p))
	}

	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
