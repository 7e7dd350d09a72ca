package commands

import (
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/jira-exporter/internal/collector"
	"git.home.luguber.info/inful/jira-exporter/internal/config"
	"git.home.luguber.info/inful/jira-exporter/internal/jira"
	"git.home.luguber.info/inful/jira-exporter/internal/retry"
)

// endpointFor extracts the connection settings of cfg.
func endpointFor(cfg config.JiraConfig) jira.Endpoint {
	return jira.Endpoint{URL: cfg.URL, Username: cfg.Username, Password: cfg.Password}
}

// newCollector builds a configured collector and registers it with reg.
func newCollector(cfg config.Config, dialer jira.Dialer, reg prom.Registerer, logger *slog.Logger, extra ...collector.Option) (*collector.Collector, error) {
	opts := []collector.Option{
		collector.WithLogger(logger),
		collector.WithConcurrency(cfg.Jira.Concurrency),
		collector.WithRetryPolicy(retry.FromConfig(cfg.Retry)),
	}
	c := collector.New(dialer, append(opts, extra...)...)
	c.Configure(endpointFor(cfg.Jira), cfg.Cache.TTL())
	if err := reg.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}
