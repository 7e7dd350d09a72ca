// Package commands implements the jira-exporter subcommands.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/jira-exporter/internal/config"
	"git.home.luguber.info/inful/jira-exporter/internal/logging"
)

// Global is bound into every subcommand's Run.
type Global struct {
	Logger *slog.Logger
}

// CLI definition and global flags. Flags left at their default yield to the config file.
type CLI struct {
	Config  string           `short:"c" help:"Optional YAML configuration file (watched for changes)" env:"JIRA_EXPORTER_CONFIG" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging (same as --log-level=debug)"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	URL            string        `name:"url" help:"Jira base URL" env:"JIRA_URL" group:"Jira"`
	Username       string        `help:"Jira username" env:"JIRA_USERNAME" group:"Jira"`
	Password       string        `help:"Jira password or API token" env:"JIRA_PASSWORD" group:"Jira"`
	RequestTimeout time.Duration `name:"request-timeout" help:"Timeout of a single Jira request" default:"30s" group:"Jira"`
	Concurrency    int           `help:"Projects queried in parallel" default:"1" group:"Jira"`
	QueryRetries   int           `name:"query-retries" help:"Retries of a transient per-query failure" default:"0" group:"Jira"`
	RetryBackoff   string        `name:"retry-backoff" help:"Retry backoff: fixed, linear or exponential" default:"linear" group:"Jira"`
	RetryInitial   time.Duration `name:"retry-initial" help:"Initial retry delay" default:"1s" group:"Jira"`
	RetryMax       time.Duration `name:"retry-max" help:"Maximum retry delay" default:"30s" group:"Jira"`

	Host           string `help:"Listen host (empty for all interfaces)" env:"JIRA_EXPORTER_HOST" group:"Server"`
	Port           int    `help:"Listen port" default:"9642" env:"JIRA_EXPORTER_PORT" group:"Server"`
	MetricsPath    string `name:"metrics-path" help:"Path serving the metrics" default:"/metrics" group:"Server"`
	MaxConnections int    `name:"max-connections" help:"Concurrent connection limit, 0 for unlimited" default:"0" group:"Server"`
	SelfMetrics    bool   `name:"self-metrics" help:"Expose exporter and Go runtime metrics" group:"Server"`

	TTL          int           `name:"ttl" help:"Cache TTL in seconds" default:"600" env:"JIRA_EXPORTER_TTL" group:"Cache"`
	WarmInterval time.Duration `name:"warm-interval" help:"Refresh the cache in the background at this interval, 0 to disable" default:"0s" group:"Cache"`

	NATSURL     string `name:"nats-url" help:"Publish refresh notifications to this NATS server" env:"JIRA_EXPORTER_NATS_URL" group:"Events"`
	NATSSubject string `name:"nats-subject" help:"NATS subject for refresh notifications" default:"jira.exporter.refresh" group:"Events"`

	OTLPEndpoint    string  `name:"otlp-endpoint" help:"OTLP/HTTP trace endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" group:"Tracing"`
	OTLPInsecure    bool    `name:"otlp-insecure" help:"Use plain HTTP for the OTLP endpoint" group:"Tracing"`
	TraceSampleRate float64 `name:"trace-sample-rate" help:"Fraction of refreshes traced" default:"1.0" group:"Tracing"`

	LogLevel  string `name:"log-level" help:"Log level: debug, info, warn or error" default:"info" env:"JIRA_EXPORTER_LOG_LEVEL" group:"Logging"`
	LogFormat string `name:"log-format" help:"Log format: text or json" default:"text" group:"Logging"`
	LogFile   string `name:"log-file" help:"Write logs to this file with rotation instead of stderr" group:"Logging"`

	Serve   ServeCmd   `cmd:"" default:"withargs" help:"Serve Jira issue counts to Prometheus (default)"`
	Collect CollectCmd `cmd:"" help:"Refresh once and print the exposition to stdout"`

	resolved  config.Config
	logger    *slog.Logger
	logCloser io.Closer
}

// AfterApply resolves the effective configuration and sets up logging once.
func (c *CLI) AfterApply(kctx *kong.Context) error {
	cfg, err := c.resolve()
	if err != nil {
		return err
	}
	warnings, err := config.Validate(cfg)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closer, err := logging.Setup(cfg.Logging)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	for _, w := range warnings {
		logger.Warn(w)
	}

	c.resolved = cfg
	c.logger = logger
	c.logCloser = closer
	kctx.Bind(&Global{Logger: logger})
	return nil
}

// Resolved returns the configuration produced by AfterApply.
func (c *CLI) Resolved() config.Config {
	return c.resolved
}

// Close flushes the log file, if any.
func (c *CLI) Close() error {
	if c.logCloser == nil {
		return nil
	}
	return c.logCloser.Close()
}

// resolve layers flags over the optional config file.
func (c *CLI) resolve() (config.Config, error) {
	flags := c.flagConfig()
	if c.Config == "" {
		return flags, nil
	}
	file, err := config.LoadFile(c.Config)
	if err != nil {
		return config.Config{}, err
	}
	return config.Merge(flags, file), nil
}

// flagConfig maps parsed flags onto a Config.
func (c *CLI) flagConfig() config.Config {
	cfg := config.Defaults()

	cfg.Jira.URL = c.URL
	cfg.Jira.Username = c.Username
	cfg.Jira.Password = c.Password
	cfg.Jira.RequestTimeout = c.RequestTimeout
	cfg.Jira.Concurrency = c.Concurrency

	cfg.Server.Host = c.Host
	cfg.Server.Port = c.Port
	cfg.Server.MetricsPath = c.MetricsPath
	cfg.Server.MaxConnections = c.MaxConnections
	cfg.Server.SelfMetrics = c.SelfMetrics

	cfg.Cache.TTLSeconds = c.TTL
	cfg.Cache.WarmInterval = c.WarmInterval

	cfg.Retry.MaxRetries = c.QueryRetries
	cfg.Retry.Backoff = config.RetryBackoffMode(c.RetryBackoff)
	cfg.Retry.InitialDelay = c.RetryInitial
	cfg.Retry.MaxDelay = c.RetryMax

	cfg.Logging.Level = config.LogLevel(c.LogLevel)
	if c.Verbose {
		cfg.Logging.Level = config.LogLevelDebug
	}
	cfg.Logging.Format = config.LogFormat(c.LogFormat)
	cfg.Logging.File = c.LogFile

	cfg.Events.NATSURL = c.NATSURL
	cfg.Events.Subject = c.NATSSubject

	cfg.Tracing.Endpoint = c.OTLPEndpoint
	cfg.Tracing.Insecure = c.OTLPInsecure
	cfg.Tracing.SampleRate = c.TraceSampleRate

	return cfg
}
