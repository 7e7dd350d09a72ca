// Package config defines the exporter configuration: its defaults, the optional YAML
// file, .env loading, precedence between file and command-line values, and validation.
package config

import "time"

// Defaults for the process configuration.
const (
	DefaultPort           = 9642
	DefaultTTLSeconds     = 600
	DefaultMetricsPath    = "/metrics"
	DefaultConcurrency    = 1
	DefaultRequestTimeout = 30 * time.Second
	DefaultNATSSubject    = "jira.exporter.refresh"
	DefaultServiceName    = "jira-exporter"
	DefaultSampleRate     = 1.0
	DefaultLogMaxSizeMB   = 100
	DefaultLogMaxBackups  = 3
	DefaultLogMaxAgeDays  = 7
)

// Config is the complete exporter configuration.
type Config struct {
	Jira    JiraConfig    `yaml:"jira"`
	Server  ServerConfig  `yaml:"server"`
	Cache   CacheConfig   `yaml:"cache"`
	Retry   RetryConfig   `yaml:"retry"`
	Logging LoggingConfig `yaml:"logging"`
	Events  EventsConfig  `yaml:"events"`
	Tracing TracingConfig `yaml:"tracing"`
}

// JiraConfig describes the upstream tracker and how it is queried.
type JiraConfig struct {
	URL            string        `yaml:"url"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"` // API token for Jira Cloud
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Concurrency    int           `yaml:"concurrency"` // projects queried in parallel
}

// ServerConfig describes the metrics HTTP listener.
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MetricsPath    string `yaml:"metrics_path"`
	MaxConnections int    `yaml:"max_connections"`
	SelfMetrics    bool   `yaml:"self_metrics"`
}

// CacheConfig controls snapshot reuse between scrapes.
type CacheConfig struct {
	TTLSeconds   int           `yaml:"ttl"`
	WarmInterval time.Duration `yaml:"warm_interval"`
}

// TTL returns the cache TTL as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// RetryConfig controls retries of transient per-query failures.
type RetryConfig struct {
	MaxRetries   int              `yaml:"max_retries"`
	Backoff      RetryBackoffMode `yaml:"backoff"`
	InitialDelay time.Duration    `yaml:"initial_delay"`
	MaxDelay     time.Duration    `yaml:"max_delay"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	Level      LogLevel  `yaml:"level"`
	Format     LogFormat `yaml:"format"`
	File       string    `yaml:"file"`
	MaxSizeMB  int       `yaml:"max_size_mb"`
	MaxBackups int       `yaml:"max_backups"`
	MaxAgeDays int       `yaml:"max_age_days"`
	Compress   bool      `yaml:"compress"`
}

// EventsConfig enables refresh notifications on NATS.
type EventsConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// TracingConfig enables OTLP trace export.
type TracingConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	SampleRate  float64 `yaml:"sample_rate"`
	ServiceName string  `yaml:"service_name"`
}

// Defaults returns a configuration populated with default values only.
func Defaults() Config {
	return Config{
		Jira: JiraConfig{
			RequestTimeout: DefaultRequestTimeout,
			Concurrency:    DefaultConcurrency,
		},
		Server: ServerConfig{
			Port:        DefaultPort,
			MetricsPath: DefaultMetricsPath,
		},
		Cache: CacheConfig{TTLSeconds: DefaultTTLSeconds},
		Retry: RetryConfig{
			Backoff:      RetryBackoffLinear,
			InitialDelay: time.Second,
			MaxDelay:     30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      LogLevelInfo,
			Format:     LogFormatText,
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
			MaxAgeDays: DefaultLogMaxAgeDays,
		},
		Events: EventsConfig{Subject: DefaultNATSSubject},
		Tracing: TracingConfig{
			SampleRate:  DefaultSampleRate,
			ServiceName: DefaultServiceName,
		},
	}
}

// ListenAddr returns the host:port the metrics server binds to.
func (s ServerConfig) ListenAddr() string {
	return joinHostPort(s.Host, s.Port)
}
