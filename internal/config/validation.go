package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks cfg for impossible values. Missing or malformed connection settings are
// reported as warnings only: they surface as a session failure on the first scrape.
func Validate(cfg Config) (warnings []string, err error) {
	var errs []error

	if cfg.Jira.URL == "" {
		warnings = append(warnings, "jira url is not set")
	} else if u, perr := url.Parse(cfg.Jira.URL); perr != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		warnings = append(warnings, fmt.Sprintf("jira url %q is not an absolute http(s) url", cfg.Jira.URL))
	}
	if cfg.Jira.Username == "" || cfg.Jira.Password == "" {
		warnings = append(warnings, "jira credentials are incomplete")
	}
	if cfg.Jira.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be > 0"))
	}
	if cfg.Jira.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be >= 1, got %d", cfg.Jira.Concurrency))
	}

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", cfg.Server.Port))
	}
	switch p := cfg.Server.MetricsPath; {
	case !strings.HasPrefix(p, "/"):
		errs = append(errs, fmt.Errorf("metrics path %q must start with /", p))
	case p == "/" || p == "/healthz":
		errs = append(errs, fmt.Errorf("metrics path %q is reserved", p))
	}
	if cfg.Server.MaxConnections < 0 {
		errs = append(errs, errors.New("max connections cannot be negative"))
	}

	if cfg.Cache.TTLSeconds < 0 {
		errs = append(errs, fmt.Errorf("ttl cannot be negative, got %d", cfg.Cache.TTLSeconds))
	}
	if cfg.Cache.WarmInterval < 0 {
		errs = append(errs, errors.New("warm interval cannot be negative"))
	}

	if cfg.Retry.MaxRetries < 0 {
		errs = append(errs, errors.New("query retries cannot be negative"))
	}
	if _, nerr := retryBackoffNormalizer.NormalizeWithError(string(cfg.Retry.Backoff)); nerr != nil {
		errs = append(errs, fmt.Errorf("retry backoff: %w", nerr))
	}

	if _, nerr := logLevelNormalizer.NormalizeWithError(string(cfg.Logging.Level)); nerr != nil {
		errs = append(errs, fmt.Errorf("log level: %w", nerr))
	}
	if _, nerr := logFormatNormalizer.NormalizeWithError(string(cfg.Logging.Format)); nerr != nil {
		errs = append(errs, fmt.Errorf("log format: %w", nerr))
	}

	if cfg.Tracing.SampleRate < 0 || cfg.Tracing.SampleRate > 1 {
		errs = append(errs, fmt.Errorf("trace sample rate %v must be within [0,1]", cfg.Tracing.SampleRate))
	}
	if cfg.Events.NATSURL != "" && cfg.Events.Subject == "" {
		errs = append(errs, errors.New("nats subject is required when nats url is set"))
	}

	return warnings, errors.Join(errs...)
}
