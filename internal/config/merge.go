package config

import "strings"

// Merge layers command-line values over file values. A flag still holding its default
// yields to any value the file sets, zero included; a flag explicitly set to its default
// value therefore cannot override the file.
func Merge(flags Config, file File) Config {
	def := Defaults()
	out := flags

	out.Jira.URL = pick(flags.Jira.URL, def.Jira.URL, file.Jira.URL, file.Has("jira.url"))
	out.Jira.Username = pick(flags.Jira.Username, def.Jira.Username, file.Jira.Username, file.Has("jira.username"))
	out.Jira.Password = pick(flags.Jira.Password, def.Jira.Password, file.Jira.Password, file.Has("jira.password"))
	out.Jira.RequestTimeout = pick(flags.Jira.RequestTimeout, def.Jira.RequestTimeout, file.Jira.RequestTimeout, file.Has("jira.request_timeout"))
	out.Jira.Concurrency = pick(flags.Jira.Concurrency, def.Jira.Concurrency, file.Jira.Concurrency, file.Has("jira.concurrency"))

	out.Server.Host = pick(flags.Server.Host, def.Server.Host, file.Server.Host, file.Has("server.host"))
	out.Server.Port = pick(flags.Server.Port, def.Server.Port, file.Server.Port, file.Has("server.port"))
	out.Server.MetricsPath = pick(flags.Server.MetricsPath, def.Server.MetricsPath, file.Server.MetricsPath, file.Has("server.metrics_path"))
	out.Server.MaxConnections = pick(flags.Server.MaxConnections, def.Server.MaxConnections, file.Server.MaxConnections, file.Has("server.max_connections"))
	out.Server.SelfMetrics = flags.Server.SelfMetrics || file.Server.SelfMetrics

	out.Cache.TTLSeconds = pick(flags.Cache.TTLSeconds, def.Cache.TTLSeconds, file.Cache.TTLSeconds, file.Has("cache.ttl"))
	out.Cache.WarmInterval = pick(flags.Cache.WarmInterval, def.Cache.WarmInterval, file.Cache.WarmInterval, file.Has("cache.warm_interval"))

	out.Retry.MaxRetries = pick(flags.Retry.MaxRetries, def.Retry.MaxRetries, file.Retry.MaxRetries, file.Has("retry.max_retries"))
	out.Retry.Backoff = pick(flags.Retry.Backoff, def.Retry.Backoff, file.Retry.Backoff, file.Has("retry.backoff"))
	out.Retry.InitialDelay = pick(flags.Retry.InitialDelay, def.Retry.InitialDelay, file.Retry.InitialDelay, file.Has("retry.initial_delay"))
	out.Retry.MaxDelay = pick(flags.Retry.MaxDelay, def.Retry.MaxDelay, file.Retry.MaxDelay, file.Has("retry.max_delay"))

	out.Logging.Level = pick(flags.Logging.Level, def.Logging.Level, file.Logging.Level, file.Has("logging.level"))
	out.Logging.Format = pick(flags.Logging.Format, def.Logging.Format, file.Logging.Format, file.Has("logging.format"))
	out.Logging.File = pick(flags.Logging.File, def.Logging.File, file.Logging.File, file.Has("logging.file"))
	out.Logging.MaxSizeMB = pick(flags.Logging.MaxSizeMB, def.Logging.MaxSizeMB, file.Logging.MaxSizeMB, file.Has("logging.max_size_mb"))
	out.Logging.MaxBackups = pick(flags.Logging.MaxBackups, def.Logging.MaxBackups, file.Logging.MaxBackups, file.Has("logging.max_backups"))
	out.Logging.MaxAgeDays = pick(flags.Logging.MaxAgeDays, def.Logging.MaxAgeDays, file.Logging.MaxAgeDays, file.Has("logging.max_age_days"))
	out.Logging.Compress = flags.Logging.Compress || file.Logging.Compress

	out.Events.NATSURL = pick(flags.Events.NATSURL, def.Events.NATSURL, file.Events.NATSURL, file.Has("events.nats_url"))
	out.Events.Subject = pick(flags.Events.Subject, def.Events.Subject, file.Events.Subject, file.Has("events.subject"))

	out.Tracing.Endpoint = pick(flags.Tracing.Endpoint, def.Tracing.Endpoint, file.Tracing.Endpoint, file.Has("tracing.endpoint"))
	out.Tracing.Insecure = flags.Tracing.Insecure || file.Tracing.Insecure
	out.Tracing.SampleRate = pick(flags.Tracing.SampleRate, def.Tracing.SampleRate, file.Tracing.SampleRate, file.Has("tracing.sample_rate"))
	out.Tracing.ServiceName = pick(flags.Tracing.ServiceName, def.Tracing.ServiceName, file.Tracing.ServiceName, file.Has("tracing.service_name"))

	return out
}

// pick returns flag when it differs from def, otherwise the file value when the file
// sets it, otherwise def.
func pick[T comparable](flag, def, file T, inFile bool) T {
	if flag != def {
		return flag
	}
	if inFile {
		return file
	}
	return def
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
