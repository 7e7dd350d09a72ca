package errors

// ErrorCategory groups failures by the party that has to act on them.
type ErrorCategory string

const (
	// Operator input: flags, config file, rejected JQL.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryAuth       ErrorCategory = "auth"
	CategoryNotFound   ErrorCategory = "not_found"

	// Upstream: transport failures and Jira API errors.
	CategoryNetwork ErrorCategory = "network"
	CategoryJira    ErrorCategory = "jira"

	// Process: listener failures and bugs.
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity is the impact of an error; it selects the log level.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"
	SeverityError   ErrorSeverity = "error"
	SeverityWarning ErrorSeverity = "warning"
)

// RetryStrategy tells callers whether repeating the operation can succeed.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"
	RetryBackoff    RetryStrategy = "backoff"
	RetryRateLimit  RetryStrategy = "rate_limit" // Jira answered 429
	RetryUserAction RetryStrategy = "user"       // credentials or permissions must change
)

// ErrorContext carries structured details, e.g. the HTTP status code of a Jira response.
type ErrorContext map[string]any

// with returns a copy of c with key set.
func (c ErrorContext) with(key string, value any) ErrorContext {
	out := make(ErrorContext, len(c)+1)
	for k, v := range c {
		out[k] = v
	}
	out[key] = value
	return out
}

// String returns the string stored under key.
func (c ErrorContext) String(key string) (string, bool) {
	s, ok := c[key].(string)
	return s, ok
}

// Int returns the int stored under key.
func (c ErrorContext) Int(key string) (int, bool) {
	n, ok := c[key].(int)
	return n, ok
}
