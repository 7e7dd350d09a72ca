package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("fields and context", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("flag", "--ttl").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, RetryNever, err.RetryStrategy())
		assert.Equal(t, "invalid configuration", err.Message())
		flag, ok := err.Context().String("flag")
		assert.True(t, ok)
		assert.Equal(t, "--ttl", flag)
	})

	t.Run("message includes cause", func(t *testing.T) {
		err := JiraError("search failed").WithCause(errors.New("eof")).Build()
		assert.Equal(t, "[jira:error] search failed: eof", err.Error())
		assert.Equal(t, "[auth:error] denied", AuthError("denied").Build().Error())
	})

	t.Run("found through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("open session: %w", AuthError("credentials rejected").Build())

		c, ok := AsClassified(wrapped)
		require.True(t, ok)
		assert.Equal(t, CategoryAuth, c.Category())
		assert.Equal(t, RetryUserAction, c.RetryStrategy())
		assert.True(t, HasCategory(wrapped, CategoryAuth))
		assert.False(t, HasCategory(wrapped, CategoryJira))
		assert.False(t, IsTransient(wrapped))
	})

	t.Run("unclassified", func(t *testing.T) {
		plain := errors.New("plain")
		assert.Equal(t, CategoryInternal, CategoryOf(plain))
		assert.False(t, HasCategory(plain, CategoryInternal))
		assert.False(t, IsTransient(plain))
	})

	t.Run("matches sentinel", func(t *testing.T) {
		sentinel := NotFoundError("project not found").Build()
		rebuilt := NotFoundError("project not found").WithContext("project", "OPS").Build()
		assert.ErrorIs(t, rebuilt, sentinel)
		assert.NotErrorIs(t, NotFoundError("status not found").Build(), sentinel)
	})

	t.Run("cause is unwrapped", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := NetworkError("network failure").WithCause(cause).WithContext("code", 502).Build()
		assert.ErrorIs(t, err, cause)
		code, ok := err.Context().Int("code")
		assert.True(t, ok)
		assert.Equal(t, 502, code)
	})
}

func TestErrorBuilder_Reuse(t *testing.T) {
	b := JiraError("search failed")
	first := b.Build()
	second := b.WithContext("code", 503).Build()

	_, inFirst := first.Context().Int("code")
	assert.False(t, inFirst)
	code, _ := second.Context().Int("code")
	assert.Equal(t, 503, code)
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name      string
		err       *ClassifiedError
		category  ErrorCategory
		severity  ErrorSeverity
		transient bool
	}{
		{"config", ConfigError("x").Build(), CategoryConfig, SeverityFatal, false},
		{"validation", ValidationError("x").Build(), CategoryValidation, SeverityError, false},
		{"auth", AuthError("x").Build(), CategoryAuth, SeverityError, false},
		{"not found", NotFoundError("x").Build(), CategoryNotFound, SeverityWarning, false},
		{"network", NetworkError("x").Build(), CategoryNetwork, SeverityError, true},
		{"jira", JiraError("x").Build(), CategoryJira, SeverityError, true},
		{"jira rate limit", JiraError("x").RateLimit().Build(), CategoryJira, SeverityError, true},
		{"runtime", RuntimeError("x").Build(), CategoryRuntime, SeverityFatal, false},
		{"internal", InternalError("x").Build(), CategoryInternal, SeverityFatal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category())
			assert.Equal(t, tt.severity, tt.err.Severity())
			assert.Equal(t, tt.transient, tt.err.IsTransient())
		})
	}
}

func TestHTTPErrorAdapter(t *testing.T) {
	var logs bytes.Buffer
	adapter := NewHTTPErrorAdapter(slog.New(slog.NewTextHandler(&logs, nil)))

	t.Run("status codes", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, adapter.StatusCodeFor(nil))
		assert.Equal(t, http.StatusBadRequest, adapter.StatusCodeFor(ConfigError("x").Build()))
		assert.Equal(t, http.StatusNotFound, adapter.StatusCodeFor(NotFoundError("x").Build()))
		assert.Equal(t, http.StatusBadGateway, adapter.StatusCodeFor(AuthError("x").Build()))
		assert.Equal(t, http.StatusBadGateway, adapter.StatusCodeFor(JiraError("x").Build()))
		assert.Equal(t, http.StatusServiceUnavailable, adapter.StatusCodeFor(RuntimeError("x").Build()))
		assert.Equal(t, http.StatusInternalServerError, adapter.StatusCodeFor(errors.New("x")))
	})

	t.Run("json payload", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
		err := JiraError("upstream unavailable").WithContext("url", "https://jira.example.com").Build()

		adapter.WriteErrorResponse(rec, req, err)

		require.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var payload HTTPErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, "upstream unavailable", payload.Error)
		assert.Equal(t, "jira", payload.Code)
		assert.True(t, payload.Retryable)
		assert.Equal(t, "https://jira.example.com", payload.Details["url"])
		assert.Contains(t, logs.String(), "status_code=502")
	})

	t.Run("unclassified payload", func(t *testing.T) {
		resp := adapter.FormatErrorResponse(errors.New("boom"))
		assert.Equal(t, "boom", resp.Error)
		assert.Empty(t, resp.Code)
		assert.False(t, resp.Retryable)
	})
}
