package jira

import (
	"context"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// HTTPDialer opens REST sessions over a shared HTTP client.
type HTTPDialer struct {
	httpClient *http.Client
}

// NewHTTPDialer returns a dialer whose requests time out after timeout (30s when zero).
func NewHTTPDialer(timeout time.Duration) *HTTPDialer {
	return &HTTPDialer{httpClient: newHTTPClient(timeout)}
}

// NewHTTPDialerWithClient returns a dialer using a caller-supplied HTTP client.
func NewHTTPDialerWithClient(c *http.Client) *HTTPDialer {
	return &HTTPDialer{httpClient: c}
}

// Open verifies the endpoint and credentials with a /serverInfo call and returns a
// session bound to them.
func (d *HTTPDialer) Open(ctx context.Context, endpoint Endpoint) (Session, error) {
	c := NewClient(d.httpClient, endpoint)
	if _, err := c.ServerInfo(ctx); err != nil {
		return nil, err
	}
	return c, nil
}
