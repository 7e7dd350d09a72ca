package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"git.home.luguber.info/inful/jira-exporter/internal/foundation/errors"
	"git.home.luguber.info/inful/jira-exporter/internal/version"
)

const (
	apiPrefix    = "/rest/api/2"
	maxErrorBody = 512
)

const tracerName = "git.home.luguber.info/inful/jira-exporter/internal/jira"

// Client talks to one Jira instance. It implements Session.
type Client struct {
	httpClient *http.Client
	endpoint   Endpoint
	userAgent  string
	tracer     trace.Tracer
}

// NewClient returns a client for endpoint. A nil httpClient uses a 30s timeout client.
func NewClient(httpClient *http.Client, endpoint Endpoint) *Client {
	if httpClient == nil {
		httpClient = newHTTPClient(0)
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		userAgent:  "jira-exporter/" + version.Version,
		tracer:     otel.Tracer(tracerName),
	}
}

// ServerInfo fetches instance metadata; a successful call proves the credentials work.
func (c *Client) ServerInfo(ctx context.Context) (ServerInfo, error) {
	var info ServerInfo
	err := c.get(ctx, "serverInfo", nil, &info)
	return info, err
}

// Projects lists every project visible to the user.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.get(ctx, "project", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Statuses lists every workflow status defined on the instance.
func (c *Client) Statuses(ctx context.Context) ([]Status, error) {
	var statuses []Status
	if err := c.get(ctx, "status", nil, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

type searchResponse struct {
	Total *int `json:"total"`
}

// CountIssues runs a zero-result search and returns its total.
func (c *Client) CountIssues(ctx context.Context, projectKey, status string) (int, error) {
	q := url.Values{}
	q.Set("jql", IssueCountJQL(projectKey, status))
	q.Set("maxResults", "0")
	q.Set("fields", "id")

	var resp searchResponse
	if err := c.get(ctx, "search", q, &resp); err != nil {
		return 0, err
	}
	if resp.Total == nil {
		return 0, errors.NewError(errors.CategoryJira, "search response carries no total").
			WithContext("project", projectKey).
			WithContext("status", status).
			Build()
	}
	return *resp.Total, nil
}

func (c *Client) get(ctx context.Context, resource string, query url.Values, result any) error {
	req, err := c.newRequest(ctx, http.MethodGet, resource, query)
	if err != nil {
		return err
	}
	return c.do(req, result)
}

// newRequest builds an authenticated request for a resource below /rest/api/2,
// preserving any context path of the base URL.
func (c *Client) newRequest(ctx context.Context, method, resource string, query url.Values) (*http.Request, error) {
	if c.endpoint.URL == "" {
		return nil, errors.ConfigError("jira url is not configured").Build()
	}
	u, err := url.Parse(c.endpoint.URL)
	if err != nil {
		return nil, errors.ConfigError("failed to parse jira url").
			WithCause(err).
			WithContext("url", c.endpoint.URL).
			Build()
	}
	u.Path = path.Join(strings.TrimSuffix(u.Path, "/"), apiPrefix, resource)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), http.NoBody)
	if err != nil {
		return nil, errors.InternalError("failed to create request").
			WithCause(err).
			WithContext("method", method).
			WithContext("url", u.String()).
			Build()
	}
	req.SetBasicAuth(c.endpoint.Username, c.endpoint.Password)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

// do executes req and decodes a JSON body into result. Failures are classified so
// callers can tell transient upstream trouble from permanent rejections.
func (c *Client) do(req *http.Request, result any) error {
	ctx, span := c.tracer.Start(req.Context(), "jira "+req.URL.Path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.HTTPRequestMethodKey.String(req.Method),
			semconv.URLPath(req.URL.Path),
			semconv.ServerAddress(req.URL.Hostname()),
		))
	defer span.End()

	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		return errors.NetworkError("failed to execute jira request").
			WithCause(err).
			WithContext("method", req.Method).
			WithContext("url", req.URL.Redacted()).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()
	span.SetAttributes(semconv.HTTPResponseStatusCode(resp.StatusCode))

	if resp.StatusCode >= 400 {
		limitedBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		bodyStr := strings.ReplaceAll(string(limitedBody), "\n", " ")
		span.SetStatus(codes.Error, resp.Status)

		return statusError(resp.StatusCode, fmt.Sprintf("jira API error: %s", resp.Status)).
			WithContext("status", resp.Status).
			WithContext("code", resp.StatusCode).
			WithContext("url", req.URL.Path).
			WithContext("response", bodyStr).
			Build()
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "decode")
			return errors.NewError(errors.CategoryJira, "failed to decode jira response").
				WithCause(err).
				WithContext("url", req.URL.Path).
				Build()
		}
	}
	return nil
}

func statusError(code int, msg string) *errors.ErrorBuilder {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return errors.AuthError(msg)
	case code == http.StatusNotFound:
		return errors.NotFoundError(msg)
	case code == http.StatusTooManyRequests:
		return errors.JiraError(msg).RateLimit()
	case code >= 500:
		return errors.JiraError(msg)
	case code == http.StatusBadRequest:
		return errors.ValidationError(msg)
	default:
		return errors.NewError(errors.CategoryJira, msg)
	}
}
