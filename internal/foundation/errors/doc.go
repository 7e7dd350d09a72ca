// Package errors classifies failures of the exporter so callers can decide between
// retrying, skipping a project and failing a scrape.
//
//	err := errors.JiraError("issue search failed").
//		WithContext("code", resp.StatusCode).
//		WithCause(cause).
//		Build()
//
// Jira client errors carry their category (auth, not_found, validation, jira, network);
// only network and jira errors are transient.
package errors
