// Package events publishes refresh notifications so other systems can react to new
// issue counts without scraping.
package events

import (
	"context"
	"time"
)

// RefreshEvent describes one completed refresh.
type RefreshEvent struct {
	RefreshID       string    `json:"refresh_id"`
	UpdatedAt       time.Time `json:"updated_at"`
	DurationSeconds float64   `json:"duration_seconds"`
	Series          int       `json:"series"`
	FailedProjects  []string  `json:"failed_projects"`
}

// Publisher delivers refresh events.
type Publisher interface {
	PublishRefresh(ctx context.Context, ev RefreshEvent) error
}

// NoopPublisher discards events.
type NoopPublisher struct{}

func (NoopPublisher) PublishRefresh(context.Context, RefreshEvent) error { return nil }
