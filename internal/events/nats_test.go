package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	subject    string
	data       []byte
	publishErr error
	flushErr   error
	closed     bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.subject, f.data = subject, data
	return f.publishErr
}
func (f *fakeConn) FlushWithContext(context.Context) error { return f.flushErr }
func (f *fakeConn) Close()                                 { f.closed = true }

func TestNATSPublisher_PublishRefresh(t *testing.T) {
	fc := &fakeConn{}
	p := newNATSPublisher(fc, "jira.exporter.refresh")

	ev := RefreshEvent{
		RefreshID:       "r-1",
		UpdatedAt:       time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		DurationSeconds: 1.5,
		Series:          4,
		FailedProjects:  []string{"DEV"},
	}
	require.NoError(t, p.PublishRefresh(context.Background(), ev))

	assert.Equal(t, "jira.exporter.refresh", fc.subject)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(fc.data, &decoded))
	assert.Equal(t, "r-1", decoded["refresh_id"])
	assert.Equal(t, "2026-01-02T03:04:05Z", decoded["updated_at"])
	assert.InDelta(t, 1.5, decoded["duration_seconds"], 0.0001)
	assert.InDelta(t, 4, decoded["series"], 0.0001)
	assert.Equal(t, []any{"DEV"}, decoded["failed_projects"])

	p.Close()
	assert.True(t, fc.closed)
}

func TestNATSPublisher_Errors(t *testing.T) {
	boom := errors.New("boom")

	err := newNATSPublisher(&fakeConn{publishErr: boom}, "s").PublishRefresh(context.Background(), RefreshEvent{})
	assert.ErrorIs(t, err, boom)

	err = newNATSPublisher(&fakeConn{flushErr: boom}, "s").PublishRefresh(context.Background(), RefreshEvent{})
	assert.ErrorIs(t, err, boom)
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.PublishRefresh(context.Background(), RefreshEvent{}))
}
