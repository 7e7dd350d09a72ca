package jiratest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/jira-exporter/internal/jira"
)

func TestFakeRecordsCalls(t *testing.T) {
	ctx := context.Background()
	f := New().AddProject("OPS").AddStatus("Open").SetCount("OPS", "Open", 3)

	sess, err := f.Open(ctx, jira.Endpoint{URL: "https://jira.example.com"})
	require.NoError(t, err)
	n, err := sess.CountIssues(ctx, "OPS", "Open")
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	assert.Equal(t, 1, f.Opens())
	assert.Equal(t, []Query{{Project: "OPS", Status: "Open"}}, f.CountCalls())
	assert.Equal(t, "https://jira.example.com", f.Endpoints()[0].URL)

	f.ResetCalls()
	assert.Zero(t, f.Opens())
	assert.Empty(t, f.CountCalls())
}

func TestFakeFailQueryTimes(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	f := New().SetCount("OPS", "Open", 1).FailQueryTimes("OPS", "Open", boom, 2)
	sess, err := f.Open(ctx, jira.Endpoint{})
	require.NoError(t, err)

	for range 2 {
		_, err = sess.CountIssues(ctx, "OPS", "Open")
		assert.ErrorIs(t, err, boom)
	}
	n, err := sess.CountIssues(ctx, "OPS", "Open")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
