package tracing

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/jira-exporter/internal/config"
)

func TestSetup_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TracingConfig{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestExporterOptions(t *testing.T) {
	assert.Len(t, exporterOptions(config.TracingConfig{Endpoint: "collector:4318"}), 2)
	assert.Len(t, exporterOptions(config.TracingConfig{Endpoint: "http://collector:4318"}), 3)
	assert.Len(t, exporterOptions(config.TracingConfig{Endpoint: "https://collector:4318/otlp/v1/traces"}), 3)
	assert.Len(t, exporterOptions(config.TracingConfig{Endpoint: "collector:4318", Insecure: true}), 3)
}

func TestNewSampler(t *testing.T) {
	assert.True(t, strings.Contains(NewSampler(1).Description(), "AlwaysOnSampler"))
	assert.True(t, strings.Contains(NewSampler(0).Description(), "AlwaysOffSampler"))
	assert.True(t, strings.Contains(NewSampler(0.25).Description(), "TraceIDRatioBased{0.25}"))
}
