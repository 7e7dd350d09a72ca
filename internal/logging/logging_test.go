package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/jira-exporter/internal/config"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Level(config.LogLevelDebug))
	assert.Equal(t, slog.LevelWarn, Level("WARNING"))
	assert.Equal(t, slog.LevelError, Level(config.LogLevelError))
	assert.Equal(t, slog.LevelInfo, Level("unknown"))
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LoggingConfig{Level: config.LogLevelInfo, Format: config.LogFormatJSON}, &buf)

	logger.Debug("hidden")
	logger.Warn("Error for project, ignored", slog.String("project", "OPS"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "OPS", entry["project"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LoggingConfig{Level: config.LogLevelDebug, Format: config.LogFormatText}, &buf)
	logger.Debug("Using cached result")
	assert.Contains(t, buf.String(), `msg="Using cached result"`)
}

func TestSetup_File(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "exporter.log")
	logger, closer, err := Setup(config.LoggingConfig{File: path, Level: config.LogLevelInfo, MaxSizeMB: 1})
	require.NoError(t, err)

	logger.Info("started")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "started")
	assert.Same(t, logger, slog.Default())
}
