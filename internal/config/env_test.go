package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFile(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("JIRA_TEST_URL=https://from-file\nJIRA_TEST_KEEP=from-file\n"), 0o600))
	t.Setenv("JIRA_TEST_KEEP", "from-env")
	t.Setenv("JIRA_TEST_URL", "")
	require.NoError(t, os.Unsetenv("JIRA_TEST_URL"))

	name, err := LoadEnvFile()
	require.NoError(t, err)
	assert.Equal(t, ".env", name)
	assert.Equal(t, "https://from-file", os.Getenv("JIRA_TEST_URL"))
	assert.Equal(t, "from-env", os.Getenv("JIRA_TEST_KEEP"))
}

func TestLoadEnvFile_None(t *testing.T) {
	t.Chdir(t.TempDir())
	name, err := LoadEnvFile()
	require.NoError(t, err)
	assert.Empty(t, name)
}
