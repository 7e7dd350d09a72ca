package config

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, "cache:\n  ttl: 60\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan File, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(f File) { changes <- f })
	}()

	// Give the watcher time to register before modifying the file.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("cache:\n  ttl: 90\n"), 0o600))

	select {
	case cfg := <-changes:
		assert.Equal(t, 90, cfg.Cache.TTLSeconds)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
