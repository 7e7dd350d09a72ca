package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/jira-exporter/internal/logfields"
)

const reloadDebounce = 250 * time.Millisecond

// Watch observes path for writes and invokes onChange with the freshly loaded file
// contents. The parent directory is watched so editors that replace the file atomically
// are handled. Decode failures are logged and the previous configuration stays active.
// Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, onChange func(File)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				pending = time.After(reloadDebounce)
			}
		case <-pending:
			pending = nil
			file, lerr := LoadFile(abs)
			if lerr != nil {
				slog.Warn("Config reload failed, keeping previous configuration", logfields.Path(abs), logfields.Error(lerr))
				continue
			}
			slog.Info("Config file changed", logfields.Path(abs))
			onChange(file)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Config watcher error", logfields.Error(werr))
		}
	}
}
