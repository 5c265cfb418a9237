package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"go-notegrid/debug"
)

// editors often write a file in several steps
const reloadDelay = 150 * time.Millisecond

// Watch reloads the config at path whenever it changes on disk and passes
// the result to onChange. Files that fail to parse are logged and skipped.
// Blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	defer w.Close()

	// watch the directory so renames and recreations are seen
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	var reload <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				reload = time.After(reloadDelay)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			debug.Log("config", "watch: %v", err)

		case <-reload:
			reload = nil
			cfg, err := LoadFrom(path)
			if err != nil {
				debug.Log("config", "reload skipped: %v", err)
				continue
			}
			debug.Log("config", "reloaded %s", path)
			onChange(cfg)
		}
	}
}
