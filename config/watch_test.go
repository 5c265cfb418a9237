package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := DefaultConfig().SaveTo(path); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c *Config) { got <- c })
	}()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * reloadDelay)

	cfg := DefaultConfig()
	cfg.Notes.Scale = "Pelog"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-got:
		if c.Notes.Scale != "Pelog" {
			t.Errorf("Expected reloaded scale Pelog, got %s", c.Notes.Scale)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for reload")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Unexpected watch error: %v", err)
		}
	case <-time.After(time.Second):
		t.Error("Expected Watch to return after cancel")
	}
}
