package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events an editor produces on save.
const reloadDelay = 100 * time.Millisecond

// Watch reloads the configuration whenever one of its files changes and
// passes the result to onChange. path has the same meaning as in Load.
// Directories are watched rather than files so that atomic saves (write
// to temp, rename over) are seen. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Config, error)) error {
	targets := getConfigPaths()
	if path != "" {
		targets = []string{expandPath(path)}
	}
	for i, t := range targets {
		if abs, err := filepath.Abs(t); err == nil {
			targets[i] = abs
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	var dirs []string
	for _, t := range targets {
		dir := filepath.Dir(t)
		if slices.Contains(dirs, dir) {
			continue
		}
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs = append(dirs, dir)
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	reload := func() {
		cfg, err := Load(path)
		onChange(cfg, err)
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || !slices.Contains(targets, name) {
				continue
			}
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDelay, reload)
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onChange(nil, fmt.Errorf("watch config: %w", err))
		}
	}
}
