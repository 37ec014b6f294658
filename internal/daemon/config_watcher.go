package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher monitors the configuration file and triggers a reload
// callback on change, debounced against editor write bursts.
type ConfigWatcher struct {
	configPath string
	onChange   func()
	watcher    *fsnotify.Watcher
	stopChan   chan struct{}
}

// NewConfigWatcher creates a watcher for configPath.
func NewConfigWatcher(configPath string, onChange func()) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	// Watch the directory; watching the file directly breaks on
	// rename-based atomic saves.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch config directory: %w", err)
	}
	return &ConfigWatcher{
		configPath: absPath,
		onChange:   onChange,
		watcher:    watcher,
		stopChan:   make(chan struct{}),
	}, nil
}

// Start begins monitoring in a background goroutine.
func (cw *ConfigWatcher) Start(ctx context.Context) {
	slog.Info("Watching configuration file", "path", cw.configPath)
	go cw.watchLoop(ctx)
}

// Stop ends monitoring.
func (cw *ConfigWatcher) Stop() {
	close(cw.stopChan)
	_ = cw.watcher.Close()
}

func (cw *ConfigWatcher) watchLoop(ctx context.Context) {
	var debounce *time.Timer
	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stopChan:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if event.Name != cw.configPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(2*time.Second, cw.onChange)
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Config watcher error", "error", err)
		}
	}
}
