package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ornina-dev/beamfield/internal/logging"
)

// reloadDebounce coalesces the event bursts editors produce on save.
const reloadDebounce = 100 * time.Millisecond

// Watcher reloads the TOML file when it changes on disk and hands each
// successfully loaded Config to the callback. A file that no longer
// loads keeps the previous configuration in effect.
type Watcher struct {
	path   string
	onLoad func(Config)
	log    logging.Logger

	mu       sync.Mutex
	debounce *time.Timer
}

// NewWatcher watches path. onLoad runs off the watch goroutine after
// the debounce window; it must be safe to call concurrently with the
// caller's own use of the previous Config.
func NewWatcher(path string, onLoad func(Config), log logging.Logger) *Watcher {
	if log == nil {
		log = logging.NewNoop()
	}
	return &Watcher{path: path, onLoad: onLoad, log: log}
}

// Run blocks until ctx is canceled. The parent directory is watched
// rather than the file itself so atomic-rename saves keep the watch
// alive.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()
	defer w.stopDebounce()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	name := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.scheduleReload()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("config watch error", logging.Err(err))
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(reloadDebounce, w.reload)
}

func (w *Watcher) stopDebounce() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path, w.log)
	if err != nil {
		w.log.Warn("config reload failed, keeping previous", logging.Err(err))
		return
	}
	w.log.Info("configuration reloaded", logging.String("path", w.path))
	w.onLoad(cfg)
}
