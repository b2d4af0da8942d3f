// Package watch reloads a showcase screenshot when its file changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events editors emit for one save.
const DefaultDebounce = 150 * time.Millisecond

// ReloadFunc is called with the watched path after it changes.
type ReloadFunc func(ctx context.Context, path string) error

// Watcher calls a ReloadFunc for every settled change to one file.
type Watcher struct {
	path     string
	reload   ReloadFunc
	log      *slog.Logger
	Debounce time.Duration
}

func New(path string, reload ReloadFunc, log *slog.Logger) *Watcher {
	if log == nil {
		log = slog.Default()
	}
	return &Watcher{
		path:     filepath.Clean(path),
		reload:   reload,
		log:      log,
		Debounce: DefaultDebounce,
	}
}

// Run watches until ctx is done. The parent directory is watched rather than
// the file, so saves that replace the file by rename are still seen. Reload
// errors are logged and do not stop the watch.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}
	w.log.Info("watching screenshot", "path", w.path)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			timer.Reset(w.Debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "path", w.path, "err", err)
		case <-timer.C:
			if err := w.reload(ctx, w.path); err != nil {
				w.log.Warn("screenshot reload failed", "path", w.path, "err", err)
				continue
			}
			w.log.Info("screenshot reloaded", "path", w.path)
		}
	}
}
