// Package watch re-runs a callback when files below a set of roots change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docrender/internal/logfields"
)

// DefaultDebounce is the quiet period before a change triggers a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// Watcher coalesces filesystem events into serial rebuilds.
type Watcher struct {
	roots    []string
	debounce time.Duration
	rebuild  func(ctx context.Context) error
	logger   *slog.Logger
}

// New creates a watcher over roots. rebuild is never called concurrently with itself.
func New(roots []string, debounce time.Duration, rebuild func(ctx context.Context) error, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{roots: roots, debounce: debounce, rebuild: rebuild, logger: logger}
}

// Run blocks until ctx is done. Rebuild errors are logged, not returned.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()

	for _, root := range w.roots {
		if err := w.addRecursive(fw, root); err != nil {
			return err
		}
	}

	requests := make(chan struct{}, 1)
	trigger := debouncer(w.debounce, requests)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-requests:
				start := time.Now()
				if err := w.rebuild(ctx); err != nil {
					w.logger.Error("Rebuild failed", logfields.Error(err))
					continue
				}
				w.logger.Info("Rebuilt", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
			}
		}
	}()
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(fw, ev, trigger)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handle(fw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if ignored(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		_ = w.addRecursive(fw, ev.Name)
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

// addRecursive watches root and its non-hidden subdirectories. Non-directories are ignored.
func (w *Watcher) addRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return fmt.Errorf("watch %s: %w", root, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.Add(p); err != nil {
			w.logger.Warn("Failed to watch directory", logfields.Path(p), logfields.Error(err))
		}
		return nil
	})
}

// debouncer returns a trigger that signals out once no trigger happened for d.
func debouncer(d time.Duration, out chan<- struct{}) func() {
	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	return func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case out <- struct{}{}:
			default:
			}
		})
	}
}

// ignored filters editor swap files and hidden files.
func ignored(p string) bool {
	base := filepath.Base(p)
	switch {
	case strings.HasPrefix(base, "."),
		strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".tmp"):
		return true
	}
	return false
}
