package cli

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-pagination/internal/logging"
	"github.com/goliatone/go-pagination/pkg/interfaces"
)

// RebuildFunc is called once per debounced batch of changed paths.
type RebuildFunc func(ctx context.Context, changed []string) error

// Watcher triggers rebuilds when files below a content root change. Bursts of
// events are collapsed into a single rebuild after a quiet period.
type Watcher struct {
	root     string
	debounce time.Duration
	rebuild  RebuildFunc
	logger   interfaces.Logger

	pending map[string]struct{}
}

// NewWatcher validates its arguments; nothing is watched until Run.
func NewWatcher(root string, debounce time.Duration, rebuild RebuildFunc, logger interfaces.Logger) (*Watcher, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("watch: root directory is required")
	}
	if rebuild == nil {
		return nil, errors.New("watch: rebuild function is required")
	}
	if debounce <= 0 {
		debounce = defaultWatchDebounce
	}
	return &Watcher{
		root:     root,
		debounce: debounce,
		rebuild:  rebuild,
		logger:   logging.Ensure(logger),
		pending:  map[string]struct{}{},
	}, nil
}

// Run watches until ctx is cancelled. Cancellation is not an error.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := w.addTree(watcher, w.root); err != nil {
		return err
	}
	w.logger.Info("watch.started", "root", w.root, "debounce", w.debounce)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch.stopped", "root", w.root)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if err := w.addTree(watcher, event.Name); err != nil {
					w.logger.Warn("watch.add_failed", "path", event.Name, "error", err)
				}
			}
			w.pending[event.Name] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch.error", "error", err)

		case <-timer.C:
			changed := w.drain()
			if len(changed) == 0 {
				continue
			}
			w.logger.Debug("watch.rebuild", "paths", len(changed))
			if err := w.rebuild(ctx, changed); err != nil {
				return err
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	base := filepath.Base(event.Name)
	return !strings.HasPrefix(base, ".") && !strings.HasSuffix(base, "~")
}

func (w *Watcher) drain() []string {
	changed := make([]string, 0, len(w.pending))
	for path := range w.pending {
		changed = append(changed, path)
	}
	w.pending = map[string]struct{}{}
	sort.Strings(changed)
	return changed
}

// addTree registers dir and every non-hidden directory below it. Paths that
// are not directories are ignored.
func (w *Watcher) addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(entry.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
