package imagecache

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"homefeed/internal/logging"
	"homefeed/internal/metrics"

	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates the image cache when configured folders change on
// disk, so edits show up before the TTL elapses. It watches each configured
// root and its immediate subfolders, matching the one-level depth of the
// scan itself.
type Watcher struct {
	cache   *Cache
	folders func() []string

	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	stopChan chan struct{}
}

// NewWatcher creates a Watcher. folders supplies the current configured
// roots and is re-read on Rewatch.
func NewWatcher(cache *Cache, folders func() []string) *Watcher {
	return &Watcher{
		cache:    cache,
		folders:  folders,
		stopChan: make(chan struct{}),
	}
}

// Start begins watching and returns the number of directories added.
func (w *Watcher) Start() (int, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		metrics.WatcherErrors.Inc()
		return 0, err
	}

	w.mu.Lock()
	w.fsw = fsw
	w.mu.Unlock()

	count := w.addDirectories(fsw)
	metrics.WatchedDirectories.Set(float64(count))

	go w.processEvents(fsw)
	return count, nil
}

// Stop shuts the watcher down.
func (w *Watcher) Stop() {
	close(w.stopChan)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw != nil {
		if err := w.fsw.Close(); err != nil {
			logging.Error("failed to close folder watcher: %v", err)
		}
		w.fsw = nil
	}
}

// Rewatch re-reads the folder list and replaces the watched set. Called
// after the folder configuration changes.
func (w *Watcher) Rewatch() {
	w.mu.Lock()
	fsw := w.fsw
	w.mu.Unlock()
	if fsw == nil {
		return
	}

	for _, path := range fsw.WatchList() {
		if err := fsw.Remove(path); err != nil {
			logging.Debug("failed to unwatch %s: %v", path, err)
		}
	}

	count := w.addDirectories(fsw)
	metrics.WatchedDirectories.Set(float64(count))
	logging.Debug("folder watcher rebuilt, watching %d directories", count)
}

// addDirectories watches every configured root and its immediate subfolders.
func (w *Watcher) addDirectories(fsw *fsnotify.Watcher) int {
	count := 0
	for _, root := range w.folders() {
		if addErr := fsw.Add(root); addErr != nil {
			logging.Warn("failed to watch folder %s: %v", root, addErr)
			metrics.WatcherErrors.Inc()
			continue
		}
		count++

		dirEntries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, de := range dirEntries {
			if !de.IsDir() || strings.HasPrefix(de.Name(), ".") {
				continue
			}
			sub := filepath.Join(root, de.Name())
			if addErr := fsw.Add(sub); addErr != nil {
				logging.Warn("failed to watch folder %s: %v", sub, addErr)
				metrics.WatcherErrors.Inc()
				continue
			}
			count++
		}
	}
	return count
}

// processEvents handles filesystem events until the watcher stops.
func (w *Watcher) processEvents(fsw *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(fsw, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logging.Error("folder watcher error: %v", err)
			metrics.WatcherErrors.Inc()

		case <-w.stopChan:
			return
		}
	}
}

// handleEvent invalidates the cache and tracks newly created directories.
func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, event fsnotify.Event) {
	// Skip hidden files
	if strings.Contains(event.Name, "/.") {
		return
	}

	metrics.WatcherEventsTotal.WithLabelValues(eventType(event.Op)).Inc()
	w.cache.Invalidate("watcher")

	if event.Op&fsnotify.Create != 0 {
		info, err := os.Stat(event.Name)
		if err != nil || !info.IsDir() {
			return
		}
		if addErr := fsw.Add(event.Name); addErr != nil {
			logging.Warn("failed to watch new folder %s: %v", event.Name, addErr)
			metrics.WatcherErrors.Inc()
		} else {
			logging.Debug("watching new folder: %s", event.Name)
			metrics.WatchedDirectories.Inc()
		}
	}
}

func eventType(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create != 0:
		return "create"
	case op&fsnotify.Write != 0:
		return "write"
	case op&fsnotify.Remove != 0:
		return "remove"
	case op&fsnotify.Rename != 0:
		return "rename"
	case op&fsnotify.Chmod != 0:
		return "chmod"
	default:
		return "unknown"
	}
}
