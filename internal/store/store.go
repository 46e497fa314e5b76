package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"homefeed/internal/logging"
	"homefeed/internal/metrics"

	"github.com/gofrs/flock"
	"github.com/natefinch/atomic"
)

// configCacheTTL bounds how long a cached config.json read is served before
// the file is re-read. External edits are picked up after at most this long;
// in-process saves update the cache immediately.
const configCacheTTL = 60 * time.Second

// Store persists the application's JSON data files: folder configuration,
// favorites, trash, and seen history. Writes take an advisory cross-process
// file lock and replace the target file atomically, so concurrent server
// processes cannot interleave partial writes.
type Store struct {
	configPath    string
	favoritesPath string
	trashPath     string
	seenPath      string

	now func() time.Time

	// config.json read cache
	configMu sync.Mutex
	config   *Config
	configAt time.Time
}

// New creates a Store using the given data file paths.
func New(configPath, favoritesPath, trashPath, seenPath string) *Store {
	return &Store{
		configPath:    configPath,
		favoritesPath: favoritesPath,
		trashPath:     trashPath,
		seenPath:      seenPath,
		now:           time.Now,
	}
}

// loadJSON reads a JSON file into v. A missing file leaves v untouched and
// returns false; a corrupt file is logged and treated the same way.
func loadJSON(name, path string, v interface{}) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			metrics.StoreOperationsTotal.WithLabelValues(name, "load", "error").Inc()
			logging.Warn("could not read %s: %v", path, err)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		metrics.StoreOperationsTotal.WithLabelValues(name, "load", "error").Inc()
		logging.Warn("corrupt JSON in %s, using defaults: %v", path, err)
		return false
	}
	metrics.StoreOperationsTotal.WithLabelValues(name, "load", "success").Inc()
	return true
}

// saveJSON writes v to path atomically. The caller must hold the file lock.
func saveJSON(name, path string, v interface{}) error {
	start := time.Now()
	defer func() {
		metrics.StoreWriteDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		metrics.StoreOperationsTotal.WithLabelValues(name, "save", "error").Inc()
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		metrics.StoreOperationsTotal.WithLabelValues(name, "save", "error").Inc()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	metrics.StoreOperationsTotal.WithLabelValues(name, "save", "success").Inc()
	return nil
}

// withFileLock runs fn while holding the advisory lock for path. The lock
// guards the full read-modify-write cycle so concurrent server processes
// cannot clobber each other's updates.
func withFileLock(path string, fn func() error) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock for %s: %w", path, err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logging.Warn("failed to release lock for %s: %v", path, err)
		}
	}()
	return fn()
}

// removeFromList returns list without value and whether it was present.
func removeFromList(list []string, value string) ([]string, bool) {
	for i, item := range list {
		if item == value {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
