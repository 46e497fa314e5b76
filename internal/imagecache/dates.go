package imagecache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"homefeed/internal/logging"
	"homefeed/internal/mediatypes"
	"homefeed/internal/metrics"
	"homefeed/internal/store"

	"github.com/natefinch/atomic"
	"github.com/rwcarlsen/goexif/exif"
)

// exifDateLayout is the timestamp format used by the EXIF date tags.
const exifDateLayout = "2006:01:02 15:04:05"

// effectiveDate returns the best available sort date for a file as a Unix
// timestamp.
//
// Hierarchy:
//  1. EXIF DateTimeOriginal (shutter time)
//  2. EXIF DateTimeDigitized (digitization time, for scanned photos)
//  3. Filesystem fallback ordered by dateSource: mtime-first or ctime-first
//
// EXIF extraction is only attempted for formats that carry the date tags.
// Any decode failure falls through to the filesystem dates; this function
// never fails outright and returns 0 only when nothing is readable.
func (c *Cache) effectiveDate(path, ext, dateSource string, info os.FileInfo) int64 {
	if mediatypes.ExifCapable(ext) {
		key := fmt.Sprintf("%s:%d:%d", path, info.ModTime().Unix(), info.Size())

		ts, cached := c.exif.lookup(key)
		if cached {
			metrics.ExifCacheLookups.WithLabelValues("hit").Inc()
		} else {
			metrics.ExifCacheLookups.WithLabelValues("miss").Inc()
			ts = c.readExif(path)
			// Negative results are cached too, so unchanged files without
			// EXIF dates are never re-opened on later scans.
			c.exif.put(key, ts)
		}
		if ts != nil {
			return *ts
		}
	}

	mtime := info.ModTime().Unix()
	ctime := fileCtime(info)

	if dateSource == store.DateSourceCTime {
		if ctime != 0 {
			return ctime
		}
		return mtime
	}
	if mtime != 0 {
		return mtime
	}
	return ctime
}

// readExifDate extracts the EXIF capture date from a file, or nil when the
// file has none.
func readExifDate(path string) *int64 {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil
	}

	for _, field := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTimeDigitized} {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		raw, err := tag.StringVal()
		if err != nil {
			continue
		}
		t, err := time.ParseInLocation(exifDateLayout, strings.TrimSpace(raw), time.Local)
		if err != nil {
			continue
		}
		ts := t.Unix()
		return &ts
	}
	return nil
}

// exifDateCache persists EXIF dates across restarts so unchanged files are
// never re-opened. Keys are "path:mtime:size"; a nil value records that the
// file has no EXIF date. Each server process keeps its own in-memory copy;
// the cache is purely additive, so a write race between processes only costs
// a few redundant decodes on the next scan, never incorrect data.
type exifDateCache struct {
	mu      sync.Mutex
	path    string
	entries map[string]*int64
	dirty   bool
}

func newExifDateCache(path string) *exifDateCache {
	return &exifDateCache{
		path:    path,
		entries: make(map[string]*int64),
	}
}

func (e *exifDateCache) load() {
	if e.path == "" {
		return
	}
	data, err := os.ReadFile(e.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("could not load EXIF date cache (will rebuild): %v", err)
		}
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := json.Unmarshal(data, &e.entries); err != nil {
		logging.Warn("corrupt EXIF date cache (will rebuild): %v", err)
		e.entries = make(map[string]*int64)
		return
	}
	logging.Debug("loaded %d EXIF date cache entries", len(e.entries))
}

func (e *exifDateCache) save() {
	if e.path == "" {
		return
	}

	e.mu.Lock()
	if !e.dirty {
		e.mu.Unlock()
		return
	}
	data, err := json.Marshal(e.entries)
	e.dirty = false
	count := len(e.entries)
	e.mu.Unlock()

	if err != nil {
		logging.Warn("could not marshal EXIF date cache: %v", err)
		return
	}
	if err := atomic.WriteFile(e.path, bytes.NewReader(data)); err != nil {
		logging.Warn("could not save EXIF date cache: %v", err)
		return
	}
	logging.Debug("saved EXIF date cache (%d entries)", count)
}

func (e *exifDateCache) lookup(key string) (*int64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ts, ok := e.entries[key]
	return ts, ok
}

func (e *exifDateCache) put(key string, ts *int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries[key] = ts
	e.dirty = true
}
