package imagecache

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"homefeed/internal/logging"
	"homefeed/internal/mediatypes"
	"homefeed/internal/metrics"
	"homefeed/internal/store"
)

// ConfigSource supplies the configured folder roots and feed settings.
// The store package satisfies this interface.
type ConfigSource interface {
	Folders() []string
	Settings() store.Settings
}

// Options configures a Cache.
type Options struct {
	// TTL is how long a scan result is served before folders are re-checked.
	TTL time.Duration
	// TTLHDD replaces TTL while the hdd_friendly setting is on.
	TTLHDD time.Duration
	// MaxVideoSize excludes videos larger than this many bytes. Zero means
	// no limit.
	MaxVideoSize int64
	// ExifCachePath is where the persistent EXIF date cache is stored.
	// Empty disables persistence.
	ExifCachePath string
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

// Cache holds the scanned, sorted media list for all configured folders.
//
// The cached list is rebuilt when the TTL elapses, when any configured
// folder's modification time changes (checked one level deep), when the
// folder set itself changes, or when the date_source setting changes.
// A single Cache instance is owned by main and shared by all handlers;
// concurrent rescans in separate server processes are tolerated because the
// cache is reconstructible and last-writer-wins.
type Cache struct {
	cfg          ConfigSource
	ttl          time.Duration
	ttlHDD       time.Duration
	maxVideoSize int64
	now          func() time.Time

	// readExif extracts the EXIF capture date; replaceable in tests.
	readExif func(path string) *int64

	mu             sync.Mutex
	entries        []Entry // always newest-first
	builtAt        time.Time
	folderMtimes   map[string]time.Time
	dateSource     string
	folderIndex    map[string][]string
	effectiveDates map[string]int64
	leaves         []FolderInfo // newest-first
	forced         bool
	scans          int64

	exif *exifDateCache
}

// New creates a Cache reading folders and settings from cfg.
func New(cfg ConfigSource, opts Options) *Cache {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.TTLHDD <= 0 {
		opts.TTLHDD = opts.TTL
	}

	c := &Cache{
		cfg:          cfg,
		ttl:          opts.TTL,
		ttlHDD:       opts.TTLHDD,
		maxVideoSize: opts.MaxVideoSize,
		now:          opts.Now,
		readExif:     readExifDate,
		exif:         newExifDateCache(opts.ExifCachePath),
	}
	c.exif.load()
	return c
}

// All returns the ordered list of media paths across all configured folders,
// rescanning only when the cache is invalid. The order parameter is
// store.SortNewest, store.SortOldest, or empty to follow the configured
// sort_order setting.
func (c *Cache) All(order string) []string {
	entries := c.Entries()

	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	if c.resolveOrder(order) == store.SortOldest {
		reverse(paths)
	}
	return paths
}

// Entries returns the cached media entries newest-first, rescanning when the
// cache is invalid.
func (c *Cache) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	settings := c.cfg.Settings()
	folders := c.cfg.Folders()

	if reason := c.staleReason(folders, settings); reason != "" {
		// "cold" is the first fill and "explicit" was already counted by
		// Invalidate; everything else is a fresh invalidation.
		if reason != "cold" && reason != "explicit" {
			metrics.CacheInvalidationsTotal.WithLabelValues(reason).Inc()
		}
		metrics.CacheRequestsTotal.WithLabelValues("miss").Inc()
		c.rescan(folders, settings)
	} else {
		metrics.CacheRequestsTotal.WithLabelValues("hit").Inc()
	}

	return append([]Entry(nil), c.entries...)
}

// ByFolder returns the cached paths whose parent directory equals folder
// exactly, in feed order. It never triggers an independent scan beyond the
// shared cache rebuild.
func (c *Cache) ByFolder(folder, order string) []string {
	c.Entries() // ensure the cache and folder index are populated

	c.mu.Lock()
	paths := append([]string(nil), c.folderIndex[filepath.Clean(folder)]...)
	c.mu.Unlock()

	if c.resolveOrder(order) == store.SortOldest {
		reverse(paths)
	}
	return paths
}

// LeafFolders returns the folders that directly contain at least one media
// file, with per-folder counts and the newest effective date among their
// files. Dates are reused from the last full scan, never recomputed, so
// folder ordering stays consistent with the main feed.
func (c *Cache) LeafFolders(order string) []FolderInfo {
	c.Entries()

	c.mu.Lock()
	leaves := append([]FolderInfo(nil), c.leaves...)
	c.mu.Unlock()

	if c.resolveOrder(order) == store.SortOldest {
		for i, j := 0, len(leaves)-1; i < j; i, j = i+1, j-1 {
			leaves[i], leaves[j] = leaves[j], leaves[i]
		}
	}
	return leaves
}

// EffectiveDateOf returns the effective date computed for path during the
// last scan, or zero when the path is unknown.
func (c *Cache) EffectiveDateOf(path string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.effectiveDates[path]
}

// Invalidate forces the next read to rescan. Called when the folder
// configuration or the date_source setting changes.
func (c *Cache) Invalidate(reason string) {
	c.mu.Lock()
	c.forced = true
	c.mu.Unlock()

	if reason == "" {
		reason = "explicit"
	}
	metrics.CacheInvalidationsTotal.WithLabelValues(reason).Inc()
	logging.Debug("image cache invalidated (%s)", reason)
}

// Info returns a snapshot of cache state for health reporting.
func (c *Cache) Info() Info {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Info{
		Entries:    len(c.entries),
		BuiltAt:    c.builtAt,
		DateSource: c.dateSource,
		Scans:      c.scans,
	}
}

// staleReason reports why the cache must be rebuilt, or "" when it is valid.
// Callers must hold c.mu.
func (c *Cache) staleReason(folders []string, settings store.Settings) string {
	if c.entries == nil {
		return "cold"
	}
	if c.forced {
		return "explicit"
	}
	if settings.DateSource != c.dateSource {
		return "date_source"
	}

	ttl := c.ttl
	if settings.HDDFriendly {
		ttl = c.ttlHDD
	}
	if c.now().Sub(c.builtAt) >= ttl {
		return "ttl"
	}

	if len(folders) != len(c.folderMtimes) {
		return "folder_set"
	}
	for _, folder := range folders {
		cached, tracked := c.folderMtimes[folder]
		if !tracked {
			return "folder_set"
		}
		if folderMtime(folder).After(cached) {
			return "folder_mtime"
		}
	}
	return ""
}

// rescan rebuilds the cache from disk. Callers must hold c.mu.
func (c *Cache) rescan(folders []string, settings store.Settings) {
	start := time.Now()
	metrics.CacheScansTotal.Inc()

	entries := make([]Entry, 0, len(c.entries))
	folderMtimes := make(map[string]time.Time, len(folders))

	for _, folder := range folders {
		info, err := os.Stat(folder)
		if err != nil || !info.IsDir() {
			metrics.CacheSkippedFolders.Inc()
			logging.Warn("skipping unreadable folder %s: %v", folder, err)
			continue
		}
		folderMtimes[folder] = folderMtime(folder)
		entries = c.scanFolder(folder, settings.DateSource, entries)
	}

	// Newest-first, ties broken by path so repeated scans are stable.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].EffectiveDate != entries[j].EffectiveDate {
			return entries[i].EffectiveDate > entries[j].EffectiveDate
		}
		return entries[i].Path < entries[j].Path
	})

	folderIndex := make(map[string][]string)
	effectiveDates := make(map[string]int64, len(entries))
	leafData := make(map[string]*FolderInfo)

	for _, e := range entries {
		parent := filepath.Dir(e.Path)
		folderIndex[parent] = append(folderIndex[parent], e.Path)
		effectiveDates[e.Path] = e.EffectiveDate

		leaf, ok := leafData[parent]
		if !ok {
			leaf = &FolderInfo{Path: parent, Name: filepath.Base(parent)}
			leafData[parent] = leaf
		}
		leaf.Count++
		if e.EffectiveDate > leaf.NewestDate {
			leaf.NewestDate = e.EffectiveDate
		}
	}

	leaves := make([]FolderInfo, 0, len(leafData))
	for _, leaf := range leafData {
		leaves = append(leaves, *leaf)
	}
	sort.Slice(leaves, func(i, j int) bool {
		if leaves[i].NewestDate != leaves[j].NewestDate {
			return leaves[i].NewestDate > leaves[j].NewestDate
		}
		return leaves[i].Path < leaves[j].Path
	})

	c.entries = entries
	c.builtAt = c.now()
	c.folderMtimes = folderMtimes
	c.dateSource = settings.DateSource
	c.folderIndex = folderIndex
	c.effectiveDates = effectiveDates
	c.leaves = leaves
	c.forced = false
	c.scans++

	c.exif.save()

	metrics.CacheEntries.Set(float64(len(entries)))
	metrics.CacheScanDuration.Observe(time.Since(start).Seconds())
	logging.Info("image cache rebuilt: %d entries from %d folders in %v",
		len(entries), len(folderMtimes), time.Since(start))
}

// scanFolder collects eligible media files from root and its immediate
// subfolders (one level deep). Unreadable directories are skipped.
func (c *Cache) scanFolder(root, dateSource string, entries []Entry) []Entry {
	dirEntries, err := os.ReadDir(root)
	if err != nil {
		metrics.CacheSkippedFolders.Inc()
		logging.Warn("skipping unreadable folder %s: %v", root, err)
		return entries
	}

	for _, de := range dirEntries {
		name := de.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if de.IsDir() {
			entries = c.scanFiles(filepath.Join(root, name), dateSource, entries)
			continue
		}
		entries = c.appendFile(filepath.Join(root, name), de, dateSource, entries)
	}
	return entries
}

// scanFiles collects eligible media files directly inside dir.
func (c *Cache) scanFiles(dir, dateSource string, entries []Entry) []Entry {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		metrics.CacheSkippedFolders.Inc()
		logging.Warn("skipping unreadable folder %s: %v", dir, err)
		return entries
	}
	for _, de := range dirEntries {
		if de.IsDir() || strings.HasPrefix(de.Name(), ".") {
			continue
		}
		entries = c.appendFile(filepath.Join(dir, de.Name()), de, dateSource, entries)
	}
	return entries
}

// appendFile adds path to entries if it is an eligible media file.
func (c *Cache) appendFile(path string, de os.DirEntry, dateSource string, entries []Entry) []Entry {
	ext := strings.ToLower(filepath.Ext(de.Name()))
	kind := mediatypes.KindOf(ext)
	if kind == mediatypes.KindOther {
		return entries
	}

	info, err := de.Info()
	if err != nil {
		return entries // vanished mid-scan
	}

	if kind == mediatypes.KindVideo && c.maxVideoSize > 0 && info.Size() > c.maxVideoSize {
		return entries
	}

	return append(entries, Entry{
		Path:          path,
		EffectiveDate: c.effectiveDate(path, ext, dateSource, info),
		Kind:          kind,
	})
}

// resolveOrder maps an explicit order to itself and empty to the configured
// sort_order setting.
func (c *Cache) resolveOrder(order string) string {
	if order == store.SortNewest || order == store.SortOldest {
		return order
	}
	return c.cfg.Settings().SortOrder
}

// folderMtime returns the newest modification time among the folder and its
// immediate subdirectories. Checking one level deep catches changes inside
// nested subfolders without walking the entire tree.
func folderMtime(folder string) time.Time {
	info, err := os.Stat(folder)
	if err != nil {
		return time.Time{}
	}
	max := info.ModTime()

	dirEntries, err := os.ReadDir(folder)
	if err != nil {
		return max
	}
	for _, de := range dirEntries {
		if !de.IsDir() {
			continue
		}
		if sub, err := de.Info(); err == nil && sub.ModTime().After(max) {
			max = sub.ModTime()
		}
	}
	return max
}

func reverse(paths []string) {
	for i, j := 0, len(paths)-1; i < j; i, j = i+1, j-1 {
		paths[i], paths[j] = paths[j], paths[i]
	}
}
