package imagecache

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"homefeed/internal/store"
)

// fakeConfig is an in-memory ConfigSource.
type fakeConfig struct {
	folders  []string
	settings store.Settings
}

func (f *fakeConfig) Folders() []string        { return f.folders }
func (f *fakeConfig) Settings() store.Settings { return f.settings }

func newFakeConfig(folders ...string) *fakeConfig {
	return &fakeConfig{
		folders:  folders,
		settings: store.DefaultSettings(),
	}
}

// fakeClock is an adjustable clock for TTL tests.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(cfg ConfigSource, clock *fakeClock) *Cache {
	c := New(cfg, Options{
		TTL:    5 * time.Minute,
		TTLHDD: 30 * time.Minute,
		Now:    clock.now,
	})
	// Tests control EXIF dates explicitly; default to none.
	c.readExif = func(string) *int64 { return nil }
	return c
}

// writeMediaFile creates a file and pins its mtime so effective dates are
// deterministic.
func writeMediaFile(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func TestAllSortsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.jpg")
	b := filepath.Join(dir, "b.jpg")
	c := filepath.Join(dir, "c.mp4")

	// a.jpg carries a capture date of 100; b.jpg and c.mp4 fall back to
	// their mtimes of 200 and 50.
	writeMediaFile(t, a, time.Unix(999, 0))
	writeMediaFile(t, b, time.Unix(200, 0))
	writeMediaFile(t, c, time.Unix(50, 0))

	clock := &fakeClock{t: time.Unix(1000, 0)}
	cache := newTestCache(newFakeConfig(dir), clock)
	cache.readExif = func(path string) *int64 {
		if path == a {
			ts := int64(100)
			return &ts
		}
		return nil
	}

	got := cache.All(store.SortNewest)
	want := []string{b, a, c}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected order %v, got %v", want, got)
	}

	if date := cache.EffectiveDateOf(a); date != 100 {
		t.Errorf("expected effective date 100 for a.jpg, got %d", date)
	}
}

func TestAllOldestReverses(t *testing.T) {
	dir := t.TempDir()
	writeMediaFile(t, filepath.Join(dir, "old.jpg"), time.Unix(100, 0))
	writeMediaFile(t, filepath.Join(dir, "new.jpg"), time.Unix(200, 0))

	clock := &fakeClock{t: time.Unix(1000, 0)}
	cache := newTestCache(newFakeConfig(dir), clock)

	newest := cache.All(store.SortNewest)
	oldest := cache.All(store.SortOldest)

	if len(newest) != 2 || len(oldest) != 2 {
		t.Fatalf("expected 2 entries, got %d and %d", len(newest), len(oldest))
	}
	if newest[0] != oldest[1] || newest[1] != oldest[0] {
		t.Errorf("oldest order is not the reverse of newest: %v vs %v", newest, oldest)
	}
}

func TestCacheHitWithinTTL(t *testing.T) {
	dir := t.TempDir()
	writeMediaFile(t, filepath.Join(dir, "a.jpg"), time.Unix(100, 0))

	clock := &fakeClock{t: time.Now()}
	cache := newTestCache(newFakeConfig(dir), clock)

	cache.All("")
	cache.All("")
	clock.advance(time.Minute)
	cache.All("")

	if scans := cache.Info().Scans; scans != 1 {
		t.Errorf("expected 1 scan within TTL, got %d", scans)
	}
}

func TestTTLExpiryRescans(t *testing.T) {
	dir := t.TempDir()
	writeMediaFile(t, filepath.Join(dir, "a.jpg"), time.Unix(100, 0))

	clock := &fakeClock{t: time.Now()}
	cache := newTestCache(newFakeConfig(dir), clock)

	cache.All("")
	clock.advance(6 * time.Minute)
	cache.All("")

	if scans := cache.Info().Scans; scans != 2 {
		t.Errorf("expected 2 scans after TTL expiry, got %d", scans)
	}
}

func TestHDDFriendlyUsesLongerTTL(t *testing.T) {
	dir := t.TempDir()
	writeMediaFile(t, filepath.Join(dir, "a.jpg"), time.Unix(100, 0))

	cfg := newFakeConfig(dir)
	cfg.settings.HDDFriendly = true

	clock := &fakeClock{t: time.Now()}
	cache := newTestCache(cfg, clock)

	cache.All("")
	clock.advance(10 * time.Minute) // past normal TTL, within HDD TTL
	cache.All("")

	if scans := cache.Info().Scans; scans != 1 {
		t.Errorf("expected 1 scan within HDD TTL, got %d", scans)
	}
}

func TestFolderMtimeInvalidation(t *testing.T) {
	dir := t.TempDir()
	writeMediaFile(t, filepath.Join(dir, "a.jpg"), time.Unix(100, 0))
	if err := os.Chtimes(dir, time.Unix(100, 0), time.Unix(100, 0)); err != nil {
		t.Fatal(err)
	}

	clock := &fakeClock{t: time.Now()}
	cache := newTestCache(newFakeConfig(dir), clock)

	cache.All("")

	// A new file bumps the folder mtime past what the scan recorded.
	writeMediaFile(t, filepath.Join(dir, "b.jpg"), time.Unix(200, 0))
	if err := os.Chtimes(dir, time.Now(), time.Now()); err != nil {
		t.Fatal(err)
	}

	got := cache.All("")
	if len(got) != 2 {
		t.Errorf("expected 2 entries after folder change, got %d", len(got))
	}
	if scans := cache.Info().Scans; scans != 2 {
		t.Errorf("expected rescan on folder mtime change, got %d scans", scans)
	}
}

func TestDateSourceChangeInvalidates(t *testing.T) {
	dir := t.TempDir()
	writeMediaFile(t, filepath.Join(dir, "a.jpg"), time.Unix(100, 0))

	cfg := newFakeConfig(dir)
	clock := &fakeClock{t: time.Now()}
	cache := newTestCache(cfg, clock)

	cache.All("")
	cfg.settings.DateSource = store.DateSourceCTime
	cache.All("")

	if scans := cache.Info().Scans; scans != 2 {
		t.Errorf("expected rescan on date_source change, got %d scans", scans)
	}
	if got := cache.Info().DateSource; got != store.DateSourceCTime {
		t.Errorf("expected cache to record new date_source, got %q", got)
	}
}

func TestFolderSetChangeInvalidates(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeMediaFile(t, filepath.Join(dirA, "a.jpg"), time.Unix(100, 0))
	writeMediaFile(t, filepath.Join(dirB, "b.jpg"), time.Unix(200, 0))

	cfg := newFakeConfig(dirA)
	clock := &fakeClock{t: time.Now()}
	cache := newTestCache(cfg, clock)

	if got := len(cache.All("")); got != 1 {
		t.Fatalf("expected 1 entry, got %d", got)
	}

	cfg.folders = []string{dirA, dirB}
	if got := len(cache.All("")); got != 2 {
		t.Errorf("expected 2 entries after adding folder, got %d", got)
	}
}

func TestExplicitInvalidate(t *testing.T) {
	dir := t.TempDir()
	writeMediaFile(t, filepath.Join(dir, "a.jpg"), time.Unix(100, 0))

	clock := &fakeClock{t: time.Now()}
	cache := newTestCache(newFakeConfig(dir), clock)

	cache.All("")
	cache.Invalidate("explicit")
	cache.All("")

	if scans := cache.Info().Scans; scans != 2 {
		t.Errorf("expected rescan after Invalidate, got %d scans", scans)
	}
}

func TestByFolder(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "vacation")
	writeMediaFile(t, filepath.Join(dir, "root.jpg"), time.Unix(100, 0))
	writeMediaFile(t, filepath.Join(sub, "beach.jpg"), time.Unix(300, 0))
	writeMediaFile(t, filepath.Join(sub, "hotel.jpg"), time.Unix(200, 0))

	clock := &fakeClock{t: time.Now()}
	cache := newTestCache(newFakeConfig(dir), clock)

	got := cache.ByFolder(sub, store.SortNewest)
	want := []string{filepath.Join(sub, "beach.jpg"), filepath.Join(sub, "hotel.jpg")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if got := cache.ByFolder(filepath.Join(dir, "nope"), ""); len(got) != 0 {
		t.Errorf("expected empty list for unknown folder, got %v", got)
	}
}

func TestLeafFolders(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old")
	recent := filepath.Join(dir, "recent")
	writeMediaFile(t, filepath.Join(old, "a.jpg"), time.Unix(100, 0))
	writeMediaFile(t, filepath.Join(recent, "b.jpg"), time.Unix(300, 0))
	writeMediaFile(t, filepath.Join(recent, "c.jpg"), time.Unix(200, 0))

	clock := &fakeClock{t: time.Now()}
	cache := newTestCache(newFakeConfig(dir), clock)

	leaves := cache.LeafFolders(store.SortNewest)
	if len(leaves) != 2 {
		t.Fatalf("expected 2 leaf folders, got %d", len(leaves))
	}
	if leaves[0].Path != recent || leaves[0].Count != 2 || leaves[0].NewestDate != 300 {
		t.Errorf("unexpected first leaf: %+v", leaves[0])
	}
	if leaves[1].Path != old || leaves[1].Count != 1 {
		t.Errorf("unexpected second leaf: %+v", leaves[1])
	}
}

func TestScanSkipsDotfilesAndUnsupported(t *testing.T) {
	dir := t.TempDir()
	writeMediaFile(t, filepath.Join(dir, "good.jpg"), time.Unix(100, 0))
	writeMediaFile(t, filepath.Join(dir, ".hidden.jpg"), time.Unix(100, 0))
	writeMediaFile(t, filepath.Join(dir, "notes.txt"), time.Unix(100, 0))
	writeMediaFile(t, filepath.Join(dir, ".thumbs", "t.jpg"), time.Unix(100, 0))

	clock := &fakeClock{t: time.Now()}
	cache := newTestCache(newFakeConfig(dir), clock)

	got := cache.All("")
	if len(got) != 1 || got[0] != filepath.Join(dir, "good.jpg") {
		t.Errorf("expected only good.jpg, got %v", got)
	}
}

func TestScanIsOneLevelDeep(t *testing.T) {
	dir := t.TempDir()
	writeMediaFile(t, filepath.Join(dir, "top.jpg"), time.Unix(100, 0))
	writeMediaFile(t, filepath.Join(dir, "sub", "mid.jpg"), time.Unix(100, 0))
	writeMediaFile(t, filepath.Join(dir, "sub", "deep", "bottom.jpg"), time.Unix(100, 0))

	clock := &fakeClock{t: time.Now()}
	cache := newTestCache(newFakeConfig(dir), clock)

	got := cache.All("")
	if len(got) != 2 {
		t.Errorf("expected 2 entries (one level deep), got %v", got)
	}
	for _, p := range got {
		if p == filepath.Join(dir, "sub", "deep", "bottom.jpg") {
			t.Error("deeply nested file should not be scanned")
		}
	}
}

func TestMaxVideoSizeExcludesLargeVideos(t *testing.T) {
	dir := t.TempDir()
	big := filepath.Join(dir, "big.mp4")
	small := filepath.Join(dir, "small.mp4")
	if err := os.WriteFile(big, make([]byte, 2048), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(small, make([]byte, 100), 0o644); err != nil {
		t.Fatal(err)
	}

	clock := &fakeClock{t: time.Now()}
	cache := New(newFakeConfig(dir), Options{
		TTL:          time.Minute,
		MaxVideoSize: 1024,
		Now:          clock.now,
	})
	cache.readExif = func(string) *int64 { return nil }

	got := cache.All("")
	if len(got) != 1 || got[0] != small {
		t.Errorf("expected only small.mp4, got %v", got)
	}
}

func TestMissingFolderSkipped(t *testing.T) {
	dir := t.TempDir()
	writeMediaFile(t, filepath.Join(dir, "a.jpg"), time.Unix(100, 0))

	cfg := newFakeConfig(dir, filepath.Join(dir, "does-not-exist"))
	clock := &fakeClock{t: time.Now()}
	cache := newTestCache(cfg, clock)

	got := cache.All("")
	if len(got) != 1 {
		t.Errorf("expected readable folder to still be scanned, got %v", got)
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	dir := t.TempDir()
	writeMediaFile(t, filepath.Join(dir, "a.jpg"), time.Unix(100, 0))

	clock := &fakeClock{t: time.Now()}
	cache := newTestCache(newFakeConfig(dir), clock)

	first := cache.Entries()
	first[0].Path = "mutated"

	second := cache.Entries()
	if second[0].Path == "mutated" {
		t.Error("Entries must return a copy, not the internal slice")
	}
}
