package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"homefeed/internal/feed"
	"homefeed/internal/imagecache"
	"homefeed/internal/seen"
	"homefeed/internal/startup"
	"homefeed/internal/store"
)

// testEnv wires real components over temp directories.
type testEnv struct {
	h        *Handlers
	store    *store.Store
	cache    *imagecache.Cache
	tracker  *seen.Tracker
	mediaDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dataDir := t.TempDir()
	mediaDir := t.TempDir()

	st := store.New(
		filepath.Join(dataDir, "config.json"),
		filepath.Join(dataDir, "favorites.json"),
		filepath.Join(dataDir, "trash.json"),
		filepath.Join(dataDir, "seen.json"),
	)
	if _, err := st.AddFolder(mediaDir); err != nil {
		t.Fatal(err)
	}

	cache := imagecache.New(st, imagecache.Options{TTL: time.Minute})
	tracker := seen.New(st, seen.WithFlushInterval(time.Hour))
	t.Cleanup(tracker.Close)

	config := &startup.Config{
		DataDir: dataDir,
		Port:    "8080",
	}

	return &testEnv{
		h:        New(st, cache, feed.NewLibrary(cache, st), tracker, nil, config),
		store:    st,
		cache:    cache,
		tracker:  tracker,
		mediaDir: mediaDir,
	}
}

func (e *testEnv) addMedia(t *testing.T, name string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(e.mediaDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("media-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	return path
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", target, bytes.NewReader(data))
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decodeImages(t *testing.T, w *httptest.ResponseRecorder) ImagesResponse {
	t.Helper()
	var resp ImagesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestGetImages(t *testing.T) {
	env := newTestEnv(t)
	old := env.addMedia(t, "old.jpg", time.Unix(100, 0))
	recent := env.addMedia(t, "recent.jpg", time.Unix(200, 0))

	req := httptest.NewRequest("GET", "/api/images", nil)
	w := httptest.NewRecorder()
	env.h.GetImages(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decodeImages(t, w)
	if resp.Count != 2 || resp.Images[0] != recent || resp.Images[1] != old {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestGetImagesInvalidOrder(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("GET", "/api/images?order=sideways", nil)
	w := httptest.NewRecorder()
	env.h.GetImages(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid order, got %d", w.Code)
	}
}

func TestGetImagesByFolder(t *testing.T) {
	env := newTestEnv(t)
	env.addMedia(t, "root.jpg", time.Unix(100, 0))
	inSub := env.addMedia(t, "sub/a.jpg", time.Unix(200, 0))

	sub := filepath.Join(env.mediaDir, "sub")
	req := httptest.NewRequest("GET", "/api/images?folder="+sub, nil)
	w := httptest.NewRecorder()
	env.h.GetImages(w, req)

	resp := decodeImages(t, w)
	if resp.Count != 1 || resp.Images[0] != inSub {
		t.Errorf("unexpected folder response: %+v", resp)
	}
}

func TestServeMedia(t *testing.T) {
	env := newTestEnv(t)
	path := env.addMedia(t, "a.jpg", time.Unix(100, 0))

	req := httptest.NewRequest("GET", "/media?path="+path, nil)
	w := httptest.NewRecorder()
	env.h.ServeMedia(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %q", ct)
	}
	if w.Body.String() != "media-bytes" {
		t.Errorf("unexpected body: %q", w.Body.String())
	}
}

func TestServeMediaOutsideFoldersForbidden(t *testing.T) {
	env := newTestEnv(t)

	outside := filepath.Join(t.TempDir(), "secret.jpg")
	if err := os.WriteFile(outside, []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/media?path="+outside, nil)
	w := httptest.NewRecorder()
	env.h.ServeMedia(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for path outside folders, got %d", w.Code)
	}
}

func TestServeMediaMissingFile(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("GET", "/media?path="+filepath.Join(env.mediaDir, "gone.jpg"), nil)
	w := httptest.NewRecorder()
	env.h.ServeMedia(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestFolderEndpoints(t *testing.T) {
	env := newTestEnv(t)
	extra := t.TempDir()

	w := postJSON(t, env.h.AddFolder, "/api/folders", FolderRequest{Path: extra})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 adding folder, got %d: %s", w.Code, w.Body.String())
	}
	var resp FoldersResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 2 {
		t.Errorf("expected 2 folders, got %+v", resp)
	}

	// Adding a nonexistent folder fails.
	w = postJSON(t, env.h.AddFolder, "/api/folders", FolderRequest{Path: filepath.Join(extra, "nope")})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing folder, got %d", w.Code)
	}

	// Remove it again.
	data, _ := json.Marshal(FolderRequest{Path: extra})
	req := httptest.NewRequest("DELETE", "/api/folders", bytes.NewReader(data))
	w2 := httptest.NewRecorder()
	env.h.RemoveFolder(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 removing folder, got %d", w2.Code)
	}
}

func TestGetFolderImages(t *testing.T) {
	env := newTestEnv(t)
	inSub := env.addMedia(t, "trip/a.jpg", time.Unix(200, 0))
	favored := env.addMedia(t, "trip/b.jpg", time.Unix(100, 0))
	env.addMedia(t, "root.jpg", time.Unix(300, 0))

	if err := env.store.AddFavorite(favored); err != nil {
		t.Fatal(err)
	}

	sub := filepath.Join(env.mediaDir, "trip")
	req := httptest.NewRequest("GET", "/api/folder/images?path="+sub, nil)
	w := httptest.NewRecorder()
	env.h.GetFolderImages(w, req)

	resp := decodeImages(t, w)
	if resp.Count != 2 || resp.Images[0] != inSub {
		t.Errorf("unexpected folder images: %+v", resp)
	}

	// Compound folder+favorites view.
	req = httptest.NewRequest("GET", "/api/folder/images?path="+sub+"&favorites=true", nil)
	w = httptest.NewRecorder()
	env.h.GetFolderImages(w, req)

	resp = decodeImages(t, w)
	if resp.Count != 1 || resp.Images[0] != favored {
		t.Errorf("unexpected folder favorites: %+v", resp)
	}
}

func TestInvalidateCacheEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.addMedia(t, "a.jpg", time.Unix(100, 0))

	env.cache.All("")
	req := httptest.NewRequest("POST", "/api/cache/invalidate", nil)
	w := httptest.NewRecorder()
	env.h.InvalidateCache(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	env.cache.All("")
	if scans := env.cache.Info().Scans; scans != 2 {
		t.Errorf("expected rescan after invalidation, got %d scans", scans)
	}
}

func TestLeafFolderEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.addMedia(t, "trip/a.jpg", time.Unix(200, 0))
	env.addMedia(t, "trip/b.jpg", time.Unix(100, 0))

	req := httptest.NewRequest("GET", "/api/folders/leaf", nil)
	w := httptest.NewRecorder()
	env.h.GetLeafFolders(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Folders []imagecache.FolderInfo `json:"folders"`
		Count   int                     `json:"count"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 || resp.Folders[0].Count != 2 {
		t.Errorf("unexpected leaf folders: %+v", resp)
	}
}

func TestFavoriteEndpoints(t *testing.T) {
	env := newTestEnv(t)
	path := env.addMedia(t, "a.jpg", time.Unix(100, 0))

	w := postJSON(t, env.h.AddFavorite, "/api/favorites", FavoriteRequest{Path: path})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest("GET", "/api/favorites/check?path="+path, nil)
	w2 := httptest.NewRecorder()
	env.h.CheckFavorite(w2, req)
	var check map[string]bool
	if err := json.NewDecoder(w2.Body).Decode(&check); err != nil {
		t.Fatal(err)
	}
	if !check["isFavorite"] {
		t.Error("expected path to be favorited")
	}

	req = httptest.NewRequest("GET", "/api/favorites/images", nil)
	w3 := httptest.NewRecorder()
	env.h.GetFavoriteImages(w3, req)
	resp := decodeImages(t, w3)
	if resp.Count != 1 || resp.Images[0] != path {
		t.Errorf("unexpected favorite images: %+v", resp)
	}
}

func TestFavoritePathOutsideFoldersRejected(t *testing.T) {
	env := newTestEnv(t)

	w := postJSON(t, env.h.AddFavorite, "/api/favorites", FavoriteRequest{Path: "/etc/passwd"})
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestTrashEndpoints(t *testing.T) {
	env := newTestEnv(t)
	path := env.addMedia(t, "a.jpg", time.Unix(100, 0))

	w := postJSON(t, env.h.AddTrash, "/api/trash", TrashRequest{Path: path})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest("GET", "/api/trash/count", nil)
	w2 := httptest.NewRecorder()
	env.h.GetTrashCount(w2, req)
	var count map[string]int
	if err := json.NewDecoder(w2.Body).Decode(&count); err != nil {
		t.Fatal(err)
	}
	if count["count"] != 1 {
		t.Errorf("expected trash count 1, got %d", count["count"])
	}

	// Empty the trash; the file is deleted from disk.
	req = httptest.NewRequest("POST", "/api/trash/empty", nil)
	w3 := httptest.NewRecorder()
	env.h.EmptyTrash(w3, req)

	var emptied EmptyTrashResponse
	if err := json.NewDecoder(w3.Body).Decode(&emptied); err != nil {
		t.Fatal(err)
	}
	if emptied.Deleted != 1 || len(emptied.Errors) != 0 {
		t.Errorf("unexpected empty result: %+v", emptied)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected trashed file to be deleted")
	}
}

func TestSeenEndpoints(t *testing.T) {
	env := newTestEnv(t)
	a := env.addMedia(t, "a.jpg", time.Unix(100, 0))
	b := env.addMedia(t, "b.jpg", time.Unix(200, 0))

	w := postJSON(t, env.h.MarkSeenBatch, "/api/seen/batch", SeenBatchRequest{Paths: []string{a}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	// Marks are buffered; flush so the stats below see them.
	env.tracker.Flush()

	req := httptest.NewRequest("GET", "/api/seen/stats", nil)
	w2 := httptest.NewRecorder()
	env.h.GetSeenStats(w2, req)

	var stats store.SeenStats
	if err := json.NewDecoder(w2.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.SeenCount != 1 || stats.TotalCount != 2 || stats.TotalScrolls != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	// Unseen excludes the marked path.
	req = httptest.NewRequest("GET", "/api/unseen/images", nil)
	w3 := httptest.NewRecorder()
	env.h.GetUnseenImages(w3, req)
	resp := decodeImages(t, w3)
	if resp.Count != 1 || resp.Images[0] != b {
		t.Errorf("unexpected unseen images: %+v", resp)
	}

	// Reset clears everything.
	req = httptest.NewRequest("DELETE", "/api/seen", nil)
	w4 := httptest.NewRecorder()
	env.h.ResetSeen(w4, req)
	if w4.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w4.Code)
	}

	w5 := httptest.NewRecorder()
	env.h.GetSeenStats(w5, httptest.NewRequest("GET", "/api/seen/stats", nil))
	if err := json.NewDecoder(w5.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.SeenCount != 0 {
		t.Errorf("expected seen history cleared, got %+v", stats)
	}
}

func TestSettingsEndpoints(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("GET", "/api/settings", nil)
	w := httptest.NewRecorder()
	env.h.GetSettings(w, req)

	var settings store.Settings
	if err := json.NewDecoder(w.Body).Decode(&settings); err != nil {
		t.Fatal(err)
	}
	if settings.DateSource != store.DateSourceMTime {
		t.Errorf("expected default date_source, got %q", settings.DateSource)
	}

	// Partial update: only sort_order changes.
	w = postJSON(t, env.h.UpdateSettings, "/api/settings", map[string]string{"sort_order": "oldest"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if err := json.NewDecoder(w.Body).Decode(&settings); err != nil {
		t.Fatal(err)
	}
	if settings.SortOrder != store.SortOldest || settings.DateSource != store.DateSourceMTime {
		t.Errorf("unexpected settings after update: %+v", settings)
	}

	// Invalid values are rejected.
	w = postJSON(t, env.h.UpdateSettings, "/api/settings", map[string]string{"date_source": "atime"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid date_source, got %d", w.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.addMedia(t, "a.jpg", time.Unix(100, 0))

	// Before any scan the service reports starting.
	w := httptest.NewRecorder()
	env.h.HealthCheck(w, httptest.NewRequest("GET", "/health", nil))
	var health HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&health); err != nil {
		t.Fatal(err)
	}
	if health.Status != statusStarting {
		t.Errorf("expected starting before first scan, got %q", health.Status)
	}

	// After a feed request the cache is warm.
	env.cache.All("")
	w = httptest.NewRecorder()
	env.h.HealthCheck(w, httptest.NewRequest("GET", "/health", nil))
	if err := json.NewDecoder(w.Body).Decode(&health); err != nil {
		t.Fatal(err)
	}
	if health.Status != statusHealthy || health.CacheSize != 1 {
		t.Errorf("unexpected health: %+v", health)
	}

	w = httptest.NewRecorder()
	env.h.LivenessCheck(w, httptest.NewRequest("GET", "/livez", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 from livez, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	env.h.ReadinessCheck(w, httptest.NewRequest("GET", "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 from readyz, got %d", w.Code)
	}
}

func TestVersionEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.h.GetVersion(w, httptest.NewRequest("GET", "/version", nil))

	var info startup.BuildInfo
	if err := json.NewDecoder(w.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info.Version == "" || info.GoVersion == "" {
		t.Errorf("unexpected build info: %+v", info)
	}
}
