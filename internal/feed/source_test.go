package feed

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"homefeed/internal/imagecache"
	"homefeed/internal/store"
)

func newTestLibrary(t *testing.T) (*Library, *store.Store, string) {
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
	return NewLibrary(cache, st), st, mediaDir
}

func addFile(t *testing.T, dir, name string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLibraryFavoritesKeepFeedOrder(t *testing.T) {
	lib, st, mediaDir := newTestLibrary(t)
	ctx := context.Background()

	old := addFile(t, mediaDir, "old.jpg", time.Unix(100, 0))
	addFile(t, mediaDir, "mid.jpg", time.Unix(200, 0))
	recent := addFile(t, mediaDir, "recent.jpg", time.Unix(300, 0))

	// Favorited out of feed order.
	if err := st.AddFavorite(old); err != nil {
		t.Fatal(err)
	}
	if err := st.AddFavorite(recent); err != nil {
		t.Fatal(err)
	}

	got, err := lib.FavoriteImages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{recent, old}) {
		t.Errorf("expected favorites in feed order, got %v", got)
	}
}

func TestLibraryUnseenExcludesSeen(t *testing.T) {
	lib, st, mediaDir := newTestLibrary(t)
	ctx := context.Background()

	seen := addFile(t, mediaDir, "seen.jpg", time.Unix(100, 0))
	fresh := addFile(t, mediaDir, "fresh.jpg", time.Unix(200, 0))

	if _, err := st.MarkSeenBatch([]string{seen}); err != nil {
		t.Fatal(err)
	}

	got, err := lib.UnseenImages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{fresh}) {
		t.Errorf("expected only unseen paths, got %v", got)
	}
}

func TestLibraryTrashNewestModifiedFirst(t *testing.T) {
	lib, st, mediaDir := newTestLibrary(t)
	ctx := context.Background()

	old := addFile(t, mediaDir, "old.jpg", time.Unix(100, 0))
	recent := addFile(t, mediaDir, "recent.jpg", time.Unix(300, 0))

	if err := st.AddTrash(old); err != nil {
		t.Fatal(err)
	}
	if err := st.AddTrash(recent); err != nil {
		t.Fatal(err)
	}

	got, err := lib.TrashImages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{recent, old}) {
		t.Errorf("expected trash newest-modified first, got %v", got)
	}
}

func TestLibraryFavoriteFolderImages(t *testing.T) {
	lib, st, mediaDir := newTestLibrary(t)
	ctx := context.Background()

	sub := filepath.Join(mediaDir, "trip")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	inFolder := addFile(t, sub, "a.jpg", time.Unix(200, 0))
	outside := addFile(t, mediaDir, "b.jpg", time.Unix(300, 0))

	if err := st.AddFavorite(inFolder); err != nil {
		t.Fatal(err)
	}
	if err := st.AddFavorite(outside); err != nil {
		t.Fatal(err)
	}

	got, err := lib.FavoriteFolderImages(ctx, sub)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{inFolder}) {
		t.Errorf("expected only in-folder favorite, got %v", got)
	}
}

func TestLibraryCancelledContext(t *testing.T) {
	lib, _, _ := newTestLibrary(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := lib.AllImages(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}
