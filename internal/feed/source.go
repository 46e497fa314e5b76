package feed

import (
	"context"
	"os"
	"sort"

	"homefeed/internal/imagecache"
	"homefeed/internal/store"
)

// Library implements Source on top of the image cache and the JSON stores.
// Filtered lists are always derived from the cache's feed order, so every
// view stays sorted the same way as the main feed.
type Library struct {
	cache *imagecache.Cache
	store *store.Store
}

// NewLibrary creates a Library backed by cache and st.
func NewLibrary(cache *imagecache.Cache, st *store.Store) *Library {
	return &Library{cache: cache, store: st}
}

// AllImages returns the full feed in configured order.
func (l *Library) AllImages(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.cache.All(""), nil
}

// FolderImages returns the feed restricted to one folder.
func (l *Library) FolderImages(ctx context.Context, folder string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.cache.ByFolder(folder, ""), nil
}

// FavoriteImages returns favorited items in feed order. Favorites whose
// files vanished are pruned from the store first.
func (l *Library) FavoriteImages(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	favorites, err := l.store.CleanFavorites()
	if err != nil {
		return nil, err
	}
	return filterBySet(l.cache.All(""), favorites), nil
}

// FavoriteFolderImages returns favorited items from one folder in feed order.
func (l *Library) FavoriteFolderImages(ctx context.Context, folder string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	favorites, err := l.store.CleanFavorites()
	if err != nil {
		return nil, err
	}
	return filterBySet(l.cache.ByFolder(folder, ""), favorites), nil
}

// TrashImages returns trashed items newest-modified first. Trashed files may
// live in folders no longer configured, so the list is ordered by file mtime
// rather than by the cache's effective dates.
func (l *Library) TrashImages(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	trash, err := l.store.CleanTrash()
	if err != nil {
		return nil, err
	}

	mtimes := make(map[string]int64, len(trash))
	for _, path := range trash {
		if info, err := os.Stat(path); err == nil {
			mtimes[path] = info.ModTime().Unix()
		}
	}
	sort.Slice(trash, func(i, j int) bool {
		if mtimes[trash[i]] != mtimes[trash[j]] {
			return mtimes[trash[i]] > mtimes[trash[j]]
		}
		return trash[i] < trash[j]
	})
	return trash, nil
}

// UnseenImages returns the feed minus everything in the seen history.
func (l *Library) UnseenImages(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seen := l.store.Seen().Seen

	all := l.cache.All("")
	unseen := make([]string, 0, len(all))
	for _, path := range all {
		if _, ok := seen[path]; !ok {
			unseen = append(unseen, path)
		}
	}
	return unseen, nil
}

// filterBySet keeps the paths present in keep, preserving list order.
func filterBySet(list, keep []string) []string {
	set := make(map[string]struct{}, len(keep))
	for _, path := range keep {
		set[path] = struct{}{}
	}
	filtered := make([]string, 0, len(keep))
	for _, path := range list {
		if _, ok := set[path]; ok {
			filtered = append(filtered, path)
		}
	}
	return filtered
}
