package store

import "os"

// Favorites returns the list of favorited media paths.
func (s *Store) Favorites() []string {
	var f favoritesFile
	loadJSON("favorites", s.favoritesPath, &f)
	if f.Favorites == nil {
		f.Favorites = []string{}
	}
	return f.Favorites
}

// AddFavorite records a path as favorited. Favorites and trash are mutually
// exclusive, so the path is removed from the trash if present.
func (s *Store) AddFavorite(path string) error {
	err := withFileLock(s.favoritesPath, func() error {
		var f favoritesFile
		loadJSON("favorites", s.favoritesPath, &f)
		if contains(f.Favorites, path) {
			return nil
		}
		f.Favorites = append(f.Favorites, path)
		return saveJSON("favorites", s.favoritesPath, &f)
	})
	if err != nil {
		return err
	}
	return s.RemoveTrash(path)
}

// RemoveFavorite removes a path from the favorites list.
func (s *Store) RemoveFavorite(path string) error {
	return withFileLock(s.favoritesPath, func() error {
		var f favoritesFile
		loadJSON("favorites", s.favoritesPath, &f)
		favorites, removed := removeFromList(f.Favorites, path)
		if !removed {
			return nil
		}
		f.Favorites = favorites
		return saveJSON("favorites", s.favoritesPath, &f)
	})
}

// IsFavorite reports whether the path is currently favorited.
func (s *Store) IsFavorite(path string) bool {
	return contains(s.Favorites(), path)
}

// CleanFavorites removes favorites whose files no longer exist on disk and
// returns the surviving list. Favorites pointing into folders that were
// merely removed from the configuration are intentionally kept, in case the
// folder is added back later.
func (s *Store) CleanFavorites() ([]string, error) {
	var result []string
	err := withFileLock(s.favoritesPath, func() error {
		var f favoritesFile
		loadJSON("favorites", s.favoritesPath, &f)

		valid := make([]string, 0, len(f.Favorites))
		for _, path := range f.Favorites {
			if _, err := os.Stat(path); err == nil {
				valid = append(valid, path)
			}
		}
		result = valid

		if len(valid) == len(f.Favorites) {
			return nil
		}
		f.Favorites = valid
		return saveJSON("favorites", s.favoritesPath, &f)
	})
	return result, err
}
