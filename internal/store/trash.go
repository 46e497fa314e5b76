package store

import "os"

// Trash returns the list of trashed media paths.
func (s *Store) Trash() []string {
	var t trashFile
	loadJSON("trash", s.trashPath, &t)
	if t.Trash == nil {
		t.Trash = []string{}
	}
	return t.Trash
}

// AddTrash marks a path for deletion. Favorites and trash are mutually
// exclusive, so the path is removed from favorites if present.
func (s *Store) AddTrash(path string) error {
	err := withFileLock(s.trashPath, func() error {
		var t trashFile
		loadJSON("trash", s.trashPath, &t)
		if contains(t.Trash, path) {
			return nil
		}
		t.Trash = append(t.Trash, path)
		return saveJSON("trash", s.trashPath, &t)
	})
	if err != nil {
		return err
	}
	return s.RemoveFavorite(path)
}

// RemoveTrash unmarks a path for deletion.
func (s *Store) RemoveTrash(path string) error {
	return withFileLock(s.trashPath, func() error {
		var t trashFile
		loadJSON("trash", s.trashPath, &t)
		trash, removed := removeFromList(t.Trash, path)
		if !removed {
			return nil
		}
		t.Trash = trash
		return saveJSON("trash", s.trashPath, &t)
	})
}

// CleanTrash removes trash entries whose files no longer exist on disk and
// returns the surviving list.
func (s *Store) CleanTrash() ([]string, error) {
	var result []string
	err := withFileLock(s.trashPath, func() error {
		var t trashFile
		loadJSON("trash", s.trashPath, &t)

		valid := make([]string, 0, len(t.Trash))
		for _, path := range t.Trash {
			if _, err := os.Stat(path); err == nil {
				valid = append(valid, path)
			}
		}
		result = valid

		if len(valid) == len(t.Trash) {
			return nil
		}
		t.Trash = valid
		return saveJSON("trash", s.trashPath, &t)
	})
	return result, err
}

// EmptyTrash permanently deletes every trashed file from disk, clears the
// trash list, and removes any deleted files from favorites. Per-file delete
// failures are collected rather than aborting the sweep.
func (s *Store) EmptyTrash() (deleted int, errs []PathError, err error) {
	err = withFileLock(s.trashPath, func() error {
		var t trashFile
		loadJSON("trash", s.trashPath, &t)

		for _, path := range t.Trash {
			if _, statErr := os.Stat(path); statErr != nil {
				continue
			}
			if removeErr := os.Remove(path); removeErr != nil {
				errs = append(errs, PathError{Path: path, Error: removeErr.Error()})
				continue
			}
			deleted++
		}

		t.Trash = []string{}
		return saveJSON("trash", s.trashPath, &t)
	})
	if err != nil {
		return deleted, errs, err
	}

	if _, cleanErr := s.CleanFavorites(); cleanErr != nil {
		errs = append(errs, PathError{Path: s.favoritesPath, Error: cleanErr.Error()})
	}
	return deleted, errs, nil
}
