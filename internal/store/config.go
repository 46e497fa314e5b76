package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// LoadConfig returns the folder configuration and settings, served from an
// in-memory cache for up to configCacheTTL. Callers receive a copy and may
// modify it freely.
func (s *Store) LoadConfig() Config {
	s.configMu.Lock()
	defer s.configMu.Unlock()

	if s.config != nil && s.now().Sub(s.configAt) < configCacheTTL {
		return s.config.copy()
	}

	var cfg Config
	loadJSON("config", s.configPath, &cfg)
	cfg.normalize()

	cached := cfg.copy()
	s.config = &cached
	s.configAt = s.now()
	return cfg
}

// SaveConfig persists the configuration and updates the in-memory cache so
// subsequent reads see the change immediately.
func (s *Store) SaveConfig(cfg Config) error {
	cfg.normalize()

	err := withFileLock(s.configPath, func() error {
		return saveJSON("config", s.configPath, &cfg)
	})
	if err != nil {
		return err
	}

	s.configMu.Lock()
	cached := cfg.copy()
	s.config = &cached
	s.configAt = s.now()
	s.configMu.Unlock()
	return nil
}

// Folders returns the configured media folder roots.
func (s *Store) Folders() []string {
	return s.LoadConfig().Folders
}

// Settings returns the current feed settings with defaults applied.
func (s *Store) Settings() Settings {
	return s.LoadConfig().Settings
}

// AddFolder validates and appends a folder to the configuration.
// The path is made absolute and cleaned before storage.
func (s *Store) AddFolder(path string) ([]string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}
	abs = filepath.Clean(abs)

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("folder not found: %s", abs)
	}

	cfg := s.LoadConfig()
	if contains(cfg.Folders, abs) {
		return cfg.Folders, fmt.Errorf("folder already added: %s", abs)
	}

	cfg.Folders = append(cfg.Folders, abs)
	if err := s.SaveConfig(cfg); err != nil {
		return nil, err
	}
	return cfg.Folders, nil
}

// RemoveFolder deletes a folder from the configuration. Removing a folder
// that is not configured is not an error.
func (s *Store) RemoveFolder(path string) ([]string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}
	abs = filepath.Clean(abs)

	cfg := s.LoadConfig()
	folders, removed := removeFromList(cfg.Folders, abs)
	if !removed {
		return cfg.Folders, nil
	}

	cfg.Folders = folders
	if err := s.SaveConfig(cfg); err != nil {
		return nil, err
	}
	return cfg.Folders, nil
}

func (c Config) copy() Config {
	out := c
	out.Folders = append([]string(nil), c.Folders...)
	return out
}
