// Package store provides JSON file persistence for the HomeFeed application.
//
// It handles storage and retrieval of:
//   - Folder configuration and feed settings (config.json)
//   - Favorited media paths (favorites.json)
//   - Trashed media paths (trash.json)
//   - Seen history and scroll counters (seen.json)
//
// All writes acquire an advisory cross-process file lock and replace the
// target file atomically, so multiple server processes sharing a data
// directory never observe partial writes. Favorites and trash are mutually
// exclusive: adding a path to one removes it from the other.
package store
