// Package imagecache maintains the sorted media list served to the feed.
//
// The cache scans all configured folders one level deep, computes a single
// effective sort date per file (EXIF capture time when available, filesystem
// dates otherwise), and serves the ordered path list until it goes stale.
// Staleness is detected by TTL expiry, folder modification times, folder set
// changes, or a date_source setting change; an fsnotify watcher additionally
// invalidates the cache as soon as a configured folder changes on disk.
//
// Effective dates discovered via EXIF are persisted to disk keyed by
// path:mtime:size, so unchanged files are never re-decoded, even across
// server restarts.
package imagecache
