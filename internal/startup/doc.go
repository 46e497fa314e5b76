// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// All configuration is loaded from environment variables via [LoadConfig].
// The following environment variables are supported:
//
//   - DATA_DIR: Directory holding the JSON data files (default: /data)
//   - PORT: HTTP listen port (default: 8080)
//   - CACHE_TTL: Image index cache lifetime (default: 5m)
//   - CACHE_TTL_HDD: Cache lifetime when the hdd_friendly setting is on (default: 30m)
//   - MAX_VIDEO_SIZE: Maximum video file size in bytes (default: 500 MiB)
//   - WATCHER_ENABLED: Enable fsnotify-based cache invalidation (default: true)
//   - METRICS_ENABLED: Expose /metrics (default: true)
//   - LOG_LEVEL / DEBUG: Log verbosity
//
// Media folders themselves are runtime configuration managed through the
// store package (config.json), not environment variables.
package startup
