package metrics

// InitializeMetrics pre-populates expected label combinations so that every
// metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, result := range []string{"hit", "miss"} {
		CacheRequestsTotal.WithLabelValues(result)
		ExifCacheLookups.WithLabelValues(result)
	}

	for _, reason := range []string{"explicit", "ttl", "folder_mtime", "folder_set", "date_source", "watcher"} {
		CacheInvalidationsTotal.WithLabelValues(reason)
	}

	for _, eventType := range []string{"create", "write", "remove", "rename", "chmod", "unknown"} {
		WatcherEventsTotal.WithLabelValues(eventType)
	}

	for _, trigger := range []string{"count", "interval", "explicit", "close"} {
		SeenFlushesTotal.WithLabelValues(trigger)
	}

	files := []string{"config", "favorites", "trash", "seen"}
	ops := []string{"load", "save"}
	for _, file := range files {
		StoreWriteDuration.WithLabelValues(file)
		for _, op := range ops {
			for _, status := range []string{"success", "error"} {
				StoreOperationsTotal.WithLabelValues(file, op, status)
			}
		}
	}
}
