package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homefeed_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "homefeed_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "homefeed_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Image index cache metrics
var (
	CacheScansTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homefeed_cache_scans_total",
			Help: "Total number of full library rescans",
		},
	)

	CacheScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "homefeed_cache_scan_duration_seconds",
			Help:    "Duration of full library rescans in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homefeed_cache_requests_total",
			Help: "Image list requests served from cache vs rescan",
		},
		[]string{"result"}, // "hit", "miss"
	)

	CacheInvalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homefeed_cache_invalidations_total",
			Help: "Cache invalidations by reason",
		},
		[]string{"reason"}, // "explicit", "ttl", "folder_mtime", "folder_set", "date_source", "watcher"
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "homefeed_cache_entries",
			Help: "Number of media entries in the image index cache",
		},
	)

	CacheSkippedFolders = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homefeed_cache_skipped_folders_total",
			Help: "Configured folders skipped during scans because they were unreadable",
		},
	)

	ExifCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homefeed_exif_cache_lookups_total",
			Help: "Persistent EXIF date cache lookups",
		},
		[]string{"result"}, // "hit", "miss"
	)
)

// Watcher metrics
var (
	WatcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homefeed_watcher_events_total",
			Help: "Filesystem watcher events by type",
		},
		[]string{"type"},
	)

	WatcherErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homefeed_watcher_errors_total",
			Help: "Filesystem watcher errors",
		},
	)

	WatchedDirectories = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "homefeed_watcher_directories",
			Help: "Number of directories currently watched",
		},
	)
)

// Store metrics
var (
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homefeed_store_operations_total",
			Help: "JSON store operations",
		},
		[]string{"file", "operation", "status"},
	)

	StoreWriteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "homefeed_store_write_duration_seconds",
			Help:    "Duration of locked JSON store writes in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"file"},
	)
)

// Seen tracker metrics
var (
	SeenMarksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homefeed_seen_marks_total",
			Help: "Total number of items recorded as seen",
		},
	)

	SeenMarksSuppressed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homefeed_seen_marks_suppressed_total",
			Help: "Seen marks dropped because recording was suppressed",
		},
	)

	SeenFlushesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homefeed_seen_flushes_total",
			Help: "Seen batch flushes by trigger",
		},
		[]string{"trigger"}, // "count", "interval", "explicit", "close"
	)

	SeenBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "homefeed_seen_batch_size",
			Help:    "Number of paths written per seen batch flush",
			Buckets: []float64{1, 5, 10, 20, 50, 100, 250},
		},
	)

	SeenPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "homefeed_seen_pending",
			Help: "Seen marks buffered and not yet flushed",
		},
	)
)
