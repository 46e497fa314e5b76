// Package metrics provides Prometheus instrumentation for the HomeFeed
// application.
//
// This package defines and exposes various metrics that can be scraped by
// Prometheus to monitor the health, performance, and behavior of the
// application. All metrics are prefixed with "homefeed_" to avoid naming
// collisions with other applications.
//
// Metric categories:
//   - HTTP: request counts, durations, and in-flight requests
//   - Cache: image index rescans, hit/miss ratio, invalidation reasons
//   - Watcher: filesystem event counts and errors
//   - Store: JSON file operations and locked write durations
//   - Seen: batched seen-tracking marks and flushes
package metrics
