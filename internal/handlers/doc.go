// Package handlers implements the HTTP API: the sorted image feed, media
// streaming, folder configuration, favorites, trash, seen tracking,
// settings, and health endpoints.
package handlers
