package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"homefeed/internal/mediatypes"
)

// ImagesResponse is the payload for list endpoints.
type ImagesResponse struct {
	Images []string `json:"images"`
	Count  int      `json:"count"`
}

// GetImages returns the full sorted feed, or one folder's slice of it when
// the folder query parameter is set. The order parameter accepts newest or
// oldest and defaults to the configured sort_order.
func (h *Handlers) GetImages(w http.ResponseWriter, r *http.Request) {
	order, ok := resolveOrder(r)
	if !ok {
		writeJSONError(w, "Invalid order, must be newest or oldest", http.StatusBadRequest)
		return
	}

	var images []string
	if folder := r.URL.Query().Get("folder"); folder != "" {
		images = h.cache.ByFolder(folder, order)
	} else {
		images = h.cache.All(order)
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, ImagesResponse{Images: images, Count: len(images)})
}

// InvalidateCache forces the next feed read to rescan the folders.
func (h *Handlers) InvalidateCache(w http.ResponseWriter, _ *http.Request) {
	h.cache.Invalidate("explicit")
	writeJSONStatus(w, "ok")
}

// ServeMedia streams a media file. The path must resolve inside a configured
// folder or be tracked by favorites or trash. Range requests are honored so
// video seeking works.
func (h *Handlers) ServeMedia(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSONError(w, "Path is required", http.StatusBadRequest)
		return
	}

	if !h.pathAllowed(path) {
		writeJSONError(w, "Path not allowed", http.StatusForbidden)
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		writeJSONError(w, "File not found", http.StatusNotFound)
		return
	}

	ext := strings.ToLower(filepath.Ext(path))
	w.Header().Set("Content-Type", mediatypes.MimeType(ext))
	http.ServeFile(w, r, path)
}
