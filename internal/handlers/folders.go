package handlers

import (
	"encoding/json"
	"net/http"
)

// FolderRequest is the body for folder add and remove operations.
type FolderRequest struct {
	Path string `json:"path"`
}

// FoldersResponse lists the configured folder roots.
type FoldersResponse struct {
	Folders []string `json:"folders"`
	Count   int      `json:"count"`
}

// GetFolders returns the configured media folder roots.
func (h *Handlers) GetFolders(w http.ResponseWriter, _ *http.Request) {
	folders := h.store.Folders()
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, FoldersResponse{Folders: folders, Count: len(folders)})
}

// AddFolder adds a folder root to the configuration, invalidates the image
// cache, and points the folder watcher at the new set.
func (h *Handlers) AddFolder(w http.ResponseWriter, r *http.Request) {
	var req FolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		writeJSONError(w, "Path is required", http.StatusBadRequest)
		return
	}

	folders, err := h.store.AddFolder(req.Path)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.onFolderSetChanged()

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, FoldersResponse{Folders: folders, Count: len(folders)})
}

// RemoveFolder removes a folder root from the configuration. Favorites
// pointing into the removed folder are kept in case it is re-added.
func (h *Handlers) RemoveFolder(w http.ResponseWriter, r *http.Request) {
	var req FolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		writeJSONError(w, "Path is required", http.StatusBadRequest)
		return
	}

	folders, err := h.store.RemoveFolder(req.Path)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.onFolderSetChanged()

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, FoldersResponse{Folders: folders, Count: len(folders)})
}

// GetFolderImages returns one folder's slice of the feed, optionally
// filtered to favorites for the folder+favorites compound view.
func (h *Handlers) GetFolderImages(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSONError(w, "Path is required", http.StatusBadRequest)
		return
	}
	order, ok := resolveOrder(r)
	if !ok {
		writeJSONError(w, "Invalid order, must be newest or oldest", http.StatusBadRequest)
		return
	}

	var (
		images []string
		err    error
	)
	if r.URL.Query().Get("favorites") == "true" {
		images, err = h.library.FavoriteFolderImages(r.Context(), path)
		if err != nil {
			writeJSONError(w, "Failed to load folder favorites", http.StatusInternalServerError)
			return
		}
	} else {
		images = h.cache.ByFolder(path, order)
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, ImagesResponse{Images: images, Count: len(images)})
}

// GetLeafFolders returns folders that directly contain media, with counts
// and newest effective dates, ordered like the feed.
func (h *Handlers) GetLeafFolders(w http.ResponseWriter, r *http.Request) {
	order, ok := resolveOrder(r)
	if !ok {
		writeJSONError(w, "Invalid order, must be newest or oldest", http.StatusBadRequest)
		return
	}

	leaves := h.cache.LeafFolders(order)
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]interface{}{
		"folders": leaves,
		"count":   len(leaves),
	})
}

func (h *Handlers) onFolderSetChanged() {
	h.cache.Invalidate("folder_set")
	if h.watcher != nil {
		h.watcher.Rewatch()
	}
}
