package handlers

import (
	"encoding/json"
	"net/http"

	"homefeed/internal/store"
)

// TrashRequest is the body for trash add and remove operations.
type TrashRequest struct {
	Path string `json:"path"`
}

// EmptyTrashResponse reports the result of permanently deleting trashed files.
type EmptyTrashResponse struct {
	Deleted int               `json:"deleted"`
	Errors  []store.PathError `json:"errors,omitempty"`
}

// GetTrash returns the trash list with vanished files pruned.
func (h *Handlers) GetTrash(w http.ResponseWriter, _ *http.Request) {
	trash, err := h.store.CleanTrash()
	if err != nil {
		writeJSONError(w, "Failed to load trash", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]interface{}{
		"trash": trash,
		"count": len(trash),
	})
}

// GetTrashCount returns the number of trashed items, used for the badge on
// the trash control.
func (h *Handlers) GetTrashCount(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]int{"count": len(h.store.Trash())})
}

// GetTrashImages returns trashed items newest-modified first for review.
func (h *Handlers) GetTrashImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.library.TrashImages(r.Context())
	if err != nil {
		writeJSONError(w, "Failed to load trash", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, ImagesResponse{Images: images, Count: len(images)})
}

// AddTrash marks a path for deletion, removing it from favorites if present.
func (h *Handlers) AddTrash(w http.ResponseWriter, r *http.Request) {
	var req TrashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		writeJSONError(w, "Path is required", http.StatusBadRequest)
		return
	}
	if !h.pathAllowed(req.Path) {
		writeJSONError(w, "Path not allowed", http.StatusForbidden)
		return
	}

	if err := h.store.AddTrash(req.Path); err != nil {
		writeJSONError(w, "Failed to add to trash", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, "ok")
}

// RemoveTrash unmarks a path for deletion.
func (h *Handlers) RemoveTrash(w http.ResponseWriter, r *http.Request) {
	var req TrashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		writeJSONError(w, "Path is required", http.StatusBadRequest)
		return
	}

	if err := h.store.RemoveTrash(req.Path); err != nil {
		writeJSONError(w, "Failed to remove from trash", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, "ok")
}

// EmptyTrash permanently deletes every trashed file and invalidates the
// image cache so deleted files drop out of the feed immediately. Per-file
// failures are reported alongside the successes.
func (h *Handlers) EmptyTrash(w http.ResponseWriter, _ *http.Request) {
	deleted, pathErrs, err := h.store.EmptyTrash()
	if err != nil {
		writeJSONError(w, "Failed to empty trash", http.StatusInternalServerError)
		return
	}

	if deleted > 0 {
		h.cache.Invalidate("explicit")
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, EmptyTrashResponse{Deleted: deleted, Errors: pathErrs})
}
