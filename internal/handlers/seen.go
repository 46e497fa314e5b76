package handlers

import (
	"encoding/json"
	"net/http"
)

// SeenBatchRequest is the body for batched seen marks.
type SeenBatchRequest struct {
	Paths []string `json:"paths"`
}

// MarkSeenBatch queues a batch of paths as seen. Marks are buffered and
// persisted asynchronously, so this always returns quickly; while trash
// review is active the marks are dropped.
func (h *Handlers) MarkSeenBatch(w http.ResponseWriter, r *http.Request) {
	var req SeenBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Paths) == 0 {
		writeJSONError(w, "Paths are required", http.StatusBadRequest)
		return
	}

	h.tracker.MarkBatch(req.Paths)

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]interface{}{
		"status": "ok",
		"queued": len(req.Paths),
	})
}

// GetSeenStats summarizes the seen history against the current library size.
func (h *Handlers) GetSeenStats(w http.ResponseWriter, _ *http.Request) {
	total := len(h.cache.All(""))
	stats := h.store.SeenStats(total)

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, stats)
}

// ResetSeen clears the entire seen history. Buffered marks are flushed first
// so the reset leaves nothing in flight to resurrect old entries.
func (h *Handlers) ResetSeen(w http.ResponseWriter, _ *http.Request) {
	h.tracker.Flush()

	if err := h.store.ResetSeen(); err != nil {
		writeJSONError(w, "Failed to reset seen history", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, "ok")
}

// GetUnseenImages returns the feed minus everything already seen. An empty
// list is a valid response meaning the whole library has been seen.
func (h *Handlers) GetUnseenImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.library.UnseenImages(r.Context())
	if err != nil {
		writeJSONError(w, "Failed to load unseen images", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, ImagesResponse{Images: images, Count: len(images)})
}
