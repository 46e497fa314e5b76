package handlers

import (
	"encoding/json"
	"net/http"
)

// FavoriteRequest is the body for favorite add and remove operations.
type FavoriteRequest struct {
	Path string `json:"path"`
}

// GetFavorites returns the favorites list with vanished files pruned.
func (h *Handlers) GetFavorites(w http.ResponseWriter, _ *http.Request) {
	favorites, err := h.store.CleanFavorites()
	if err != nil {
		writeJSONError(w, "Failed to load favorites", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]interface{}{
		"favorites": favorites,
		"count":     len(favorites),
	})
}

// AddFavorite marks a path as favorited, removing it from the trash if
// present. Favorites and trash are mutually exclusive.
func (h *Handlers) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var req FavoriteRequest
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

	if err := h.store.AddFavorite(req.Path); err != nil {
		writeJSONError(w, "Failed to add favorite", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, "ok")
}

// RemoveFavorite unmarks a favorited path.
func (h *Handlers) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	var req FavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		writeJSONError(w, "Path is required", http.StatusBadRequest)
		return
	}

	if err := h.store.RemoveFavorite(req.Path); err != nil {
		writeJSONError(w, "Failed to remove favorite", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, "ok")
}

// CheckFavorite reports whether a path is currently favorited.
func (h *Handlers) CheckFavorite(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSONError(w, "Path is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]bool{"isFavorite": h.store.IsFavorite(path)})
}

// GetFavoriteImages returns favorited items in feed order, optionally
// restricted to one folder.
func (h *Handlers) GetFavoriteImages(w http.ResponseWriter, r *http.Request) {
	var (
		images []string
		err    error
	)
	if folder := r.URL.Query().Get("folder"); folder != "" {
		images, err = h.library.FavoriteFolderImages(r.Context(), folder)
	} else {
		images, err = h.library.FavoriteImages(r.Context())
	}
	if err != nil {
		writeJSONError(w, "Failed to load favorites", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, ImagesResponse{Images: images, Count: len(images)})
}
