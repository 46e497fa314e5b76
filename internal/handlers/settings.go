package handlers

import (
	"encoding/json"
	"net/http"

	"homefeed/internal/store"
)

// SettingsRequest carries a partial settings update. Only the fields present
// in the request body are changed.
type SettingsRequest struct {
	DateSource  *string `json:"date_source"`
	SortOrder   *string `json:"sort_order"`
	HDDFriendly *bool   `json:"hdd_friendly"`
	Shuffle     *bool   `json:"shuffle"`
}

// GetSettings returns the current feed settings.
func (h *Handlers) GetSettings(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, h.store.Settings())
}

// UpdateSettings applies a partial settings update. Changing date_source
// invalidates the image cache since every effective date depends on it.
func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.DateSource != nil && !store.ValidDateSource(*req.DateSource) {
		writeJSONError(w, "Invalid date_source, must be mtime or ctime", http.StatusBadRequest)
		return
	}
	if req.SortOrder != nil && !store.ValidSortOrder(*req.SortOrder) {
		writeJSONError(w, "Invalid sort_order, must be newest or oldest", http.StatusBadRequest)
		return
	}

	cfg := h.store.LoadConfig()
	dateSourceChanged := false

	if req.DateSource != nil && *req.DateSource != cfg.Settings.DateSource {
		cfg.Settings.DateSource = *req.DateSource
		dateSourceChanged = true
	}
	if req.SortOrder != nil {
		cfg.Settings.SortOrder = *req.SortOrder
	}
	if req.HDDFriendly != nil {
		cfg.Settings.HDDFriendly = *req.HDDFriendly
	}
	if req.Shuffle != nil {
		cfg.Settings.Shuffle = *req.Shuffle
	}

	if err := h.store.SaveConfig(cfg); err != nil {
		writeJSONError(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}

	if dateSourceChanged {
		h.cache.Invalidate("date_source")
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, cfg.Settings)
}
