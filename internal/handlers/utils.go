package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"homefeed/internal/logging"
	"homefeed/internal/store"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"error": message})
}

// writeJSONStatus writes a simple status response as JSON.
func writeJSONStatus(w http.ResponseWriter, status string) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"status": status})
}

// pathAllowed reports whether path lives under one of the configured media
// folders. Paths already tracked in the favorites or trash lists remain
// reachable even after their folder is removed from the configuration.
func (h *Handlers) pathAllowed(path string) bool {
	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) || strings.Contains(clean, "..") {
		return false
	}

	for _, folder := range h.store.Folders() {
		if underFolder(clean, folder) {
			return true
		}
	}

	for _, p := range h.store.Favorites() {
		if p == clean {
			return true
		}
	}
	for _, p := range h.store.Trash() {
		if p == clean {
			return true
		}
	}
	return false
}

func underFolder(path, folder string) bool {
	rel, err := filepath.Rel(filepath.Clean(folder), path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// resolveOrder validates an order query parameter. Empty means the
// configured sort_order setting.
func resolveOrder(r *http.Request) (string, bool) {
	order := r.URL.Query().Get("order")
	if order == "" || store.ValidSortOrder(order) {
		return order, true
	}
	return "", false
}
