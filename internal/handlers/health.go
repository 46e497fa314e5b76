package handlers

import (
	"net/http"
	"runtime"
	"time"

	"homefeed/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status     string `json:"status"`
	Ready      bool   `json:"ready"`
	Version    string `json:"version"`
	Uptime     string `json:"uptime"`
	Folders    int    `json:"folders"`
	CacheSize  int    `json:"cacheSize"`
	CacheScans int64  `json:"cacheScans"`
	CacheBuilt string `json:"cacheBuilt,omitempty"`
	DateSource string `json:"dateSource,omitempty"`

	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service. The service is
// ready once the image cache has completed at least one scan; the first
// scan happens lazily on the first feed request, so a fresh process reports
// starting until then.
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	info := h.cache.Info()

	response := HealthResponse{
		Ready:        info.Scans > 0,
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		Folders:      len(h.store.Folders()),
		CacheSize:    info.Entries,
		CacheScans:   info.Scans,
		DateSource:   info.DateSource,
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	if response.Ready {
		response.Status = statusHealthy
	} else {
		response.Status = statusStarting
	}

	if !info.BuiltAt.IsZero() {
		response.CacheBuilt = info.BuiltAt.Format("2006-01-02T15:04:05Z07:00")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}

// ReadinessCheck returns 200 once the data directory stores are reachable.
// Configuration with zero folders is still ready; the feed is just empty.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	writeJSON(w, map[string]string{
		"status": "ready",
	})
}
