package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homefeed/internal/feed"
	"homefeed/internal/handlers"
	"homefeed/internal/imagecache"
	"homefeed/internal/logging"
	"homefeed/internal/metrics"
	"homefeed/internal/middleware"
	"homefeed/internal/seen"
	"homefeed/internal/startup"
	"homefeed/internal/store"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Initialize JSON stores
	storeStart := time.Now()
	st := store.New(config.ConfigPath, config.FavoritesPath, config.TrashPath, config.SeenPath)
	startup.LogStoreInit(time.Since(storeStart))

	// Initialize image index cache
	startup.LogCacheInit(config.CacheTTL)
	cache := imagecache.New(st, imagecache.Options{
		TTL:           config.CacheTTL,
		TTLHDD:        config.CacheTTLHDD,
		MaxVideoSize:  config.MaxVideoSize,
		ExifCachePath: config.ExifCachePath,
	})

	// Start folder watcher
	var watcher *imagecache.Watcher
	if config.WatcherEnabled {
		watcher = imagecache.NewWatcher(cache, st.Folders)
		dirs, err := watcher.Start()
		if err != nil {
			logging.Warn("Folder watcher unavailable, relying on TTL invalidation: %v", err)
			watcher = nil
		} else {
			startup.LogWatcherStarted(dirs)
		}
	}

	// Initialize seen tracker and library
	tracker := seen.New(st)
	library := feed.NewLibrary(cache, st)

	if config.MetricsEnabled {
		metrics.InitializeMetrics()
	}

	// Initialize handlers
	h := handlers.New(st, cache, library, tracker, watcher, config)

	// Setup router
	router := setupRouter(h, config)
	startup.LogHTTPRoutes(router)

	// Apply metrics middleware
	var handler http.Handler = router
	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	handler = middleware.Logger(loggingConfig)(handler)

	// Apply compression middleware
	handler = middleware.Compression(middleware.DefaultCompressionConfig())(handler)

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, watcher, tracker)

	// Start server
	startup.LogServerStarted(config.Port, time.Since(startTime))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, config *startup.Config) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	if config.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	// Media streaming
	r.HandleFunc("/media", h.ServeMedia).Methods("GET")

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/images", h.GetImages).Methods("GET")
	api.HandleFunc("/cache/invalidate", h.InvalidateCache).Methods("POST")

	// Folders
	api.HandleFunc("/folders", h.GetFolders).Methods("GET")
	api.HandleFunc("/folder/images", h.GetFolderImages).Methods("GET")
	api.HandleFunc("/folders", h.AddFolder).Methods("POST")
	api.HandleFunc("/folders", h.RemoveFolder).Methods("DELETE")
	api.HandleFunc("/folders/leaf", h.GetLeafFolders).Methods("GET")

	// Favorites
	api.HandleFunc("/favorites", h.GetFavorites).Methods("GET")
	api.HandleFunc("/favorites", h.AddFavorite).Methods("POST")
	api.HandleFunc("/favorites", h.RemoveFavorite).Methods("DELETE")
	api.HandleFunc("/favorites/check", h.CheckFavorite).Methods("GET")
	api.HandleFunc("/favorites/images", h.GetFavoriteImages).Methods("GET")

	// Trash
	api.HandleFunc("/trash", h.GetTrash).Methods("GET")
	api.HandleFunc("/trash", h.AddTrash).Methods("POST")
	api.HandleFunc("/trash", h.RemoveTrash).Methods("DELETE")
	api.HandleFunc("/trash/count", h.GetTrashCount).Methods("GET")
	api.HandleFunc("/trash/images", h.GetTrashImages).Methods("GET")
	api.HandleFunc("/trash/empty", h.EmptyTrash).Methods("POST")

	// Seen tracking
	api.HandleFunc("/seen/batch", h.MarkSeenBatch).Methods("POST")
	api.HandleFunc("/seen/stats", h.GetSeenStats).Methods("GET")
	api.HandleFunc("/seen", h.ResetSeen).Methods("DELETE")
	api.HandleFunc("/unseen/images", h.GetUnseenImages).Methods("GET")

	// Settings
	api.HandleFunc("/settings", h.GetSettings).Methods("GET")
	api.HandleFunc("/settings", h.UpdateSettings).Methods("POST")

	// Static files
	r.PathPrefix("/").Handler(http.FileServer(http.Dir("./static")))

	return r
}

func handleShutdown(srv *http.Server, watcher *imagecache.Watcher, tracker *seen.Tracker) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if watcher != nil {
		startup.LogShutdownStep("Stopping folder watcher")
		watcher.Stop()
		startup.LogShutdownStepComplete("Folder watcher stopped")
	}

	startup.LogShutdownStep("Flushing seen tracker")
	tracker.Close()
	startup.LogShutdownStepComplete("Seen tracker flushed")

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
