package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"homefeed/internal/logging"

	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Config holds all application configuration
type Config struct {
	DataDir        string
	Port           string
	CacheTTL       time.Duration
	CacheTTLHDD    time.Duration
	MaxVideoSize   int64
	WatcherEnabled bool
	LogStaticFiles bool
	MetricsEnabled bool

	// Derived paths
	ConfigPath    string
	FavoritesPath string
	TrashPath     string
	SeenPath      string
	ExifCachePath string
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	dataDir := getEnv("DATA_DIR", "/data")
	port := getEnv("PORT", "8080")
	cacheTTLStr := getEnv("CACHE_TTL", "5m")
	cacheTTLHDDStr := getEnv("CACHE_TTL_HDD", "30m")
	maxVideoSize := getEnvInt64("MAX_VIDEO_SIZE", 500*1024*1024)
	watcherEnabled := getEnvBool("WATCHER_ENABLED", true)
	logStaticFiles := getEnvBool("LOG_STATIC_FILES", false)
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)

	logging.Info("  DATA_DIR:        %s", dataDir)
	logging.Info("  PORT:            %s", port)
	logging.Info("  CACHE_TTL:       %s", cacheTTLStr)
	logging.Info("  CACHE_TTL_HDD:   %s", cacheTTLHDDStr)
	logging.Info("  MAX_VIDEO_SIZE:  %d", maxVideoSize)
	logging.Info("  WATCHER_ENABLED: %v", watcherEnabled)
	logging.Info("  METRICS_ENABLED: %v", metricsEnabled)
	logging.Info("  LOG_LEVEL:       %s", logging.GetLevel())

	cacheTTL, err := time.ParseDuration(cacheTTLStr)
	if err != nil {
		logging.Warn("  Invalid CACHE_TTL, using default: 5m")
		cacheTTL = 5 * time.Minute
	}

	cacheTTLHDD, err := time.ParseDuration(cacheTTLHDDStr)
	if err != nil {
		logging.Warn("  Invalid CACHE_TTL_HDD, using default: 30m")
		cacheTTLHDD = 30 * time.Minute
	}

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	dataDir, err = filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	logging.Info("  Data directory (absolute): %s", dataDir)

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := testWriteAccess(dataDir); err != nil {
		return nil, fmt.Errorf("data directory is not writable: %w", err)
	}
	logging.Info("  [OK] Data directory is writable")

	config := &Config{
		DataDir:        dataDir,
		Port:           port,
		CacheTTL:       cacheTTL,
		CacheTTLHDD:    cacheTTLHDD,
		MaxVideoSize:   maxVideoSize,
		WatcherEnabled: watcherEnabled,
		LogStaticFiles: logStaticFiles,
		MetricsEnabled: metricsEnabled,
		ConfigPath:     filepath.Join(dataDir, "config.json"),
		FavoritesPath:  filepath.Join(dataDir, "favorites.json"),
		TrashPath:      filepath.Join(dataDir, "trash.json"),
		SeenPath:       filepath.Join(dataDir, "seen.json"),
		ExifCachePath:  filepath.Join(dataDir, "exif-dates.json"),
	}

	return config, nil
}

func printBanner() {
	logging.Printf("============================================================")
	logging.Printf("HomeFeed %s (%s)", Version, Commit)
	logging.Printf("============================================================")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt64(key string, fallback int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	return os.Remove(testFile)
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// LogStoreInit logs store initialization
func LogStoreInit(duration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("STORE INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  [OK] JSON stores initialized in %v", duration)
}

// LogCacheInit logs image index cache initialization
func LogCacheInit(ttl time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("IMAGE INDEX CACHE")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Cache TTL: %v", ttl)
}

// LogWatcherStarted logs successful watcher start
func LogWatcherStarted(dirs int) {
	logging.Info("  [OK] Folder watcher started (%d directories)", dirs)
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			// Route might not have methods specified (e.g., static file server)
			methods = []string{"*"}
		}

		name := route.GetName()

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   name,
			})
		}

		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes dynamically
func LogHTTPRoutes(router *mux.Router) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))
		for _, route := range routes {
			logging.Debug("    %-7s %s", route.Method, route.Path)
		}
	}
}

// LogServerStarted logs successful server startup
func LogServerStarted(port string, elapsed time.Duration) {
	logging.Info("")
	logging.Info("============================================================")
	logging.Info("SERVER READY on port %s (startup took %v)", port, elapsed)
	logging.Info("============================================================")
}

// LogShutdownInitiated logs the start of graceful shutdown
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN (signal: %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Info("  %s...", step)
}

// LogShutdownStepComplete logs completion of a shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs the completion of shutdown
func LogShutdownComplete() {
	logging.Info("Shutdown complete")
}
