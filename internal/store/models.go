package store

// Date source policies for the filesystem-date fallback.
const (
	DateSourceMTime = "mtime"
	DateSourceCTime = "ctime"
)

// Sort orders for the feed.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
)

// Settings holds the user-tunable feed settings stored in config.json.
type Settings struct {
	DateSource  string `json:"date_source"`
	SortOrder   string `json:"sort_order"`
	HDDFriendly bool   `json:"hdd_friendly"`
	Shuffle     bool   `json:"shuffle"`
}

// DefaultSettings returns the settings applied when config.json is missing
// or a field is unset.
func DefaultSettings() Settings {
	return Settings{
		DateSource: DateSourceMTime,
		SortOrder:  SortNewest,
	}
}

// Config is the persisted folder configuration plus settings.
type Config struct {
	Folders  []string `json:"folders"`
	Settings Settings `json:"settings"`
}

// normalize fills unset settings fields with defaults.
func (c *Config) normalize() {
	if c.Folders == nil {
		c.Folders = []string{}
	}
	if c.Settings.DateSource == "" {
		c.Settings.DateSource = DateSourceMTime
	}
	if c.Settings.SortOrder == "" {
		c.Settings.SortOrder = SortNewest
	}
}

// ValidDateSource reports whether s is an accepted date_source value.
func ValidDateSource(s string) bool {
	return s == DateSourceMTime || s == DateSourceCTime
}

// ValidSortOrder reports whether s is an accepted sort_order value.
func ValidSortOrder(s string) bool {
	return s == SortNewest || s == SortOldest
}

// SeenEntry records when and how often a single media path was seen.
type SeenEntry struct {
	FirstSeen int64 `json:"first_seen"`
	LastSeen  int64 `json:"last_seen"`
	SeenCount int   `json:"seen_count"`
}

// SeenData is the full seen history persisted in seen.json.
type SeenData struct {
	Seen         map[string]SeenEntry `json:"seen"`
	TotalScrolls int                  `json:"total_scrolls"`
}

// SeenStats summarizes the seen history against the current library size.
type SeenStats struct {
	SeenCount    int     `json:"seen_count"`
	TotalCount   int     `json:"total_count"`
	TotalScrolls int     `json:"total_scrolls"`
	PercentSeen  float64 `json:"percent_seen"`
}

// PathError reports a per-file failure from a bulk operation such as
// emptying the trash.
type PathError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// File wrappers matching the on-disk JSON document shapes.

type favoritesFile struct {
	Favorites []string `json:"favorites"`
}

type trashFile struct {
	Trash []string `json:"trash"`
}
