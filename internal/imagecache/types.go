package imagecache

import (
	"time"

	"homefeed/internal/mediatypes"
)

// Entry is one media file discovered during a scan.
type Entry struct {
	Path          string          `json:"path"`
	EffectiveDate int64           `json:"effectiveDate"`
	Kind          mediatypes.Kind `json:"kind"`
}

// FolderInfo describes a leaf folder: a folder that directly contains at
// least one media file.
type FolderInfo struct {
	Path       string `json:"path"`
	Name       string `json:"name"`
	Count      int    `json:"count"`
	NewestDate int64  `json:"newestDate"`
}

// Info is a snapshot of cache state for health reporting.
type Info struct {
	Entries    int       `json:"entries"`
	BuiltAt    time.Time `json:"builtAt"`
	DateSource string    `json:"dateSource"`
	Scans      int64     `json:"scans"`
}
