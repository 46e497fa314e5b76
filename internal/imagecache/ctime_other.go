//go:build !linux && !darwin

package imagecache

import "os"

// fileCtime is unavailable on this platform; callers fall back to mtime.
func fileCtime(_ os.FileInfo) int64 {
	return 0
}
