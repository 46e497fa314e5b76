//go:build darwin

package imagecache

import (
	"os"
	"syscall"
)

// fileCtime returns the inode change time as a Unix timestamp, or 0 when
// unavailable.
func fileCtime(info os.FileInfo) int64 {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return st.Ctimespec.Sec
	}
	return 0
}
