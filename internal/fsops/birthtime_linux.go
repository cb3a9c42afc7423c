//go:build linux

package fsops

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// BirthTime returns the creation time of the file at path.
// Linux exposes the birth time via statx on filesystems that record it;
// when it is unavailable the modification time is used instead.
func BirthTime(path string) (time.Time, error) {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME, &stx)
	if err == nil && stx.Mask&unix.STATX_BTIME != 0 && stx.Btime.Sec != 0 {
		return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec)), nil
	}

	info, statErr := os.Stat(path)
	if statErr != nil {
		return time.Time{}, statErr
	}
	return info.ModTime(), nil
}
