//go:build darwin

package fsops

import (
	"time"

	"golang.org/x/sys/unix"
)

// BirthTime returns the creation time of the file at path.
// macOS records the birth time directly in the stat structure.
func BirthTime(path string) (time.Time, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return time.Time{}, err
	}
	return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec), nil
}
