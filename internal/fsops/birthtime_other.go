//go:build !linux && !darwin

package fsops

import (
	"os"
	"time"
)

// BirthTime returns the creation time of the file at path.
// Platforms without a birth time fall back to the modification time.
func BirthTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
