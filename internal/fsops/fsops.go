// Package fsops provides filesystem primitives shared by the file
// management commands: safe move, copy, and empty-directory pruning.
package fsops

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// ErrSourceNotFound is returned when the source file does not exist.
var ErrSourceNotFound = errors.New("source file not found")

// CopyFile copies src to dst, preserving the file mode.
// The destination is truncated if it already exists.
func CopyFile(src, dst string, mode os.FileMode) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	// Ensure data is flushed to disk
	return dstFile.Sync()
}

// MoveFile moves src to dst. It tries a rename first and falls back to
// copy-then-delete when the rename fails (e.g. across filesystems).
// The source is removed only after a successful copy.
func MoveFile(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrSourceNotFound
		}
		return err
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := CopyFile(src, dst, srcInfo.Mode()); err != nil {
		return err
	}

	return os.Remove(src)
}

// RemoveEmptyDirs removes directories under root that contain no files,
// deepest first. The root itself is never removed.
func RemoveEmptyDirs(root string) (removed []string, err error) {
	var dirs []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Deepest paths first so emptied parents are caught in the same pass
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })

	for _, dir := range dirs {
		entries, readErr := os.ReadDir(dir)
		if readErr != nil {
			continue
		}
		if len(entries) == 0 {
			if rmErr := os.Remove(dir); rmErr == nil {
				removed = append(removed, dir)
			}
		}
	}

	return removed, nil
}
