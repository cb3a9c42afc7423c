// Package files implements the bulk file management commands: sorting
// files into per-extension folders and merging directory trees.
package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/TechnicallyShaun/acta-orbis/internal/fsops"
	"github.com/TechnicallyShaun/acta-orbis/internal/logging"
	"github.com/TechnicallyShaun/acta-orbis/internal/report"
)

// Sorter gathers files of selected extensions from a directory tree
// into per-extension folders at the tree root.
type Sorter struct {
	Logger logging.Logger
}

// SortByExtension moves every file under root whose extension is in
// extensions into <root>/<ext>/. Name collisions get a _N suffix.
// Emptied sub-directories are pruned afterwards.
func (s *Sorter) SortByExtension(root string, extensions []string) (*report.Summary, error) {
	logger := s.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	summary := report.NewSummary()

	info, err := os.Stat(root)
	if err != nil {
		return summary, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return summary, fmt.Errorf("%s is not a directory", root)
	}

	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		if ext == "" {
			continue
		}
		wanted[ext] = true
		targetDir := filepath.Join(root, ext)
		if err := os.MkdirAll(targetDir, 0755); err != nil {
			return summary, fmt.Errorf("create target directory %s: %w", targetDir, err)
		}
	}

	var toMove []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() {
			// Don't descend into the per-extension folders themselves
			if filepath.Dir(path) == root && wanted[strings.ToLower(info.Name())] {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(info.Name()), "."))
		if wanted[ext] {
			toMove = append(toMove, path)
		}
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("walk tree: %w", err)
	}

	for _, srcPath := range toMove {
		name := filepath.Base(srcPath)
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))

		target, err := uniqueTarget(filepath.Join(root, ext), name)
		if err != nil {
			summary.Errors++
			logger.Error("no free target name", err, logging.String("file", srcPath))
			continue
		}

		if srcPath == target {
			continue
		}

		if err := fsops.MoveFile(srcPath, target); err != nil {
			summary.Errors++
			logger.Error("move failed", err, logging.String("file", srcPath))
			continue
		}
		summary.Moved++
		logger.Info("sorted file",
			logging.String("file", srcPath),
			logging.String("target", target),
		)
	}

	removed, err := fsops.RemoveEmptyDirs(root)
	if err != nil {
		logger.Error("failed to prune empty directories", err)
	}
	for _, dir := range removed {
		logger.Debug("removed empty directory", logging.String("dir", dir))
	}

	return summary, nil
}

// uniqueTarget returns a path in dir for name, appending _1, _2, ...
// before the extension until the name is free.
func uniqueTarget(dir, name string) (string, error) {
	target := filepath.Join(dir, name)
	if _, err := os.Stat(target); os.IsNotExist(err) {
		return target, nil
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	for i := 1; i <= 10000; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, i, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("too many collisions for %s", name)
}
