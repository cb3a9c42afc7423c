package files

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/TechnicallyShaun/acta-orbis/internal/fsops"
	"github.com/TechnicallyShaun/acta-orbis/internal/logging"
	"github.com/TechnicallyShaun/acta-orbis/internal/report"
)

// DirMerger folds one directory tree into another. Files already
// present at the destination with the same size are treated as
// duplicates and deleted from the input; everything else is moved,
// recreating the sub-directory structure as needed.
type DirMerger struct {
	Logger logging.Logger
}

// Merge processes every file under inputDir. Per-file failures are
// logged and counted; the run continues. Emptied input directories are
// pruned at the end.
func (m *DirMerger) Merge(inputDir, outputDir string) (*report.Summary, error) {
	logger := m.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	summary := report.NewSummary()

	if _, err := os.Stat(inputDir); err != nil {
		return summary, fmt.Errorf("stat input directory: %w", err)
	}

	var paths []string
	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !info.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("walk input: %w", err)
	}

	for _, srcPath := range paths {
		rel, err := filepath.Rel(inputDir, srcPath)
		if err != nil {
			summary.Errors++
			logger.Error("failed to resolve relative path", err, logging.String("file", srcPath))
			continue
		}
		dstPath := filepath.Join(outputDir, rel)

		if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
			summary.Errors++
			logger.Error("failed to create destination directory", err, logging.String("file", srcPath))
			continue
		}

		dstInfo, statErr := os.Stat(dstPath)
		if statErr == nil {
			srcInfo, err := os.Stat(srcPath)
			if err != nil {
				summary.Errors++
				logger.Error("failed to stat source", err, logging.String("file", srcPath))
				continue
			}

			if srcInfo.Size() == dstInfo.Size() {
				// Same name and size: duplicate, drop the input copy
				if err := os.Remove(srcPath); err != nil {
					summary.Errors++
					logger.Error("failed to remove duplicate", err, logging.String("file", srcPath))
					continue
				}
				summary.Merged++
				logger.Info("removed duplicate", logging.String("file", srcPath))
				continue
			}

			// Same name, different size: input version wins
			logger.Info("conflicting sizes, replacing destination",
				logging.String("file", srcPath),
				logging.Int64("src_size", srcInfo.Size()),
				logging.Int64("dst_size", dstInfo.Size()),
			)
		} else if !os.IsNotExist(statErr) {
			summary.Errors++
			logger.Error("failed to stat destination", statErr, logging.String("file", dstPath))
			continue
		}

		if err := fsops.MoveFile(srcPath, dstPath); err != nil {
			summary.Errors++
			logger.Error("move failed", err, logging.String("file", srcPath))
			continue
		}
		summary.Moved++
		logger.Info("moved file",
			logging.String("file", srcPath),
			logging.String("target", dstPath),
		)
	}

	removed, err := fsops.RemoveEmptyDirs(inputDir)
	if err != nil {
		logger.Error("failed to prune empty directories", err)
	}
	for _, dir := range removed {
		logger.Debug("removed empty directory", logging.String("dir", dir))
	}

	return summary, nil
}
