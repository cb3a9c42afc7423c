package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/TechnicallyShaun/acta-orbis/internal/fsops"
	"github.com/TechnicallyShaun/acta-orbis/internal/logging"
	"github.com/TechnicallyShaun/acta-orbis/internal/report"
)

// Organizer relocates files whose names already carry a YYYY_MM_DD date
// into a per-year output tree, merging into an existing unit when one
// is already there for the same date. The file's name stands in for the
// boundary line and its content for the segment body.
type Organizer struct {
	OutputRoot string
	Logger     logging.Logger
	Now        func() time.Time
}

// OrganizeDir processes every file directly inside inputDir. Files
// without a valid date in their name are skipped. Failures are isolated
// per file: the source is left in place and the run continues.
func (o *Organizer) OrganizeDir(inputDir string) (*report.Summary, error) {
	logger := o.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	summary := report.NewSummary()

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return summary, fmt.Errorf("read input directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		srcPath := filepath.Join(inputDir, name)

		boundary, detectErr := DetectBoundary(name)
		if boundary == nil {
			summary.Skipped++
			if detectErr != nil {
				logger.Error("invalid date in filename, skipping", detectErr,
					logging.String("file", name),
				)
			} else {
				logger.Debug("no date in filename, skipping",
					logging.String("file", name),
				)
			}
			continue
		}

		resolver := &Resolver{
			OutputRoot: o.OutputRoot,
			Ext:        filepath.Ext(name),
			YearDirs:   true,
			Now:        o.Now,
			Logger:     logger,
		}
		target := resolver.TargetPath(boundary.DateKey())

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			summary.Errors++
			logger.Error("failed to create year directory", err,
				logging.String("file", name),
			)
			continue
		}

		if _, err := os.Stat(target); err == nil {
			if err := o.mergeFile(resolver, target, srcPath, name); err != nil {
				summary.Errors++
				logger.Error("merge failed, source left in place", err,
					logging.String("file", name),
					logging.String("target", target),
				)
				continue
			}
			summary.Merged++
			logger.Info("merged and removed source",
				logging.String("file", name),
				logging.String("target", target),
			)
		} else if !os.IsNotExist(err) {
			summary.Errors++
			logger.Error("failed to stat target", err, logging.String("file", name))
		} else {
			if err := fsops.MoveFile(srcPath, target); err != nil {
				summary.Errors++
				logger.Error("move failed", err,
					logging.String("file", name),
					logging.String("target", target),
				)
				continue
			}
			summary.Moved++
			logger.Info("moved file",
				logging.String("file", name),
				logging.String("target", target),
			)
		}
	}

	return summary, nil
}

// mergeFile appends the source file's content to the existing target
// behind a merge marker, then deletes the source. The source survives
// any failure before the append is confirmed.
func (o *Organizer) mergeFile(resolver *Resolver, target, srcPath, name string) error {
	content, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	if err := resolver.MergeContent(target, name, content); err != nil {
		return err
	}

	if err := os.Remove(srcPath); err != nil {
		return fmt.Errorf("remove merged source: %w", err)
	}
	return nil
}
