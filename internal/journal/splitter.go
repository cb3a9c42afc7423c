package journal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/TechnicallyShaun/acta-orbis/internal/logging"
	"github.com/TechnicallyShaun/acta-orbis/internal/report"
)

// Splitter splits one journal stream into per-date output units.
type Splitter struct {
	Resolver *Resolver
	Logger   logging.Logger
	// DeleteSource removes the input file after a run in which every
	// segment was persisted. A run with any failed segment leaves the
	// input untouched so it can be retried.
	DeleteSource bool
}

// SplitFile processes inputPath to completion. The returned summary
// counts created and merged output units; per-segment failures are
// reported there rather than as an error. The error is non-nil only
// when the input itself cannot be read.
func (s *Splitter) SplitFile(inputPath string) (*report.Summary, error) {
	logger := s.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	summary := report.NewSummary()

	f, err := os.Open(inputPath)
	if err != nil {
		return summary, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	scanner := &Scanner{
		Source: filepath.Base(inputPath),
		Logger: logger,
	}

	stats, scanErr := scanner.Scan(f, func(seg *Segment) error {
		action, err := s.Resolver.Flush(seg)
		if err != nil {
			return err
		}
		switch action {
		case ActionCreated:
			summary.Created++
		case ActionMerged:
			summary.Merged++
		}
		return nil
	})

	summary.Skipped += stats.ParseErrors + stats.Discarded
	summary.Errors += stats.FlushErrors

	if scanErr != nil {
		summary.Errors++
		return summary, scanErr
	}

	logger.Info("split complete",
		logging.String("input", inputPath),
		logging.Int("segments", stats.Segments),
		logging.Int("parse_errors", stats.ParseErrors),
	)

	if s.DeleteSource && summary.Errors == 0 && summary.Processed() > 0 {
		// Close before removing; some platforms refuse to unlink open files
		f.Close()
		if err := os.Remove(inputPath); err != nil {
			logger.Error("failed to remove processed input", err,
				logging.String("input", inputPath),
			)
			summary.Errors++
		} else {
			logger.Info("removed processed input",
				logging.String("input", inputPath),
			)
		}
	}

	return summary, nil
}
