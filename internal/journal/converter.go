package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/TechnicallyShaun/acta-orbis/internal/fsops"
	"github.com/TechnicallyShaun/acta-orbis/internal/logging"
	"github.com/TechnicallyShaun/acta-orbis/internal/report"
)

// Converter renames journal files in place to their creation date.
// Each file gets a "# <original name>" header so its identity survives
// the rename; colliding dates are append-merged and the source deleted.
type Converter struct {
	Logger logging.Logger
	Now    func() time.Time
}

// ConvertDir processes every file under root, recursively. Failures are
// isolated per file; the run continues and the summary reports them.
func (c *Converter) ConvertDir(root string) (*report.Summary, error) {
	logger := c.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	summary := report.NewSummary()

	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !info.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("walk directory: %w", err)
	}

	for _, srcPath := range paths {
		if err := c.convertFile(srcPath, summary, logger); err != nil {
			summary.Errors++
			logger.Error("conversion failed, source left in place", err,
				logging.String("file", srcPath),
			)
		}
	}

	return summary, nil
}

func (c *Converter) convertFile(srcPath string, summary *report.Summary, logger logging.Logger) error {
	name := filepath.Base(srcPath)
	dir := filepath.Dir(srcPath)
	header := "# " + name + "\n"

	content, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	// Stamp the original filename into the content once
	if !strings.HasPrefix(string(content), header) {
		stamped := append([]byte(header+"\n"), content...)
		if err := os.WriteFile(srcPath, stamped, 0644); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		content = stamped
	}

	created, err := fsops.BirthTime(srcPath)
	if err != nil {
		return fmt.Errorf("read creation time: %w", err)
	}
	dateKey := created.Format(DateKeyLayout)

	ext := filepath.Ext(name)
	target := filepath.Join(dir, dateKey+ext)

	if strings.EqualFold(srcPath, target) {
		summary.Moved++
		logger.Debug("file already named correctly", logging.String("file", name))
		return nil
	}

	if _, err := os.Stat(target); err == nil {
		resolver := &Resolver{Now: c.Now, Logger: logger}
		source := fmt.Sprintf("%s (created %s)", name, dateKey)
		if err := resolver.MergeContent(target, source, content); err != nil {
			return err
		}
		if err := os.Remove(srcPath); err != nil {
			return fmt.Errorf("remove merged source: %w", err)
		}
		summary.Merged++
		logger.Info("merged into existing dated file",
			logging.String("file", name),
			logging.String("target", target),
		)
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat target: %w", err)
	}

	if err := os.Rename(srcPath, target); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	summary.Moved++
	logger.Info("renamed to dated file",
		logging.String("file", name),
		logging.String("target", target),
	)
	return nil
}
