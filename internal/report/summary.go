// Package report provides per-run summaries for acta commands.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Summary accumulates the outcome counts of one command run.
type Summary struct {
	RunID     string
	StartedAt time.Time

	Created int // new output units written
	Merged  int // appends into existing output units
	Moved   int // files relocated without merging
	Skipped int // inputs skipped (no date, parse failure)
	Errors  int // inputs abandoned due to I/O errors
}

// NewSummary creates a Summary with a fresh run ID.
func NewSummary() *Summary {
	return &Summary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
}

// Processed returns the number of inputs that reached a terminal outcome.
func (s *Summary) Processed() int {
	return s.Created + s.Merged + s.Moved
}

// Merge folds the counters of other into s. Run identity is kept.
func (s *Summary) Merge(other *Summary) {
	if other == nil {
		return
	}
	s.Created += other.Created
	s.Merged += other.Merged
	s.Moved += other.Moved
	s.Skipped += other.Skipped
	s.Errors += other.Errors
}

// Write prints the summary in the fixed format shared by all commands.
func (s *Summary) Write(w io.Writer) {
	elapsed := time.Since(s.StartedAt).Round(time.Millisecond)
	fmt.Fprintf(w, "\nSummary (run %s)\n", shortID(s.RunID))
	fmt.Fprintf(w, "  created: %d\n", s.Created)
	fmt.Fprintf(w, "  merged:  %d\n", s.Merged)
	fmt.Fprintf(w, "  moved:   %d\n", s.Moved)
	fmt.Fprintf(w, "  skipped: %d\n", s.Skipped)
	fmt.Fprintf(w, "  errors:  %d\n", s.Errors)
	fmt.Fprintf(w, "  elapsed: %s\n", elapsed)
}

// shortID truncates a UUID to its first group for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
