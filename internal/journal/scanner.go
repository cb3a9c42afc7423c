package journal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/TechnicallyShaun/acta-orbis/internal/logging"
)

// ErrInvalidEncoding is returned when the input stream is not valid UTF-8.
var ErrInvalidEncoding = errors.New("input is not valid UTF-8")

// ScanStats reports what one scan pass did.
type ScanStats struct {
	Segments    int // segments flushed successfully
	ParseErrors int // boundary-shaped lines with invalid dates
	Discarded   int // content lines before the first boundary
	FlushErrors int // segments abandoned by a failing flush
}

// Scanner cuts a journal stream into Segments in a single ordered pass.
type Scanner struct {
	// Source names the input for segment provenance.
	Source string
	Logger logging.Logger
}

// Scan reads r line by line and hands each completed Segment to flush.
// At most one segment is open at a time: a new boundary flushes the
// previous segment, end of input flushes the last. An empty body still
// flushes. Content lines before the first boundary are discarded. A
// failing flush abandons that one segment; scanning continues.
func (s *Scanner) Scan(r io.Reader, flush func(*Segment) error) (*ScanStats, error) {
	logger := s.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	stats := &ScanStats{}
	reader := bufio.NewReader(r)

	// The open segment is threaded through the loop explicitly rather
	// than held as ambient file-handle state.
	var open *Segment
	lineNo := 0

	flushOpen := func() {
		if open == nil {
			// Nothing open: flushing is a no-op
			return
		}
		if err := flush(open); err != nil {
			stats.FlushErrors++
			logger.Error("segment flush failed", err,
				logging.String("date_key", open.DateKey),
				logging.String("source", open.Source),
			)
		} else {
			stats.Segments++
		}
		open = nil
	}

	appendContent := func(line string) {
		if open == nil {
			stats.Discarded++
			logger.Debug("discarding content before first boundary",
				logging.Int("line", lineNo),
			)
			return
		}
		open.Body = append(open.Body, line)
	}

	for {
		line, readErr := reader.ReadString('\n')
		if line != "" {
			lineNo++

			if !utf8.ValidString(line) {
				flushOpen()
				return stats, fmt.Errorf("line %d: %w", lineNo, ErrInvalidEncoding)
			}

			boundary, err := DetectBoundary(line)
			switch {
			case err != nil:
				// Boundary-shaped but invalid date: keep the line as content
				stats.ParseErrors++
				logger.Error("invalid date on boundary line, keeping as content", err,
					logging.Int("line", lineNo),
				)
				appendContent(line)

			case boundary != nil:
				flushOpen()
				open = &Segment{
					DateKey: boundary.DateKey(),
					Header:  line,
					Source:  s.Source,
				}
				logger.Debug("opened segment",
					logging.String("date_key", open.DateKey),
					logging.String("pattern", boundary.Pattern),
					logging.Int("line", lineNo),
				)

			default:
				appendContent(line)
			}
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			flushOpen()
			return stats, fmt.Errorf("read input: %w", readErr)
		}
	}

	flushOpen()
	return stats, nil
}
