package journal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/TechnicallyShaun/acta-orbis/internal/logging"
)

// DefaultExt is the output unit extension when none is configured.
const DefaultExt = ".md"

// Action describes what Flush did with a segment.
type Action int

const (
	// ActionCreated means a new output unit was written.
	ActionCreated Action = iota
	// ActionMerged means the segment was appended to an existing unit.
	ActionMerged
)

// Resolver decides where a flushed Segment lands and whether it creates
// a new output unit or merges into an existing one. At most one output
// unit exists per (output root, date key) pair; the merge path preserves
// that invariant when several inputs carry the same date.
type Resolver struct {
	// OutputRoot is the directory output units are written under.
	OutputRoot string
	// Ext is the output extension including the dot (default ".md").
	Ext string
	// YearDirs nests units under a YYYY sub-directory of OutputRoot.
	YearDirs bool
	// Annotation is the user-supplied string written into unit headers.
	Annotation string
	// Now supplies merge timestamps; defaults to time.Now.
	Now    func() time.Time
	Logger logging.Logger
}

// TargetPath returns the deterministic destination for a date key.
func (r *Resolver) TargetPath(dateKey string) string {
	ext := r.Ext
	if ext == "" {
		ext = DefaultExt
	}
	name := dateKey + ext
	if r.YearDirs && len(dateKey) >= 4 {
		return filepath.Join(r.OutputRoot, dateKey[:4], name)
	}
	return filepath.Join(r.OutputRoot, name)
}

// Flush persists a segment: a fresh output unit if none exists for the
// date key, an append-merge otherwise. The error covers this segment
// only; the caller decides whether to keep going.
func (r *Resolver) Flush(seg *Segment) (Action, error) {
	path := r.TargetPath(seg.DateKey)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("create output directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if mergeErr := r.appendSegment(path, seg); mergeErr != nil {
			return 0, mergeErr
		}
		r.logf().Info("merged segment into existing unit",
			logging.String("date_key", seg.DateKey),
			logging.String("path", path),
		)
		return ActionMerged, nil
	} else if !os.IsNotExist(err) {
		return 0, fmt.Errorf("stat output unit: %w", err)
	}

	if err := r.create(path, seg); err != nil {
		return 0, err
	}
	r.logf().Info("created output unit",
		logging.String("date_key", seg.DateKey),
		logging.String("path", path),
	)
	return ActionCreated, nil
}

// MergeContent appends raw file content into the output unit at path,
// preceded by a merge marker naming the source. Used by the whole-file
// variants where a file's content stands in for a segment body.
func (r *Resolver) MergeContent(path, source string, content []byte) (err error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open output unit: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output unit: %w", cerr)
		}
	}()

	if err := ensureTrailingNewline(f); err != nil {
		return err
	}
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek output unit: %w", err)
	}

	w := bufio.NewWriter(f)
	w.WriteString(r.mergeMarker(source))
	w.Write(content)
	if err := w.Flush(); err != nil {
		return fmt.Errorf("append to output unit: %w", err)
	}
	return nil
}

// create writes a brand-new output unit: the verbatim boundary line,
// the annotation and filename metadata, then the body. A partially
// written unit is removed so a later run can retry cleanly.
func (r *Resolver) create(path string, seg *Segment) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("create output unit: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output unit: %w", cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	w := bufio.NewWriter(f)
	w.WriteString(seg.Header)
	fmt.Fprintf(w, " %s: ", r.Annotation)
	fmt.Fprintf(w, " %s: ", filepath.Base(path))
	for _, line := range seg.Body {
		w.WriteString(line)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write output unit: %w", err)
	}
	return nil
}

// appendSegment appends a segment to an existing output unit behind a
// merge marker, guaranteeing the existing content is newline-terminated
// first.
func (r *Resolver) appendSegment(path string, seg *Segment) (err error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open output unit: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output unit: %w", cerr)
		}
	}()

	if err := ensureTrailingNewline(f); err != nil {
		return err
	}
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek output unit: %w", err)
	}

	w := bufio.NewWriter(f)
	w.WriteString(r.mergeMarker(seg.Source))
	w.WriteString(seg.Header)
	for _, line := range seg.Body {
		w.WriteString(line)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("append to output unit: %w", err)
	}
	return nil
}

// mergeMarker returns the provenance line written before appended content.
func (r *Resolver) mergeMarker(source string) string {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return fmt.Sprintf("# --- merged from: %s on %s ---\n",
		source, now().Format("2006-01-02 15:04:05"))
}

func (r *Resolver) logf() logging.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return logging.Nop()
}

// ensureTrailingNewline appends a newline to f when its last byte is
// not one. Empty files are left alone.
func ensureTrailingNewline(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat output unit: %w", err)
	}
	if info.Size() == 0 {
		return nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return fmt.Errorf("read output unit: %w", err)
	}
	if last[0] == '\n' {
		return nil
	}

	if _, err := f.WriteAt([]byte{'\n'}, info.Size()); err != nil {
		return fmt.Errorf("terminate output unit: %w", err)
	}
	return nil
}
