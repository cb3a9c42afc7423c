// Package journal implements date-driven splitting and merging of
// journal and log files. A source stream is cut into segments at dated
// boundary lines; each segment lands in one output file per calendar
// date, appending to the file when an earlier run already created it.
package journal

// Segment is one dated run of lines from a source stream: the boundary
// line that opened it plus every content line up to the next boundary
// or end of input.
type Segment struct {
	// DateKey is the calendar date in YYYY_MM_DD form.
	DateKey string
	// Header is the original boundary line, verbatim, terminator included.
	Header string
	// Body holds the content lines in order, each verbatim with its
	// original terminator.
	Body []string
	// Source names the originating file or stream, for merge provenance.
	Source string
}
