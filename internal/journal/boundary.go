package journal

import (
	"errors"
	"regexp"
	"strconv"
	"time"
)

// DateKeyLayout is the normal form for date keys and output file names.
const DateKeyLayout = "2006_01_02"

// ErrInvalidDate is returned when a line matches a boundary pattern but
// its numeric groups do not form a valid calendar date.
var ErrInvalidDate = errors.New("boundary line has invalid date")

// Boundary describes a recognized record boundary.
type Boundary struct {
	Date    time.Time
	Pattern string
}

// DateKey returns the boundary date in YYYY_MM_DD form.
func (b Boundary) DateKey() string {
	return b.Date.Format(DateKeyLayout)
}

// boundaryPattern pairs a regular expression with a parser for its
// capture groups.
type boundaryPattern struct {
	name  string
	re    *regexp.Regexp
	parse func(groups []string) (time.Time, error)
}

// boundaryPatterns are tried in order; the first pattern whose parse
// succeeds wins. The bracketed chat-export timestamp is the primary
// pattern; a bare YYYY_MM_DD key anywhere in the line is the fallback.
// Two-digit years map to 2000-2099.
var boundaryPatterns = []boundaryPattern{
	{
		name:  "chat",
		re:    regexp.MustCompile(`\[(\d{1,2})/(\d{1,2})/(\d{2}),\s*\d{1,2}:\d{2}:\d{2}\s*(?:AM|PM)\]`),
		parse: parseChatDate,
	},
	{
		name:  "datekey",
		re:    regexp.MustCompile(`(\d{4})_(\d{2})_(\d{2})`),
		parse: parseDateKeyGroups,
	},
}

// DetectBoundary reports whether line opens a new dated record.
// A nil boundary with a nil error means the line is ordinary content.
// A nil boundary with ErrInvalidDate means the line looked like a
// boundary but its date was invalid; callers treat it as content and log.
func DetectBoundary(line string) (*Boundary, error) {
	var parseErr error

	for _, p := range boundaryPatterns {
		groups := p.re.FindStringSubmatch(line)
		if groups == nil {
			continue
		}
		date, err := p.parse(groups[1:])
		if err != nil {
			if parseErr == nil {
				parseErr = err
			}
			continue
		}
		return &Boundary{Date: date, Pattern: p.name}, nil
	}

	return nil, parseErr
}

// parseChatDate parses M/D/YY capture groups from the bracketed pattern.
func parseChatDate(groups []string) (time.Time, error) {
	month, _ := strconv.Atoi(groups[0])
	day, _ := strconv.Atoi(groups[1])
	year, _ := strconv.Atoi(groups[2])
	return calendarDate(2000+year, month, day)
}

// parseDateKeyGroups parses YYYY, MM, DD capture groups.
func parseDateKeyGroups(groups []string) (time.Time, error) {
	year, _ := strconv.Atoi(groups[0])
	month, _ := strconv.Atoi(groups[1])
	day, _ := strconv.Atoi(groups[2])
	return calendarDate(year, month, day)
}

// calendarDate builds a date and rejects components that time.Date
// would normalize away (month 13, day 45).
func calendarDate(year, month, day int) (time.Time, error) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
