package schema

import "time"

// DateFormat is the on-disk representation of a calendar day.
const DateFormat = "2006-01-02"

// Day truncates a timestamp to its calendar day in the given location
// and normalizes it to midnight UTC, so day values compare with ==.
func Day(ts time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := ts.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two normalized day values are equal.
func SameDay(a, b time.Time) bool {
	return a.Equal(b)
}

// FormatDay renders a normalized day value for output and persistence.
func FormatDay(d time.Time) string {
	return d.Format(DateFormat)
}

// ParseDay parses an on-disk calendar day.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DateFormat, s, time.UTC)
}
