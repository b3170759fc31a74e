// Package daterange computes the calendar windows used by the daily and
// monthly counters. All boundaries are computed in the caller's location
// and returned in that location.
package daterange

import "time"

// DayLayout is the format of day keys stored on attendance records.
const DayLayout = "2006-01-02"

// Range is a half-open interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls in the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Day returns the calendar day containing t.
func Day(t time.Time) Range {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return Range{Start: start, End: start.AddDate(0, 0, 1)}
}

// Month returns the calendar month containing t.
func Month(t time.Time) Range {
	y, m, _ := t.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	return Range{Start: start, End: start.AddDate(0, 1, 0)}
}

// Year returns the calendar year in loc.
func Year(year int, loc *time.Location) Range {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return Range{Start: start, End: start.AddDate(1, 0, 0)}
}

// DayKey formats t's calendar day as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}
