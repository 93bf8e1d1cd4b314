package formats

import (
	"strconv"
	"strings"
	"time"
)

// dateTimeLayouts are the timestamp spellings seen across the seven export
// layouts, tried in order.
var dateTimeLayouts = []string{
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04 PM",
	"1/2/06 15:04",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// dateLayouts are the date-only spellings used by row-per-day layouts.
var dateLayouts = []string{
	"1/2/2006",
	"1/2/06",
	"2006-01-02",
	"01-02-2006",
	"2-Jan-2006",
	"2-Jan-06",
	"20060102",
}

// parseDateTime parses a full timestamp cell, minute precision.
func parseDateTime(cell string) (time.Time, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// Some exports leave a date-only cell for the midnight reading.
	return parseDate(s)
}

// parseDate parses a date-only cell to midnight of that day.
func parseDate(cell string) (time.Time, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseUsage coerces a numeric usage cell, tolerating thousands separators.
// A failure means the row (or cell) is dropped, never that the file aborts.
func parseUsage(cell string) (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// intervalEnd builds the end-of-interval timestamp for a day plus an HHMM
// clock reading. Hour 24 rolls into the next calendar day's midnight.
func intervalEnd(day time.Time, hour, minute int) time.Time {
	if hour == 24 {
		return day.AddDate(0, 0, 1).Add(time.Duration(minute) * time.Minute)
	}
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// splitClock splits an HMM/HHMM integer into hour and minute parts
// (115 -> 1:15, 2400 -> 24:00).
func splitClock(v int) (hour, minute int) {
	return v / 100, v % 100
}
