package models

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for dates. Times on the wire are 24-hour
// "HH:MM" wall clock, center-local; the core never converts timezones.
const DateLayout = "2006-01-02"

const clockLayout = "15:04"

const minutesPerDay = 24 * 60

// ParseClock converts an "HH:MM" time to minutes from midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ParseDate parses a "YYYY-MM-DD" date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// DatesBetween expands an inclusive date range into its individual days,
// in ascending order.
func DatesBetween(from, to string) ([]string, error) {
	start, err := ParseDate(from)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(to)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("date range %s..%s is reversed", from, to)
	}
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates, nil
}

// Overlaps is the half-open interval overlap test. Boundary-touching
// intervals (a ending exactly when b starts) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// WithinTrailingDays reports whether date d falls inside the trailing
// window of the given length ending at (and including) end. Unparseable
// dates are treated as outside the window.
func WithinTrailingDays(d, end string, days int) bool {
	dt, err := ParseDate(d)
	if err != nil {
		return false
	}
	endT, err := ParseDate(end)
	if err != nil {
		return false
	}
	startT := endT.AddDate(0, 0, -(days - 1))
	return !dt.Before(startT) && !dt.After(endT)
}

// clockInterval resolves a start/end clock pair to minutes from midnight,
// pushing the end into the next day when it precedes the start.
func clockInterval(startTime, endTime string) (start, end int, err error) {
	start, err = ParseClock(startTime)
	if err != nil {
		return 0, 0, err
	}
	end, err = ParseClock(endTime)
	if err != nil {
		return 0, 0, err
	}
	if end < start {
		end += minutesPerDay
	}
	return start, end, nil
}
