// Package dateutil provides calendar-date parsing and arithmetic utilities.
package dateutil

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Layout is the calendar-date format used everywhere in timeflow.
const Layout = "2006-01-02"

// Validation errors.
var (
	ErrInvalidDateFormat = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidOffset     = errors.New("day offset must look like +N or -N")
)

// weekdayMap maps weekday names to time.Weekday values.
var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseDay parses a date string in YYYY-MM-DD format.
func ParseDay(s string) (time.Time, error) {
	if len(s) != len(Layout) {
		return time.Time{}, ErrInvalidDateFormat
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// ValidDay reports whether s is a well-formed YYYY-MM-DD date.
func ValidDay(s string) bool {
	_, err := ParseDay(s)
	return err == nil
}

// FormatDay formats t as YYYY-MM-DD in its own location.
func FormatDay(t time.Time) string {
	return t.Format(Layout)
}

// Today returns the calendar date of now in now's location.
func Today(now time.Time) string {
	return FormatDay(now)
}

// AddDays shifts a YYYY-MM-DD date by n days.
func AddDays(day string, n int) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return FormatDay(t.AddDate(0, 0, n)), nil
}

// ParseRelativeDay resolves a day expression against the date relativeTo
// (YYYY-MM-DD). Accepted forms:
//   - "today" (or empty), "tomorrow", "yesterday": relative to today
//   - "+N" / "-N": N days after/before relativeTo
//   - weekday names: next occurrence after relativeTo
//   - absolute date: "2025-01-15"
//
// Offsets and weekdays move from relativeTo, the day being viewed.
// All inputs are case-insensitive.
func ParseRelativeDay(s, relativeTo, today string) (string, error) {
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "tomorrow":
		return AddDays(today, 1)
	case "yesterday":
		return AddDays(today, -1)
	}

	if strings.HasPrefix(input, "+") || strings.HasPrefix(input, "-") {
		n, err := strconv.Atoi(input)
		if err != nil {
			return "", ErrInvalidOffset
		}
		return AddDays(relativeTo, n)
	}

	if target, ok := weekdayMap[input]; ok {
		base, err := ParseDay(relativeTo)
		if err != nil {
			return "", err
		}
		return FormatDay(nextWeekday(base, target)), nil
	}

	if _, err := ParseDay(input); err != nil {
		return "", err
	}
	return input, nil
}

// nextWeekday returns the next occurrence of the given weekday after day.
// If day is the target weekday, returns one week later.
func nextWeekday(day time.Time, target time.Weekday) time.Time {
	daysUntil := int(target) - int(day.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return day.AddDate(0, 0, daysUntil)
}
