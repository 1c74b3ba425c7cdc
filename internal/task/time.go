package task

import (
	"fmt"
	"time"
)

// MinutesPerDay is the length of the day timeline in minutes.
const MinutesPerDay = 24 * 60

// SlotMinutes is the granularity of the timeline and of the current slot.
const SlotMinutes = 30

// ToMinutes converts "HH:MM" to minutes since midnight.
// It returns a *ParseError for anything that is not a two-digit hour
// (00-23), a colon and a two-digit minute (00-59).
func ToMinutes(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, &ParseError{Input: s, Err: ErrInvalidTimeFormat}
	}
	if !isDigit(s[0]) || !isDigit(s[1]) || !isDigit(s[3]) || !isDigit(s[4]) {
		return 0, &ParseError{Input: s, Err: ErrInvalidTimeFormat}
	}
	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	mins := int(s[3]-'0')*10 + int(s[4]-'0')
	if hours > 23 || mins > 59 {
		return 0, &ParseError{Input: s, Err: ErrTimeOutOfRange}
	}
	return hours*60 + mins, nil
}

// ToTimeString converts minutes since midnight to "HH:MM".
// Values outside [0, 1439] wrap around the day, so 1500 is "01:00"
// and -30 is "23:30".
func ToTimeString(m int) string {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// AddDuration returns the "HH:MM" reached after adding minutes to start.
// The result wraps past midnight; the caller keeps the original day.
func AddDuration(start string, minutes int) (string, error) {
	m, err := ToMinutes(start)
	if err != nil {
		return "", err
	}
	return ToTimeString(m + minutes), nil
}

// CurrentSlot returns now floored to the preceding 30 minute boundary.
func CurrentSlot(now time.Time) string {
	m := now.Hour()*60 + now.Minute()
	return ToTimeString(m - m%SlotMinutes)
}

// ValidTime reports whether s is a well-formed "HH:MM" time.
func ValidTime(s string) bool {
	_, err := ToMinutes(s)
	return err == nil
}

// SlotTimes returns the timeline rows from startHour:00 through endHour:30
// in 30 minute steps.
func SlotTimes(startHour, endHour int) []string {
	if startHour < 0 {
		startHour = 0
	}
	if endHour > 23 {
		endHour = 23
	}
	var slots []string
	for h := startHour; h <= endHour; h++ {
		for m := 0; m < 60; m += SlotMinutes {
			slots = append(slots, ToTimeString(h*60+m))
		}
	}
	return slots
}

// OverlapMinutes calculates the overlapping minutes between two
// half-open ranges given as minute offsets.
// Returns 0 if there is no overlap.
func OverlapMinutes(start1, end1, start2, end2 int) int {
	overlapStart := max(start1, start2)
	overlapEnd := min(end1, end2)

	if overlapEnd <= overlapStart {
		return 0
	}
	return overlapEnd - overlapStart
}

// TimesOverlap returns true if two minute ranges overlap.
// Two ranges overlap if: start1 < end2 AND start2 < end1
func TimesOverlap(start1, end1, start2, end2 int) bool {
	return start1 < end2 && start2 < end1
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
