package models

import (
	"fmt"
	"time"
)

// DateLayout is the canonical calendar-date encoding used as part of the
// (student, date) schedule key.
const DateLayout = "2006-01-02"

// MinutesPerDay bounds every clock value handled by the engine.
const MinutesPerDay = 24 * 60

// ParseClock converts an HH:MM wall-clock string into minutes from midnight.
// Both fields must be exactly two digits; anything beyond the five
// characters is rejected.
func ParseClock(raw string) (int, error) {
	if len(raw) != 5 || raw[2] != ':' {
		return 0, fmt.Errorf("parse clock %q: want HH:MM", raw)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, fmt.Errorf("parse clock %q: want HH:MM", raw)
		}
	}
	h := int(raw[0]-'0')*10 + int(raw[1]-'0')
	m := int(raw[3]-'0')*10 + int(raw[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("clock %q out of range", raw)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes from midnight as HH:MM. Values outside the day
// are clamped to its edges.
func FormatClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes >= MinutesPerDay {
		minutes = MinutesPerDay - 1
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatDate renders a calendar date using the canonical layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a canonical date string into a local midnight time.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return t, nil
}

// Midnight normalizes a time to local midnight of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Interval is a half-open [Start, End) window in minutes from midnight.
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Overlaps reports whether two half-open intervals intersect.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && i.End > other.Start
}

// Duration returns the interval length in minutes.
func (i Interval) Duration() int {
	return i.End - i.Start
}
