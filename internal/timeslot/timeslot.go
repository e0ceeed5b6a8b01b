// Package timeslot parses the free-form day and time strings found in timetable
// feeds into minute-of-day integers and canonical weekdays.
package timeslot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Unparsable is the start key given to ranges whose start time cannot be read.
// It sorts after every real minute-of-day value.
const Unparsable = 99999

var clockPattern = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})(?::(\d{2}))?\s*(AM|PM)?$`)

// ParseMinutes converts "H:MM", "HH:MM", "HH:MM:SS" or any of those followed by an
// AM/PM suffix into minutes since midnight.
func ParseMinutes(text string) (int, bool) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, false
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}

	switch strings.ToUpper(m[4]) {
	case "AM":
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour >= 1 && hour <= 11 {
			hour += 12
		}
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

// FormatMinutes renders minutes since midnight as a zero-padded 24-hour "HH:MM".
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Range is the sort key of an "HH:MM-HH:MM" slot label.
type Range struct {
	Start    int
	Duration int
}

// ParseRange reads a "start-end" label. An unreadable start yields the
// Unparsable sentinel; a missing or backwards end yields a zero duration.
func ParseRange(text string) Range {
	parts := strings.SplitN(text, "-", 2)
	start, ok := ParseMinutes(parts[0])
	if !ok {
		return Range{Start: Unparsable}
	}
	if len(parts) < 2 {
		return Range{Start: start}
	}
	end, ok := ParseMinutes(parts[1])
	if !ok || end < start {
		return Range{Start: start}
	}
	return Range{Start: start, Duration: end - start}
}

// Less orders ranges by start, then by duration.
func (r Range) Less(other Range) bool {
	if r.Start != other.Start {
		return r.Start < other.Start
	}
	return r.Duration < other.Duration
}

// SlotLabel joins trimmed start and end times into the "start-end" grid key.
func SlotLabel(start, end string) string {
	return strings.TrimSpace(start) + "-" + strings.TrimSpace(end)
}

// HHMM returns the first five characters of a time string when they form a
// zero-padded "HH:MM" value.
func HHMM(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if len(text) < 5 {
		return "", false
	}
	head := text[:5]
	if head[2] != ':' {
		return "", false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if head[i] < '0' || head[i] > '9' {
			return "", false
		}
	}
	return head, true
}
