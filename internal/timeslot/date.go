package timeslot

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the "DD Mon YYYY" form used for normalized calendar dates.
const DateLayout = "02 Jan 2006"

var dateLiteral = regexp.MustCompile(`Date\((\d+),(\d+),(\d+)(?:,(\d+),(\d+),(\d+))?\)`)

var genericLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	DateLayout,
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
	"Mon Jan 2 2006",
	"Mon, 02 Jan 2006",
}

// ParseDateLiteral reads a "Date(y,m,d[,h,mi,s])" literal whose month is zero-based.
func ParseDateLiteral(text string, loc *time.Location) (time.Time, bool) {
	m := dateLiteral.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	parts := make([]int, 6)
	for i := range parts {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return time.Time{}, false
		}
		parts[i] = n
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(parts[0], time.Month(parts[1]+1), parts[2], parts[3], parts[4], parts[5], 0, loc), true
}

// ParseDate reads a date cell. It accepts the Date(...) literal, ISO dates,
// DD/MM/YYYY, "DD Mon YYYY" and a handful of other common layouts.
func ParseDate(text string, loc *time.Location) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	if t, ok := ParseDateLiteral(text, loc); ok {
		return t, true
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range genericLayouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
