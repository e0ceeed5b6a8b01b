package timeslot

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Day is a canonical weekday. The zero value is Sunday, matching time.Weekday.
type Day int

// Canonical weekdays in display order.
const (
	Sun Day = iota
	Mon
	Tue
	Wed
	Thu
	Fri
	Sat
)

// Week lists every day from Sunday to Saturday.
var Week = []Day{Sun, Mon, Tue, Wed, Thu, Fri, Sat}

// TeachingWeek is the Sunday to Thursday working week used by utilization views.
var TeachingWeek = []Day{Sun, Mon, Tue, Wed, Thu}

var dayNames = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var daySynonyms = map[string]Day{
	"sun":       Sun,
	"sunday":    Sun,
	"mon":       Mon,
	"monday":    Mon,
	"tue":       Tue,
	"tues":      Tue,
	"tuesday":   Tue,
	"wed":       Wed,
	"weds":      Wed,
	"wednesday": Wed,
	"thu":       Thu,
	"thur":      Thu,
	"thurs":     Thu,
	"thursday":  Thu,
	"fri":       Fri,
	"friday":    Fri,
	"sat":       Sat,
	"saturday":  Sat,
}

var nonLetters = regexp.MustCompile(`[^A-Za-z]+`)

func (d Day) String() string {
	if d < Sun || d > Sat {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

// Valid reports whether d is one of the seven canonical days.
func (d Day) Valid() bool {
	return d >= Sun && d <= Sat
}

// CanonicalDay maps a day token such as "Tues" or "THU" to its canonical day.
func CanonicalDay(text string) (Day, bool) {
	d, ok := daySynonyms[strings.ToLower(strings.TrimSpace(text))]
	return d, ok
}

// ExtractDays splits a multi-day cell like "Mon/Wed" on runs of non-letters and
// returns the recognized days in first-seen order without duplicates.
func ExtractDays(text string) []Day {
	days := []Day{}
	seen := make(map[Day]bool)
	for _, token := range nonLetters.Split(text, -1) {
		if token == "" {
			continue
		}
		d, ok := CanonicalDay(token)
		if !ok || seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	return days
}

// SortDays orders days Sunday first, in place.
func SortDays(days []Day) {
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
}

// DayFromTime returns the canonical day of t.
func DayFromTime(t time.Time) Day {
	return Day(t.Weekday())
}

// ContainsDay reports whether days holds d.
func ContainsDay(days []Day, d Day) bool {
	for _, x := range days {
		if x == d {
			return true
		}
	}
	return false
}
