package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/Veraticus/timetable/internal/planner"
	"github.com/Veraticus/timetable/internal/schedule"
	"github.com/Veraticus/timetable/internal/timeslot"
)

const (
	productID   = "-//timetable//timetable export//EN"
	localLayout = "20060102T150405"
)

// ErrInvalidTerm is returned when a term has no start, no end, or ends first.
var ErrInvalidTerm = errors.New("invalid term")

// Calendar collects exam and weekly meeting events into one iCalendar document.
type Calendar struct {
	cal       *ics.Calendar
	loc       *time.Location
	stamp     time.Time
	events    int
	uidSuffix string
}

// NewCalendar starts a calendar whose local times are in loc. A nil loc means UTC.
func NewCalendar(name string, loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	if name != "" {
		cal.SetXWRCalName(name)
	}
	cal.SetXWRTimezone(loc.String())
	return &Calendar{
		cal:       cal,
		loc:       loc,
		stamp:     time.Now().UTC(),
		uidSuffix: "@timetable",
	}
}

// Len is the number of events added so far.
func (c *Calendar) Len() int { return c.events }

// AddExams adds one event per course per exam slot of the grid. Slots whose
// times cannot be read are skipped.
func (c *Calendar) AddExams(g schedule.ExamGrid) {
	for _, d := range g.Dates {
		for _, slot := range g.Slots {
			entries := g.At(d.Label, slot)
			if len(entries) == 0 {
				continue
			}
			r := timeslot.ParseRange(slot)
			if r.Start == timeslot.Unparsable || r.Duration <= 0 {
				continue
			}

			day := time.Date(d.Date.Year(), d.Date.Month(), d.Date.Day(), 0, 0, 0, 0, c.loc)
			start := day.Add(time.Duration(r.Start) * time.Minute)
			end := start.Add(time.Duration(r.Duration) * time.Minute)

			for _, e := range entries {
				uid := fmt.Sprintf("exam-%s-%s%s", uidPart(e.CourseCode), start.Format(localLayout), c.uidSuffix)
				ev := c.cal.AddEvent(uid)
				ev.SetDtStampTime(c.stamp)
				c.setLocal(ev, start, end)

				summary := "Exam " + e.CourseCode
				if e.CourseName != "" {
					summary += " " + e.CourseName
				}
				ev.SetSummary(summary)
				ev.SetLocation(joinNonEmpty(" ", e.ExamBuilding, e.ExamHall))
				if e.Instructor != "" {
					ev.SetDescription("Instructor: " + e.Instructor)
				}
				c.events++
			}
		}
	}
}

// Term bounds the weekly recurrence of meetings.
type Term struct {
	Start time.Time
	End   time.Time
}

// AddMeetings adds one weekly recurring event per meeting of every chosen
// section, repeating from the first matching weekday on or after the term
// start until the end of the term's last day.
func (c *Calendar) AddMeetings(chosen []planner.SectionOption, term Term) error {
	if term.Start.IsZero() || term.End.IsZero() || term.End.Before(term.Start) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTerm, term.Start.Format(time.DateOnly), term.End.Format(time.DateOnly))
	}
	first := time.Date(term.Start.Year(), term.Start.Month(), term.Start.Day(), 0, 0, 0, 0, c.loc)
	until := time.Date(term.End.Year(), term.End.Month(), term.End.Day(), 23, 59, 59, 0, c.loc)

	for _, opt := range chosen {
		for i, m := range opt.Slots {
			startMin, ok := timeslot.ParseMinutes(m.Start)
			if !ok {
				continue
			}
			endMin, ok := timeslot.ParseMinutes(m.End)
			if !ok || endMin <= startMin {
				continue
			}
			days := timeslot.ExtractDays(m.Day)
			if len(days) == 0 {
				continue
			}

			opts := rrule.ROption{
				Freq:      rrule.WEEKLY,
				Dtstart:   first.Add(time.Duration(startMin) * time.Minute),
				Until:     until,
				Byweekday: weekdays(days),
			}
			rule, err := rrule.NewRRule(opts)
			if err != nil {
				return fmt.Errorf("failed to build recurrence for %s: %w", opt.Label, err)
			}
			start := rule.After(opts.Dtstart, true)
			if start.IsZero() {
				continue
			}
			end := start.Add(time.Duration(endMin-startMin) * time.Minute)

			uid := fmt.Sprintf("class-%s-%d%s", uidPart(opt.ID), i, c.uidSuffix)
			ev := c.cal.AddEvent(uid)
			ev.SetDtStampTime(c.stamp)
			c.setLocal(ev, start, end)
			ev.SetSummary(opt.Label)
			hall := m.Hall
			if hall == "" {
				hall = planner.DefaultHall
			}
			ev.SetLocation(hall)
			ev.AddRrule(ruleText(opts))
			c.events++
		}
	}
	return nil
}

// WriteTo serializes the calendar.
func (c *Calendar) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, c.cal.Serialize())
	return int64(n), err
}

func (c *Calendar) setLocal(ev *ics.VEvent, start, end time.Time) {
	if c.loc == time.UTC {
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		return
	}
	tz := ics.WithTZID(c.loc.String())
	ev.SetProperty(ics.ComponentPropertyDtStart, start.In(c.loc).Format(localLayout), tz)
	ev.SetProperty(ics.ComponentPropertyDtEnd, end.In(c.loc).Format(localLayout), tz)
}

// ruleText renders the RRULE value. UNTIL is written in UTC as iCalendar
// requires when DTSTART carries a time zone.
func ruleText(opts rrule.ROption) string {
	opts.Dtstart = time.Time{}
	opts.Until = opts.Until.UTC()
	return opts.RRuleString()
}

var ruleDays = map[timeslot.Day]rrule.Weekday{
	timeslot.Sun: rrule.SU,
	timeslot.Mon: rrule.MO,
	timeslot.Tue: rrule.TU,
	timeslot.Wed: rrule.WE,
	timeslot.Thu: rrule.TH,
	timeslot.Fri: rrule.FR,
	timeslot.Sat: rrule.SA,
}

func weekdays(days []timeslot.Day) []rrule.Weekday {
	out := make([]rrule.Weekday, 0, len(days))
	for _, d := range days {
		if wd, ok := ruleDays[d]; ok {
			out = append(out, wd)
		}
	}
	return out
}

func uidPart(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), "_"))
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
