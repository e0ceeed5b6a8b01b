package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/timetable/internal/model"
	"github.com/Veraticus/timetable/internal/timeslot"
)

// DefaultExamHall is shown when a row has no exam hall.
const DefaultExamHall = "TBA"

// ExamEntry is one course sitting an exam in a date by slot cell. Rows of the
// same course in the same cell are merged into a single entry.
type ExamEntry struct {
	CourseCode   string
	CourseName   string
	Instructor   string
	ExamBuilding string
	ExamHall     string
}

// ExamDate is a date column of the exam grid. Label is the raw exam_date text.
type ExamDate struct {
	Date  time.Time
	Label string
}

// WeekGroup is a merged header cell spanning Count consecutive date columns.
type WeekGroup struct {
	Label string
	Count int
}

// ExamGrid is a date by time-slot grid of exams.
type ExamGrid struct {
	Cells map[string]map[string][]ExamEntry
	Dates []ExamDate
	Slots []string
	Weeks []WeekGroup
}

// At returns the entries for a cell, keyed by the date label.
func (g ExamGrid) At(date, slot string) []ExamEntry {
	return g.Cells[date][slot]
}

// BuildExamGrid groups rows by exam date and exam slot. Dates that cannot be
// parsed and rows missing an exam start or end are left out.
func BuildExamGrid(rows []model.Row) ExamGrid {
	dateIndex := make(map[string]time.Time)
	slotSet := make(map[string]bool)

	for _, r := range rows {
		label := r.Text(model.FieldExamDate)
		if label == "" {
			continue
		}
		if _, ok := dateIndex[label]; ok {
			continue
		}
		if t, ok := timeslot.ParseDate(label, time.UTC); ok {
			dateIndex[label] = t
		}
	}

	for _, r := range rows {
		if slot, ok := examSlot(r); ok {
			slotSet[slot] = true
		}
	}

	grid := ExamGrid{
		Dates: make([]ExamDate, 0, len(dateIndex)),
		Slots: sortedSlots(slotSet),
		Cells: make(map[string]map[string][]ExamEntry, len(dateIndex)),
	}
	for label, t := range dateIndex {
		grid.Dates = append(grid.Dates, ExamDate{Label: label, Date: t})
	}
	sort.Slice(grid.Dates, func(i, j int) bool {
		if !grid.Dates[i].Date.Equal(grid.Dates[j].Date) {
			return grid.Dates[i].Date.Before(grid.Dates[j].Date)
		}
		return grid.Dates[i].Label < grid.Dates[j].Label
	})

	// index of each course within its cell, for merging
	positions := make(map[string]int)

	for _, r := range rows {
		date := r.Text(model.FieldExamDate)
		if _, ok := dateIndex[date]; !ok {
			continue
		}
		slot, ok := examSlot(r)
		if !ok {
			continue
		}
		if grid.Cells[date] == nil {
			grid.Cells[date] = make(map[string][]ExamEntry)
		}

		code := r.Text(model.FieldCourseCode)
		key := date + "\x1f" + slot + "\x1f" + code
		hall := r.Text(model.FieldExamHall)
		if hall == "" {
			hall = DefaultExamHall
		}

		if idx, seen := positions[key]; seen {
			entry := &grid.Cells[date][slot][idx]
			entry.Instructor = MergeCSV(entry.Instructor, r.Text(model.FieldInstructor))
			entry.ExamBuilding = MergeCSV(entry.ExamBuilding, r.Text(model.FieldExamBuilding))
			entry.ExamHall = MergeCSV(entry.ExamHall, hall)
			if entry.CourseName == "" {
				entry.CourseName = r.Text(model.FieldCourseName)
			}
			continue
		}

		positions[key] = len(grid.Cells[date][slot])
		grid.Cells[date][slot] = append(grid.Cells[date][slot], ExamEntry{
			CourseCode:   code,
			CourseName:   r.Text(model.FieldCourseName),
			Instructor:   MergeCSV("", r.Text(model.FieldInstructor)),
			ExamBuilding: MergeCSV("", r.Text(model.FieldExamBuilding)),
			ExamHall:     MergeCSV("", hall),
		})
	}

	for _, slots := range grid.Cells {
		for _, entries := range slots {
			sort.SliceStable(entries, func(i, j int) bool {
				return compareCodes(entries[i].CourseCode, entries[j].CourseCode) < 0
			})
		}
	}

	times := make([]time.Time, len(grid.Dates))
	for i, d := range grid.Dates {
		times[i] = d.Date
	}
	grid.Weeks = WeekGroups(times)

	return grid
}

func examSlot(r model.Row) (string, bool) {
	start := r.Text(model.FieldExamStartTime)
	end := r.Text(model.FieldExamEndTime)
	if start == "" || end == "" {
		return "", false
	}
	return start + "-" + end, true
}

func compareCodes(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// WeekGroups labels each date "Week N" counted from the Sunday on or before the
// first date, and merges consecutive dates with the same label.
func WeekGroups(dates []time.Time) []WeekGroup {
	if len(dates) == 0 {
		return nil
	}

	first := civil(dates[0])
	anchor := first.AddDate(0, 0, -int(first.Weekday()))

	groups := []WeekGroup{}
	for _, d := range dates {
		days := int(civil(d).Sub(anchor).Hours() / 24)
		label := fmt.Sprintf("Week %d", floorDiv(days, 7)+1)

		if n := len(groups); n > 0 && groups[n-1].Label == label {
			groups[n-1].Count++
			continue
		}
		groups = append(groups, WeekGroup{Label: label, Count: 1})
	}
	return groups
}

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// MergeCSV unions the comma-separated tokens of a and b, trimmed, in
// first-seen order, and joins them with ", ".
func MergeCSV(a, b string) string {
	seen := make(map[string]bool)
	out := []string{}
	for _, part := range []string{a, b} {
		for _, token := range strings.Split(part, ",") {
			token = strings.TrimSpace(token)
			if token == "" || seen[token] {
				continue
			}
			seen[token] = true
			out = append(out, token)
		}
	}
	return strings.Join(out, ", ")
}
