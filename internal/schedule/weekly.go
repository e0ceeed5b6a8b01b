// Package schedule projects canonical rows onto weekly and exam calendar grids.
package schedule

import (
	"sort"

	"github.com/Veraticus/timetable/internal/model"
	"github.com/Veraticus/timetable/internal/timeslot"
)

// Entry is one course meeting placed in a weekly grid cell.
type Entry struct {
	Row        model.Row
	CourseCode string
	CourseName string
	Section    string
	Instructor string
	Hall       string
	Building   string
}

// WeeklyGrid is a day by time-slot grid. Every day and slot listed on the
// axes has a (possibly empty) cell.
type WeeklyGrid struct {
	Cells map[timeslot.Day]map[string][]Entry
	Days  []timeslot.Day
	Slots []string
}

// At returns the entries for a cell.
func (g WeeklyGrid) At(day timeslot.Day, slot string) []Entry {
	return g.Cells[day][slot]
}

// Count returns the number of entries across every cell.
func (g WeeklyGrid) Count() int {
	n := 0
	for _, slots := range g.Cells {
		for _, entries := range slots {
			n += len(entries)
		}
	}
	return n
}

// BuildWeekly places every row in each of its days at its "start-end" slot.
// Rows sharing a cell are not merged; callers pass deduplicated rows.
func BuildWeekly(rows []model.Row) WeeklyGrid {
	daySet := make(map[timeslot.Day]bool)
	slotSet := make(map[string]bool)

	for _, r := range rows {
		for _, d := range timeslot.ExtractDays(r.Text(model.FieldDay)) {
			daySet[d] = true
		}
		slot := rowSlot(r)
		if slot != "-" {
			slotSet[slot] = true
		}
	}

	grid := WeeklyGrid{
		Days:  make([]timeslot.Day, 0, len(daySet)),
		Slots: sortedSlots(slotSet),
		Cells: make(map[timeslot.Day]map[string][]Entry, len(daySet)),
	}
	for d := range daySet {
		grid.Days = append(grid.Days, d)
	}
	timeslot.SortDays(grid.Days)

	for _, d := range grid.Days {
		grid.Cells[d] = make(map[string][]Entry, len(grid.Slots))
		for _, s := range grid.Slots {
			grid.Cells[d][s] = []Entry{}
		}
	}

	for _, r := range rows {
		slot := rowSlot(r)
		for _, d := range timeslot.ExtractDays(r.Text(model.FieldDay)) {
			cell, ok := grid.Cells[d][slot]
			if !ok {
				continue
			}
			grid.Cells[d][slot] = append(cell, Entry{
				Row:        r,
				CourseCode: r.Text(model.FieldCourseCode),
				CourseName: r.Text(model.FieldCourseName),
				Section:    r.Text(model.FieldSection),
				Instructor: r.Text(model.FieldInstructor),
				Hall:       r.Text(model.FieldHall),
				Building:   r.Text(model.FieldBuilding),
			})
		}
	}

	return grid
}

func rowSlot(r model.Row) string {
	return timeslot.SlotLabel(r.Text(model.FieldStartTime), r.Text(model.FieldEndTime))
}

func sortedSlots(set map[string]bool) []string {
	slots := make([]string, 0, len(set))
	for s := range set {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool {
		a, b := timeslot.ParseRange(slots[i]), timeslot.ParseRange(slots[j])
		if a != b {
			return a.Less(b)
		}
		return slots[i] < slots[j]
	})
	return slots
}
