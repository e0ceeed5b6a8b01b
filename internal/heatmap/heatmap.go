// Package heatmap counts concurrent sections per hall over the teaching week.
package heatmap

import (
	"math"
	"sort"

	"github.com/Veraticus/timetable/internal/model"
	"github.com/Veraticus/timetable/internal/timeslot"
)

// Analysis window and bucket size, in minutes from midnight.
const (
	WindowStart = 8 * 60
	WindowEnd   = 22 * 60
	SlotMinutes = 10

	// SlotsPerDay is the number of buckets in one day of the window.
	SlotsPerDay = (WindowEnd - WindowStart) / SlotMinutes

	// DefaultHallCount is how many halls are selected when none are chosen.
	DefaultHallCount = 5
)

// Cell addresses one heatmap cell: X is dayIndex*SlotsPerDay+slot and Y is
// the hall's index in Heatmap.Halls.
type Cell struct {
	X int
	Y int
}

// Point is one non-empty cell and its distinct section count.
type Point struct {
	X     int
	Y     int
	Value int
}

// Heatmap is the sparse hall-by-time utilization matrix.
type Heatmap struct {
	Halls   []string
	XLabels []string
	Points  []Point
	Details map[Cell][]string
}

// Value returns the section count at (x, y), zero for empty cells.
func (h Heatmap) Value(x, y int) int {
	return len(h.Details[Cell{X: x, Y: y}])
}

// Max returns the largest cell value.
func (h Heatmap) Max() int {
	m := 0
	for _, p := range h.Points {
		if p.Value > m {
			m = p.Value
		}
	}
	return m
}

// XLabels returns "Day HH:MM" for every bucket of the window, Sunday first.
func XLabels() []string {
	labels := make([]string, 0, len(timeslot.TeachingWeek)*SlotsPerDay)
	for _, d := range timeslot.TeachingWeek {
		for slot := 0; slot < SlotsPerDay; slot++ {
			labels = append(labels, d.String()+" "+timeslot.FormatMinutes(WindowStart+slot*SlotMinutes))
		}
	}
	return labels
}

// Build fills the heatmap for the selected halls. An empty selection falls
// back to DefaultSelection. Each cell counts distinct
// "code-section (start-end)" labels, so repeated rows do not inflate it.
// Halls keep selection order and drop those with no usable rows.
func Build(rows []model.Row, halls []string) Heatmap {
	if len(halls) == 0 {
		halls = DefaultSelection(HallOptions(rows))
	}
	selected := make(map[string]bool, len(halls))
	for _, h := range halls {
		selected[h] = true
	}

	present := make(map[string]bool)
	labels := make(map[string]map[int]map[string]struct{})

	for _, r := range rows {
		hall := r.Text(model.FieldHall)
		if hall == "" || !selected[hall] {
			continue
		}

		startRaw := clip5(r.Text(model.FieldStartTime))
		endRaw := clip5(r.Text(model.FieldEndTime))
		start, ok := timeslot.ParseMinutes(startRaw)
		if !ok {
			continue
		}
		end, ok := timeslot.ParseMinutes(endRaw)
		if !ok {
			continue
		}
		if end <= WindowStart || start >= WindowEnd {
			continue
		}

		days := teachingDays(r.Text(model.FieldDay))
		if len(days) == 0 {
			continue
		}
		present[hall] = true

		course := r.Text(model.FieldCourseCode)
		section := r.Text(model.FieldSection)
		if course == "" || section == "" {
			continue
		}
		label := course + "-" + section + " (" + startRaw + "-" + endRaw + ")"

		first := max(0, int(math.Floor(float64(start-WindowStart)/SlotMinutes)))
		last := min(SlotsPerDay, int(math.Ceil(float64(end-WindowStart)/SlotMinutes)))
		for _, dayIndex := range days {
			for slot := first; slot < last; slot++ {
				x := dayIndex*SlotsPerDay + slot
				byX, ok := labels[hall]
				if !ok {
					byX = make(map[int]map[string]struct{})
					labels[hall] = byX
				}
				set, ok := byX[x]
				if !ok {
					set = make(map[string]struct{})
					byX[x] = set
				}
				set[label] = struct{}{}
			}
		}
	}

	h := Heatmap{
		Halls:   []string{},
		XLabels: XLabels(),
		Points:  []Point{},
		Details: make(map[Cell][]string),
	}
	for _, hall := range halls {
		if !present[hall] {
			continue
		}
		y := len(h.Halls)
		h.Halls = append(h.Halls, hall)

		for x, set := range labels[hall] {
			details := make([]string, 0, len(set))
			for l := range set {
				details = append(details, l)
			}
			sort.Strings(details)
			h.Details[Cell{X: x, Y: y}] = details
			h.Points = append(h.Points, Point{X: x, Y: y, Value: len(details)})
		}
	}
	sort.Slice(h.Points, func(i, j int) bool {
		if h.Points[i].Y != h.Points[j].Y {
			return h.Points[i].Y < h.Points[j].Y
		}
		return h.Points[i].X < h.Points[j].X
	})
	return h
}

// HallOptions lists the distinct trimmed halls in rows, sorted.
func HallOptions(rows []model.Row) []string {
	set := make(map[string]bool)
	for _, r := range rows {
		if h := r.Text(model.FieldHall); h != "" {
			set[h] = true
		}
	}
	out := make([]string, 0, len(set))
	for h := range set {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// DefaultSelection is the first DefaultHallCount halls.
func DefaultSelection(halls []string) []string {
	if len(halls) > DefaultHallCount {
		return halls[:DefaultHallCount]
	}
	return halls
}

// teachingDays returns the Sunday-based indexes of the row's days that fall in
// the teaching week.
func teachingDays(text string) []int {
	var out []int
	for _, d := range timeslot.ExtractDays(text) {
		for i, td := range timeslot.TeachingWeek {
			if d == td {
				out = append(out, i)
			}
		}
	}
	return out
}

func clip5(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}
