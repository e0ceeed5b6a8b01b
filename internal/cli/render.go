package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/timetable/internal/heatmap"
	"github.com/Veraticus/timetable/internal/schedule"
	"github.com/Veraticus/timetable/internal/stats"
	"github.com/Veraticus/timetable/internal/timeslot"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// heatShades go from an empty bucket to the busiest one.
var heatShades = []string{"·", "░", "▒", "▓", "█"}

// RenderTable renders rows under headers with the application's table style.
func RenderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(BorderColor)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	return t.Render()
}

// RenderWeekly renders a weekly grid with one row per time slot and one
// column per day. A cell lists its meetings one per line.
func RenderWeekly(g schedule.WeeklyGrid) string {
	headers := make([]string, 0, len(g.Days)+1)
	headers = append(headers, "Time")
	for _, d := range g.Days {
		headers = append(headers, d.String())
	}

	rows := make([][]string, 0, len(g.Slots))
	for _, slot := range g.Slots {
		row := make([]string, 0, len(headers))
		row = append(row, slot)
		for _, d := range g.Days {
			entries := g.At(d, slot)
			lines := make([]string, len(entries))
			for i, e := range entries {
				lines[i] = joinParts(" ", e.CourseCode+sectionSuffix(e.Section), e.Hall)
			}
			row = append(row, strings.Join(lines, "\n"))
		}
		rows = append(rows, row)
	}
	return RenderTable(headers, rows)
}

// RenderExamGrid renders the exam calendar as one table per exam week.
func RenderExamGrid(g schedule.ExamGrid) string {
	var b strings.Builder
	offset := 0
	for _, week := range g.Weeks {
		dates := g.Dates[offset : offset+week.Count]
		offset += week.Count

		headers := make([]string, 0, len(dates)+1)
		headers = append(headers, "Slot")
		for _, d := range dates {
			headers = append(headers, d.Label+"\n"+d.Date.Weekday().String()[:3])
		}

		rows := make([][]string, 0, len(g.Slots))
		for _, slot := range g.Slots {
			row := make([]string, 0, len(headers))
			row = append(row, slot)
			for _, d := range dates {
				entries := g.At(d.Label, slot)
				lines := make([]string, len(entries))
				for i, e := range entries {
					lines[i] = joinParts(" ", e.CourseCode, e.ExamHall)
				}
				row = append(row, strings.Join(lines, "\n"))
			}
			rows = append(rows, row)
		}

		b.WriteString(BoldStyle.Render(week.Label))
		b.WriteString("\n")
		b.WriteString(RenderTable(headers, rows))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderHeatmap draws one block per teaching day; each hall is a line with
// one shade character per 10-minute bucket and the hour marks above.
func RenderHeatmap(h heatmap.Heatmap) string {
	maxValue := h.Max()
	width := 0
	for _, hall := range h.Halls {
		width = max(width, lipgloss.Width(hall))
	}

	var b strings.Builder
	for dayIndex, day := range timeslot.TeachingWeek {
		b.WriteString(BoldStyle.Render(day.String()))
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", width+1))
		b.WriteString(hourRuler())
		b.WriteString("\n")
		for y, hall := range h.Halls {
			b.WriteString(fmt.Sprintf("%-*s ", width, hall))
			for slot := 0; slot < heatmap.SlotsPerDay; slot++ {
				b.WriteString(shade(h.Value(dayIndex*heatmap.SlotsPerDay+slot, y), maxValue))
			}
			b.WriteString("\n")
		}
	}
	b.WriteString(SubtleStyle.Render(fmt.Sprintf("peak: %d concurrent sections", maxValue)))
	b.WriteString("\n")
	return b.String()
}

func hourRuler() string {
	var b strings.Builder
	perHour := 60 / heatmap.SlotMinutes
	for minute := heatmap.WindowStart; minute < heatmap.WindowEnd; minute += 60 {
		label := fmt.Sprintf("%02d", minute/60)
		b.WriteString(label)
		b.WriteString(strings.Repeat(" ", perHour-len(label)))
	}
	return b.String()
}

func shade(value, maxValue int) string {
	if value <= 0 || maxValue <= 0 {
		return heatShades[0]
	}
	steps := len(heatShades) - 1
	i := (value*steps + maxValue - 1) / maxValue
	return heatShades[min(max(i, 1), steps)]
}

// RenderHours renders a teaching-hours breakdown as outer, inner and hours,
// outer keys and their inner keys ordered by hours.
func RenderHours(b stats.Breakdown, outerHeader, innerHeader string) string {
	rows := [][]string{}
	for _, outer := range stats.SortOuterByTotal(b.Data) {
		inner := stats.Nested{outer: b.Data[outer]}
		for _, key := range stats.SortInnerByTotal(inner) {
			rows = append(rows, []string{
				b.OuterLabel(outer),
				b.InnerLabel(key),
				stats.FormatHoursMinutes(b.Data[outer][key]),
			})
		}
	}
	rows = append(rows, []string{"Total", "", stats.FormatHoursMinutes(b.Total())})
	return RenderTable([]string{outerHeader, innerHeader, "Hours"}, rows)
}

// RenderFaculty renders the faculty tree with departments indented under
// their college.
func RenderFaculty(tree *stats.FacultyTree) string {
	rows := [][]string{}
	for _, college := range tree.Colleges {
		rows = append(rows, []string{college.Label, fmt.Sprint(college.Count)})
		for _, dept := range college.Children {
			rows = append(rows, []string{"  " + dept.Label, fmt.Sprint(dept.Count)})
		}
	}
	rows = append(rows, []string{"Total", fmt.Sprint(tree.Total)})
	return RenderTable([]string{"College / Department", "Faculty"}, rows)
}

func sectionSuffix(section string) string {
	if section == "" {
		return ""
	}
	return "-" + section
}

func joinParts(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
