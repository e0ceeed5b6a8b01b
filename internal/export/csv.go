// Package export writes canonical rows and derived views to CSV and iCalendar files.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/timetable/internal/model"
)

// Column is one exported column: the row field and its header label.
type Column struct {
	Field string
	Label string
}

// ScheduleColumns is the column order and header text of the data table view.
var ScheduleColumns = []Column{
	{Field: model.FieldCourseCode, Label: "Course code"},
	{Field: model.FieldCourseName, Label: "Course name"},
	{Field: model.FieldSection, Label: "Section"},
	{Field: model.FieldCreditHours, Label: "Credit hours"},
	{Field: model.FieldStudentsInSection, Label: "Enrolled"},
	{Field: model.FieldMaxStudents, Label: "Max Students"},
	{Field: model.FieldLevel, Label: "Level"},
	{Field: model.FieldSectionType, Label: "Section type"},
	{Field: model.FieldCourseLanguage, Label: "Course language"},
	{Field: model.FieldRoomCapacity, Label: "Room capacity"},
	{Field: model.FieldInstructor, Label: "Instructor"},
	{Field: model.FieldDay, Label: "Day"},
	{Field: model.FieldStartTime, Label: "Time start"},
	{Field: model.FieldEndTime, Label: "Time end"},
	{Field: model.FieldHall, Label: "Hall"},
	{Field: model.FieldBuilding, Label: "Building"},
	{Field: model.FieldCollege, Label: "College"},
	{Field: model.FieldDepartment, Label: "Department"},
	{Field: model.FieldExamDate, Label: "Exam Date"},
	{Field: model.FieldExamDay, Label: "Exam Day"},
	{Field: model.FieldExamStartTime, Label: "Exam Start"},
	{Field: model.FieldExamEndTime, Label: "Exam End"},
	{Field: model.FieldExamBuilding, Label: "Exam Building"},
	{Field: model.FieldExamHall, Label: "Exam Hall"},
}

// ColumnsFor returns the export columns of a dataset in source order,
// labelled with the source header text.
func ColumnsFor(columns []model.ColumnMeta) []Column {
	out := make([]Column, 0, len(columns))
	for _, c := range columns {
		label := c.Label
		if label == "" {
			label = c.ID
		}
		out = append(out, Column{Field: c.ID, Label: label})
	}
	return out
}

// WriteCSV writes a header of column labels followed by one record per row.
// Fields holding a comma, quote or newline are quoted with embedded quotes
// doubled; nothing else is quoted or rewritten. Dates are written in
// ISO-8601. Records are joined by CRLF with no terminator after the last one.
func WriteCSV(w io.Writer, columns []Column, rows []model.Row) error {
	var b strings.Builder

	for i, c := range columns {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeField(c.Label))
	}

	for _, r := range rows {
		b.WriteString("\r\n")
		for i, c := range columns {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeField(r.Get(c.Field).Text()))
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func escapeField(v string) string {
	if !strings.ContainsAny(v, ",\"\n") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// FileName is the download name for an exported set of rows.
func FileName(prefix, semester string, n int) string {
	if semester == "" {
		semester = "all"
	}
	return fmt.Sprintf("%s_%s_%drows.csv", prefix, semester, n)
}
