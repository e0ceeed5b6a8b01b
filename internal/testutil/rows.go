package testutil

import (
	"github.com/Veraticus/timetable/internal/model"
)

// RowBuilder builds canonical rows for tests.
//
// Example:
//
//	row := testutil.NewRow("CS101", "1").
//		Meeting("Sun Tue", "08:00", "09:15", "A-101").
//		Instructor("Dana Hale").
//		Build()
type RowBuilder struct {
	row model.Row
}

// NewRow starts a row for one section of a course.
func NewRow(code, section string) *RowBuilder {
	return &RowBuilder{row: model.Row{
		model.FieldCourseCode: model.String(code),
		model.FieldSection:    model.String(section),
	}}
}

// Name sets the course name.
func (b *RowBuilder) Name(name string) *RowBuilder {
	return b.Set(model.FieldCourseName, model.String(name))
}

// Meeting sets the meeting days, times and hall.
func (b *RowBuilder) Meeting(days, start, end, hall string) *RowBuilder {
	b.Set(model.FieldDay, model.String(days))
	b.Set(model.FieldStartTime, model.String(start))
	b.Set(model.FieldEndTime, model.String(end))
	return b.Set(model.FieldHall, model.String(hall))
}

// Instructor sets the instructor name.
func (b *RowBuilder) Instructor(name string) *RowBuilder {
	return b.Set(model.FieldInstructor, model.String(name))
}

// Org sets the college and department.
func (b *RowBuilder) Org(college, department string) *RowBuilder {
	b.Set(model.FieldCollege, model.String(college))
	return b.Set(model.FieldDepartment, model.String(department))
}

// Semester sets the semester.
func (b *RowBuilder) Semester(semester string) *RowBuilder {
	return b.Set(model.FieldSemester, model.String(semester))
}

// Enrolled sets the number of students in the section.
func (b *RowBuilder) Enrolled(n float64) *RowBuilder {
	return b.Set(model.FieldStudentsInSection, model.Number(n))
}

// Exam sets the final exam date (YYYY-MM-DD text) and times.
func (b *RowBuilder) Exam(date, start, end string) *RowBuilder {
	b.Set(model.FieldExamDate, model.String(date))
	b.Set(model.FieldExamStartTime, model.String(start))
	return b.Set(model.FieldExamEndTime, model.String(end))
}

// Set sets any field.
func (b *RowBuilder) Set(field string, v model.Value) *RowBuilder {
	b.row[field] = v
	return b
}

// Build returns a copy of the row, so a builder can stamp out variants.
func (b *RowBuilder) Build() model.Row {
	return b.row.Clone()
}
