// Package model defines the timetable cell, row and filter types shared across the application.
package model

import "strings"

// Canonical field names produced by the normalizer.
const (
	FieldCollege               = "college"
	FieldDepartment            = "department"
	FieldCourseCode            = "course_code"
	FieldCourseName            = "course_name"
	FieldSection               = "section"
	FieldInstructor            = "instructor"
	FieldInstructorCode        = "instructor_code"
	FieldDay                   = "day"
	FieldStartTime             = "start_time"
	FieldEndTime               = "end_time"
	FieldHall                  = "hall"
	FieldBuilding              = "building"
	FieldRoomCapacity          = "room_capacity"
	FieldSemester              = "semester"
	FieldUniversityElective    = "university_elective"
	FieldUniversityRequirement = "university_requirement"
	FieldCreditHours           = "credit_hours"
	FieldLevel                 = "level"
	FieldCourseLanguage        = "course_language"
	FieldSectionType           = "section_type"
	FieldStudentsInSection     = "students_in_section"
	FieldMaxStudents           = "max_students"
	FieldExamDateTime          = "exam_date_time"
	FieldExamDate              = "exam_date"
	FieldExamDay               = "exam_day"
	FieldExamStartTime         = "exam_start_time"
	FieldExamEndTime           = "exam_end_time"
	FieldExamBuilding          = "exam_building"
	FieldExamHall              = "exam_hall"
)

// ColumnMeta describes one source column.
type ColumnMeta struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Type    string `json:"type"`
	Pattern string `json:"pattern,omitempty"`
}

// Table is a raw feed: column metadata plus rows of cells aligned by position.
type Table struct {
	Columns []ColumnMeta
	Rows    [][]Value
}

// Row is one canonical timetable record keyed by field name.
// Fields are never guaranteed to be present.
type Row map[string]Value

// Get returns the value of field, or null when absent.
func (r Row) Get(field string) Value {
	if v, ok := r[field]; ok {
		return v
	}
	return Null()
}

// Text returns the trimmed text of field, or "" when absent.
func (r Row) Text(field string) string {
	return strings.TrimSpace(r.Get(field).Text())
}

// Float returns the numeric reading of field, zero when absent or invalid.
func (r Row) Float(field string) float64 {
	return r.Get(field).Float()
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Dataset is the normalized feed.
type Dataset struct {
	Columns []ColumnMeta
	Rows    []Row
}
