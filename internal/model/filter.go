package model

import "strings"

// RowFilter narrows canonical rows before they are projected.
// Empty fields match every row.
type RowFilter struct {
	Elective    *bool
	Requirement *bool
	Semester    string
	Level       string
	Colleges    []string
	Departments []string
	Courses     []string
	Languages   []string
	Instructors []string
	CreditMin   float64
	CreditMax   float64
}

// Match reports whether r passes every populated criterion.
func (f RowFilter) Match(r Row) bool {
	if f.Semester != "" && !strings.EqualFold(r.Text(FieldSemester), strings.TrimSpace(f.Semester)) {
		return false
	}
	if !anyOf(f.Colleges, r.Text(FieldCollege)) {
		return false
	}
	if !anyOf(f.Departments, r.Text(FieldDepartment)) {
		return false
	}
	if !anyOf(f.Courses, r.Text(FieldCourseCode)) {
		return false
	}
	if !anyOf(f.Languages, r.Text(FieldCourseLanguage)) {
		return false
	}
	if !anyOf(f.Instructors, r.Text(FieldInstructor)) {
		return false
	}
	if f.Level != "" && !strings.EqualFold(r.Text(FieldLevel), strings.TrimSpace(f.Level)) {
		return false
	}
	if f.Elective != nil && r.Get(FieldUniversityElective).Truthy() != *f.Elective {
		return false
	}
	if f.Requirement != nil && r.Get(FieldUniversityRequirement).Truthy() != *f.Requirement {
		return false
	}
	if f.CreditMin > 0 || f.CreditMax > 0 {
		credits := r.Float(FieldCreditHours)
		if f.CreditMin > 0 && credits < f.CreditMin {
			return false
		}
		if f.CreditMax > 0 && credits > f.CreditMax {
			return false
		}
	}
	return true
}

// Apply returns the rows that match, preserving order.
func (f RowFilter) Apply(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func anyOf(options []string, value string) bool {
	if len(options) == 0 {
		return true
	}
	for _, o := range options {
		if strings.TrimSpace(o) == value {
			return true
		}
	}
	return false
}
