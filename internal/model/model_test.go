package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValueText(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{name: "null", value: Null(), want: ""},
		{name: "zero value", value: Value{}, want: ""},
		{name: "string", value: String("MATH101"), want: "MATH101"},
		{name: "integer number", value: Number(30), want: "30"},
		{name: "fractional number", value: Number(3.5), want: "3.5"},
		{name: "nan", value: Number(math.NaN()), want: "NaN"},
		{name: "bool", value: Bool(true), want: "true"},
		{name: "date", value: Date(time.Date(2025, 12, 28, 11, 30, 0, 0, time.UTC)), want: "2025-12-28T11:30:00.000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.Text())
		})
	}
}

func TestValueFloat(t *testing.T) {
	assert.InDelta(t, 1234.5, String("1,234.5").Float(), 1e-9)
	assert.Equal(t, 0.0, String("n/a").Float())
	assert.Equal(t, 0.0, Number(math.NaN()).Float())
	assert.Equal(t, 0.0, Number(math.Inf(1)).Float())
	assert.Equal(t, 42.0, Number(42).Float())
	assert.Equal(t, 0.0, Null().Float())
}

func TestValueTruthy(t *testing.T) {
	for _, s := range []string{"yes", "Y", " TRUE ", "1"} {
		assert.True(t, String(s).Truthy(), s)
	}
	for _, s := range []string{"no", "", "maybe", "0"} {
		assert.False(t, String(s).Truthy(), s)
	}
	assert.True(t, Bool(true).Truthy())
	assert.False(t, Null().Truthy())
}

func TestRowAccessors(t *testing.T) {
	r := Row{FieldHall: String("  A101 "), FieldRoomCapacity: Number(40)}
	assert.Equal(t, "A101", r.Text(FieldHall))
	assert.Equal(t, "", r.Text(FieldBuilding))
	assert.True(t, r.Get(FieldBuilding).IsNull())
	assert.Equal(t, 40.0, r.Float(FieldRoomCapacity))

	c := r.Clone()
	c[FieldHall] = String("B2")
	assert.Equal(t, "A101", r.Text(FieldHall))
}

func TestRowFilter(t *testing.T) {
	yes := true
	rows := []Row{
		{FieldSemester: String("Fall 2025"), FieldCollege: String("Science"), FieldCourseCode: String("MATH101"), FieldUniversityElective: Bool(true), FieldCreditHours: Number(3)},
		{FieldSemester: String("fall 2025"), FieldCollege: String("Engineering"), FieldCourseCode: String("ENG201"), FieldUniversityElective: Bool(false), FieldCreditHours: Number(4)},
		{FieldSemester: String("Spring 2026"), FieldCollege: String("Science"), FieldCourseCode: String("PHYS110"), FieldCreditHours: Number(2)},
	}

	tests := []struct {
		name   string
		filter RowFilter
		want   []string
	}{
		{name: "empty filter keeps all", filter: RowFilter{}, want: []string{"MATH101", "ENG201", "PHYS110"}},
		{name: "semester is case insensitive", filter: RowFilter{Semester: "FALL 2025"}, want: []string{"MATH101", "ENG201"}},
		{name: "college", filter: RowFilter{Colleges: []string{"Science"}}, want: []string{"MATH101", "PHYS110"}},
		{name: "elective only", filter: RowFilter{Elective: &yes}, want: []string{"MATH101"}},
		{name: "credit window", filter: RowFilter{CreditMin: 3, CreditMax: 3}, want: []string{"MATH101"}},
		{name: "course", filter: RowFilter{Courses: []string{"PHYS110"}}, want: []string{"PHYS110"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(rows)
			codes := make([]string, 0, len(got))
			for _, r := range got {
				codes = append(codes, r.Text(FieldCourseCode))
			}
			assert.Equal(t, tt.want, codes)
		})
	}
}
