package normalize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/timetable/internal/model"
)

func col(label, typ string) model.ColumnMeta {
	return model.ColumnMeta{ID: label, Label: label, Type: typ}
}

func str(s string) model.Value { return model.String(s) }

func scheduleTable(rows ...[]model.Value) model.Table {
	return model.Table{
		Columns: []model.ColumnMeta{
			col("Course Code", "string"),
			col("Section", "string"),
			col("Day", "string"),
			col("Start Time", "string"),
			col("End Time", "string"),
			col("Instructor", "string"),
			col("Hall", "string"),
			col("Building", "string"),
			col("Semester", "string"),
		},
		Rows: rows,
	}
}

func TestNormalize_PrefixStripping(t *testing.T) {
	table := model.Table{
		Columns: []model.ColumnMeta{col("Collage", "string"), col("Department", "string"), col("Course Code", "string")},
		Rows: [][]model.Value{
			{str("Collage of Science"), str("Department of Mathematics"), str("MATH101")},
			{str("College of Engineering"), str("Civil Department"), str("CIV200")},
		},
	}

	ds := Normalize(table)
	require.Len(t, ds.Rows, 2)

	// The misspelled header maps to college but its value prefix is kept.
	assert.Equal(t, "Collage of Science", ds.Rows[0].Text(model.FieldCollege))
	assert.Equal(t, "Mathematics", ds.Rows[0].Text(model.FieldDepartment))
	assert.Equal(t, "Engineering", ds.Rows[1].Text(model.FieldCollege))
	assert.Equal(t, "Civil Department", ds.Rows[1].Text(model.FieldDepartment))
	assert.Equal(t, model.FieldCollege, ds.Columns[0].ID)
}

func TestNormalize_ClosedSection(t *testing.T) {
	table := scheduleTable(
		[]model.Value{str("MATH101"), str("1"), str("Mon"), str("09:00"), str("10:00"), str("To Be Announced"), str("CLO"), str("Closed Section"), str("Fall")},
		[]model.Value{str("MATH101"), str("2"), str("Mon"), str("09:00"), str("10:00"), str("to be announced."), str("clo"), str("closed-section"), str("Fall")},
		[]model.Value{str("MATH101"), str("3"), str("Mon"), str("09:00"), str("10:00"), str("Dr. Smith"), str("CLO"), str("Closed Section"), str("Fall")},
	)

	res := New(Options{}, nil).Normalize(table)
	require.Len(t, res.Dataset.Rows, 1)
	assert.Equal(t, "3", res.Dataset.Rows[0].Text(model.FieldSection))
	assert.Equal(t, 2, res.Closed)
}

func TestNormalize_Dedup(t *testing.T) {
	row := []model.Value{str("MATH101"), str("1"), str("Mon"), str("09:00"), str("10:00"), str("Dr. Smith"), str("A1"), str("B"), str("Fall")}
	variant := []model.Value{str(" math101 "), str("1"), str("MON"), str("09:00"), str("10:00"), str("dr. smith"), str("a1"), str("Other"), str("fall")}
	other := []model.Value{str("MATH101"), str("1"), str("Wed"), str("09:00"), str("10:00"), str("Dr. Smith"), str("A1"), str("B"), str("Fall")}

	table := scheduleTable(row, variant, other)
	res := New(Options{}, nil).Normalize(table)

	require.Len(t, res.Dataset.Rows, 2)
	assert.Equal(t, 1, res.Duplicates)
	assert.Equal(t, "B", res.Dataset.Rows[0].Text(model.FieldBuilding), "first occurrence wins")

	again := New(Options{}, nil).Normalize(table)
	assert.Equal(t, len(res.Dataset.Rows), len(again.Dataset.Rows))
}

func TestNormalize_ExamCompound(t *testing.T) {
	table := model.Table{
		Columns: []model.ColumnMeta{col("Course Code", "string"), col("Final Exam", "string")},
		Rows: [][]model.Value{
			{str("MATH101"), str("28/12/2025 SUN 11:30:00 - 14:30:00")},
			{str("PHYS110"), str("to be scheduled")},
			{str("CHEM100"), str("02/01/2026 FRI 8:00 - 10:00")},
		},
	}

	ds := Normalize(table)
	require.Len(t, ds.Rows, 3)

	first := ds.Rows[0]
	assert.Equal(t, "28/12/2025", first.Text(model.FieldExamDate))
	assert.Equal(t, "SUN", first.Text(model.FieldExamDay))
	assert.Equal(t, "11:30", first.Text(model.FieldExamStartTime))
	assert.Equal(t, "14:30", first.Text(model.FieldExamEndTime))
	assert.Equal(t, "28/12/2025 SUN 11:30:00 - 14:30:00", first.Text(model.FieldExamDateTime))

	second := ds.Rows[1]
	assert.Equal(t, "to be scheduled", second.Text(model.FieldExamDateTime))
	assert.True(t, second.Get(model.FieldExamDate).IsNull())

	assert.Equal(t, "08:00", ds.Rows[2].Text(model.FieldExamStartTime))
}

func TestNormalize_Coercion(t *testing.T) {
	table := model.Table{
		Columns: []model.ColumnMeta{
			col("Room Capacity", "number"),
			col("Enrolled", "number"),
			col("Start Time", "timeofday"),
			col("Exam Start", "datetime"),
			col("Exam Date", "date"),
			col("Day", "date"),
			col("Registered On", "date"),
			col("UE", "string"),
			col("UR", "string"),
			col("Online", "boolean"),
		},
		Rows: [][]model.Value{{
			str("forty"),
			model.Number(32),
			str("09:00"),
			str("Date(1899,11,30,14,30,0)"),
			str("Date(2025,11,28)"),
			str("Date(2025,11,28)"),
			str("Date(2025,8,1)"),
			str(" Yes "),
			str("no"),
			str("true"),
		}},
	}

	ds := Normalize(table)
	require.Len(t, ds.Rows, 1)
	r := ds.Rows[0]

	assert.True(t, math.IsNaN(r.Get(model.FieldRoomCapacity).Num))
	assert.Equal(t, 32.0, r.Float(model.FieldStudentsInSection))
	assert.Equal(t, "09:00", r.Text(model.FieldStartTime))
	assert.Equal(t, "14:30", r.Text(model.FieldExamStartTime))
	assert.Equal(t, "28 Dec 2025", r.Text(model.FieldExamDate))
	assert.Equal(t, "Sun", r.Text(model.FieldDay))
	assert.True(t, r.Get("registered_on").IsDate())
	assert.Equal(t, "2025-09-01T00:00:00.000Z", r.Text("registered_on"))
	assert.Equal(t, model.Bool(true), r.Get(model.FieldUniversityElective))
	assert.Equal(t, model.Bool(false), r.Get(model.FieldUniversityRequirement))
	assert.Equal(t, model.Bool(true), r.Get("online"))
}

func TestNormalize_ShortRowsAndNulls(t *testing.T) {
	table := model.Table{
		Columns: []model.ColumnMeta{col("Course Code", "string"), col("Hall", "string"), col("UE", "string")},
		Rows:    [][]model.Value{{str("MATH101")}},
	}

	ds := Normalize(table)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "", ds.Rows[0].Text(model.FieldHall))
	assert.Equal(t, model.Bool(false), ds.Rows[0].Get(model.FieldUniversityElective))
}
