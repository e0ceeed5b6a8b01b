package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/timetable/internal/model"
)

type fixture struct {
	semester   string
	college    string
	department string
	course     string
	section    string
	level      string
	instructor string
	code       string
	day        string
	start      string
	end        string
	enrolled   float64
	kind       string
}

func (s fixture) row() model.Row {
	r := model.Row{
		model.FieldSemester:          model.String(s.semester),
		model.FieldCollege:           model.String(s.college),
		model.FieldDepartment:        model.String(s.department),
		model.FieldCourseCode:        model.String(s.course),
		model.FieldSection:           model.String(s.section),
		model.FieldLevel:             model.String(s.level),
		model.FieldInstructor:        model.String(s.instructor),
		model.FieldInstructorCode:    model.String(s.code),
		model.FieldDay:               model.String(s.day),
		model.FieldStartTime:         model.String(s.start),
		model.FieldEndTime:           model.String(s.end),
		model.FieldStudentsInSection: model.Number(s.enrolled),
		model.FieldSectionType:       model.String(s.kind),
	}
	return r
}

func rowsOf(sections ...fixture) []model.Row {
	out := make([]model.Row, 0, len(sections))
	for _, s := range sections {
		out = append(out, s.row())
	}
	return out
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "computer science", NormalizeKey("  Computer \t Science "))
	assert.Equal(t, "", NormalizeKey("   "))
}

func TestNormalizeLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   Level
		wantOK bool
	}{
		{in: "UG", want: LevelUG, wantOK: true},
		{in: "Undergraduate", want: LevelUG, wantOK: true},
		{in: "undergrad", want: LevelUG, wantOK: true},
		{in: "PG", want: LevelPG, wantOK: true},
		{in: "Graduate", want: LevelPG, wantOK: true},
		{in: "Masters", want: LevelPG, wantOK: true},
		{in: "PhD", want: LevelPG, wantOK: true},
		{in: "Doctoral", want: LevelPG, wantOK: true},
		{in: "Diploma", wantOK: false},
		{in: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeLevel(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatHoursMinutes(t *testing.T) {
	assert.Equal(t, "0:00", FormatHoursMinutes(0))
	assert.Equal(t, "1:30", FormatHoursMinutes(1.5))
	assert.Equal(t, "2:05", FormatHoursMinutes(2+5.0/60))
	assert.Equal(t, "0:00", FormatHoursMinutes(-3))
}

func TestBuildBase_EnrollmentTakesSectionMax(t *testing.T) {
	rows := rowsOf(
		fixture{semester: "Fall 2024", college: "Science", department: "Math", course: "MATH101", section: "1", level: "UG", enrolled: 30, day: "Sun"},
		fixture{semester: "Fall 2024", college: "Science", department: "Math", course: "MATH101", section: "1", level: "UG", enrolled: 32, day: "Tue"},
		fixture{semester: "Fall 2024", college: "Science", department: "Math", course: "MATH101", section: "2", level: "UG", enrolled: 10, day: "Mon"},
		fixture{semester: "Fall 2024", college: "Science", department: "Math", course: "MATH501", section: "1", level: "Graduate", enrolled: 5, day: "Mon"},
	)

	b := BuildBase(rows, nil)

	assert.InDelta(t, 47, b.Enrollment("science", "fall 2024"), 1e-9)
	assert.InDelta(t, 47, b.DepartmentEnrollment("science", "math", "fall 2024"), 1e-9)
	assert.InDelta(t, 42, b.EnrollmentByCollegeLevel["science"]["fall 2024"][LevelUG], 1e-9)
	assert.InDelta(t, 5, b.EnrollmentByCollegeLevel["science"]["fall 2024"][LevelPG], 1e-9)

	assert.Equal(t, 2, b.UniqueCourses("science", "fall 2024"))
	assert.Equal(t, 2, b.DepartmentUniqueCourses("science", "math", "fall 2024"))
	assert.Equal(t, 1, b.LevelUniqueCourses("science", "fall 2024", LevelUG))
	assert.Equal(t, "Science", b.CollegeLabel("science"))
	assert.Equal(t, "Math", b.DepartmentLabel("science", "math"))
	assert.Equal(t, []string{"math"}, b.DepartmentKeys("science"))
}

func TestBuildBase_SkipsIncompleteRows(t *testing.T) {
	rows := rowsOf(
		fixture{semester: "Fall", college: "", department: "Math", course: "M1"},
		fixture{semester: "", college: "Science", department: "Math", course: "M1"},
		fixture{semester: "Fall", college: "Science", department: "Math", course: ""},
	)

	b := BuildBase(rows, nil)
	require.NotNil(t, b)
	assert.Empty(t, b.CollegeKeys)
	assert.Empty(t, b.SemesterKeys)
}

func TestBuildBase_SemesterOrdering(t *testing.T) {
	rows := rowsOf(
		fixture{semester: "Spring 2025", college: "Arts", department: "History", course: "H1"},
		fixture{semester: "Fall 2024", college: "Science", department: "Math", course: "M1"},
		fixture{semester: "Summer 2024", college: "Arts", department: "History", course: "H2"},
	)

	b := BuildBase(rows, []string{"Summer 2024", "Winter 2020"})
	assert.Equal(t, []string{"summer 2024", "fall 2024", "spring 2025"}, b.SemesterKeys)
	assert.Equal(t, []string{"arts", "science"}, b.CollegeKeys)
	assert.Equal(t, "Spring 2025", b.SemesterLabel("spring 2025"))
}

func TestBuildTeachingHours(t *testing.T) {
	tests := []struct {
		name       string
		rows       []model.Row
		opts       HoursOptions
		university Nested
		department Nested
	}{
		{
			name: "single session",
			rows: rowsOf(
				fixture{college: "Science", department: "Math", course: "MATH101", instructor: "Dr. A", day: "Sun", start: "09:00", end: "10:30"},
			),
			university: Nested{"science": {"math": 1.5}},
			department: Nested{"dr. a": {"math101": 1.5}},
		},
		{
			name: "cross-listed in two departments splits the hour",
			rows: rowsOf(
				fixture{college: "Science", department: "Math", course: "MATH300", instructor: "Dr. A", day: "Mon", start: "09:00", end: "10:00"},
				fixture{college: "Science", department: "Physics", course: "PHYS300", instructor: "Dr. A", day: "Mon", start: "09:00", end: "10:00"},
			),
			university: Nested{"science": {"math": 0.5, "physics": 0.5}},
			department: Nested{"dr. a": {"math300": 0.5, "phys300": 0.5}},
		},
		{
			name: "same department merges courses",
			rows: rowsOf(
				fixture{college: "Science", department: "Math", course: "MATH300", instructor: "Dr. A", day: "Mon", start: "09:00", end: "10:00"},
				fixture{college: "Science", department: "Math", course: "MATH500", instructor: "Dr. A", day: "Mon", start: "09:00", end: "10:00"},
			),
			university: Nested{"science": {"math": 1}},
			department: Nested{"dr. a": {"math300||math500": 1}},
		},
		{
			name: "partial overlap is sliced",
			rows: rowsOf(
				fixture{college: "Science", department: "Math", course: "MATH300", instructor: "Dr. A", day: "Tue", start: "09:00", end: "10:00"},
				fixture{college: "Science", department: "Physics", course: "PHYS300", instructor: "Dr. A", day: "Tue", start: "09:30", end: "10:30"},
			),
			university: Nested{"science": {"math": 0.75, "physics": 0.75}},
			department: Nested{"dr. a": {"math300": 0.75, "phys300": 0.75}},
		},
		{
			name: "friday and saturday do not count",
			rows: rowsOf(
				fixture{college: "Science", department: "Math", course: "MATH101", instructor: "Dr. A", day: "Fri Sat", start: "09:00", end: "10:00"},
			),
			university: Nested{},
			department: Nested{},
		},
		{
			name: "multi-day rows count each day",
			rows: rowsOf(
				fixture{college: "Science", department: "Math", course: "MATH101", instructor: "Dr. A", day: "Sun/Tue/Thu", start: "08:00", end: "08:50"},
			),
			university: Nested{"science": {"math": 2.5}},
			department: Nested{"dr. a": {"math101": 2.5}},
		},
		{
			name: "invalid times are skipped",
			rows: rowsOf(
				fixture{college: "Science", department: "Math", course: "MATH101", instructor: "Dr. A", day: "Sun", start: "TBA", end: "10:00"},
				fixture{college: "Science", department: "Math", course: "MATH102", instructor: "Dr. A", day: "Sun", start: "11:00", end: "10:00"},
			),
			university: Nested{},
			department: Nested{},
		},
		{
			name: "excluded section types",
			rows: rowsOf(
				fixture{college: "Science", department: "Math", course: "MATH101", instructor: "Dr. A", day: "Sun", start: "09:00", end: "10:00", kind: "Lab"},
				fixture{college: "Science", department: "Math", course: "MATH101", instructor: "Dr. A", day: "Mon", start: "09:00", end: "10:00", kind: "Lecture"},
			),
			opts:       HoursOptions{ExcludeSectionTypes: []string{" lab "}},
			university: Nested{"science": {"math": 1}},
			department: Nested{"dr. a": {"math101": 1}},
		},
		{
			name: "scoped to department",
			rows: rowsOf(
				fixture{college: "Science", department: "Math", course: "MATH101", instructor: "Dr. A", day: "Sun", start: "09:00", end: "10:00"},
				fixture{college: "Science", department: "Physics", course: "PHYS101", instructor: "Dr. B", day: "Sun", start: "09:00", end: "10:00"},
			),
			opts:       HoursOptions{College: "science", Department: "PHYSICS"},
			university: Nested{"science": {"physics": 1}},
			department: Nested{"dr. b": {"phys101": 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildTeachingHours(tt.rows, tt.opts)
			assertNested(t, tt.university, got.University.Data)
			assertNested(t, tt.department, got.Department.Data)
		})
	}
}

func TestBuildTeachingHours_NeverDoubleCounts(t *testing.T) {
	rows := rowsOf(
		fixture{college: "Science", department: "Math", course: "MATH300", instructor: "Dr. A", day: "Mon", start: "09:00", end: "10:00"},
		fixture{college: "Science", department: "Physics", course: "PHYS300", instructor: "Dr. A", day: "Mon", start: "09:00", end: "10:00"},
		fixture{college: "Engineering", department: "Civil", course: "CIV300", instructor: "Dr. A", day: "Mon", start: "09:00", end: "10:00"},
	)

	got := BuildTeachingHours(rows, HoursOptions{})
	assert.InDelta(t, 1, got.University.Total(), 1e-9)
	assert.InDelta(t, 1, got.College.Total(), 1e-9)
	assert.InDelta(t, 1, got.Department.Total(), 1e-9)
}

func TestBuildTeachingHours_Labels(t *testing.T) {
	rows := rowsOf(
		fixture{college: "Science", department: "Math", course: "MATH300", instructor: "Dr. A", day: "Mon", start: "09:00", end: "10:00"},
		fixture{college: "Science", department: "Math", course: "MATH500", instructor: "Dr. A", day: "Mon", start: "09:00", end: "10:00"},
	)

	got := BuildTeachingHours(rows, HoursOptions{})
	assert.Equal(t, "Science", got.University.OuterLabel("science"))
	assert.Equal(t, "Dr. A", got.College.InnerLabel("dr. a"))
	assert.Equal(t, "MATH300 / MATH500", got.Department.InnerLabel("math300||math500"))
	assert.Equal(t, "unknown", got.Department.InnerLabel("unknown"))
	assert.Equal(t, got.Department, got.Level(HoursDepartment))
	assert.Equal(t, got.University, got.Level("bogus"))
}

func TestSortByTotal(t *testing.T) {
	data := Nested{
		"a": {"x": 1, "y": 1},
		"b": {"x": 5},
		"c": {"y": 0.5, "z": 3},
	}

	assert.Equal(t, []string{"b", "c", "a"}, SortOuterByTotal(data))
	assert.Equal(t, []string{"x", "z", "y"}, SortInnerByTotal(data))
}

func TestBuildFacultyTree(t *testing.T) {
	rows := rowsOf(
		fixture{college: "Science", department: "Math", instructor: "Dr. A", code: "E1"},
		fixture{college: "Science", department: "Math", instructor: "Dr A.", code: "e1"},
		fixture{college: "Science", department: "Math", instructor: "Dr. B"},
		fixture{college: "Science", department: "Physics", instructor: "Dr. B"},
		fixture{college: "Arts", department: "History", instructor: "Dr. C"},
		fixture{college: "Arts", department: "", instructor: "Dr. D"},
	)

	tree := BuildFacultyTree(rows)
	require.NotNil(t, tree)
	assert.Equal(t, 3, tree.Total)
	require.Len(t, tree.Colleges, 2)

	science := tree.Colleges[0]
	assert.Equal(t, "Science", science.Label)
	assert.Equal(t, 2, science.Count)
	require.Len(t, science.Children, 2)
	assert.Equal(t, "Math", science.Children[0].Label)
	assert.Equal(t, 2, science.Children[0].Count)
	assert.Equal(t, "Physics", science.Children[1].Label)
	assert.Equal(t, 1, science.Children[1].Count)

	arts := tree.Colleges[1]
	assert.Equal(t, "Arts", arts.Label)
	assert.Equal(t, 1, arts.Count)
}

func TestBuildFacultyTree_Empty(t *testing.T) {
	tree := BuildFacultyTree(nil)
	require.NotNil(t, tree)
	assert.Zero(t, tree.Total)
	assert.Empty(t, tree.Colleges)
}

func assertNested(t *testing.T, want, got Nested) {
	t.Helper()
	require.Len(t, got, len(want))
	for outer, inner := range want {
		require.Contains(t, got, outer)
		require.Len(t, got[outer], len(inner), outer)
		for k, v := range inner {
			assert.InDelta(t, v, got[outer][k], 1e-9, "%s/%s", outer, k)
		}
	}
}
