package stats

import (
	"sort"

	"github.com/Veraticus/timetable/internal/model"
)

// Base holds the per-college and per-department course and enrollment
// aggregates for every semester. All map keys are normalized; the label maps
// keep the first spelling seen for display.
type Base struct {
	CollegeLabels    map[string]string
	SemesterLabels   map[string]string
	DepartmentLabels map[string]map[string]string // college -> department -> label

	CoursesByCollege         map[string]map[string]StringSet                       // college -> semester
	CoursesByCollegeLevel    map[string]map[string]map[Level]StringSet             // college -> semester -> level
	CoursesByDepartment      map[string]map[string]map[string]StringSet            // college -> department -> semester
	CoursesByDepartmentLevel map[string]map[string]map[string]map[Level]StringSet // college -> department -> semester -> level

	EnrollmentByCollege         map[string]map[string]float64
	EnrollmentByCollegeLevel    map[string]map[string]map[Level]float64
	EnrollmentByDepartment      map[string]map[string]map[string]float64
	EnrollmentByDepartmentLevel map[string]map[string]map[string]map[Level]float64

	CollegeKeys  []string
	SemesterKeys []string
}

type sectionEnrollment struct {
	semester   string
	college    string
	department string
	course     string
	level      Level
	enrollment float64
}

func newBase() *Base {
	return &Base{
		CollegeLabels:               make(map[string]string),
		SemesterLabels:              make(map[string]string),
		DepartmentLabels:            make(map[string]map[string]string),
		CoursesByCollege:            make(map[string]map[string]StringSet),
		CoursesByCollegeLevel:       make(map[string]map[string]map[Level]StringSet),
		CoursesByDepartment:         make(map[string]map[string]map[string]StringSet),
		CoursesByDepartmentLevel:    make(map[string]map[string]map[string]map[Level]StringSet),
		EnrollmentByCollege:         make(map[string]map[string]float64),
		EnrollmentByCollegeLevel:    make(map[string]map[string]map[Level]float64),
		EnrollmentByDepartment:      make(map[string]map[string]map[string]float64),
		EnrollmentByDepartmentLevel: make(map[string]map[string]map[string]map[Level]float64),
		CollegeKeys:                 []string{},
		SemesterKeys:                []string{},
	}
}

// BuildBase aggregates rows into unique-course sets and enrollment totals.
// Rows missing a college, department, semester or course code are skipped.
// Enrollment counts each physical section once, at the largest
// students_in_section seen across its meeting rows. Semesters named in
// preferred come first, in that order; the rest follow by label.
func BuildBase(rows []model.Row, preferred []string) *Base {
	b := newBase()
	sections := make(map[string]*sectionEnrollment)
	sectionOrder := []string{}

	for _, r := range rows {
		collegeRaw := r.Text(model.FieldCollege)
		departmentRaw := r.Text(model.FieldDepartment)
		semesterRaw := r.Text(model.FieldSemester)
		courseRaw := r.Text(model.FieldCourseCode)
		if collegeRaw == "" || departmentRaw == "" || semesterRaw == "" || courseRaw == "" {
			continue
		}

		college := NormalizeKey(collegeRaw)
		department := NormalizeKey(departmentRaw)
		semester := NormalizeKey(semesterRaw)
		course := NormalizeKey(courseRaw)
		level, hasLevel := NormalizeLevel(r.Text(model.FieldLevel))

		setLabel(b.CollegeLabels, college, collegeRaw)
		setLabel(b.SemesterLabels, semester, semesterRaw)
		setLabel(child(b.DepartmentLabels, college), department, departmentRaw)

		courseSet(child(b.CoursesByCollege, college), semester).Add(course)
		courseSet(child(child(b.CoursesByDepartment, college), department), semester).Add(course)
		if hasLevel {
			levelSet(child(b.CoursesByCollegeLevel, college), semester, level).Add(course)
			levelSet(deptLevelMap(b.CoursesByDepartmentLevel, college, department), semester, level).Add(course)
		}

		section := r.Text(model.FieldSection)
		enrollment := ToNumber(r.Get(model.FieldStudentsInSection))
		if section == "" || enrollment <= 0 {
			continue
		}

		id := semester + sep + college + sep + department + sep + course + sep + NormalizeKey(section)
		prev, ok := sections[id]
		if !ok {
			sections[id] = &sectionEnrollment{
				semester:   semester,
				college:    college,
				department: department,
				course:     course,
				level:      level,
				enrollment: enrollment,
			}
			sectionOrder = append(sectionOrder, id)
			continue
		}
		if enrollment > prev.enrollment {
			prev.enrollment = enrollment
		}
		if prev.level == "" && hasLevel {
			prev.level = level
		}
	}

	for _, id := range sectionOrder {
		s := sections[id]

		addFloat(child(b.EnrollmentByCollege, s.college), s.semester, s.enrollment)
		addFloat(child(child(b.EnrollmentByDepartment, s.college), s.department), s.semester, s.enrollment)

		if s.level != "" {
			addLevel(child(b.EnrollmentByCollegeLevel, s.college), s.semester, s.level, s.enrollment)
			addLevel(child(child(b.EnrollmentByDepartmentLevel, s.college), s.department), s.semester, s.level, s.enrollment)
		}
	}

	b.SemesterKeys = orderSemesterKeys(b.SemesterLabels, preferred)
	b.CollegeKeys = sortKeysByLabel(b.CollegeLabels)
	return b
}

// UniqueCourses is the number of distinct courses a college offers in a semester.
func (b *Base) UniqueCourses(college, semester string) int {
	return len(b.CoursesByCollege[college][semester])
}

// DepartmentUniqueCourses is the number of distinct courses a department offers in a semester.
func (b *Base) DepartmentUniqueCourses(college, department, semester string) int {
	return len(b.CoursesByDepartment[college][department][semester])
}

// LevelUniqueCourses is the number of distinct courses a college offers at a level.
func (b *Base) LevelUniqueCourses(college, semester string, level Level) int {
	return len(b.CoursesByCollegeLevel[college][semester][level])
}

// Enrollment is the total enrollment of a college in a semester.
func (b *Base) Enrollment(college, semester string) float64 {
	return b.EnrollmentByCollege[college][semester]
}

// DepartmentEnrollment is the total enrollment of a department in a semester.
func (b *Base) DepartmentEnrollment(college, department, semester string) float64 {
	return b.EnrollmentByDepartment[college][department][semester]
}

// DepartmentKeys returns the departments of a college ordered by label.
func (b *Base) DepartmentKeys(college string) []string {
	return sortKeysByLabel(b.DepartmentLabels[college])
}

// CollegeLabel returns the display label of a college key.
func (b *Base) CollegeLabel(key string) string {
	return labelOf(b.CollegeLabels, key)
}

// SemesterLabel returns the display label of a semester key.
func (b *Base) SemesterLabel(key string) string {
	return labelOf(b.SemesterLabels, key)
}

// DepartmentLabel returns the display label of a department key.
func (b *Base) DepartmentLabel(college, key string) string {
	return labelOf(b.DepartmentLabels[college], key)
}

func orderSemesterKeys(labels map[string]string, preferred []string) []string {
	keys := make([]string, 0, len(labels))
	pushed := make(map[string]bool)

	for _, sem := range preferred {
		key := NormalizeKey(sem)
		if _, present := labels[key]; !present || pushed[key] {
			continue
		}
		keys = append(keys, key)
		pushed[key] = true
	}

	rest := make([]string, 0, len(labels))
	for key := range labels {
		if !pushed[key] {
			rest = append(rest, key)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		return labelLess(labelOf(labels, rest[i]), labelOf(labels, rest[j]))
	})
	return append(keys, rest...)
}

func child[V any](m map[string]map[string]V, key string) map[string]V {
	inner, ok := m[key]
	if !ok {
		inner = make(map[string]V)
		m[key] = inner
	}
	return inner
}

func courseSet(m map[string]StringSet, key string) StringSet {
	s, ok := m[key]
	if !ok {
		s = make(StringSet)
		m[key] = s
	}
	return s
}

func levelSet(m map[string]map[Level]StringSet, semester string, level Level) StringSet {
	byLevel, ok := m[semester]
	if !ok {
		byLevel = make(map[Level]StringSet)
		m[semester] = byLevel
	}
	s, ok := byLevel[level]
	if !ok {
		s = make(StringSet)
		byLevel[level] = s
	}
	return s
}

func deptLevelMap(m map[string]map[string]map[string]map[Level]StringSet, college, department string) map[string]map[Level]StringSet {
	return child(child(m, college), department)
}

func addFloat(m map[string]float64, key string, v float64) {
	m[key] += v
}

func addLevel(m map[string]map[Level]float64, semester string, level Level, v float64) {
	byLevel, ok := m[semester]
	if !ok {
		byLevel = make(map[Level]float64)
		m[semester] = byLevel
	}
	byLevel[level] += v
}
