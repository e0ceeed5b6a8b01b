package stats

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Veraticus/timetable/internal/model"
	"github.com/Veraticus/timetable/internal/timeslot"
)

// HoursLevel selects which nesting of the teaching-hours breakdown to show.
type HoursLevel string

// Teaching-hours nesting levels.
const (
	// HoursUniversity is college -> department.
	HoursUniversity HoursLevel = "university"
	// HoursCollege is department -> instructor.
	HoursCollege HoursLevel = "college"
	// HoursDepartment is instructor -> course.
	HoursDepartment HoursLevel = "department"
)

var clockInText = regexp.MustCompile(`(\d{1,2}):(\d{2})`)

// Nested maps an outer key to inner keys and their hours.
type Nested map[string]map[string]float64

// Breakdown is one nesting level with its display labels.
type Breakdown struct {
	Data        Nested
	OuterLabels map[string]string
	InnerLabels map[string]string
}

// OuterLabel returns the display label of an outer key.
func (b Breakdown) OuterLabel(key string) string { return labelOf(b.OuterLabels, key) }

// InnerLabel returns the display label of an inner key.
func (b Breakdown) InnerLabel(key string) string { return labelOf(b.InnerLabels, key) }

// Total sums every cell of the breakdown.
func (b Breakdown) Total() float64 {
	total := 0.0
	for _, inner := range b.Data {
		for _, v := range inner {
			total += v
		}
	}
	return total
}

// Breakdowns holds all three nesting levels computed from the same sessions.
type Breakdowns struct {
	University Breakdown
	College    Breakdown
	Department Breakdown
}

// Level returns the breakdown for l, defaulting to the university level.
func (b Breakdowns) Level(l HoursLevel) Breakdown {
	switch l {
	case HoursCollege:
		return b.College
	case HoursDepartment:
		return b.Department
	default:
		return b.University
	}
}

// HoursOptions scopes the rows that count towards teaching hours.
// Empty fields do not restrict.
type HoursOptions struct {
	Semester            string
	College             string
	Department          string
	ExcludeSectionTypes []string
}

type session struct {
	college    string
	department string
	instructor string
	course     string
	start      int
	end        int
}

type slotGroup struct {
	courses    map[string]string
	day        timeslot.Day
	college    string
	department string
	instructor string
	start      int
	end        int
}

// BuildTeachingHours attributes instructor time to colleges, departments,
// instructors and courses. Sessions on the same instructor and day are cut at
// every start and end point; each resulting segment's duration is split
// equally between the distinct keys active in it, so simultaneous
// cross-listed sessions are never counted twice. Only Sunday to Thursday
// sessions count.
func BuildTeachingHours(rows []model.Row, opts HoursOptions) Breakdowns {
	out := Breakdowns{
		University: newBreakdown(),
		College:    newBreakdown(),
		Department: newBreakdown(),
	}

	groups := make(map[string]*slotGroup)
	groupOrder := []string{}

	for _, r := range scopeRows(rows, opts) {
		collegeLabel := r.Text(model.FieldCollege)
		departmentLabel := r.Text(model.FieldDepartment)
		instructorLabel := r.Text(model.FieldInstructor)
		courseLabel := r.Text(model.FieldCourseCode)
		if courseLabel == "" {
			courseLabel = r.Text(model.FieldCourseName)
		}
		if collegeLabel == "" || departmentLabel == "" || instructorLabel == "" || courseLabel == "" {
			continue
		}

		start, okStart := clockMinutes(r.Text(model.FieldStartTime))
		end, okEnd := clockMinutes(r.Text(model.FieldEndTime))
		if !okStart || !okEnd || end <= start {
			continue
		}

		college := NormalizeKey(collegeLabel)
		department := NormalizeKey(departmentLabel)
		instructor := NormalizeKey(instructorLabel)
		course := NormalizeKey(courseLabel)

		setLabel(out.University.OuterLabels, college, collegeLabel)
		setLabel(out.University.InnerLabels, department, departmentLabel)
		setLabel(out.College.OuterLabels, department, departmentLabel)
		setLabel(out.College.InnerLabels, instructor, instructorLabel)
		setLabel(out.Department.OuterLabels, instructor, instructorLabel)
		setLabel(out.Department.InnerLabels, course, courseLabel)

		for _, day := range timeslot.ExtractDays(r.Text(model.FieldDay)) {
			if !timeslot.ContainsDay(timeslot.TeachingWeek, day) {
				continue
			}
			key := strings.Join([]string{instructor, day.String(), strconv.Itoa(start), strconv.Itoa(end), college, department}, sep)
			if g, ok := groups[key]; ok {
				g.courses[course] = courseLabel
				continue
			}
			groups[key] = &slotGroup{
				courses:    map[string]string{course: courseLabel},
				day:        day,
				college:    college,
				department: department,
				instructor: instructor,
				start:      start,
				end:        end,
			}
			groupOrder = append(groupOrder, key)
		}
	}

	buckets := make(map[string][]session)
	bucketOrder := []string{}
	for _, key := range groupOrder {
		g := groups[key]

		courseKeys := make([]string, 0, len(g.courses))
		for k := range g.courses {
			courseKeys = append(courseKeys, k)
		}
		sort.Strings(courseKeys)
		labels := make([]string, len(courseKeys))
		for i, k := range courseKeys {
			labels[i] = g.courses[k]
		}
		merged := strings.Join(courseKeys, "||")
		setLabel(out.Department.InnerLabels, merged, strings.Join(labels, " / "))

		bucket := g.instructor + sep + g.day.String()
		if _, ok := buckets[bucket]; !ok {
			bucketOrder = append(bucketOrder, bucket)
		}
		buckets[bucket] = append(buckets[bucket], session{
			college:    g.college,
			department: g.department,
			instructor: g.instructor,
			course:     merged,
			start:      g.start,
			end:        g.end,
		})
	}

	// minutes accumulated per level, converted to hours once at the end
	university := make(map[[2]string]float64)
	college := make(map[[2]string]float64)
	department := make(map[[2]string]float64)

	for _, bucket := range bucketOrder {
		sessions := buckets[bucket]
		points := boundaries(sessions)

		for i := 0; i+1 < len(points); i++ {
			segStart, segEnd := points[i], points[i+1]
			minutes := segEnd - segStart
			if minutes <= 0 {
				continue
			}

			universityPairs := pairSet{}
			collegePairs := pairSet{}
			departmentPairs := pairSet{}
			for _, s := range sessions {
				if s.start < segEnd && s.end > segStart {
					universityPairs.add(s.college, s.department)
					collegePairs.add(s.department, s.instructor)
					departmentPairs.add(s.instructor, s.course)
				}
			}
			if len(universityPairs.order) == 0 {
				continue
			}

			universityPairs.share(university, minutes)
			collegePairs.share(college, minutes)
			departmentPairs.share(department, minutes)
		}
	}

	flush(out.University.Data, university)
	flush(out.College.Data, college)
	flush(out.Department.Data, department)
	return out
}

func newBreakdown() Breakdown {
	return Breakdown{
		Data:        Nested{},
		OuterLabels: make(map[string]string),
		InnerLabels: make(map[string]string),
	}
}

func scopeRows(rows []model.Row, opts HoursOptions) []model.Row {
	semester := NormalizeKey(opts.Semester)
	college := NormalizeKey(opts.College)
	department := NormalizeKey(opts.Department)
	excluded := make(map[string]bool, len(opts.ExcludeSectionTypes))
	for _, t := range opts.ExcludeSectionTypes {
		if k := NormalizeKey(t); k != "" {
			excluded[k] = true
		}
	}

	out := make([]model.Row, 0, len(rows))
	for _, r := range rows {
		if semester != "" && NormalizeKey(r.Text(model.FieldSemester)) != semester {
			continue
		}
		if college != "" && NormalizeKey(r.Text(model.FieldCollege)) != college {
			continue
		}
		if department != "" && NormalizeKey(r.Text(model.FieldDepartment)) != department {
			continue
		}
		if len(excluded) > 0 && excluded[NormalizeKey(r.Text(model.FieldSectionType))] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// clockMinutes reads the first "H:MM" found in text.
func clockMinutes(text string) (int, bool) {
	m := clockInText.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return timeslot.ParseMinutes(m[1] + ":" + m[2])
}

func boundaries(sessions []session) []int {
	set := make(map[int]bool)
	for _, s := range sessions {
		set[s.start] = true
		set[s.end] = true
	}
	points := make([]int, 0, len(set))
	for p := range set {
		points = append(points, p)
	}
	sort.Ints(points)
	return points
}

type pairSet struct {
	seen  map[[2]string]bool
	order [][2]string
}

func (p *pairSet) add(outer, inner string) {
	if p.seen == nil {
		p.seen = make(map[[2]string]bool)
	}
	key := [2]string{outer, inner}
	if p.seen[key] {
		return
	}
	p.seen[key] = true
	p.order = append(p.order, key)
}

func (p *pairSet) share(target map[[2]string]float64, minutes int) {
	if len(p.order) == 0 {
		return
	}
	portion := float64(minutes) / float64(len(p.order))
	for _, key := range p.order {
		target[key] += portion
	}
}

func flush(dst Nested, minutes map[[2]string]float64) {
	for key, m := range minutes {
		addNested(dst, key[0], key[1], m/60)
	}
}

func addNested(target Nested, outer, inner string, hours float64) {
	if hours <= 0 {
		return
	}
	row, ok := target[outer]
	if !ok {
		row = make(map[string]float64)
		target[outer] = row
	}
	row[inner] += hours
}

// SortOuterByTotal returns the outer keys ordered by their summed hours, largest first.
func SortOuterByTotal(data Nested) []string {
	totals := make(map[string]float64, len(data))
	keys := make([]string, 0, len(data))
	for outer, inner := range data {
		for _, v := range inner {
			totals[outer] += v
		}
		keys = append(keys, outer)
	}
	sortByTotal(keys, totals)
	return keys
}

// SortInnerByTotal returns the inner keys ordered by their hours summed across
// every outer key, largest first.
func SortInnerByTotal(data Nested) []string {
	totals := make(map[string]float64)
	for _, inner := range data {
		for k, v := range inner {
			totals[k] += v
		}
	}
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sortByTotal(keys, totals)
	return keys
}

func sortByTotal(keys []string, totals map[string]float64) {
	sort.Slice(keys, func(i, j int) bool {
		if totals[keys[i]] != totals[keys[j]] {
			return totals[keys[i]] > totals[keys[j]]
		}
		return keys[i] < keys[j]
	})
}
