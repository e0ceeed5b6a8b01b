package normalize

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/timetable/internal/model"
)

// HeaderAlias maps one spreadsheet header spelling to a canonical field.
type HeaderAlias struct {
	Header string `yaml:"header"`
	Field  string `yaml:"field"`
}

// DefaultAliases lists the header spellings seen in timetable exports.
// "Collage" is a real misspelling found in published sheets.
var DefaultAliases = []HeaderAlias{
	{"College", model.FieldCollege},
	{"Collage", model.FieldCollege},
	{"College Name", model.FieldCollege},
	{"Faculty Name", model.FieldCollege},
	{"Department", model.FieldDepartment},
	{"Dept", model.FieldDepartment},
	{"Department Name", model.FieldDepartment},
	{"Course Code", model.FieldCourseCode},
	{"Course No", model.FieldCourseCode},
	{"Code", model.FieldCourseCode},
	{"Course Name", model.FieldCourseName},
	{"Course Title", model.FieldCourseName},
	{"Title", model.FieldCourseName},
	{"Section", model.FieldSection},
	{"Sec", model.FieldSection},
	{"Section No", model.FieldSection},
	{"Instructor", model.FieldInstructor},
	{"Instructor Name", model.FieldInstructor},
	{"Lecturer", model.FieldInstructor},
	{"Instructor Code", model.FieldInstructorCode},
	{"Instructor ID", model.FieldInstructorCode},
	{"Faculty ID", model.FieldInstructorCode},
	{"Day", model.FieldDay},
	{"Days", model.FieldDay},
	{"Start Time", model.FieldStartTime},
	{"Time Start", model.FieldStartTime},
	{"From", model.FieldStartTime},
	{"End Time", model.FieldEndTime},
	{"Time End", model.FieldEndTime},
	{"To", model.FieldEndTime},
	{"Hall", model.FieldHall},
	{"Room", model.FieldHall},
	{"Hall Name", model.FieldHall},
	{"Building", model.FieldBuilding},
	{"Building Name", model.FieldBuilding},
	{"Room Capacity", model.FieldRoomCapacity},
	{"Hall Capacity", model.FieldRoomCapacity},
	{"Capacity", model.FieldRoomCapacity},
	{"Semester", model.FieldSemester},
	{"Term", model.FieldSemester},
	{"University Elective", model.FieldUniversityElective},
	{"UE", model.FieldUniversityElective},
	{"University Requirement", model.FieldUniversityRequirement},
	{"UR", model.FieldUniversityRequirement},
	{"Credit Hours", model.FieldCreditHours},
	{"Credits", model.FieldCreditHours},
	{"CH", model.FieldCreditHours},
	{"Level", model.FieldLevel},
	{"Course Level", model.FieldLevel},
	{"Course Language", model.FieldCourseLanguage},
	{"Language", model.FieldCourseLanguage},
	{"Section Type", model.FieldSectionType},
	{"Activity", model.FieldSectionType},
	{"Students In Section", model.FieldStudentsInSection},
	{"Enrolled", model.FieldStudentsInSection},
	{"Enrollment", model.FieldStudentsInSection},
	{"Registered", model.FieldStudentsInSection},
	{"Max Students", model.FieldMaxStudents},
	{"Section Capacity", model.FieldMaxStudents},
	{"Exam Date Time", model.FieldExamDateTime},
	{"Final Exam", model.FieldExamDateTime},
	{"Exam Date", model.FieldExamDate},
	{"Exam Day", model.FieldExamDay},
	{"Exam Start", model.FieldExamStartTime},
	{"Exam Start Time", model.FieldExamStartTime},
	{"Exam End", model.FieldExamEndTime},
	{"Exam End Time", model.FieldExamEndTime},
	{"Exam Building", model.FieldExamBuilding},
	{"Exam Hall", model.FieldExamHall},
	{"Exam Room", model.FieldExamHall},
}

var whitespace = regexp.MustCompile(`\s+`)

// HeaderMapper resolves source headers to canonical field names.
type HeaderMapper struct {
	exact  map[string]string
	folded map[string]string
}

// NewHeaderMapper builds a mapper from the given aliases followed by DefaultAliases.
// Earlier entries win, so extra aliases override the built-in table.
func NewHeaderMapper(extra []HeaderAlias) *HeaderMapper {
	m := &HeaderMapper{
		exact:  make(map[string]string),
		folded: make(map[string]string),
	}
	all := make([]HeaderAlias, 0, len(extra)+len(DefaultAliases))
	all = append(all, extra...)
	all = append(all, DefaultAliases...)

	for _, a := range all {
		if a.Header == "" || a.Field == "" {
			continue
		}
		if _, ok := m.exact[a.Header]; !ok {
			m.exact[a.Header] = a.Field
		}
		key := strings.ToLower(a.Header)
		if _, ok := m.folded[key]; !ok {
			m.folded[key] = a.Field
		}
	}
	return m
}

// Field returns the canonical field for header: exact match, then
// case-insensitive match, then the header lowercased with whitespace runs
// replaced by underscores.
func (m *HeaderMapper) Field(header string) string {
	header = strings.TrimSpace(header)
	if f, ok := m.exact[header]; ok {
		return f
	}
	if f, ok := m.folded[strings.ToLower(header)]; ok {
		return f
	}
	return whitespace.ReplaceAllString(strings.ToLower(header), "_")
}

type aliasFile struct {
	Aliases []HeaderAlias `yaml:"aliases"`
}

// LoadAliases reads extra header aliases from a YAML file of the form
//
//	aliases:
//	  - header: "Hall No"
//	    field: hall
func LoadAliases(path string) ([]HeaderAlias, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file: %w", err)
	}

	var file aliasFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse alias file %s: %w", path, err)
	}

	for i, a := range file.Aliases {
		if strings.TrimSpace(a.Header) == "" || strings.TrimSpace(a.Field) == "" {
			return nil, fmt.Errorf("alias %d in %s: header and field are required", i+1, path)
		}
	}
	return file.Aliases, nil
}
