package components

import (
	"strings"

	"github.com/Veraticus/timetable/internal/model"
	"github.com/Veraticus/timetable/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

type detailField struct {
	label string
	field string
}

var detailFields = []detailField{
	{"Course", model.FieldCourseCode},
	{"Name", model.FieldCourseName},
	{"Section", model.FieldSection},
	{"Section type", model.FieldSectionType},
	{"Instructor", model.FieldInstructor},
	{"College", model.FieldCollege},
	{"Department", model.FieldDepartment},
	{"Days", model.FieldDay},
	{"Start", model.FieldStartTime},
	{"End", model.FieldEndTime},
	{"Building", model.FieldBuilding},
	{"Hall", model.FieldHall},
	{"Room capacity", model.FieldRoomCapacity},
	{"Enrolled", model.FieldStudentsInSection},
	{"Max students", model.FieldMaxStudents},
	{"Credit hours", model.FieldCreditHours},
	{"Level", model.FieldLevel},
	{"Language", model.FieldCourseLanguage},
	{"Exam date", model.FieldExamDate},
	{"Exam time", model.FieldExamStartTime},
	{"Exam hall", model.FieldExamHall},
}

// SectionDetailModel shows every populated field of one row.
type SectionDetailModel struct {
	theme themes.Theme
	row   model.Row
	width int
}

// NewSectionDetail creates a detail view for row.
func NewSectionDetail(row model.Row, theme themes.Theme) SectionDetailModel {
	return SectionDetailModel{row: row, theme: theme, width: 70}
}

// Resize sets the box width.
func (m *SectionDetailModel) Resize(width int) {
	m.width = max(40, min(width-4, 90))
}

// View renders the detail box.
func (m SectionDetailModel) View() string {
	lines := []string{m.theme.Title.Render(m.title()), ""}
	for _, f := range detailFields {
		text := m.row.Text(f.field)
		if text == "" {
			continue
		}
		lines = append(lines, m.theme.Label.Render(f.label)+m.theme.Normal.Render(text))
	}
	lines = append(lines, "", lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Esc to go back"))
	return m.theme.BorderedBox.Width(m.width).Render(strings.Join(lines, "\n"))
}

func (m SectionDetailModel) title() string {
	code := m.row.Text(model.FieldCourseCode)
	if section := m.row.Text(model.FieldSection); section != "" {
		return code + " / " + section
	}
	if code == "" {
		return "Section"
	}
	return code
}
