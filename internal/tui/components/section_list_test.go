package components

import (
	"testing"

	"github.com/Veraticus/timetable/internal/model"
	"github.com/Veraticus/timetable/internal/testutil"
	"github.com/Veraticus/timetable/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sectionRows() []model.Row {
	return []model.Row{
		testutil.NewRow("CS101", "1").
			Name("Intro to Programming").
			Instructor("Dana Hale").
			Meeting("Sun Tue", "08:00", "09:15", "A-101").
			Build(),
		testutil.NewRow("MATH201", "2").
			Name("Linear Algebra").
			Instructor("Sam Ortiz").
			Set(model.FieldHall, model.String("B-12")).
			Build(),
		testutil.NewRow("CS240", "1").
			Name("Data Structures").
			Instructor("Sam Ortiz").
			Set(model.FieldHall, model.String("A-101")).
			Build(),
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFilterRows(t *testing.T) {
	rows := sectionRows()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty keeps all", "", []string{"CS101", "MATH201", "CS240"}},
		{"course code", "cs", []string{"CS101", "CS240"}},
		{"course name", "algebra", []string{"MATH201"}},
		{"instructor", "ortiz", []string{"MATH201", "CS240"}},
		{"hall", "a-101", []string{"CS101", "CS240"}},
		{"regex", "^cs1", []string{"CS101"}},
		{"invalid regex read literally", "cs(", []string{}},
		{"no match", "physics", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterRows(rows, tt.query)
			codes := make([]string, 0, len(got))
			for _, r := range got {
				codes = append(codes, r.Text(model.FieldCourseCode))
			}
			assert.Equal(t, tt.want, codes)
		})
	}
}

func TestSectionList_Search(t *testing.T) {
	m := NewSectionList(sectionRows(), themes.Plain)
	m.Resize(100, 30)

	m, _ = m.Update(runes("/"))
	require.Equal(t, ModeSearch, m.Mode())

	for _, r := range "ortiz" {
		m, _ = m.Update(runes(string(r)))
	}
	// typing does not filter until the search is applied
	assert.Len(t, m.Visible(), 3)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ModeNormal, m.Mode())
	assert.Equal(t, "ortiz", m.Search())
	assert.Len(t, m.Visible(), 2)
	assert.Contains(t, m.View(), "2 of 3 rows")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.Search())
	assert.Len(t, m.Visible(), 3)
}

func TestSectionList_CancelSearch(t *testing.T) {
	m := NewSectionList(sectionRows(), themes.Plain)
	m.Resize(100, 30)

	m, _ = m.Update(runes("/"))
	m, _ = m.Update(runes("c"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, ModeNormal, m.Mode())
	assert.Empty(t, m.Search())
	assert.Len(t, m.Visible(), 3)
}

func TestSectionList_SelectSendsMessage(t *testing.T) {
	m := NewSectionList(sectionRows(), themes.Plain)
	m.Resize(100, 30)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(SectionSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, 1, msg.Index)
	assert.Equal(t, "MATH201", msg.Row.Text(model.FieldCourseCode))
}

func TestSectionList_EmptySelection(t *testing.T) {
	m := NewSectionList(sectionRows(), themes.Plain)
	m.Resize(100, 30)
	m.SetSearch("physics")

	_, ok := m.Selected()
	assert.False(t, ok)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestSectionList_TooSmall(t *testing.T) {
	m := NewSectionList(sectionRows(), themes.Plain)
	m.Resize(100, 5)
	assert.Equal(t, "Terminal too small", m.View())
}

func TestSectionDetail_View(t *testing.T) {
	d := NewSectionDetail(sectionRows()[0], themes.Plain)
	view := d.View()

	assert.Contains(t, view, "CS101 / 1")
	assert.Contains(t, view, "Intro to Programming")
	assert.Contains(t, view, "Dana Hale")
	assert.Contains(t, view, "08:00")
	assert.NotContains(t, view, "Exam hall")
}
