package tui

import (
	"testing"

	"github.com/Veraticus/timetable/internal/model"
	"github.com/Veraticus/timetable/internal/testutil"
	"github.com/Veraticus/timetable/internal/tui/components"
	"github.com/Veraticus/timetable/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRows() []model.Row {
	return []model.Row{
		testutil.NewRow("CS101", "1").Name("Intro to Programming").Instructor("Dana Hale").Build(),
		testutil.NewRow("MATH201", "2").Name("Linear Algebra").Build(),
	}
}

func newTestModel() Model {
	cfg := defaultConfig()
	cfg.Theme = themes.Plain
	cfg.Title = "Fall 2025"
	return newModel(testRows(), cfg)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel_Quit(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{"q", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := update(t, newTestModel(), tt.msg)
			assert.True(t, isQuit(cmd))
			assert.Empty(t, m.View())
		})
	}
}

func TestModel_QuitKeyTypedIntoSearch(t *testing.T) {
	m := newTestModel()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.False(t, isQuit(cmd))
	assert.Equal(t, StateList, m.State())
}

func TestModel_DetailRoundTrip(t *testing.T) {
	m := newTestModel()

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	selected, ok := cmd().(components.SectionSelectedMsg)
	require.True(t, ok)

	m, _ = update(t, m, selected)
	assert.Equal(t, StateDetail, m.State())
	assert.Contains(t, m.View(), "Dana Hale")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateList, m.State())
	assert.Contains(t, m.View(), "2 of 2 rows")
}

func TestModel_Help(t *testing.T) {
	m, _ := update(t, newTestModel(), tea.WindowSizeMsg{Width: 160, Height: 40})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.Equal(t, StateHelp, m.State())
	assert.Contains(t, m.View(), "clear search")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.Equal(t, StateList, m.State())
}

func TestModel_ViewShowsTitle(t *testing.T) {
	m, _ := update(t, newTestModel(), tea.WindowSizeMsg{Width: 120, Height: 40})
	view := m.View()
	assert.Contains(t, view, "Fall 2025")
	assert.Contains(t, view, "CS101")
}
