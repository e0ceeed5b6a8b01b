// Package components holds the bubbletea views of the section browser.
package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/timetable/internal/common"
	"github.com/Veraticus/timetable/internal/model"
	"github.com/Veraticus/timetable/internal/tui/themes"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ListMode represents the current mode of the list.
type ListMode int

// List modes.
const (
	ModeNormal ListMode = iota
	ModeSearch
)

// SectionSelectedMsg is sent when a row is opened.
type SectionSelectedMsg struct {
	Row   model.Row
	Index int
}

// searchFields are matched by the search box.
var searchFields = []string{
	model.FieldCourseCode,
	model.FieldCourseName,
	model.FieldInstructor,
	model.FieldHall,
}

// SectionListModel manages the section table and its search box.
type SectionListModel struct {
	theme       themes.Theme
	search      string
	rows        []model.Row
	filtered    []model.Row
	searchInput textinput.Model
	table       table.Model
	mode        ListMode
	width       int
	height      int
}

// NewSectionList creates a list over rows.
func NewSectionList(rows []model.Row, theme themes.Theme) SectionListModel {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(20),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(false)
	s.Selected = theme.Selected
	t.SetStyles(s)

	searchInput := textinput.New()
	searchInput.Placeholder = "course, name, instructor or hall"
	searchInput.CharLimit = 80

	m := SectionListModel{
		rows:        rows,
		filtered:    rows,
		table:       t,
		searchInput: searchInput,
		mode:        ModeNormal,
		theme:       theme,
		width:       100,
		height:      24,
	}
	m.updateColumnWidths()
	m.table.SetRows(m.buildTableRows())
	return m
}

// Update handles messages.
func (m SectionListModel) Update(msg tea.Msg) (SectionListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode == ModeSearch {
			return m, m.handleSearchMode(msg)
		}
		if cmd, handled := m.handleNormalMode(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.Resize(msg.Width, msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *SectionListModel) handleNormalMode(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "/":
		m.mode = ModeSearch
		m.searchInput.SetValue(m.search)
		m.searchInput.Focus()
		return textinput.Blink, true

	case "esc":
		if m.search != "" {
			m.SetSearch("")
		}
		return nil, true

	case "enter":
		row, ok := m.Selected()
		if !ok {
			return nil, true
		}
		index := m.table.Cursor()
		return func() tea.Msg {
			return SectionSelectedMsg{Row: row, Index: index}
		}, true
	}
	return nil, false
}

func (m *SectionListModel) handleSearchMode(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.mode = ModeNormal
		m.searchInput.Blur()
		m.SetSearch(m.searchInput.Value())

	case "esc":
		m.mode = ModeNormal
		m.searchInput.Blur()
		m.searchInput.SetValue("")

	default:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return cmd
	}
	return nil
}

// SetSearch filters the list by query and moves the cursor to the top.
func (m *SectionListModel) SetSearch(query string) {
	m.search = strings.TrimSpace(query)
	m.filtered = FilterRows(m.rows, m.search)
	m.table.SetRows(m.buildTableRows())
	m.table.SetCursor(0)
}

// Search returns the applied query.
func (m SectionListModel) Search() string { return m.search }

// Mode returns the current list mode.
func (m SectionListModel) Mode() ListMode { return m.mode }

// Visible returns the rows left after the search.
func (m SectionListModel) Visible() []model.Row { return m.filtered }

// Selected returns the row under the cursor.
func (m SectionListModel) Selected() (model.Row, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.filtered) {
		return nil, false
	}
	return m.filtered[i], true
}

// FilterRows keeps the rows whose course code, course name, instructor or
// hall matches query. The query is a case-insensitive regular expression,
// read literally when it does not compile. An empty query keeps every row.
func FilterRows(rows []model.Row, query string) []model.Row {
	re := common.SearchPattern(query)
	if re == nil {
		return rows
	}
	out := make([]model.Row, 0, len(rows))
	for _, r := range rows {
		values := make([]string, len(searchFields))
		for i, f := range searchFields {
			values[i] = r.Text(f)
		}
		if common.MatchAny(re, values...) {
			out = append(out, r)
		}
	}
	return out
}

// View renders the section list.
func (m SectionListModel) View() string {
	if m.height < 8 {
		return "Terminal too small"
	}
	if m.mode == ModeSearch {
		return m.renderSearchView()
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderStatus(),
		m.table.View(),
	)
}

func (m SectionListModel) renderSearchView() string {
	box := m.theme.BorderedBox.
		Width(60).
		Render(lipgloss.JoinVertical(
			lipgloss.Left,
			m.theme.Title.Render("Search Sections"),
			m.searchInput.View(),
			lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Enter to search, Esc to cancel"),
		))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m SectionListModel) renderStatus() string {
	status := fmt.Sprintf("%d of %d rows", len(m.filtered), len(m.rows))
	if m.search != "" {
		status += fmt.Sprintf(" | search: %q", m.search)
	}
	return m.theme.Subtitle.Render(status)
}

func (m SectionListModel) buildTableRows() []table.Row {
	rows := make([]table.Row, 0, len(m.filtered))
	for _, r := range m.filtered {
		clock := r.Text(model.FieldStartTime)
		if end := r.Text(model.FieldEndTime); end != "" {
			clock += "-" + end
		}
		rows = append(rows, table.Row{
			r.Text(model.FieldCourseCode),
			r.Text(model.FieldSection),
			r.Text(model.FieldCourseName),
			r.Text(model.FieldInstructor),
			r.Text(model.FieldDay),
			clock,
			r.Text(model.FieldHall),
		})
	}
	return rows
}

// Resize updates the component size.
func (m *SectionListModel) Resize(width, height int) {
	m.width = width
	m.height = height

	// status line plus the table header and its border
	m.table.SetHeight(max(1, height-3))
	m.updateColumnWidths()
}

func (m *SectionListModel) updateColumnWidths() {
	available := max(70, m.width-4)

	m.table.SetColumns([]table.Column{
		{Title: "Code", Width: max(8, int(float64(available)*0.10))},
		{Title: "Sec", Width: 5},
		{Title: "Course", Width: max(16, int(float64(available)*0.28))},
		{Title: "Instructor", Width: max(14, int(float64(available)*0.22))},
		{Title: "Days", Width: max(6, int(float64(available)*0.09))},
		{Title: "Time", Width: 11},
		{Title: "Hall", Width: max(6, int(float64(available)*0.10))},
	})
}
