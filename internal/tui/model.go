// Package tui is the interactive section browser.
package tui

import (
	"github.com/Veraticus/timetable/internal/model"
	"github.com/Veraticus/timetable/internal/tui/components"
	"github.com/Veraticus/timetable/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// State represents the current state of the TUI.
type State int

// Browser states.
const (
	StateList State = iota
	StateDetail
	StateHelp
)

// Model holds the browser state.
type Model struct {
	theme    themes.Theme
	help     help.Model
	list     components.SectionListModel
	detail   components.SectionDetailModel
	config   Config
	keymap   KeyMap
	width    int
	height   int
	state    State
	quitting bool
}

func newModel(rows []model.Row, cfg Config) Model {
	m := Model{
		theme:  cfg.Theme,
		help:   help.New(),
		list:   components.NewSectionList(rows, cfg.Theme),
		config: cfg,
		keymap: DefaultKeyMap(),
		width:  cfg.Width,
		height: cfg.Height,
		state:  StateList,
	}
	m.handleResize()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.state {
		case StateDetail, StateHelp:
			if key.Matches(msg, m.keymap.ClearSearch, m.keymap.Detail, m.keymap.Help) {
				m.state = StateList
			} else if key.Matches(msg, m.keymap.Quit) {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		case StateList:
			if m.list.Mode() == components.ModeNormal {
				switch {
				case key.Matches(msg, m.keymap.Quit):
					m.quitting = true
					return m, tea.Quit
				case key.Matches(msg, m.keymap.Help):
					m.state = StateHelp
					return m, nil
				}
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case components.SectionSelectedMsg:
		m.detail = components.NewSectionDetail(msg.Row, m.theme)
		m.detail.Resize(m.width)
		m.state = StateDetail
		return m, nil
	}

	if m.state != StateList {
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.state {
	case StateDetail:
		body = m.detail.View()
	case StateHelp:
		m.help.ShowAll = true
		body = m.help.View(m.keymap)
	default:
		body = m.list.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Title.Render(m.config.Title),
		body,
		m.help.ShortHelpView(m.keymap.ShortHelp()),
	)
}

// State returns the current browser state.
func (m Model) State() State { return m.state }

func (m *Model) handleResize() {
	m.help.Width = m.width
	// title and help lines
	m.list.Resize(m.width, max(1, m.height-2))
	m.detail.Resize(m.width)
}
