package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/timetable/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// Browse opens the section browser over rows and blocks until the user quits
// or ctx is cancelled.
func Browse(ctx context.Context, rows []model.Row, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	p := tea.NewProgram(newModel(rows, cfg), programOpts...)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("browser failed: %w", err)
	}
	return nil
}
