package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run runs the dashboard until the user quits or the context is cancelled.
func Run(ctx context.Context, cfg Config) error {
	m, err := NewModel(ctx, cfg)
	if err != nil {
		return err
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if !cfg.Hosted {
		opts = append(opts, tea.WithAltScreen())
	}

	_, err = tea.NewProgram(m, opts...).Run()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return fmt.Errorf("dashboard failed: %w", err)
	}

	return nil
}
