package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/PUSHPAK-96/cartwise/internal/common"
)

// Run starts the explorer and blocks until the user quits or ctx is done.
func Run(ctx context.Context, cfg Config) error {
	if len(cfg.Products) == 0 {
		return fmt.Errorf("%w: no products to explore", common.ErrEmptyInput)
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	p := tea.NewProgram(NewModel(cfg), opts...)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("explorer failed: %w", err)
	}
	return nil
}
