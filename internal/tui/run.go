package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the dashboard until the user quits or ctx is canceled.
func Run(ctx context.Context, backend Backend, opts ...Option) error {
	if backend == nil {
		return fmt.Errorf("dashboard backend is required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	p := tea.NewProgram(newModel(backend, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()

	if m, ok := final.(Model); ok && m.pending != nil {
		if _, abortErr := backend.AbortCancel(); abortErr != nil {
			slog.Warn("Failed to abort cancellation", "error", abortErr)
		}
	}

	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
