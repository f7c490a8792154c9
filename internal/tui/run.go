package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/lifeos/internal/engine"
)

// Run starts the engine and the dashboard program and blocks until the user
// quits or ctx is done.
func Run(ctx context.Context, eng *engine.Engine, editors Editors, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	program := tea.NewProgram(newModel(ctx, eng.Views(), editors, cfg), programOpts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := eng.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("engine stopped: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		// Quitting the program stops the engine.
		defer cancel()
		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("dashboard failed: %w", err)
		}
		slog.Debug("Dashboard closed")
		return nil
	})
	return g.Wait()
}
