package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/finchley/moodfm/internal/shared"
	"github.com/finchley/moodfm/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for mood playback.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.session == nil || r.client == nil || r.player == nil {
		return fmt.Errorf("%w: Spotify client not initialized", shared.ErrMissingCredentials)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/moodfm-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, ui.ModelOpts{
		Session: r.session,
		Catalog: r.client,
		Player:  r.player,
		Moods:   r.moods,
	})
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
