package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/waxlog/internal/models"
	"github.com/desertthunder/waxlog/internal/shared"
	"github.com/desertthunder/waxlog/internal/tasks"
	"github.com/desertthunder/waxlog/internal/ui"
	"github.com/urfave/cli/v3"
)

const tuiSearchLimit = 20

// TUI launches the interactive terminal UI for searching and tracking albums.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/waxlog-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	user, err := r.requireSession(ctx)
	if err != nil {
		return err
	}

	search := func(ctx context.Context, query string) ([]models.Album, error) {
		albums, _, err := r.catalog.SearchAlbums(ctx, query, tuiSearchLimit)
		return albums, err
	}
	debouncer := tasks.NewDebouncer(tasks.DefaultDebounceInterval, search)

	model := ui.NewModel(ctx, user.ID, r.orchestrator, r.store, debouncer)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
