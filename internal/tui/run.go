package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows m full screen until the user quits or ctx is done. The feed is
// stopped on return so that the engine never waits on a dead UI.
func Run(ctx context.Context, m Model) error {
	defer m.feed.Stop()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
