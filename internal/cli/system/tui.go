package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MarkBevz50/focusflow/internal/cli"
	"github.com/MarkBevz50/focusflow/internal/constants"
	"github.com/MarkBevz50/focusflow/internal/lockfile"
	"github.com/MarkBevz50/focusflow/internal/logger"
	"github.com/MarkBevz50/focusflow/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	lock, err := lockfile.Acquire(ctx.ConfigDir, constants.LockAcquireTimeout)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release tui lock", "error", err)
		}
	}()

	model := tui.NewModel(ctx.Context(), ctx.Session, ctx.Tasks, tui.Options{
		WeekStart:       ctx.Config.WeekStart,
		OnlySelectedDay: ctx.Config.OnlySelectedDay,
		Now:             ctx.Now,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited: %w", err)
	}
	return nil
}
