package tasks

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/MarkBevz50/focusflow/internal/cli"
)

type TaskDeleteCmd struct {
	ID  string `arg:"" help:"Task ID (or a unique prefix) to delete."`
	Yes bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.LoadTasks(); err != nil {
		return err
	}
	task, err := ctx.FindTask(c.ID)
	if err != nil {
		return err
	}

	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q?", task.Title)).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			ctx.Println("Cancelled.")
			return nil
		}
	}

	if err := ctx.Tasks.Delete(ctx.Context(), task.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted task: %s (ID: %s)\n", task.Title, task.ID)
	reportResync(ctx)
	return nil
}
