package tasks

import (
	"github.com/MarkBevz50/focusflow/internal/cli"
)

// TaskDoneCmd flips a task between done and pending.
type TaskDoneCmd struct {
	ID string `arg:"" help:"Task ID (or a unique prefix)."`
}

func (c *TaskDoneCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.LoadTasks(); err != nil {
		return err
	}
	task, err := ctx.FindTask(c.ID)
	if err != nil {
		return err
	}

	updated, err := ctx.Tasks.ToggleComplete(ctx.Context(), task.ID)
	if err != nil {
		return err
	}
	state := "pending"
	if updated.Completed {
		state = "done"
	}
	ctx.Printf("%s %s is now %s.\n", status(updated), updated.Title, state)
	reportResync(ctx)
	return nil
}
