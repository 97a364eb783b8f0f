package tasks

import (
	"fmt"

	"github.com/MarkBevz50/focusflow/internal/cli"
	"github.com/MarkBevz50/focusflow/internal/models"
)

type TaskEditCmd struct {
	ID            string  `arg:"" help:"Task ID (or a unique prefix)."`
	Title         *string `short:"t" help:"New title."`
	Description   *string `short:"d" help:"New description (empty clears it)."`
	Deadline      *string `short:"D" help:"New deadline (YYYY-MM-DD or YYYY-MM-DDTHH:MM)."`
	ClearDeadline bool    `help:"Remove the deadline."`
}

func (c *TaskEditCmd) Validate() error {
	if c.Title == nil && c.Description == nil && c.Deadline == nil && !c.ClearDeadline {
		return fmt.Errorf("nothing to change: pass --title, --description, --deadline or --clear-deadline")
	}
	if c.Deadline != nil && c.ClearDeadline {
		return fmt.Errorf("--deadline and --clear-deadline are mutually exclusive")
	}
	return nil
}

func (c *TaskEditCmd) Run(ctx *cli.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := ctx.LoadTasks(); err != nil {
		return err
	}
	task, err := ctx.FindTask(c.ID)
	if err != nil {
		return err
	}

	in := models.InputFrom(task)
	if c.Title != nil {
		in.Title = *c.Title
	}
	if c.Description != nil {
		in.Description = *c.Description
	}
	switch {
	case c.ClearDeadline:
		in.Deadline = nil
	case c.Deadline != nil:
		if in.Deadline, err = parseDeadline(*c.Deadline); err != nil {
			return err
		}
	}

	if err := ctx.Tasks.Update(ctx.Context(), task.ID, in); err != nil {
		return err
	}
	ctx.Printf("Updated task: %s (ID: %s)\n", in.Normalize().Title, task.ID)
	reportResync(ctx)
	return nil
}
