package tasks

import (
	"github.com/MarkBevz50/focusflow/internal/cli"
	"github.com/MarkBevz50/focusflow/internal/models"
	"github.com/MarkBevz50/focusflow/internal/validation"
)

type TaskAddCmd struct {
	Title       string `arg:"" help:"Task title."`
	Description string `short:"d" help:"Optional description."`
	Deadline    string `short:"D" help:"Deadline (YYYY-MM-DD or YYYY-MM-DDTHH:MM)."`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	deadline, err := parseDeadline(c.Deadline)
	if err != nil {
		return err
	}
	in := models.TaskInput{Title: c.Title, Description: c.Description, Deadline: deadline}
	if err := validation.New().Task(in); err != nil {
		return err
	}
	if err := ctx.RequireLogin(); err != nil {
		return err
	}

	created, err := ctx.Tasks.Create(ctx.Context(), in)
	if err != nil {
		return err
	}

	if created != nil && created.ID != "" {
		ctx.Printf("Added task: %s (ID: %s)\n", created.Title, created.ID)
	} else {
		ctx.Printf("Added task: %s\n", in.Normalize().Title)
	}
	reportResync(ctx)
	return nil
}
