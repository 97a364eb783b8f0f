package tasks

import (
	"fmt"

	"github.com/gosuri/uitable"

	"github.com/MarkBevz50/focusflow/internal/calendar"
	"github.com/MarkBevz50/focusflow/internal/cli"
	"github.com/MarkBevz50/focusflow/internal/models"
)

const emptyList = "No tasks yet. Add your first task."

type TaskListCmd struct {
	Date    string `help:"Only tasks due on this day (YYYY-MM-DD, or 'today')."`
	Pending bool   `help:"Hide completed tasks."`
	ShowIDs bool   `help:"Show full task IDs." name:"show-ids"`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	var day calendar.Date
	switch c.Date {
	case "":
	case "today":
		day = ctx.Today()
	default:
		d, err := calendar.ParseDate(c.Date)
		if err != nil {
			return err
		}
		day = d
	}

	all, err := ctx.LoadTasks()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		ctx.Println(emptyList)
		return nil
	}

	list := all
	if !day.IsZero() {
		list = calendar.TasksOn(all, day)
	}
	if c.Pending {
		list = pendingOnly(list)
	}
	if len(list) == 0 {
		if !day.IsZero() {
			ctx.Printf("No tasks due on %s.\n", day)
		} else {
			ctx.Println("No pending tasks.")
		}
		return nil
	}

	tbl := uitable.New()
	tbl.MaxColWidth = 50
	tbl.Wrap = true
	tbl.AddRow("", "ID", "TITLE", "DEADLINE")
	for _, t := range list {
		id := shortID(t.ID)
		if c.ShowIDs {
			id = t.ID
		}
		tbl.AddRow(status(t), id, describe(t), deadline(t))
	}
	ctx.Println(tbl)
	ctx.Printf("\n%d of %d task(s) shown.\n", len(list), len(all))
	return nil
}

func pendingOnly(list []models.Task) []models.Task {
	var out []models.Task
	for _, t := range list {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

func describe(t models.Task) string {
	if t.Description == "" {
		return t.Title
	}
	return fmt.Sprintf("%s - %s", t.Title, t.Description)
}

func deadline(t models.Task) string {
	if !t.HasDeadline() {
		return "-"
	}
	return t.Deadline.DateString()
}
