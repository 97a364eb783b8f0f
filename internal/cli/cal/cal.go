package cal

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/MarkBevz50/focusflow/internal/calendar"
	"github.com/MarkBevz50/focusflow/internal/cli"
	"github.com/MarkBevz50/focusflow/internal/constants"
	"github.com/MarkBevz50/focusflow/internal/models"
)

const cellWidth = 5 // "[15*]"

type CalCmd struct {
	Month     string `short:"m" help:"Month to show (YYYY-MM). Defaults to the selected day's month."`
	Select    string `short:"s" help:"Selected day (YYYY-MM-DD). Defaults to today."`
	WeekStart string `help:"First column of the grid (sunday or monday). Overrides the configured value."`
}

func (c *CalCmd) Run(ctx *cli.Context) error {
	today := ctx.Today()
	selected := today
	if c.Select != "" {
		d, err := calendar.ParseDate(c.Select)
		if err != nil {
			return err
		}
		selected = d
	}

	year, month := selected.Year, selected.Month
	if c.Month != "" {
		y, m, err := calendar.ParseMonth(c.Month)
		if err != nil {
			return err
		}
		year, month = y, m
	}

	weekStart := ctx.Config.WeekStart
	if c.WeekStart != "" {
		wd, err := calendar.ParseWeekday(c.WeekStart)
		if err != nil {
			return err
		}
		weekStart = wd
	}

	if err := ctx.RestoreSession(); err != nil {
		return err
	}
	var list []models.Task
	if ctx.Session.IsAuthenticated() {
		var err error
		if list, err = ctx.LoadTasks(); err != nil {
			return err
		}
	}

	grid := calendar.BuildMonth(year, month, weekStart)
	cells := grid.Annotate(calendar.EventsFromTasks(list), selected, today)
	Render(ctx.Out, grid, cells)

	fmt.Fprintln(ctx.Out)
	if !ctx.Session.IsAuthenticated() {
		fmt.Fprintln(ctx.Out, "Not logged in; deadlines are not shown.")
		return nil
	}
	RenderDay(ctx.Out, selected, calendar.TasksOn(list, selected))
	return nil
}

// Render prints the month title, weekday header and six week rows. Today is
// bracketed, the selected day parenthesized and deadline days carry a mark:
// "*" for pending, "+" for done.
func Render(w io.Writer, grid calendar.Grid, cells [calendar.GridSize]calendar.Cell) {
	title := color.New(color.Bold)
	faint := color.New(color.Faint)
	todayStyle := color.New(color.Bold, color.ReverseVideo)
	selectedStyle := color.New(color.Underline)
	pending := color.New(color.FgYellow)
	done := color.New(color.FgGreen)

	header := grid.Title()
	pad := (cellWidth*7 - len(header)) / 2
	fmt.Fprint(w, strings.Repeat(" ", pad))
	title.Fprintln(w, header)

	for _, label := range grid.WeekdayLabels() {
		fmt.Fprintf(w, "%*s  ", cellWidth-2, label)
	}
	fmt.Fprintln(w)

	for i, cell := range cells {
		left, right := " ", " "
		style := color.New()
		switch cell.Highlight {
		case calendar.HighlightToday:
			left, right = "[", "]"
			style = todayStyle
		case calendar.HighlightSelected:
			left, right = "(", ")"
			style = selectedStyle
		}

		mark := " "
		if cell.HasEvent {
			mark = "*"
			if cell.Event.ColorTag == constants.ColorTagDone {
				mark = "+"
			}
		}

		num := fmt.Sprintf("%2d", cell.DayOfMonth)
		switch {
		case cell.Highlight != calendar.HighlightNone:
			num = style.Sprint(num)
		case cell.Relation != calendar.Current:
			num = faint.Sprint(num)
		}
		switch mark {
		case "*":
			mark = pending.Sprint(mark)
		case "+":
			mark = done.Sprint(mark)
		}

		fmt.Fprint(w, left+num+mark+right)
		if i%7 == 6 {
			fmt.Fprintln(w)
		}
	}
}

// RenderDay lists the tasks due on day.
func RenderDay(w io.Writer, day calendar.Date, list []models.Task) {
	fmt.Fprintf(w, "Due %s:\n", day)
	if len(list) == 0 {
		fmt.Fprintln(w, "  nothing")
		return
	}
	for _, t := range list {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		fmt.Fprintf(w, "  %s %s\n", box, t.Title)
	}
}
