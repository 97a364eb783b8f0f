package cal

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/MarkBevz50/focusflow/internal/calendar"
	"github.com/MarkBevz50/focusflow/internal/cli/clitest"
	"github.com/MarkBevz50/focusflow/internal/models"
)

func due(y int, m time.Month, d, hour int) *models.Timestamp {
	ts := models.NewTimestamp(time.Date(y, m, d, hour, 0, 0, 0, time.UTC))
	return &ts
}

func TestRenderMarksCells(t *testing.T) {
	color.NoColor = true

	grid := calendar.BuildMonth(2025, time.June, time.Sunday)
	today := calendar.Date{Year: 2025, Month: time.June, Day: 15}
	selected := calendar.Date{Year: 2025, Month: time.June, Day: 18}
	events := []calendar.Event{
		{Date: calendar.Date{Year: 2025, Month: time.June, Day: 3}, ColorTag: "pending"},
		{Date: calendar.Date{Year: 2025, Month: time.June, Day: 4}, ColorTag: "done"},
	}

	var buf bytes.Buffer
	Render(&buf, grid, grid.Annotate(events, selected, today))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	if len(lines) != 8 {
		t.Fatalf("got %d lines, want title + header + 6 weeks:\n%s", len(lines), buf.String())
	}
	if strings.TrimSpace(lines[0]) != "June 2025" {
		t.Errorf("title = %q", lines[0])
	}
	if got := strings.Fields(lines[1]); strings.Join(got, "") != "SMTWTFS" {
		t.Errorf("header = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "  1    2    3*   4+ ") {
		t.Errorf("first week = %q", lines[2])
	}
	if !strings.Contains(lines[4], "[15 ]") {
		t.Errorf("today not bracketed: %q", lines[4])
	}
	if !strings.Contains(lines[4], "(18 )") {
		t.Errorf("selected day not marked: %q", lines[4])
	}
	for _, l := range lines[2:] {
		if len(l) != cellWidth*7 {
			t.Errorf("week row %q has width %d, want %d", l, len(l), cellWidth*7)
		}
	}
}

func TestRenderTodayWinsOverSelected(t *testing.T) {
	color.NoColor = true

	grid := calendar.BuildMonth(2025, time.June, time.Monday)
	today := calendar.Date{Year: 2025, Month: time.June, Day: 15}

	var buf bytes.Buffer
	Render(&buf, grid, grid.Annotate(nil, today, today))
	out := buf.String()
	if !strings.Contains(out, "[15 ]") || strings.Contains(out, "(15 )") {
		t.Errorf("today should win over selected:\n%s", out)
	}

	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[2], " 26 ") {
		t.Errorf("Monday-start June 2025 should open on May 26: %q", lines[2])
	}
}

func TestCalCmdWithTasks(t *testing.T) {
	env := clitest.New(t)
	env.Login(t)
	owner := env.Owner(t)
	env.Server.AddTask(owner, models.Task{Title: "Late night", Deadline: due(2025, 6, 18, 23)})
	env.Server.AddTask(owner, models.Task{Title: "Shipped", Deadline: due(2025, 6, 18, 8), Completed: true})

	if err := (&CalCmd{Select: "2025-06-18"}).Run(env.Ctx); err != nil {
		t.Fatalf("cal failed: %v", err)
	}
	out := env.Out.String()
	for _, want := range []string{"June 2025", "(18*)", "[15 ]", "Due 2025-06-18:", "[ ] Late night", "[x] Shipped"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCalCmdMonthAndLoggedOut(t *testing.T) {
	env := clitest.New(t)

	if err := (&CalCmd{Month: "2024-02", WeekStart: "monday"}).Run(env.Ctx); err != nil {
		t.Fatalf("cal failed: %v", err)
	}
	out := env.Out.String()
	if !strings.Contains(out, "February 2024") {
		t.Errorf("output missing month title:\n%s", out)
	}
	if !strings.Contains(out, "Not logged in; deadlines are not shown.") {
		t.Errorf("output missing logged-out note:\n%s", out)
	}

	for _, bad := range []CalCmd{{Month: "2024-13"}, {Select: "June 5"}, {WeekStart: "someday"}} {
		if err := bad.Run(env.Ctx); err == nil {
			t.Errorf("%+v: expected an error", bad)
		}
	}
}
