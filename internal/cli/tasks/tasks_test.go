package tasks

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MarkBevz50/focusflow/internal/cli"
	"github.com/MarkBevz50/focusflow/internal/cli/clitest"
	"github.com/MarkBevz50/focusflow/internal/fakeapi"
	"github.com/MarkBevz50/focusflow/internal/models"
	"github.com/MarkBevz50/focusflow/internal/tasks"
	"github.com/MarkBevz50/focusflow/internal/validation"
)

func strPtr(s string) *string { return &s }

func due(y int, m time.Month, d int) *models.Timestamp {
	ts := models.NewTimestamp(time.Date(y, m, d, 12, 0, 0, 0, time.UTC))
	return &ts
}

func TestCommandsRequireLogin(t *testing.T) {
	env := clitest.New(t)

	cmds := []interface{ Run(*cli.Context) error }{
		&TaskAddCmd{Title: "Write report"},
		&TaskListCmd{},
		&TaskDoneCmd{ID: "1"},
		&TaskDeleteCmd{ID: "1", Yes: true},
		&TaskEditCmd{ID: "1", Title: strPtr("x")},
	}
	for _, cmd := range cmds {
		if err := cmd.Run(env.Ctx); !errors.Is(err, cli.ErrNotLoggedIn) {
			t.Errorf("%T.Run() error = %v, want ErrNotLoggedIn", cmd, err)
		}
	}
}

func TestTaskAdd(t *testing.T) {
	env := clitest.New(t)
	env.Login(t)

	cmd := &TaskAddCmd{Title: "  Write report  ", Description: "Q2", Deadline: "2025-06-20"}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !strings.Contains(env.Out.String(), "Added task: Write report (ID: 1)") {
		t.Errorf("output = %q", env.Out.String())
	}

	stored := env.Server.Tasks(env.Owner(t))
	if len(stored) != 1 {
		t.Fatalf("server has %d tasks, want 1", len(stored))
	}
	if stored[0].Title != "Write report" || stored[0].Deadline.DateString() != "2025-06-20" {
		t.Errorf("stored task = %+v", stored[0])
	}
	if got := len(env.Ctx.Tasks.Tasks()); got != 1 {
		t.Errorf("cache holds %d tasks after resync, want 1", got)
	}
}

func TestTaskAddValidation(t *testing.T) {
	env := clitest.New(t)
	env.Login(t)

	err := (&TaskAddCmd{Title: "   "}).Run(env.Ctx)
	var verrs validation.Errors
	if !errors.As(err, &verrs) || verrs["title"] != "Title is required." {
		t.Fatalf("Run() error = %v, want title required", err)
	}

	if err := (&TaskAddCmd{Title: "x", Deadline: "someday"}).Run(env.Ctx); err == nil {
		t.Error("expected an error for an unparseable deadline")
	}
	if n := len(env.Server.Tasks(env.Owner(t))); n != 0 {
		t.Errorf("server has %d tasks, want none", n)
	}
}

func TestTaskAddValidatesBeforeLogin(t *testing.T) {
	env := clitest.New(t)

	err := (&TaskAddCmd{Title: "   "}).Run(env.Ctx)
	if errors.Is(err, cli.ErrNotLoggedIn) {
		t.Fatal("blank title reached the session check")
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) || verrs["title"] != "Title is required." {
		t.Fatalf("Run() error = %v, want title required", err)
	}
	if env.Ctx.Session.IsAuthenticated() {
		t.Error("session was restored for an invalid task")
	}
}

func TestTaskEdit(t *testing.T) {
	env := clitest.New(t)
	env.Login(t)
	owner := env.Owner(t)
	env.Server.AddTask(owner, models.Task{Title: "Draft", Description: "old", Deadline: due(2025, 6, 1), Completed: true})

	cmd := &TaskEditCmd{ID: "1", Title: strPtr("Final"), Description: strPtr(""), ClearDeadline: true}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	got := env.Server.Tasks(owner)[0]
	if got.Title != "Final" || got.Description != "" || got.HasDeadline() {
		t.Errorf("task after edit = %+v", got)
	}
	if !got.Completed {
		t.Error("edit must keep the completion flag")
	}
}

func TestTaskEditValidate(t *testing.T) {
	if err := (&TaskEditCmd{ID: "1"}).Validate(); err == nil {
		t.Error("expected an error when nothing changes")
	}
	if err := (&TaskEditCmd{ID: "1", Deadline: strPtr("2025-01-01"), ClearDeadline: true}).Validate(); err == nil {
		t.Error("expected an error for conflicting deadline flags")
	}
}

func TestTaskDoneToggles(t *testing.T) {
	env := clitest.New(t)
	env.Login(t)
	owner := env.Owner(t)
	env.Server.AddTask(owner, models.Task{Title: "Call mom"})

	if err := (&TaskDoneCmd{ID: "1"}).Run(env.Ctx); err != nil {
		t.Fatalf("done failed: %v", err)
	}
	if !env.Server.Tasks(owner)[0].Completed {
		t.Fatal("task not completed on the server")
	}
	if !strings.Contains(env.Out.String(), "[x] Call mom is now done.") {
		t.Errorf("output = %q", env.Out.String())
	}

	env.Out.Reset()
	if err := (&TaskDoneCmd{ID: "1"}).Run(env.Ctx); err != nil {
		t.Fatalf("second done failed: %v", err)
	}
	if env.Server.Tasks(owner)[0].Completed {
		t.Error("second toggle should reopen the task")
	}
	if !strings.Contains(env.Out.String(), "is now pending.") {
		t.Errorf("output = %q", env.Out.String())
	}
}

func TestTaskDelete(t *testing.T) {
	env := clitest.New(t)
	env.Login(t)
	owner := env.Owner(t)
	env.Server.AddTask(owner, models.Task{Title: "Old"})
	env.Server.AddTask(owner, models.Task{Title: "Keep"})

	if err := (&TaskDeleteCmd{ID: "1", Yes: true}).Run(env.Ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	left := env.Server.Tasks(owner)
	if len(left) != 1 || left[0].Title != "Keep" {
		t.Errorf("server tasks = %+v", left)
	}

	err := (&TaskDeleteCmd{ID: "99", Yes: true}).Run(env.Ctx)
	if !errors.Is(err, tasks.ErrTaskNotFound) {
		t.Errorf("unknown id error = %v, want ErrTaskNotFound", err)
	}
}

func TestTaskWriteFailureReportsServerMessage(t *testing.T) {
	env := clitest.New(t)
	env.Login(t)
	env.Server.SetFailures(fakeapi.Failures{NextWrite: 500})

	err := (&TaskAddCmd{Title: "Doomed"}).Run(env.Ctx)
	if err == nil {
		t.Fatal("expected the injected failure")
	}
	if got := env.Ctx.Tasks.LastError(); got == "" {
		t.Error("LastError() is empty after a failed write")
	}
}

func TestTaskList(t *testing.T) {
	env := clitest.New(t)
	env.Login(t)

	if err := (&TaskListCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if got := strings.TrimSpace(env.Out.String()); got != emptyList {
		t.Errorf("empty output = %q", got)
	}

	owner := env.Owner(t)
	env.Server.AddTask(owner, models.Task{Title: "Today", Deadline: due(2025, 6, 15)})
	env.Server.AddTask(owner, models.Task{Title: "Later", Deadline: due(2025, 6, 20), Completed: true})
	env.Server.AddTask(owner, models.Task{Title: "Someday", Description: "no rush"})

	tests := []struct {
		name    string
		cmd     TaskListCmd
		want    []string
		notWant []string
	}{
		{"all", TaskListCmd{}, []string{"Today", "Later", "Someday - no rush", "3 of 3"}, nil},
		{"today", TaskListCmd{Date: "today"}, []string{"Today", "1 of 3"}, []string{"Later", "Someday"}},
		{"by date", TaskListCmd{Date: "2025-06-20"}, []string{"[x]", "Later"}, []string{"Someday"}},
		{"pending", TaskListCmd{Pending: true}, []string{"Today", "Someday"}, []string{"Later"}},
		{"no match", TaskListCmd{Date: "2025-07-01"}, []string{"No tasks due on 2025-07-01."}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.Out.Reset()
			if err := tt.cmd.Run(env.Ctx); err != nil {
				t.Fatalf("list failed: %v", err)
			}
			out := env.Out.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output unexpectedly has %q:\n%s", w, out)
				}
			}
		})
	}
}
