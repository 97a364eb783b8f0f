package settings

import (
	"strings"
	"testing"

	"github.com/MarkBevz50/focusflow/internal/cli/clitest"
	"github.com/MarkBevz50/focusflow/internal/config"
)

func TestShowCmd(t *testing.T) {
	env := clitest.New(t)

	if err := (&ShowCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("show failed: %v", err)
	}
	out := env.Out.String()
	for _, want := range []string{"api_url", "flag/env", "week_start", "sunday", "token_backend", "Database:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSetCmdSettings(t *testing.T) {
	env := clitest.New(t)
	ctx := env.Ctx.Context()

	if err := (&SetCmd{Key: "week_start", Value: "Monday"}).Run(env.Ctx); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := (&SetCmd{Key: "only_selected_day", Value: "true"}).Run(env.Ctx); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	s, err := env.Ctx.Store.GetSettings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if s.WeekStart != "monday" || !s.OnlySelectedDay {
		t.Errorf("settings = %+v", s)
	}

	if err := (&SetCmd{Key: "week_start", Value: "someday"}).Run(env.Ctx); err == nil {
		t.Error("expected an error for an invalid weekday")
	}
	if err := (&SetCmd{Key: "only_selected_day", Value: "maybe"}).Run(env.Ctx); err == nil {
		t.Error("expected an error for an invalid bool")
	}
}

func TestSetCmdFile(t *testing.T) {
	env := clitest.New(t)

	if err := (&SetCmd{Key: "timeout", Value: "5s"}).Run(env.Ctx); err != nil {
		t.Fatalf("set timeout failed: %v", err)
	}
	if err := (&SetCmd{Key: "api_url", Value: "https://focusflow.example/api/", File: true}).Run(env.Ctx); err != nil {
		t.Fatalf("set api_url failed: %v", err)
	}

	f, err := config.LoadFile(env.Ctx.ConfigFile)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if f.Timeout == nil || f.Timeout.String() != "5s" {
		t.Errorf("timeout = %v", f.Timeout)
	}
	if f.APIURL != "https://focusflow.example/api" {
		t.Errorf("api_url = %q", f.APIURL)
	}

	if err := (&SetCmd{Key: "colour", Value: "blue"}).Run(env.Ctx); err == nil {
		t.Error("expected an error for an unknown key")
	}
}
