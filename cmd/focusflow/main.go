package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/MarkBevz50/focusflow/internal/cli"
	"github.com/MarkBevz50/focusflow/internal/cli/auth"
	"github.com/MarkBevz50/focusflow/internal/cli/cal"
	"github.com/MarkBevz50/focusflow/internal/cli/settings"
	"github.com/MarkBevz50/focusflow/internal/cli/system"
	"github.com/MarkBevz50/focusflow/internal/cli/tasks"
	"github.com/MarkBevz50/focusflow/internal/config"
	"github.com/MarkBevz50/focusflow/internal/constants"
	"github.com/MarkBevz50/focusflow/internal/errors"
	"github.com/MarkBevz50/focusflow/internal/logger"
)

var CLI struct {
	Version   kong.VersionFlag
	ConfigDir string `help:"Directory holding config.toml, the local database and logs." type:"path" default:"~/.config/focusflow" env:"FOCUSFLOW_CONFIG_DIR"`
	Debug     bool   `help:"Log debug output to stderr."`

	APIURL            string        `name:"api-url" help:"FocusFlow API base URL." env:"FOCUSFLOW_API_URL"`
	WeekStart         string        `help:"First day of the calendar week (sunday or monday)." env:"FOCUSFLOW_WEEK_START"`
	TokenBackend      string        `help:"Where the login token is kept (keyring or local)." env:"FOCUSFLOW_TOKEN_BACKEND"`
	Timeout           time.Duration `help:"Per-request timeout." env:"FOCUSFLOW_TIMEOUT"`
	RequestsPerSecond float64       `hidden:"" help:"Client-side request rate limit."`

	Tui  system.TuiCmd `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Auth struct {
		Signup auth.SignUpCmd `cmd:"" help:"Create an account."`
		Login  auth.LoginCmd  `cmd:"" help:"Log in."`
		Logout auth.LogoutCmd `cmd:"" help:"Log out and forget the saved token."`
		Status auth.StatusCmd `cmd:"" help:"Show who is logged in."`
	} `cmd:"" help:"Manage your account session."`
	Task struct {
		Add    tasks.TaskAddCmd    `cmd:"" help:"Add a new task."`
		Edit   tasks.TaskEditCmd   `cmd:"" help:"Edit an existing task."`
		Delete tasks.TaskDeleteCmd `cmd:"" help:"Delete a task."`
		Done   tasks.TaskDoneCmd   `cmd:"" aliases:"toggle" help:"Toggle a task between done and pending."`
		List   tasks.TaskListCmd   `cmd:"" help:"List tasks."`
	} `cmd:"" help:"Manage tasks."`
	Cal    cal.CalCmd `cmd:"" help:"Show a month calendar with task deadlines."`
	Config struct {
		Show settings.ShowCmd `cmd:"" help:"Show the effective configuration." default:"1"`
		Set  settings.SetCmd  `cmd:"" help:"Change a setting."`
	} `cmd:"" help:"Manage settings."`
	Doctor system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Dev    struct {
		Serve system.ServeCmd `cmd:"" help:"Run an in-memory FocusFlow API."`
	} `cmd:"" hidden:"" help:"Development helpers."`
}

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("To-do list client with a month calendar"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: CLI.ConfigDir}); err != nil {
		errors.Fatal(err)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx, err := cli.Open(sigCtx, cli.Options{
		ConfigDir:  CLI.ConfigDir,
		DBPath:     filepath.Join(CLI.ConfigDir, constants.DefaultDBName),
		ConfigFile: filepath.Join(CLI.ConfigDir, constants.DefaultConfigFile),
		Overrides: config.Overrides{
			APIURL:            CLI.APIURL,
			WeekStart:         CLI.WeekStart,
			TokenBackend:      CLI.TokenBackend,
			Timeout:           CLI.Timeout,
			RequestsPerSecond: CLI.RequestsPerSecond,
		},
		// doctor reports a broken config or database instead of stopping on it
		Diagnose: ctx.Selected() != nil && ctx.Selected().Name == "doctor",
	})
	if err != nil {
		errors.Fatal(err)
	}

	err = ctx.Run(appCtx)
	if cerr := appCtx.Close(); cerr != nil {
		logger.Warn("failed to close", "error", cerr)
	}
	if err != nil {
		stop()
		errors.Fatal(err)
	}
}
