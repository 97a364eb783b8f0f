package system

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MarkBevz50/focusflow/internal/cli"
	"github.com/MarkBevz50/focusflow/internal/fakeapi"
	"github.com/MarkBevz50/focusflow/internal/logger"
	"github.com/MarkBevz50/focusflow/internal/models"
)

// ServeCmd runs the in-memory API for offline demos. Nothing it stores
// survives a restart.
type ServeCmd struct {
	Addr        string `help:"Listen address." default:"localhost:5134"`
	Secret      string `help:"Token signing secret." env:"FOCUSFLOW_DEV_SECRET"`
	EchoToggles bool   `help:"Answer completion toggles with the updated task."`
	Seed        string `help:"Create this account (email:password) with a few sample tasks."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	srv := fakeapi.New(fakeapi.Options{Secret: c.Secret, EchoToggles: c.EchoToggles})
	if c.Seed != "" {
		if err := seed(srv, c.Seed, ctx.Now()); err != nil {
			return err
		}
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Start(c.Addr) }()
	ctx.Printf("Serving the development API on http://%s/api (Ctrl+C to stop)\n", c.Addr)
	logger.Info("dev api started", "addr", c.Addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Context().Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

func seed(srv *fakeapi.Server, account string, now time.Time) error {
	email, password, err := splitAccount(account)
	if err != nil {
		return err
	}
	p, err := srv.AddUser(email, password)
	if err != nil {
		return err
	}
	at := func(days int) *models.Timestamp {
		ts := models.NewTimestamp(now.AddDate(0, 0, days))
		return &ts
	}
	srv.AddTask(p.ID, models.Task{Title: "Review pull requests", Deadline: at(0)})
	srv.AddTask(p.ID, models.Task{Title: "Plan sprint", Description: "Draft goals for next sprint", Deadline: at(2)})
	srv.AddTask(p.ID, models.Task{Title: "Renew passport", Deadline: at(-3), Completed: true})
	srv.AddTask(p.ID, models.Task{Title: "Read a book"})
	return nil
}

func splitAccount(s string) (string, string, error) {
	email, password, ok := strings.Cut(s, ":")
	if !ok || email == "" || password == "" {
		return "", "", fmt.Errorf("invalid --seed %q (want email:password)", s)
	}
	return email, password, nil
}
