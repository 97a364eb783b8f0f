// Package clitest builds a cli.Context wired to an in-process fake API.
package clitest

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"golang.org/x/crypto/bcrypt"

	"github.com/MarkBevz50/focusflow/internal/cli"
	"github.com/MarkBevz50/focusflow/internal/config"
	"github.com/MarkBevz50/focusflow/internal/constants"
	"github.com/MarkBevz50/focusflow/internal/fakeapi"
	"github.com/MarkBevz50/focusflow/internal/storage"
)

// Email and Password are the credentials of the account Login creates.
const (
	Email    = "ann@example.com"
	Password = "secret1"
)

// Env is a command context plus the server behind it.
type Env struct {
	Ctx    *cli.Context
	Server *fakeapi.Server
	Out    *bytes.Buffer
	Tokens *storage.MemoryTokens
}

// New opens a context against a fresh fake API in a temp config dir.
func New(t *testing.T) *Env {
	t.Helper()
	color.NoColor = true

	srv := fakeapi.New(fakeapi.Options{BcryptCost: bcrypt.MinCost})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	dir := t.TempDir()
	out := &bytes.Buffer{}
	tokens := &storage.MemoryTokens{}
	ctx, err := cli.Open(context.Background(), cli.Options{
		ConfigDir:  dir,
		DBPath:     filepath.Join(dir, constants.DefaultDBName),
		ConfigFile: filepath.Join(dir, constants.DefaultConfigFile),
		Overrides: config.Overrides{
			APIURL:            ts.URL + "/api",
			RequestsPerSecond: 1000,
		},
		Tokens: tokens,
		Out:    out,
	})
	if err != nil {
		t.Fatalf("cli.Open() error = %v", err)
	}
	ctx.Now = func() time.Time { return time.Date(2025, time.June, 15, 9, 0, 0, 0, time.Local) }
	t.Cleanup(func() {
		if err := ctx.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return &Env{Ctx: ctx, Server: srv, Out: out, Tokens: tokens}
}

// Login creates the test account and logs the context in.
func (e *Env) Login(t *testing.T) {
	t.Helper()
	if _, err := e.Server.AddUser(Email, Password); err != nil {
		t.Fatalf("AddUser() error = %v", err)
	}
	if _, err := e.Ctx.Session.Login(context.Background(), Email, Password); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	e.Out.Reset()
}

// Owner returns the id of the logged-in user.
func (e *Env) Owner(t *testing.T) string {
	t.Helper()
	p, ok := e.Ctx.Session.Profile()
	if !ok {
		t.Fatal("no profile loaded")
	}
	return p.ID
}
