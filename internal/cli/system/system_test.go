package system

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	gokeyring "github.com/zalando/go-keyring"
	"golang.org/x/crypto/bcrypt"

	"github.com/MarkBevz50/focusflow/internal/cli"
	"github.com/MarkBevz50/focusflow/internal/cli/clitest"
	"github.com/MarkBevz50/focusflow/internal/config"
	"github.com/MarkBevz50/focusflow/internal/constants"
	"github.com/MarkBevz50/focusflow/internal/fakeapi"
	"github.com/MarkBevz50/focusflow/internal/storage"
)

func TestDoctorCmd_Healthy(t *testing.T) {
	gokeyring.MockInit()
	env := clitest.New(t)
	env.Login(t)

	if err := (&DoctorCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("doctor failed on a healthy setup: %v\n%s", err, env.Out.String())
	}
	out := env.Out.String()
	for _, want := range []string{
		"✓ Config file: OK",
		"✓ Database reachable: OK",
		"✓ Schema version: OK",
		"✓ Token storage: OK",
		"✓ API reachable: OK",
		"✓ Session: OK",
		clitest.Email,
		"All diagnostics passed!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDoctorCmd_NotLoggedInIsAWarning(t *testing.T) {
	gokeyring.MockInit()
	env := clitest.New(t)

	if err := (&DoctorCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("doctor should not fail when logged out: %v", err)
	}
	if !strings.Contains(env.Out.String(), "⚠ Session: WARNING") {
		t.Errorf("output:\n%s", env.Out.String())
	}
}

func TestDoctorCmd_APIUnreachable(t *testing.T) {
	color.NoColor = true
	gokeyring.MockInit()

	dir := t.TempDir()
	out := &bytes.Buffer{}
	ctx, err := cli.Open(context.Background(), cli.Options{
		ConfigDir:  dir,
		DBPath:     filepath.Join(dir, "test.db"),
		ConfigFile: filepath.Join(dir, "config.toml"),
		Overrides:  config.Overrides{APIURL: "http://127.0.0.1:1/api", Timeout: 2 * time.Second},
		Tokens:     &storage.MemoryTokens{},
		Out:        out,
	})
	if err != nil {
		t.Fatalf("cli.Open() error = %v", err)
	}
	defer ctx.Close()

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("doctor should fail when the API is unreachable")
	}
	for _, want := range []string{"❌ API reachable: FAIL", "⊘ Session: SKIPPED", "Diagnostics completed with errors."} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

// openDiagnose opens the degraded context doctor runs on, against a live
// fake API.
func openDiagnose(t *testing.T, dir string) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	srv := fakeapi.New(fakeapi.Options{BcryptCost: bcrypt.MinCost})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	out := &bytes.Buffer{}
	ctx, err := cli.Open(context.Background(), cli.Options{
		ConfigDir:  dir,
		DBPath:     filepath.Join(dir, constants.DefaultDBName),
		ConfigFile: filepath.Join(dir, constants.DefaultConfigFile),
		Overrides:  config.Overrides{APIURL: ts.URL + "/api", RequestsPerSecond: 1000},
		Tokens:     &storage.MemoryTokens{},
		Out:        out,
		Diagnose:   true,
	})
	if err != nil {
		t.Fatalf("cli.Open() with Diagnose error = %v", err)
	}
	t.Cleanup(func() { ctx.Close() })
	return ctx, out
}

func TestDoctorCmd_BrokenConfigFile(t *testing.T) {
	gokeyring.MockInit()
	dir := t.TempDir()
	opts := cli.Options{
		ConfigDir:  dir,
		DBPath:     filepath.Join(dir, constants.DefaultDBName),
		ConfigFile: filepath.Join(dir, constants.DefaultConfigFile),
		Tokens:     &storage.MemoryTokens{},
		Out:        &bytes.Buffer{},
	}
	healthy, err := cli.Open(context.Background(), opts)
	if err != nil {
		t.Fatalf("cli.Open() error = %v", err)
	}
	healthy.Close()

	cfgPath := opts.ConfigFile
	if err := os.WriteFile(cfgPath, []byte("colour = \"blue\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	// A normal open refuses the file outright.
	if _, err := cli.Open(context.Background(), opts); err == nil {
		t.Fatal("cli.Open() accepted a config file with unknown keys")
	}

	ctx, out := openDiagnose(t, dir)
	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("doctor should fail on a broken config file")
	}
	for _, want := range []string{"❌ Config file: FAIL", "colour", "✓ Database reachable: OK", "✓ API reachable: OK"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDoctorCmd_MissingDatabase(t *testing.T) {
	gokeyring.MockInit()
	dir := t.TempDir()

	ctx, out := openDiagnose(t, dir)
	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("doctor should fail without a database")
	}
	for _, want := range []string{
		"✓ Config file: OK",
		"❌ Database reachable: FAIL",
		"no database at",
		"⊘ Schema version: SKIPPED",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	if _, err := os.Stat(filepath.Join(dir, constants.DefaultDBName)); !os.IsNotExist(err) {
		t.Error("doctor created the database")
	}
}

func TestDoctorCmd_CorruptDatabase(t *testing.T) {
	gokeyring.MockInit()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, constants.DefaultDBName)
	if err := os.WriteFile(dbPath, bytes.Repeat([]byte("x"), 4096), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := cli.Open(context.Background(), cli.Options{
		ConfigDir:  dir,
		DBPath:     dbPath,
		ConfigFile: filepath.Join(dir, constants.DefaultConfigFile),
		Tokens:     &storage.MemoryTokens{},
		Out:        &bytes.Buffer{},
	})
	if err == nil || !strings.Contains(err.Error(), "failed to open local state") {
		t.Fatalf("cli.Open() error = %v, want failed to open local state", err)
	}

	ctx, out := openDiagnose(t, dir)
	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("doctor should fail on a corrupt database")
	}
	for _, want := range []string{
		"✓ Config file: OK",
		"❌ Database reachable: FAIL",
		"⊘ Schema version: SKIPPED",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestSeed(t *testing.T) {
	srv := fakeapi.New(fakeapi.Options{BcryptCost: bcrypt.MinCost})
	now := time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)

	if err := seed(srv, "demo@example.com:demo123", now); err != nil {
		t.Fatalf("seed() error = %v", err)
	}
	token, err := srv.TokenFor("demo@example.com")
	if err != nil || token == "" {
		t.Fatalf("TokenFor() = %q, %v", token, err)
	}
	if got := len(srv.Tasks("user-1")); got != 4 {
		t.Errorf("seeded %d tasks, want 4", got)
	}

	for _, bad := range []string{"demo@example.com", ":pw", "demo@example.com:"} {
		if err := seed(srv, bad, now); err == nil {
			t.Errorf("seed(%q) should fail", bad)
		}
	}
}
