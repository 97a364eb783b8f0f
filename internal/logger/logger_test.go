package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	t.Cleanup(func() { Logger = nil })

	err := Init(Config{
		Debug:     false,
		ConfigDir: configDir,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Warn("keyring unavailable")
	if _, err := os.Stat(Path(configDir)); err != nil {
		t.Errorf("log file %s not written: %v", Path(configDir), err)
	}
	if filepath.Base(Path(configDir)) != "focusflow.log" {
		t.Errorf("Path() = %s, want focusflow.log", Path(configDir))
	}
}

func TestComponentLoggers(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Config{Debug: true, Output: &buf}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	For(Tasks).Debug("discarding stale list", "seq", 2)
	For(Migration).Info("applied migration", "version", 1)
	For(Lockfile).Warn("removing stale lockfile")

	out := buf.String()
	for _, want := range []string{
		"component=tasks", "discarding stale list",
		"component=migration", "applied migration",
		"component=lockfile", "removing stale lockfile",
		"focusflow",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLevelFollowsDebug(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Config{Output: &buf}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	For(Session).Debug("restored session")
	Debug("context opened")
	if buf.Len() != 0 {
		t.Errorf("debug lines written at info level: %q", buf.String())
	}
	For(APIClient).Info("request failed")
	if !strings.Contains(buf.String(), "component=apiclient") {
		t.Errorf("info line missing component: %q", buf.String())
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
	For(FakeAPI).Info("discarded")
}
