package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/MarkBevz50/focusflow/internal/constants"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger
)

// Component names the part of FocusFlow a log line comes from.
type Component string

const (
	Tasks     Component = "tasks"
	Session   Component = "session"
	APIClient Component = "apiclient"
	Keyring   Component = "keyring"
	Storage   Component = "storage"
	Migration Component = "migration"
	Lockfile  Component = "lockfile"
	FakeAPI   Component = "fakeapi"
)

// Config holds logger configuration
type Config struct {
	Debug     bool
	ConfigDir string
	// Output replaces the rotating log file when set.
	Output io.Writer
}

// Path returns the log file under configDir.
func Path(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) error {
	writer := cfg.Output
	if writer == nil {
		path := Path(cfg.ConfigDir)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		writer = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
	}

	level := log.InfoLevel
	if cfg.Debug {
		level = log.DebugLevel
	}

	// stderr only gets a copy in debug mode; the TUI owns the terminal otherwise
	if cfg.Debug && cfg.Output == nil {
		writer = io.MultiWriter(os.Stderr, writer)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})

	return nil
}

// For returns a child logger tagged with the component. It falls back to a
// discarding logger when Init has not been called.
func For(c Component) *log.Logger {
	if Logger == nil {
		return log.New(io.Discard)
	}
	return Logger.With("component", string(c))
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
