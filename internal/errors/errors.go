package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/MarkBevz50/focusflow/internal/logger"
)

// Describer is implemented by errors that carry a message meant for the user,
// such as a server-provided message from the FocusFlow API.
type Describer interface {
	UserMessage() string
}

// Hinter is implemented by errors that can suggest a next step.
type Hinter interface {
	Hint() string
}

// Format formats an error message with a consistent "Error: " prefix.
// When the chain holds a Describer its message is used instead of err.Error().
func Format(err error) string {
	if err == nil {
		return ""
	}
	var d Describer
	if stderrors.As(err, &d) {
		if msg := d.UserMessage(); msg != "" {
			return "Error: " + msg
		}
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// HintFor returns the hint attached to err, if any.
func HintFor(err error) string {
	var h Hinter
	if stderrors.As(err, &h) {
		return h.Hint()
	}
	return ""
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		if hint := HintFor(err); hint != "" {
			fmt.Fprintf(os.Stderr, "       %s\n", hint)
		}
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
