package tasks

import (
	"fmt"
	"strings"

	"github.com/MarkBevz50/focusflow/internal/cli"
	"github.com/MarkBevz50/focusflow/internal/models"
)

// parseDeadline accepts YYYY-MM-DD or a local date-time; "" means none.
func parseDeadline(s string) (*models.Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	ts, err := models.ParseTimestamp(s)
	if err != nil {
		return nil, fmt.Errorf("invalid deadline %q (expected YYYY-MM-DD or YYYY-MM-DDTHH:MM)", s)
	}
	return &ts, nil
}

// reportResync tells the user when a write went through but the list
// could not be refreshed afterwards.
func reportResync(ctx *cli.Context) {
	if msg := ctx.Tasks.LastError(); msg != "" {
		ctx.Printf("Warning: the task list could not be refreshed: %s\n", msg)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func status(t models.Task) string {
	if t.Completed {
		return "[x]"
	}
	return "[ ]"
}
