package models

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// wireLayout is what the API accepts for timestamps the client sends.
const wireLayout = "2006-01-02T15:04:05"

// Layouts the API has been seen to produce. Zone-less values keep their wall clock.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	wireLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Timestamp is a point in time as exchanged with the API.
// Only its calendar date matters for deadline matching and display.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp parses any of the layouts the API produces.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("timestamp must be a JSON string, got %s", data)
	}
	raw := string(data[1 : len(data)-1])
	if raw == "" {
		return nil
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + ts.Format(wireLayout) + `"`), nil
}

// DateString renders the calendar date portion (YYYY-MM-DD).
func (ts Timestamp) DateString() string {
	return ts.Format("2006-01-02")
}
