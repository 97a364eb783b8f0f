package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Task is a to-do record as held by the FocusFlow API.
// The server calls the completion flag isCompleted and the owner userId.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Deadline    *Timestamp `json:"deadline,omitempty"`
	Completed   bool       `json:"isCompleted"`
	OwnerID     string     `json:"userId,omitempty"`
}

// UnmarshalJSON accepts id and userId as either JSON strings or numbers.
func (t *Task) UnmarshalJSON(data []byte) error {
	type wire Task
	aux := struct {
		*wire
		ID      flexID `json:"id"`
		OwnerID flexID `json:"userId"`
	}{wire: (*wire)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t.ID, t.OwnerID = string(aux.ID), string(aux.OwnerID)
	return nil
}

// flexID is an identifier the server may send quoted or bare.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a JSON string or number, got %s", data)
	}
	*f = flexID(n.String())
	return nil
}

// HasDeadline reports whether the task carries a deadline.
func (t Task) HasDeadline() bool {
	return t.Deadline != nil && !t.Deadline.IsZero()
}

// TaskInput holds the user-editable fields of a task.
type TaskInput struct {
	Title       string     `json:"title" validate:"notblank,max=200"`
	Description string     `json:"description"`
	Deadline    *Timestamp `json:"deadline"`
}

// Normalize trims surrounding whitespace from text fields.
func (in TaskInput) Normalize() TaskInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

// InputFrom returns the editable fields of an existing task.
func InputFrom(t Task) TaskInput {
	return TaskInput{
		Title:       t.Title,
		Description: t.Description,
		Deadline:    t.Deadline,
	}
}

// TaskReplace is the PUT body: all editable fields plus the completion flag.
type TaskReplace struct {
	TaskInput
	Completed bool `json:"isCompleted"`
}
