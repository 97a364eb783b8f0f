package calendar

import (
	"github.com/MarkBevz50/focusflow/internal/constants"
	"github.com/MarkBevz50/focusflow/internal/models"
)

// Event marks a calendar day. ColorTag is opaque to this package.
type Event struct {
	Date     Date
	Label    string
	ColorTag string
}

// Highlight is the visual state of a day. Today and Selected are exclusive.
type Highlight int

const (
	HighlightNone Highlight = iota
	HighlightSelected
	HighlightToday
)

// Cell is a grid day together with its annotation.
type Cell struct {
	Day
	Event     Event
	HasEvent  bool
	Highlight Highlight
}

// FindEvent returns the first event in list order that falls on date.
func FindEvent(date Date, events []Event) (Event, bool) {
	for _, e := range events {
		if e.Date == date {
			return e, true
		}
	}
	return Event{}, false
}

// HighlightFor decides the highlight of date. A zero selected date selects
// nothing. When date is both today and selected, today wins.
func HighlightFor(date, selected, today Date) Highlight {
	switch {
	case date == today:
		return HighlightToday
	case !selected.IsZero() && date == selected:
		return HighlightSelected
	default:
		return HighlightNone
	}
}

// Annotate pairs every grid day with its first event and highlight.
func (g Grid) Annotate(events []Event, selected, today Date) [GridSize]Cell {
	var cells [GridSize]Cell
	for i, d := range g.Days {
		e, ok := FindEvent(d.Date, events)
		cells[i] = Cell{
			Day:       d,
			Event:     e,
			HasEvent:  ok,
			Highlight: HighlightFor(d.Date, selected, today),
		}
	}
	return cells
}

// EventsFromTasks turns every task with a deadline into an event, keeping task order.
func EventsFromTasks(tasks []models.Task) []Event {
	var events []Event
	for _, t := range tasks {
		if !t.HasDeadline() {
			continue
		}
		tag := constants.ColorTagPending
		if t.Completed {
			tag = constants.ColorTagDone
		}
		events = append(events, Event{
			Date:     DateOf(t.Deadline.Time),
			Label:    t.Title,
			ColorTag: tag,
		})
	}
	return events
}

// TasksOn returns the tasks whose deadline falls on date, keeping task order.
func TasksOn(tasks []models.Task, date Date) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.HasDeadline() && DateOf(t.Deadline.Time) == date {
			out = append(out, t)
		}
	}
	return out
}
