// Package calendar builds the month grid shown next to the task list and
// annotates it with task deadlines.
package calendar

import (
	"time"

	"github.com/MarkBevz50/focusflow/internal/constants"
)

// GridSize is the number of cells in a month grid: 6 rows of 7 days.
const GridSize = 42

// Relation tells which month a grid cell belongs to relative to the displayed month.
type Relation int

const (
	Previous Relation = iota
	Current
	Next
)

func (r Relation) String() string {
	switch r {
	case Previous:
		return "previous"
	case Current:
		return "current"
	case Next:
		return "next"
	default:
		return "unknown"
	}
}

// Day is one cell of the month grid.
type Day struct {
	DayOfMonth int
	Relation   Relation
	Date       Date
}

// Grid is the 42-cell layout of a displayed month.
type Grid struct {
	Year      int
	Month     time.Month
	WeekStart time.Weekday
	Days      [GridSize]Day
}

// BuildMonth lays out the displayed month: the trailing days of the previous
// month up to the first weekday column, every day of the month, then days of
// the next month until all 42 cells are filled. Out-of-range months are
// normalized the way time.Date normalizes them, and weekStart is taken mod 7.
func BuildMonth(year int, month time.Month, weekStart time.Weekday) Grid {
	weekStart = time.Weekday(((int(weekStart) % 7) + 7) % 7)
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	year, month = first.Year(), first.Month()

	g := Grid{Year: year, Month: month, WeekStart: weekStart}

	leading := (int(first.Weekday()) - int(weekStart) + 7) % 7
	daysInMonth := DaysIn(year, month)

	start := DateOf(first).AddDays(-leading)
	for i := 0; i < GridSize; i++ {
		date := start.AddDays(i)
		relation := Current
		switch {
		case i < leading:
			relation = Previous
		case i >= leading+daysInMonth:
			relation = Next
		}
		g.Days[i] = Day{DayOfMonth: date.Day, Relation: relation, Date: date}
	}
	return g
}

// DaysIn returns the number of days in a month ("day 0 of the next month").
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Weeks returns the grid as 6 rows of 7 days.
func (g Grid) Weeks() [6][7]Day {
	var rows [6][7]Day
	for i, d := range g.Days {
		rows[i/7][i%7] = d
	}
	return rows
}

// Title renders the month header, e.g. "June 2025".
func (g Grid) Title() string {
	return time.Date(g.Year, g.Month, 1, 0, 0, 0, 0, time.UTC).Format(constants.MonthTitleFormat)
}

// WeekdayLabels returns single-letter column headers starting at the grid's week start.
func (g Grid) WeekdayLabels() [7]string {
	letters := [7]string{"S", "M", "T", "W", "T", "F", "S"}
	var out [7]string
	for i := range out {
		out[i] = letters[(int(g.WeekStart)+i)%7]
	}
	return out
}

// Contains reports whether d is one of the grid's current-month days.
func (g Grid) Contains(d Date) bool {
	return d.Year == g.Year && d.Month == g.Month
}

// ShiftMonth moves a (year, month) pair by delta months.
func ShiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// Prev returns the grid of the previous month.
func (g Grid) Prev() Grid {
	y, m := ShiftMonth(g.Year, g.Month, -1)
	return BuildMonth(y, m, g.WeekStart)
}

// Next returns the grid of the next month.
func (g Grid) Next() Grid {
	y, m := ShiftMonth(g.Year, g.Month, 1)
	return BuildMonth(y, m, g.WeekStart)
}
