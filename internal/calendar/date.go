package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/MarkBevz50/focusflow/internal/constants"
)

// Date is a calendar date without a time-of-day component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current local date.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(constants.DateFormat, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return DateOf(t), nil
}

// ParseMonth parses a YYYY-MM string into a year and month.
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse(constants.MonthFormat, strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q (expected YYYY-MM): %w", s, err)
	}
	return t.Year(), t.Month(), nil
}

// Time returns midnight of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time(time.UTC).AddDate(0, 0, n))
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Weekday returns the day of the week d falls on.
func (d Date) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

func (d Date) String() string {
	return d.Time(time.UTC).Format(constants.DateFormat)
}

// SameDay reports whether two instants fall on the same calendar day,
// comparing year, month and day only. Each value keeps its own location.
func SameDay(a, b time.Time) bool {
	return DateOf(a) == DateOf(b)
}

// ParseWeekday maps "sunday"/"monday" (or their 3-letter forms, or 0-6) to a weekday.
func ParseWeekday(s string) (time.Weekday, error) {
	dayMap := map[string]time.Weekday{
		"sun":       time.Sunday,
		"sunday":    time.Sunday,
		"mon":       time.Monday,
		"monday":    time.Monday,
		"tue":       time.Tuesday,
		"tuesday":   time.Tuesday,
		"wed":       time.Wednesday,
		"wednesday": time.Wednesday,
		"thu":       time.Thursday,
		"thursday":  time.Thursday,
		"fri":       time.Friday,
		"friday":    time.Friday,
		"sat":       time.Saturday,
		"saturday":  time.Saturday,
	}

	key := strings.TrimSpace(strings.ToLower(s))
	if key == "" {
		return time.Sunday, nil
	}
	if wd, ok := dayMap[key]; ok {
		return wd, nil
	}
	if len(key) == 1 && key[0] >= '0' && key[0] <= '6' {
		return time.Weekday(key[0] - '0'), nil
	}
	return time.Sunday, fmt.Errorf("invalid weekday: %s", s)
}
