// Package monthview renders the calendar panel and moves its selection.
package monthview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MarkBevz50/focusflow/internal/calendar"
	"github.com/MarkBevz50/focusflow/internal/constants"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(4).
			Align(lipgloss.Center)

	cellStyle = lipgloss.NewStyle().
			Width(4).
			Align(lipgloss.Center)

	otherMonthStyle = cellStyle.
			Foreground(lipgloss.Color("238"))

	todayStyle = cellStyle.
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("205"))

	selectedStyle = cellStyle.
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("111"))

	pendingStyle = cellStyle.
			Foreground(lipgloss.Color("214"))

	doneStyle = cellStyle.
			Foreground(lipgloss.Color("42"))

	legendStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// SelectMsg is sent whenever the selected date changes.
type SelectMsg struct {
	Date calendar.Date
}

type KeyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	Today     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev day"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next day"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev week"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next week"),
		),
		PrevMonth: key.NewBinding(
			key.WithKeys("[", "pgup"),
			key.WithHelp("[", "prev month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("]", "pgdown"),
			key.WithHelp("]", "next month"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
	}
}

// Model is the month grid plus the selected date. Events are replaced
// wholesale whenever the task list changes.
type Model struct {
	Keys     KeyMap
	grid     calendar.Grid
	selected calendar.Date
	today    calendar.Date
	events   []calendar.Event
}

func New(today calendar.Date, weekStart time.Weekday) Model {
	return Model{
		Keys:     DefaultKeyMap(),
		grid:     calendar.BuildMonth(today.Year, today.Month, weekStart),
		selected: today,
		today:    today,
	}
}

func (m Model) Selected() calendar.Date { return m.selected }

func (m *Model) SetEvents(events []calendar.Event) {
	m.events = events
}

// SetToday moves the "today" marker, e.g. after midnight.
func (m *Model) SetToday(today calendar.Date) {
	m.today = today
}

// Select moves the selection and shows its month.
func (m *Model) Select(d calendar.Date) {
	m.selected = d
	if !m.grid.Contains(d) {
		m.grid = calendar.BuildMonth(d.Year, d.Month, m.grid.WeekStart)
	}
}

// ShiftMonth shows the previous or next month and keeps the selected day of
// month, clamped to the new month's length.
func (m *Model) ShiftMonth(delta int) {
	y, mo := calendar.ShiftMonth(m.grid.Year, m.grid.Month, delta)
	day := m.selected.Day
	if n := calendar.DaysIn(y, mo); day > n {
		day = n
	}
	m.Select(calendar.Date{Year: y, Month: mo, Day: day})
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	before := m.selected
	switch {
	case key.Matches(keyMsg, m.Keys.Left):
		m.Select(m.selected.AddDays(-1))
	case key.Matches(keyMsg, m.Keys.Right):
		m.Select(m.selected.AddDays(1))
	case key.Matches(keyMsg, m.Keys.Up):
		m.Select(m.selected.AddDays(-7))
	case key.Matches(keyMsg, m.Keys.Down):
		m.Select(m.selected.AddDays(7))
	case key.Matches(keyMsg, m.Keys.PrevMonth):
		m.ShiftMonth(-1)
	case key.Matches(keyMsg, m.Keys.NextMonth):
		m.ShiftMonth(1)
	case key.Matches(keyMsg, m.Keys.Today):
		m.Select(m.today)
	default:
		return m, nil
	}
	if m.selected == before {
		return m, nil
	}
	selected := m.selected
	return m, func() tea.Msg { return SelectMsg{Date: selected} }
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.grid.Title()))
	b.WriteString("\n")

	var labels []string
	for _, l := range m.grid.WeekdayLabels() {
		labels = append(labels, labelStyle.Render(l))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, labels...))
	b.WriteString("\n")

	cells := m.grid.Annotate(m.events, m.selected, m.today)
	for row := 0; row < 6; row++ {
		var line []string
		for col := 0; col < 7; col++ {
			line = append(line, renderCell(cells[row*7+col]))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, line...))
		b.WriteString("\n")
	}

	b.WriteString(legendStyle.Render(fmt.Sprintf("Selected: %s", m.selected)))
	b.WriteString("\n")
	b.WriteString(legendStyle.Render("• pending  ✓ done"))
	return b.String()
}

func renderCell(c calendar.Cell) string {
	text := fmt.Sprintf("%2d", c.DayOfMonth)
	if c.HasEvent {
		if c.Event.ColorTag == constants.ColorTagDone {
			text += "✓"
		} else {
			text += "•"
		}
	}

	switch c.Highlight {
	case calendar.HighlightToday:
		return todayStyle.Render(text)
	case calendar.HighlightSelected:
		return selectedStyle.Render(text)
	}
	switch {
	case c.Relation != calendar.Current:
		return otherMonthStyle.Render(text)
	case c.HasEvent && c.Event.ColorTag == constants.ColorTagDone:
		return doneStyle.Render(text)
	case c.HasEvent:
		return pendingStyle.Render(text)
	}
	return cellStyle.Render(text)
}
