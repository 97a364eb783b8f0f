// Package tui is the interactive FocusFlow client: login and sign-up
// screens, then the task list next to a month calendar.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MarkBevz50/focusflow/internal/calendar"
	"github.com/MarkBevz50/focusflow/internal/constants"
	"github.com/MarkBevz50/focusflow/internal/session"
	"github.com/MarkBevz50/focusflow/internal/tasks"
	"github.com/MarkBevz50/focusflow/internal/tui/components/monthview"
	"github.com/MarkBevz50/focusflow/internal/tui/components/tasklist"
)

// Options are the user preferences the TUI starts with.
type Options struct {
	WeekStart       time.Weekday
	OnlySelectedDay bool
	// Now is the clock used for "today". Defaults to time.Now.
	Now func() time.Time
}

type Model struct {
	ctx     context.Context
	session *session.Store
	tasks   *tasks.Store
	now     func() time.Time

	state    constants.SessionState
	focus    constants.SessionState // StateTasks or StateCalendar
	keys     KeyMap
	help     help.Model
	taskList tasklist.Model
	month    monthview.Model

	form     *huh.Form
	authForm *AuthFormModel
	taskForm *TaskFormModel

	editingID      string // "" while adding
	confirmMessage string
	pendingAction  func() tea.Cmd

	onlySelectedDay bool
	busy            bool
	status          string // transient notice, e.g. a login warning
	formError       string
	quitting        bool
	width           int
	height          int
}

// NewModel builds the TUI around an uninitialized session. Init restores
// the saved session before anything is shown.
func NewModel(ctx context.Context, sess *session.Store, taskStore *tasks.Store, opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return Model{
		ctx:             ctx,
		session:         sess,
		tasks:           taskStore,
		now:             now,
		state:           constants.StateLoading,
		focus:           constants.StateTasks,
		keys:            DefaultKeyMap(),
		help:            help.New(),
		taskList:        tasklist.New(nil, 0, 0),
		month:           monthview.New(calendar.DateOf(now()), opts.WeekStart),
		authForm:        &AuthFormModel{},
		onlySelectedDay: opts.OnlySelectedDay,
	}
}

func (m Model) Init() tea.Cmd {
	return m.restoreSession()
}

// State is the current screen.
func (m Model) State() constants.SessionState {
	return m.state
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case constants.StateTasks:
		return []key.Binding{m.keys.Tab, m.taskList.Keys().Add, m.taskList.Keys().Toggle, m.keys.Filter, m.keys.Quit, m.keys.Help}
	case constants.StateCalendar:
		return []key.Binding{m.keys.Tab, m.month.Keys.PrevMonth, m.month.Keys.NextMonth, m.keys.Filter, m.keys.Quit, m.keys.Help}
	}
	return nil
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.Refresh, m.keys.Filter, m.keys.Logout, m.keys.Quit, m.keys.Help}
	tk := m.taskList.Keys()
	taskKeys := []key.Binding{tk.Add, tk.Edit, tk.Delete, tk.Toggle}
	mk := m.month.Keys
	calendarKeys := []key.Binding{mk.Left, mk.Right, mk.Up, mk.Down, mk.PrevMonth, mk.NextMonth, mk.Today, m.keys.Add}
	return [][]key.Binding{global, taskKeys, calendarKeys}
}

// refreshList pushes the cached tasks into both panels, honoring the
// selected-day filter.
func (m *Model) refreshList() {
	all := m.tasks.Tasks()
	m.month.SetEvents(calendar.EventsFromTasks(all))
	m.month.SetToday(calendar.DateOf(m.now()))

	if !m.onlySelectedDay {
		m.taskList.SetTasks(all, len(all), "")
		return
	}
	day := m.month.Selected()
	m.taskList.SetTasks(calendar.TasksOn(all, day), len(all), "No tasks due on "+day.String()+".")
}

func (m *Model) resize() {
	listWidth := m.width - 40
	if listWidth < 20 {
		listWidth = 20
	}
	listHeight := m.height - 8
	if listHeight < 5 {
		listHeight = 5
	}
	m.taskList.SetSize(listWidth, listHeight)
	m.help.Width = m.width
}
