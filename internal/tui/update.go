package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MarkBevz50/focusflow/internal/apiclient"
	"github.com/MarkBevz50/focusflow/internal/constants"
	"github.com/MarkBevz50/focusflow/internal/tui/components/monthview"
	"github.com/MarkBevz50/focusflow/internal/tui/components/tasklist"
)

const sessionExpired = "Your session has expired. Please log in again."

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case sessionRestoredMsg:
		if msg.err != nil {
			m.formError = apiclient.UserMessage(msg.err, "Could not restore your session.")
		}
		if m.session.IsAuthenticated() {
			return m.enterMain()
		}
		return m.showLogin()

	case loginDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.formError = apiclient.UserMessage(msg.err, "Login failed.")
			m.authForm.Password = ""
			return m.showLogin()
		}
		m.formError = ""
		m.status = msg.result.Warning
		m.authForm = &AuthFormModel{}
		return m.enterMain()

	case signUpDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.formError = apiclient.UserMessage(msg.err, "Sign-up failed.")
			m.authForm.Password, m.authForm.Confirm = "", ""
			return m.showSignUp()
		}
		m.formError = ""
		m.status = "Account created. Log in to continue."
		m.authForm = &AuthFormModel{Email: msg.email}
		return m.showLogin()

	case loggedOutMsg:
		m.busy = false
		m.refreshList()
		if m.status == "" {
			m.status = "Logged out."
		}
		if msg.err != nil {
			m.formError = apiclient.UserMessage(msg.err, "")
		}
		m.authForm = &AuthFormModel{}
		return m.showLogin()

	case tasksLoadedMsg:
		m.busy = false
		m.refreshList()
		if errors.Is(msg.err, apiclient.ErrUnauthorized) {
			return m.expire()
		}
		m.formError = m.tasks.LastError()
		return m, nil

	case taskWrittenMsg:
		m.busy = false
		m.refreshList()
		if errors.Is(msg.err, apiclient.ErrUnauthorized) {
			return m.expire()
		}
		if msg.err != nil {
			m.formError = apiclient.UserMessage(msg.err, m.tasks.LastError())
			m.status = ""
			return m, nil
		}
		m.formError = m.tasks.LastError()
		m.status = msg.op
		return m, nil

	case constants.ConfirmationMsg:
		m.confirmMessage = msg.Message
		m.pendingAction = msg.Action
		m.state = constants.StateConfirmDelete
		return m, nil

	case monthview.SelectMsg:
		if m.onlySelectedDay {
			m.refreshList()
		}
		return m, nil

	case tasklist.AddTaskMsg:
		return m.openTaskForm("", &TaskFormModel{}, "New task")

	case tasklist.EditTaskMsg:
		return m.openTaskForm(msg.Task.ID, taskFormFrom(msg.Task), "Edit task")

	case tasklist.DeleteTaskMsg:
		id := msg.Task.ID
		return m, func() tea.Msg {
			return constants.ConfirmationMsg{
				Message: fmt.Sprintf("Delete %q?", msg.Task.Title),
				Action:  func() tea.Cmd { return m.deleteTask(id) },
			}
		}

	case tasklist.ToggleTaskMsg:
		m.busy = true
		return m, m.toggleTask(msg.ID)
	}

	switch m.state {
	case constants.StateLogin, constants.StateSignUp:
		return m.updateAuthForm(msg)
	case constants.StateEditing:
		return m.updateTaskForm(msg)
	case constants.StateConfirmDelete:
		return m.updateConfirm(msg)
	case constants.StateTasks, constants.StateCalendar:
		return m.updateMain(msg)
	}
	return m, nil
}

func (m Model) enterMain() (tea.Model, tea.Cmd) {
	m.state = m.focus
	m.form = nil
	m.busy = true
	m.refreshList()
	return m, m.loadTasks()
}

// expire handles a token the server no longer accepts.
func (m Model) expire() (tea.Model, tea.Cmd) {
	m.status = sessionExpired
	m.busy = true
	return m, m.logout()
}

func (m Model) showLogin() (tea.Model, tea.Cmd) {
	m.state = constants.StateLogin
	m.form = newLoginForm(m.authForm)
	return m, m.form.Init()
}

func (m Model) showSignUp() (tea.Model, tea.Cmd) {
	m.state = constants.StateSignUp
	m.form = newSignUpForm(m.authForm)
	return m, m.form.Init()
}

func (m Model) openTaskForm(id string, fm *TaskFormModel, title string) (tea.Model, tea.Cmd) {
	m.editingID = id
	m.taskForm = fm
	m.form = newTaskForm(fm, title)
	m.formError = ""
	m.state = constants.StateEditing
	return m, m.form.Init()
}

func (m Model) updateAuthForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil || m.busy {
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		if m.state == constants.StateSignUp {
			m.formError = ""
			return m.showLogin()
		}
		m.quitting = true
		return m, tea.Quit
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	fm := m.authForm
	if fm.Action == actionSwitch {
		m.formError, m.status = "", ""
		if m.state == constants.StateLogin {
			return m.showSignUp()
		}
		return m.showLogin()
	}

	m.busy = true
	m.formError, m.status = "", ""
	if m.state == constants.StateSignUp {
		return m, m.signUp(fm.Email, fm.Password, fm.Confirm)
	}
	return m, m.login(fm.Email, fm.Password)
}

func (m Model) updateTaskForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.form = nil
		m.state = m.focus
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateAborted:
		m.form = nil
		m.state = m.focus
		return m, nil
	case huh.StateCompleted:
		in := m.taskForm.Input()
		m.form = nil
		m.state = m.focus
		m.busy = true
		if m.editingID == "" {
			return m, m.createTask(in)
		}
		return m, m.updateTask(m.editingID, in)
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k.String() {
	case "y", "Y":
		action := m.pendingAction
		m.pendingAction = nil
		m.confirmMessage = ""
		m.state = m.focus
		if action == nil {
			return m, nil
		}
		m.busy = true
		return m, action()
	case "n", "N", "esc":
		m.pendingAction = nil
		m.confirmMessage = ""
		m.state = m.focus
	}
	return m, nil
}

func (m Model) updateMain(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	k, isKey := msg.(tea.KeyMsg)
	if !isKey || m.taskList.Filtering() {
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(k, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(k, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(k, m.keys.Tab):
		if m.focus == constants.StateTasks {
			m.focus = constants.StateCalendar
		} else {
			m.focus = constants.StateTasks
		}
		m.state = m.focus
		return m, nil
	case key.Matches(k, m.keys.Refresh):
		m.busy = true
		m.status = ""
		return m, m.loadTasks()
	case key.Matches(k, m.keys.Filter):
		m.onlySelectedDay = !m.onlySelectedDay
		m.refreshList()
		if m.onlySelectedDay {
			m.status = "Showing tasks due on " + m.month.Selected().String() + "."
		} else {
			m.status = "Showing all tasks."
		}
		return m, nil
	case key.Matches(k, m.keys.Logout):
		m.busy = true
		m.status = ""
		return m, m.logout()
	}

	if m.state == constants.StateCalendar {
		if key.Matches(k, m.keys.Add) {
			return m.openTaskForm("", &TaskFormModel{Deadline: m.month.Selected().String()}, "New task")
		}
		m.month, cmd = m.month.Update(msg)
		return m, cmd
	}

	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}
