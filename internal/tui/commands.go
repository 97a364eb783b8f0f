package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MarkBevz50/focusflow/internal/models"
	"github.com/MarkBevz50/focusflow/internal/session"
)

type sessionRestoredMsg struct {
	err error
}

type loginDoneMsg struct {
	result session.LoginResult
	err    error
}

type signUpDoneMsg struct {
	email string
	err   error
}

type tasksLoadedMsg struct {
	err error
}

// taskWrittenMsg reports a create, update, delete or toggle. The cache has
// already been resynced when it arrives.
type taskWrittenMsg struct {
	op  string
	err error
}

type loggedOutMsg struct {
	err error
}

func (m Model) restoreSession() tea.Cmd {
	return func() tea.Msg {
		return sessionRestoredMsg{err: m.session.Init(m.ctx)}
	}
}

func (m Model) login(email, password string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.session.Login(m.ctx, email, password)
		return loginDoneMsg{result: res, err: err}
	}
}

func (m Model) signUp(email, password, confirm string) tea.Cmd {
	return func() tea.Msg {
		return signUpDoneMsg{email: email, err: m.session.SignUp(m.ctx, email, password, confirm)}
	}
}

func (m Model) logout() tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg{err: m.session.Logout(m.ctx)}
	}
}

func (m Model) loadTasks() tea.Cmd {
	return func() tea.Msg {
		return tasksLoadedMsg{err: m.tasks.List(m.ctx)}
	}
}

func (m Model) createTask(in models.TaskInput) tea.Cmd {
	return func() tea.Msg {
		_, err := m.tasks.Create(m.ctx, in)
		return taskWrittenMsg{op: "Task added.", err: err}
	}
}

func (m Model) updateTask(id string, in models.TaskInput) tea.Cmd {
	return func() tea.Msg {
		return taskWrittenMsg{op: "Task updated.", err: m.tasks.Update(m.ctx, id, in)}
	}
}

func (m Model) deleteTask(id string) tea.Cmd {
	return func() tea.Msg {
		return taskWrittenMsg{op: "Task deleted.", err: m.tasks.Delete(m.ctx, id)}
	}
}

func (m Model) toggleTask(id string) tea.Cmd {
	return func() tea.Msg {
		t, err := m.tasks.ToggleComplete(m.ctx, id)
		op := "Marked as pending."
		if t.Completed {
			op = "Marked as done."
		}
		return taskWrittenMsg{op: op, err: err}
	}
}
