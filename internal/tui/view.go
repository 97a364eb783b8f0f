package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/MarkBevz50/focusflow/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case constants.StateLoading:
		return m.viewLoading()
	case constants.StateLogin, constants.StateSignUp:
		return m.viewAuth()
	case constants.StateEditing:
		return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, m.form.View(), m.viewFeedback()))
	case constants.StateConfirmDelete:
		return m.viewConfirmDelete()
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		m.viewPanels(),
		m.viewFeedback(),
		m.help.View(m),
	)
	return ui
}

func (m Model) viewLoading() string {
	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		subtleStyle.Render("Loading..."),
	)
}

func (m Model) viewAuth() string {
	body := m.form.View()
	if m.busy {
		if m.state == constants.StateSignUp {
			body = subtleStyle.Render("Creating account...")
		} else {
			body = subtleStyle.Render("Logging in...")
		}
	}
	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render("FocusFlow"),
		"",
		body,
		m.viewFeedback(),
	))
}

func (m Model) viewHeader() string {
	title := headerStyle.Render("FocusFlow")
	who := "not logged in"
	if p, ok := m.session.Profile(); ok {
		who = p.Email
	}
	parts := []string{title, " ", subtleStyle.Render(who)}
	if m.onlySelectedDay {
		parts = append(parts, " ", infoStyle.Render("[due "+m.month.Selected().String()+"]"))
	}
	if m.busy {
		parts = append(parts, " ", subtleStyle.Render("syncing..."))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) viewPanels() string {
	listPanel, calPanel := panelStyle, panelStyle
	if m.state == constants.StateCalendar {
		calPanel = focusedPanelStyle
	} else {
		listPanel = focusedPanelStyle
	}
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		listPanel.Render(m.taskList.View()),
		calPanel.Render(m.month.View()),
	)
}

// viewFeedback renders the error line, then the status line.
func (m Model) viewFeedback() string {
	var lines []string
	if m.formError != "" {
		lines = append(lines, dangerStyle.Render(m.formError))
	}
	if m.status != "" {
		style := infoStyle
		if m.status == sessionExpired {
			style = warningStyle
		}
		lines = append(lines, style.Render(m.status))
	}
	if len(lines) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(m.confirmMessage),
			"",
			"[y] Yes   [n] No",
		),
	)
}
