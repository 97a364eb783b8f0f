package tasklist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MarkBevz50/focusflow/internal/models"
)

// EmptyText is shown when the user has no tasks at all.
const EmptyText = "No tasks yet. Add your first task."

type AddTaskMsg struct{}

type DeleteTaskMsg struct {
	Task models.Task
}

type EditTaskMsg struct {
	Task models.Task
}

type ToggleTaskMsg struct {
	ID string
}

type Item struct {
	Task models.Task
}

func (i Item) Title() string {
	if i.Task.Completed {
		return "✓ " + i.Task.Title
	}
	return "○ " + i.Task.Title
}

func (i Item) Description() string {
	desc := i.Task.Description
	if i.Task.HasDeadline() {
		due := "due " + i.Task.Deadline.DateString()
		if desc == "" {
			return due
		}
		return fmt.Sprintf("%s | %s", due, desc)
	}
	if desc == "" {
		return "no deadline"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Task.Title }

type KeyMap struct {
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Toggle key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "done/undo"),
		),
	}
}

type Model struct {
	list       list.Model
	keys       KeyMap
	total      int
	emptyLabel string
}

func New(tasks []models.Task, width, height int) Model {
	l := list.New(toItems(tasks), list.NewDefaultDelegate(), width, height)
	l.Title = "Tasks"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // help is rendered by the main model
	l.SetShowStatusBar(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Delete, keys.Toggle}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Delete, keys.Toggle}
	}

	return Model{list: l, keys: keys, total: len(tasks)}
}

func toItems(tasks []models.Task) []list.Item {
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = Item{Task: t}
	}
	return items
}

// SetTasks replaces the visible tasks. total is the size of the unfiltered
// list; emptyLabel is shown instead of EmptyText when a filter hides everything.
func (m *Model) SetTasks(tasks []models.Task, total int, emptyLabel string) {
	m.list.SetItems(toItems(tasks))
	m.total = total
	m.emptyLabel = emptyLabel
}

func (m Model) Keys() KeyMap { return m.keys }

// Selected returns the highlighted task.
func (m Model) Selected() (models.Task, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Task, ok
}

// Len is the number of visible tasks.
func (m Model) Len() int {
	return len(m.list.Items())
}

// Filtering reports whether the fuzzy filter input has focus.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddTaskMsg{} }
		case key.Matches(msg, m.keys.Edit):
			if t, ok := m.Selected(); ok {
				return m, func() tea.Msg { return EditTaskMsg{Task: t} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if t, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteTaskMsg{Task: t} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Toggle):
			if t, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ToggleTaskMsg{ID: t.ID} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Len() == 0 && !m.Filtering() {
		if m.total == 0 || m.emptyLabel == "" {
			return "\n  " + EmptyText + "\n  Press 'a' to add one."
		}
		return "\n  " + m.emptyLabel
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
