package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/MarkBevz50/focusflow/internal/models"
	"github.com/MarkBevz50/focusflow/internal/validation"
)

const (
	actionSubmit = "submit"
	actionSwitch = "switch"
)

// AuthFormModel backs both the login and the sign-up form.
type AuthFormModel struct {
	Email    string
	Password string
	Confirm  string
	Action   string
}

type TaskFormModel struct {
	Title       string
	Description string
	Deadline    string
}

// Input returns the task fields the form describes. Deadline must already
// have passed validateDeadline.
func (f *TaskFormModel) Input() models.TaskInput {
	in := models.TaskInput{Title: f.Title, Description: f.Description}
	if s := strings.TrimSpace(f.Deadline); s != "" {
		if ts, err := models.ParseTimestamp(s); err == nil {
			in.Deadline = &ts
		}
	}
	return in
}

func taskFormFrom(t models.Task) *TaskFormModel {
	f := &TaskFormModel{Title: t.Title, Description: t.Description}
	if t.HasDeadline() {
		f.Deadline = t.Deadline.DateString()
	}
	return f
}

func newLoginForm(fm *AuthFormModel) *huh.Form {
	fm.Action = actionSubmit
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&fm.Email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Password),
			huh.NewSelect[string]().
				Options(
					huh.NewOption("Log in", actionSubmit),
					huh.NewOption("Create an account", actionSwitch),
				).
				Value(&fm.Action),
		).Title("Log in to FocusFlow"),
	).WithTheme(huh.ThemeDracula())
}

func newSignUpForm(fm *AuthFormModel) *huh.Form {
	fm.Action = actionSubmit
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&fm.Email),
			huh.NewInput().
				Title("Password").
				Description("At least 6 characters").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Password),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Confirm),
			huh.NewSelect[string]().
				Options(
					huh.NewOption("Sign up", actionSubmit),
					huh.NewOption("Back to login", actionSwitch),
				).
				Value(&fm.Action),
		).Title("Create a FocusFlow account"),
	).WithTheme(huh.ThemeDracula())
}

func newTaskForm(fm *TaskFormModel, title string) *huh.Form {
	v := validation.New()
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(func(s string) error {
					return fieldError(v.Task(models.TaskInput{Title: s}), "title")
				}),
			huh.NewText().
				Title("Description").
				Lines(3).
				Value(&fm.Description),
			huh.NewInput().
				Title("Deadline").
				Description("YYYY-MM-DD, optional").
				Value(&fm.Deadline).
				Validate(validateDeadline),
		).Title(title),
	).WithTheme(huh.ThemeDracula())
}

func validateDeadline(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := models.ParseTimestamp(s); err != nil {
		return errors.New("Enter a date as YYYY-MM-DD.")
	}
	return nil
}

// fieldError narrows a validation result to one field for inline display.
func fieldError(err error, field string) error {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		if msg, ok := verrs[field]; ok {
			return errors.New(msg)
		}
		return nil
	}
	return err
}
