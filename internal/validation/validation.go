package validation

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MarkBevz50/focusflow/internal/constants"
	"github.com/MarkBevz50/focusflow/internal/models"
)

// Errors maps a field name (as it appears on the wire) to a message fit for
// showing next to the input.
type Errors map[string]string

// Error implements error with the messages sorted by field.
func (e Errors) Error() string {
	fields := e.Fields()
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, e[f])
	}
	return strings.Join(parts, " ")
}

// UserMessage lets internal/errors print the messages without decoration.
func (e Errors) UserMessage() string {
	return e.Error()
}

// HasErrors returns true if any field failed validation
func (e Errors) HasErrors() bool {
	return len(e) > 0
}

// Fields returns the failing field names in a stable order.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Validator checks user input before it is sent to the API.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the FocusFlow rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// notblank rejects strings made only of whitespace
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &Validator{v: v}
}

// Validate checks any struct carrying validate tags. It returns nil or Errors.
// The signature matches echo.Validator so the same rules guard the fake API.
func (v *Validator) Validate(i interface{}) error {
	err := v.v.Struct(i)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out
}

// Task validates a task form. The title is checked after trimming.
func (v *Validator) Task(in models.TaskInput) error {
	return v.Validate(in.Normalize())
}

// Credentials validates a login form.
func (v *Validator) Credentials(c models.Credentials) error {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return Errors{"email": "Email and password are required."}
	}
	return v.Validate(c)
}

// SignUp validates a registration form.
func (v *Validator) SignUp(r models.SignUpRequest) error {
	return v.Validate(r)
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		switch field {
		case "title":
			return "Title is required."
		case "confirmPassword":
			return "Please confirm your password."
		}
		return fmt.Sprintf("%s is required.", label(field))
	case "email":
		return "Enter a valid email address."
	case "min":
		if field == "password" {
			return fmt.Sprintf("Password must be at least %d characters.", constants.MinPasswordLength)
		}
		return fmt.Sprintf("%s must be at least %s characters.", label(field), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label(field), fe.Param())
	case "eqfield":
		return "Passwords do not match"
	}
	return fmt.Sprintf("%s is invalid.", label(field))
}

func label(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
