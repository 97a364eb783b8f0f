package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/MarkBevz50/focusflow/internal/models"
)

func TestTaskValidation(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		input     models.TaskInput
		wantField string
		wantMsg   string
	}{
		{name: "valid", input: models.TaskInput{Title: "Buy milk"}},
		{name: "empty title", input: models.TaskInput{Title: ""}, wantField: "title", wantMsg: "Title is required."},
		{name: "whitespace title", input: models.TaskInput{Title: "   \t"}, wantField: "title", wantMsg: "Title is required."},
		{name: "too long", input: models.TaskInput{Title: strings.Repeat("x", 201)}, wantField: "title", wantMsg: "Title must be at most 200 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Task(tt.input)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Task() error = %v, want nil", err)
				}
				return
			}
			var verrs Errors
			if !errors.As(err, &verrs) {
				t.Fatalf("Task() error = %v, want Errors", err)
			}
			if got := verrs[tt.wantField]; got != tt.wantMsg {
				t.Errorf("Errors[%q] = %q, want %q", tt.wantField, got, tt.wantMsg)
			}
		})
	}
}

func TestCredentialsValidation(t *testing.T) {
	v := New()

	err := v.Credentials(models.Credentials{Email: "", Password: "x"})
	if err == nil || err.Error() != "Email and password are required." {
		t.Errorf("missing email: got %v", err)
	}
	err = v.Credentials(models.Credentials{Email: "a@b.co"})
	if err == nil || err.Error() != "Email and password are required." {
		t.Errorf("missing password: got %v", err)
	}
	err = v.Credentials(models.Credentials{Email: "not-an-email", Password: "secret"})
	var verrs Errors
	if !errors.As(err, &verrs) || verrs["email"] != "Enter a valid email address." {
		t.Errorf("bad email: got %v", err)
	}
	if err := v.Credentials(models.Credentials{Email: "a@b.co", Password: "secret"}); err != nil {
		t.Errorf("valid credentials: got %v", err)
	}
}

func TestSignUpValidation(t *testing.T) {
	v := New()

	tests := []struct {
		name string
		req  models.SignUpRequest
		want map[string]string
	}{
		{
			name: "valid",
			req:  models.SignUpRequest{Email: "ann@example.com", Password: "secret1", ConfirmPassword: "secret1"},
		},
		{
			name: "short password",
			req:  models.SignUpRequest{Email: "ann@example.com", Password: "abc", ConfirmPassword: "abc"},
			want: map[string]string{"password": "Password must be at least 6 characters."},
		},
		{
			name: "mismatch",
			req:  models.SignUpRequest{Email: "ann@example.com", Password: "secret1", ConfirmPassword: "secret2"},
			want: map[string]string{"confirmPassword": "Passwords do not match"},
		},
		{
			name: "everything missing",
			req:  models.SignUpRequest{},
			want: map[string]string{
				"email":           "Email is required.",
				"password":        "Password is required.",
				"confirmPassword": "Please confirm your password.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.SignUp(tt.req)
			if len(tt.want) == 0 {
				if err != nil {
					t.Fatalf("SignUp() error = %v", err)
				}
				return
			}
			var verrs Errors
			if !errors.As(err, &verrs) {
				t.Fatalf("SignUp() error = %v, want Errors", err)
			}
			for field, msg := range tt.want {
				if verrs[field] != msg {
					t.Errorf("Errors[%q] = %q, want %q", field, verrs[field], msg)
				}
			}
		})
	}
}

func TestErrorsReport(t *testing.T) {
	e := Errors{"title": "Title is required.", "email": "Enter a valid email address."}
	if got := e.Fields(); got[0] != "email" || got[1] != "title" {
		t.Errorf("Fields() = %v", got)
	}
	if msg := e.UserMessage(); !strings.Contains(msg, "Title is required.") || !strings.Contains(msg, "Enter a valid email address.") {
		t.Errorf("UserMessage() = %q", msg)
	}
	if Errors(nil).HasErrors() {
		t.Error("empty Errors reports failures")
	}
}
