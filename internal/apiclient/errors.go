package apiclient

import (
	_ "embed"
	stderrors "errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// PayloadKind tags the shape of an error body returned by the API.
type PayloadKind string

const (
	KindText        PayloadKind = "text"
	KindFieldErrors PayloadKind = "field-errors"
	KindMessage     PayloadKind = "message"
	KindUnknown     PayloadKind = "unknown"
)

// GenericErrorMessage is shown when nothing better is known about a failure.
const GenericErrorMessage = "An unexpected error occurred."

var (
	// ErrNoToken is returned by authenticated calls made without a token.
	ErrNoToken = stderrors.New("not logged in")

	// ErrUnauthorized matches any *APIError with status 401.
	ErrUnauthorized = stderrors.New("unauthorized")
)

var (
	//go:embed schemas/field_errors.json
	fieldErrorsSchemaSrc string
	//go:embed schemas/message.json
	messageSchemaSrc string

	fieldErrorsSchema = jsonschema.MustCompileString("field_errors.json", fieldErrorsSchemaSrc)
	messageSchema     = jsonschema.MustCompileString("message.json", messageSchemaSrc)
)

// ErrorPayload is a decoded error body. Exactly the fields belonging to Kind
// are populated.
type ErrorPayload struct {
	Kind    PayloadKind
	Message string
	Title   string
	Fields  map[string][]string
	Text    string
}

type payloadBody struct {
	Message string              `json:"message"`
	Title   string              `json:"title"`
	Errors  map[string][]string `json:"errors"`
}

// ClassifyPayload decodes an error body into one of the known shapes.
func ClassifyPayload(body []byte) ErrorPayload {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ErrorPayload{Kind: KindUnknown}
	}

	var doc interface{}
	if err := sonic.UnmarshalString(trimmed, &doc); err != nil {
		// not JSON: plain text body
		return ErrorPayload{Kind: KindText, Text: trimmed}
	}

	switch v := doc.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return ErrorPayload{Kind: KindUnknown}
		}
		return ErrorPayload{Kind: KindText, Text: v}
	case map[string]interface{}:
		var pb payloadBody
		if fieldErrorsSchema.Validate(v) == nil {
			if err := sonic.UnmarshalString(trimmed, &pb); err == nil {
				return ErrorPayload{Kind: KindFieldErrors, Title: pb.Title, Fields: pb.Errors}
			}
		}
		if messageSchema.Validate(v) == nil {
			if err := sonic.UnmarshalString(trimmed, &pb); err == nil {
				return ErrorPayload{Kind: KindMessage, Message: pb.Message, Title: pb.Title}
			}
		}
	}
	return ErrorPayload{Kind: KindUnknown}
}

// Summary picks the message to show: message, then title, then field errors,
// then the text body, then a generic fallback.
func (p ErrorPayload) Summary() string {
	if s := p.summary(); s != "" {
		return s
	}
	return GenericErrorMessage
}

func (p ErrorPayload) summary() string {
	switch {
	case p.Message != "":
		return p.Message
	case p.Title != "":
		return p.Title
	case len(p.Fields) > 0:
		return joinFieldErrors(p.Fields)
	case p.Text != "":
		return p.Text
	}
	return ""
}

func joinFieldErrors(fields map[string][]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	var msgs []string
	for _, name := range names {
		msgs = append(msgs, fields[name]...)
	}
	return strings.Join(msgs, " ")
}

// APIError is a non-2xx response from the API.
type APIError struct {
	Status    int
	Method    string
	Path      string
	RequestID string
	Payload   ErrorPayload
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
	if s := e.Payload.summary(); s != "" {
		msg += ": " + s
	}
	return msg
}

// UserMessage returns the server's own message, or "" if it sent none.
func (e *APIError) UserMessage() string {
	return e.Payload.summary()
}

// Hint suggests a next step for the CLI.
func (e *APIError) Hint() string {
	switch {
	case e.Status == http.StatusUnauthorized:
		return "run `focusflow auth login` to start a new session"
	case e.Status >= 500:
		return "the server failed to handle the request; try again later"
	}
	return ""
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// NetworkError wraps a transport failure (no response received).
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Hint suggests checking the API URL.
func (e *NetworkError) Hint() string {
	return "check that the API is reachable (see `focusflow doctor`)"
}

// UserMessage maps any error to one human-readable string. Messages carried
// by the error itself (server payloads, validation failures) win; everything
// else becomes fallback, or the generic message when fallback is empty.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var d interface{ UserMessage() string }
	if stderrors.As(err, &d) {
		if msg := d.UserMessage(); msg != "" {
			return msg
		}
	}
	if fallback != "" {
		return fallback
	}
	return GenericErrorMessage
}
