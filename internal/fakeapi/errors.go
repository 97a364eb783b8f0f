package fakeapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MarkBevz50/focusflow/internal/logger"
	"github.com/MarkBevz50/focusflow/internal/validation"
)

// problem mirrors ASP.NET Core's ProblemDetails / ValidationProblemDetails.
type problem struct {
	Type   string              `json:"type,omitempty"`
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Errors map[string][]string `json:"errors,omitempty"`
}

type messageBody struct {
	Message string `json:"message"`
}

func validationProblem(errs validation.Errors) *problem {
	p := &problem{
		Type:   "https://tools.ietf.org/html/rfc9110#section-15.5.1",
		Title:  "One or more validation errors occurred.",
		Status: http.StatusBadRequest,
		Errors: make(map[string][]string, len(errs)),
	}
	for field, msg := range errs {
		p.Errors[field] = []string{msg}
	}
	return p
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		_ = c.JSON(http.StatusBadRequest, validationProblem(verrs))
		return
	}

	status := http.StatusInternalServerError
	title := http.StatusText(status)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if msg, ok := he.Message.(string); ok {
			title = msg
		} else {
			title = http.StatusText(status)
		}
	} else {
		logger.For(logger.FakeAPI).Error("handler failed", "error", err)
	}

	switch status {
	case http.StatusUnauthorized, http.StatusNoContent:
		// JWT bearer challenges carry no body
		_ = c.NoContent(status)
	default:
		_ = c.JSON(status, &problem{Title: title, Status: status})
	}
}
