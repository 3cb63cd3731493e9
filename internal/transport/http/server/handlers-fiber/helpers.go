package handlers_fiber

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/davejoelwilson/connectwise-project-reports/internal/entities"
)

// ErrorResponse is the JSON error envelope returned by every handler.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the machine-readable code and message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	code := "INTERNAL"
	msg := "internal error"

	switch {
	case errors.Is(err, entities.ErrInvalidArgument):
		status = http.StatusBadRequest
		code = "INVALID_ARGUMENT"
		msg = err.Error()
	case errors.Is(err, entities.ErrReportNotFound):
		status = http.StatusNotFound
		code = "NOT_FOUND"
		msg = "report not found"
	case errors.Is(err, entities.ErrConfiguration):
		status = http.StatusInternalServerError
		code = "CONFIGURATION"
		msg = err.Error()
	default:
		msg = err.Error()
	}

	return c.Status(status).JSON(ErrorResponse{Error: ErrorBody{Code: code, Message: msg}})
}
