package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"fulfillment/internal/pkg/errs"
)

// ErrorResponse is the JSON error envelope returned by every endpoint.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// respondError translates domain errors to HTTP status codes. Unrecognized
// errors are reported as 500 without leaking internals to the client.
func respondError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, errs.ErrConflict):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, errs.ErrNotAuthorized):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		status = http.StatusBadRequest
		message = err.Error()
	}

	return ctx.JSON(status, ErrorResponse{Code: status, Message: message})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
