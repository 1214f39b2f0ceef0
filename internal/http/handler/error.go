package handler

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"gymapi/internal/cascade"
	"gymapi/internal/http/middleware"
	"gymapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// apiError is a request error detected by a handler before reaching a service.
type apiError struct {
	status  int
	code    string
	message string
}

func (e *apiError) Error() string { return e.message }

func badRequest(code, message string) error {
	return &apiError{status: fiber.StatusBadRequest, code: code, message: message}
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// fail translates handler and service errors into the error envelope.
// Sentinel messages are built from fixed strings and are safe to return.
// Anything else becomes a 500 and is left in locals for the access log.
func fail(c *fiber.Ctx, err error) error {
	var ae *apiError
	switch {
	case errors.As(err, &ae):
		return writeError(c, ae.status, ae.code, ae.message)
	case errors.Is(err, cascade.ErrCascadeFailed):
		c.Locals(middleware.ErrorLocalKey, err)
		msg := "user could not be deleted, dependent records were left in place"
		if errors.Is(err, cascade.ErrLinkedData) {
			msg = "user could not be deleted because linked data still references the profile; remove or reassign it and retry"
		}
		return writeError(c, fiber.StatusInternalServerError, "CASCADE_FAILED", msg)
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", err.Error())
	case errors.Is(err, service.ErrReaderNil):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	case errors.Is(err, service.ErrValidation):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case errors.Is(err, service.ErrForbidden):
		return writeError(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, sql.ErrNoRows):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrConflict):
		return writeError(c, fiber.StatusConflict, "CONFLICT", err.Error())
	}

	c.Locals(middleware.ErrorLocalKey, err)
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		e, ok := err.(*fiber.Error)
		if !ok {
			return fail(c, err)
		}

		switch e.Code {
		case fiber.StatusBadRequest:
			return writeError(c, e.Code, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, e.Code, "UNAUTHORIZED", e.Message)
		case fiber.StatusForbidden:
			return writeError(c, e.Code, "FORBIDDEN", e.Message)
		case fiber.StatusNotFound:
			return writeError(c, e.Code, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, e.Code, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, e.Code, "PAYLOAD_TOO_LARGE", "request body too large")
		case fiber.StatusTooManyRequests:
			return writeError(c, e.Code, "RATE_LIMITED", e.Message)
		default:
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
	}
}
