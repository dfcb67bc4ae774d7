package httpapi

import (
	"errors"

	"github.com/dmitrijs2005/secureshare/internal/common"
	"github.com/gofiber/fiber/v2"
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

// requestIDFromCtx extracts the request id previously stored by the
// RequestID middleware.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking
// internal details.
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

// writeServiceError maps a service-layer error onto an HTTP status and a
// safe response body. Crypto failures are reported as a generic internal
// error so the response never hints at key or cipher details.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, common.ErrValidation):
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request")
	case errors.Is(err, common.ErrInvalidToken):
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid session")
	case errors.Is(err, common.ErrForbidden):
		return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "access denied")
	case errors.Is(err, common.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
	case errors.Is(err, common.ErrAlreadyConsumed):
		return writeError(c, fiber.StatusGone, "ALREADY_ACCESSED", "file is no longer available")
	case errors.Is(err, common.ErrStorageUnavailable):
		return writeError(c, fiber.StatusBadGateway, "STORAGE_UNAVAILABLE", "storage backend unavailable")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error
// responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "FILE_TOO_LARGE", "uploaded file is too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
