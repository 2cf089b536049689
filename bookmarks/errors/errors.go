package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Sentinel errors for the bookmark domain. They map one-to-one onto the
// failure modes the client engine distinguishes: an unauthorized call is fatal
// to the session, a validation failure is recovered at the input boundary, a
// not-found means the target row is gone or not owned, and a transport error
// is a recoverable gateway failure that drives rollback or resync.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("invalid request")
	ErrNotFound     = errors.New("bookmark not found")
	ErrTransport    = errors.New("gateway operation failed")
)

const (
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeNotFound       = "NOT_FOUND"
	CodeTransport      = "GATEWAY_ERROR"
	CodeInternalError  = "INTERNAL_ERROR"
)

// NewValidation wraps ErrValidation with a field-level message.
func NewValidation(message string) error {
	return fmt.Errorf("%w: %s", ErrValidation, message)
}

// NewTransport wraps a gateway/database failure so callers can match it with
// errors.Is while keeping the underlying cause in the message.
func NewTransport(err error) error {
	return fmt.Errorf("%w: %v", ErrTransport, err)
}

type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// HandleServiceError maps a service error onto an HTTP response.
func HandleServiceError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{Code: CodeUnauthorized, Message: err.Error()})
	case errors.Is(err, ErrValidation):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Code: CodeInvalidRequest, Message: err.Error()})
	case errors.Is(err, ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{Code: CodeNotFound, Message: err.Error()})
	case errors.Is(err, ErrTransport):
		return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{Code: CodeTransport, Message: err.Error()})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Code: CodeInternalError, Message: "An unexpected error occurred", Details: err.Error()})
	}
}

// HandleValidationError reports a request-shape problem detected in a handler.
func HandleValidationError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Code: CodeInvalidRequest, Message: message, Details: message})
}

// HandleUserContextError reports a missing or malformed user context.
func HandleUserContextError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{Code: CodeUnauthorized, Message: message, Details: message})
}
