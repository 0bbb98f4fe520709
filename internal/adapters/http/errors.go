package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/ziadnadir777/ccn-optiway-app/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, internal_error, etc.
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// errBadGateway returns a 502 for failing upstream providers.
func errBadGateway(c *fiber.Ctx, msg string) error {
	return newError(c, 502, "upstream_error", msg)
}

// errUnavailable returns a 503 error.
func errUnavailable(c *fiber.Ctx, code, msg string) error {
	return newError(c, 503, code, msg)
}

// errDomain maps core sentinel errors onto HTTP responses.
func errDomain(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return errBadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, err.Error())
	case errors.Is(err, domain.ErrGeolocationUnavailable):
		return errUnavailable(c, "geolocation_unavailable", err.Error())
	case errors.Is(err, domain.ErrProviderFailure), errors.Is(err, domain.ErrTrafficQueryFailed):
		return errBadGateway(c, err.Error())
	default:
		return errInternal(c, err.Error())
	}
}
