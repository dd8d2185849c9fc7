package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/rl1809/inventory-service/internal/core/domain"
	"github.com/rl1809/inventory-service/internal/core/service"
)

var (
	errUnauthorized = fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	errInvalidBody  = fiber.NewError(fiber.StatusBadRequest, "invalid body")
)

// ErrorHandler renders every error returned by a route as {"error": ...}.
// Errors it does not recognise are logged and reported as a bare 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
	}

	status := fiber.StatusInternalServerError
	message := "internal error"

	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
		message = fiberErr.Message
	case errors.Is(err, service.ErrMissingCredentials):
		status = fiber.StatusBadRequest
		message = "Username and password are required"
	case errors.Is(err, service.ErrInvalidCredentials):
		status = fiber.StatusUnauthorized
		message = "Invalid credentials"
	case errors.Is(err, domain.ErrNotFound):
		status = fiber.StatusNotFound
		message = "Item not found"
	case errors.Is(err, service.ErrDuplicateRequest):
		status = fiber.StatusConflict
		message = "duplicate request"
	default:
		slog.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", requestID(c),
			"error", err,
		)
	}

	return c.Status(status).JSON(fiber.Map{"error": message})
}
