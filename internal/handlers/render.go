package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/snowballopensource/snowball-api/internal/apperror"
	"github.com/snowballopensource/snowball-api/internal/dto"
)

// renderError maps the error taxonomy onto HTTP. The mobile clients
// predate nuanced status codes: validation, conflicts, bad credentials,
// and bad verification codes all render as 400 with the message the
// service chose; only missing resources (404) and ownership violations
// (403) differ.
func renderError(c *fiber.Ctx, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return c.Status(statusFor(appErr)).JSON(dto.ErrorResponse{Message: appErr.Message})
	}

	slog.Error("unhandled error", "method", c.Method(), "path", c.Path(), "error", err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Message: "An unexpected condition was encountered.",
	})
}

func statusFor(err *apperror.AppError) int {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperror.ErrForbidden):
		return fiber.StatusForbidden
	default:
		return fiber.StatusBadRequest
	}
}

func badRequestBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "Invalid request body"})
}
