package middlewares

import (
	"errors"

	"secretshare-backend/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler centralizes error responses. Terminal lifecycle states map to
// their own statuses; store and blob failures are sanitized to 500 so no
// backend detail leaks to the caller.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// 1) Fiber errors (use their status code + message)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	// 2) Validation errors from DTO binding (422 + per-field info)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		out := make(map[string]string, len(ve))
		for _, fieldErr := range ve {
			out[fieldErr.Field()] = fieldErr.Tag()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  out,
		})
	}

	// 3) Service-level taxonomy
	switch {
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "not found"})
	case errors.Is(err, services.ErrSecretExpired):
		return c.Status(fiber.StatusGone).JSON(fiber.Map{"message": "secret expired"})
	case errors.Is(err, services.ErrSecretAlreadyViewed):
		return c.Status(fiber.StatusGone).JSON(fiber.Map{"message": "secret already viewed"})
	case errors.Is(err, services.ErrRequestAlreadyFulfilled):
		return c.Status(fiber.StatusGone).JSON(fiber.Map{"message": "secret request already fulfilled"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "forbidden"})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "conflict, please retry"})
	}

	// 4) Unknown errors (500)
	zap.L().Error("internal error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
	})
}
