package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/akoun-dev/africahub-sub004/internal/domain"
)

// respondError maps domain errors onto their HTTP representation:
// validation 400, not found 404, conflict 409, dependency failure 503,
// everything else 500.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	var (
		validationErr *domain.ValidationError
		notFoundErr   *domain.NotFoundError
		conflictErr   *domain.ConflictError
		depErr        *domain.DependencyError
	)

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(dtoError(err, "VALIDATION_ERROR"))
	case errors.As(err, &notFoundErr):
		return c.Status(fiber.StatusNotFound).JSON(dtoError(err, "NOT_FOUND"))
	case errors.As(err, &conflictErr):
		return c.Status(fiber.StatusConflict).JSON(dtoError(err, "CONFLICT"))
	case errors.As(err, &depErr):
		logger.Error("dependency unavailable",
			zap.String("dependency", depErr.Dependency),
			zap.Error(err),
		)
		return c.Status(fiber.StatusServiceUnavailable).JSON(dtoError(err, "DEPENDENCY_UNAVAILABLE"))
	default:
		logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
			"code":  "INTERNAL_ERROR",
		})
	}
}

func dtoError(err error, code string) fiber.Map {
	return fiber.Map{
		"error": err.Error(),
		"code":  code,
	}
}
