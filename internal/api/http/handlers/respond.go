package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/department-service/internal/api/dto"
	apperrors "github.com/spec-kit/department-service/pkg/util"
)

// write sends the envelope using its own status code.
func write(c *fiber.Ctx, env *apperrors.Envelope) error {
	return c.Status(env.StatusCode).JSON(env)
}

// bind parses the JSON body into req and checks its validate tags.
func bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", []string{err.Error()})
	}
	return dto.Validate(req)
}
