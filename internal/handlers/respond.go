package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"recipeapi/internal/errs"
	"recipeapi/internal/serializers"
)

// respondError writes err with the status its kind maps to. Unexpected errors
// are logged and hidden behind message.
func respondError(c *fiber.Ctx, log *zap.SugaredLogger, err error, message string) error {
	var v *errs.ValidationError
	switch {
	case errors.As(err, &v):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  v.Fields,
		})
	case errors.Is(err, errs.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found.",
		})
	case errors.Is(err, errs.ErrAuthentication):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
		})
	case errors.Is(err, errs.ErrPermission):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You do not have permission to perform this action.",
		})
	}

	log.Errorw(message, "path", c.Path(), "method", c.Method(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
	})
}

// bind parses the JSON body into req and validates it.
func bind(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return errs.NewValidation(errs.NonFieldKey, "Invalid request body: "+err.Error())
	}
	return serializers.Validate(req)
}

// idParam reads the :id route segment. Non-numeric ids cannot name a row.
func idParam(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, errs.NotFound("route id", c.Params("id"))
	}
	return uint(id), nil
}
