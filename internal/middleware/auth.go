package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"recipeapi/internal/errs"
	"recipeapi/internal/models"
	"recipeapi/internal/services"
)

// UserKey is the c.Locals key of the authenticated *models.User.
const UserKey = "user"

// CurrentUser returns the user stored by TokenAuth or AdminSession.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(UserKey).(*models.User)
	return user
}

func unauthorized(c *fiber.Ctx, message string) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Token")
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": message,
	})
}

// TokenAuth requires an API token in the Authorization header, written as
// "Bearer <key>" or "Token <key>".
func TokenAuth(authService *services.AuthService, log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "Authentication credentials were not provided.")
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !(strings.EqualFold(parts[0], "Bearer") || strings.EqualFold(parts[0], "Token")) {
			return unauthorized(c, "Authorization header format must be 'Bearer <token>'")
		}

		user, err := authService.UserByToken(c.UserContext(), parts[1])
		if err != nil {
			if errors.Is(err, errs.ErrAuthentication) {
				return unauthorized(c, "Invalid token.")
			}
			log.Errorw("token lookup failed", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not authenticate request",
			})
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}
