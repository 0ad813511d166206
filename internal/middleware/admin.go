package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"recipeapi/internal/errs"
	"recipeapi/internal/services"
)

// AdminCookie holds the signed admin session.
const AdminCookie = "admin_session"

// AdminSession guards the admin pages. Visitors without a valid session are
// sent to loginPath; signed-in users without staff rights get 403.
func AdminSession(authService *services.AuthService, loginPath string, log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := c.Cookies(AdminCookie)
		if session == "" {
			return c.Redirect(loginPath, fiber.StatusFound)
		}

		user, err := authService.SessionUser(c.UserContext(), session)
		if err != nil {
			if errors.Is(err, errs.ErrAuthentication) {
				c.ClearCookie(AdminCookie)
				return c.Redirect(loginPath, fiber.StatusFound)
			}
			log.Errorw("admin session lookup failed", "error", err)
			return fiber.ErrInternalServerError
		}
		if !user.IsStaff {
			return fiber.NewError(fiber.StatusForbidden, "You do not have permission to access the admin site.")
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}
