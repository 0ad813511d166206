package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"recipeapi/internal/errs"
	"recipeapi/internal/middleware"
	"recipeapi/internal/serializers"
	"recipeapi/internal/services"
)

// UserHandler handles registration, token issue and the caller's own profile.
type UserHandler struct {
	users *services.UserService
	auth  *services.AuthService
	log   *zap.SugaredLogger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *services.UserService, auth *services.AuthService, log *zap.SugaredLogger) *UserHandler {
	return &UserHandler{users: users, auth: auth, log: log}
}

// RegisterRoutes registers the user routes; requireToken guards /me.
func (h *UserHandler) RegisterRoutes(router fiber.Router, requireToken fiber.Handler) {
	userRoutes := router.Group("/user")
	userRoutes.Post("/create", h.HandleCreate)
	userRoutes.Post("/token", h.HandleToken)
	userRoutes.Get("/me", requireToken, h.HandleMe)
	userRoutes.Put("/me", requireToken, h.HandleUpdateMe)
	userRoutes.Patch("/me", requireToken, h.HandlePatchMe)
}

// HandleCreate registers a new user.
func (h *UserHandler) HandleCreate(c *fiber.Ctx) error {
	var req serializers.UserRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.log, err, "Could not register user")
	}

	user, err := h.users.CreateUser(c.UserContext(), req.NewUser())
	if err != nil {
		return respondError(c, h.log, err, "Could not register user")
	}
	return c.Status(fiber.StatusCreated).JSON(serializers.User(user))
}

// HandleToken exchanges email and password for the user's API token.
func (h *UserHandler) HandleToken(c *fiber.Ctx) error {
	var req serializers.TokenRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.log, err, "Could not issue token")
	}

	user, err := h.auth.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			err = errs.NewValidation(errs.NonFieldKey, services.InvalidCredentialsMessage)
		}
		return respondError(c, h.log, err, "Could not issue token")
	}

	token, err := h.auth.IssueToken(c.UserContext(), user)
	if err != nil {
		return respondError(c, h.log, err, "Could not issue token")
	}
	return c.JSON(fiber.Map{"token": token.Key})
}

// HandleMe returns the authenticated user.
func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	return c.JSON(serializers.User(middleware.CurrentUser(c)))
}

// HandleUpdateMe replaces the caller's email, password and name.
func (h *UserHandler) HandleUpdateMe(c *fiber.Ctx) error {
	var req serializers.UserRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.log, err, "Could not update user")
	}
	return h.update(c, req.Update())
}

// HandlePatchMe changes only the supplied fields of the caller.
func (h *UserHandler) HandlePatchMe(c *fiber.Ctx) error {
	var req serializers.UserPatchRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.log, err, "Could not update user")
	}
	return h.update(c, req.Update())
}

func (h *UserHandler) update(c *fiber.Ctx, in services.ProfileUpdate) error {
	user, err := h.users.UpdateProfile(c.UserContext(), middleware.CurrentUser(c), in)
	if err != nil {
		return respondError(c, h.log, err, "Could not update user")
	}
	return c.JSON(serializers.User(user))
}
