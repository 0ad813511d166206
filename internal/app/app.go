// Package app wires repositories, services and handlers into a Fiber app.
package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"recipeapi/internal/config"
	"recipeapi/internal/database"
	"recipeapi/internal/handlers"
	"recipeapi/internal/middleware"
	"recipeapi/internal/models"
	"recipeapi/internal/repositories"
	"recipeapi/internal/services"
	"recipeapi/internal/storage"
)

// Deps are the long-lived resources the HTTP app runs on.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Images storage.ImageStore
	Events services.EventPublisher // optional
	Log    *zap.SugaredLogger
}

// errorHandler answers errors that escaped a handler, such as unknown routes.
func errorHandler(log *zap.SugaredLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			log.Errorw("unhandled error", "path", c.Path(), "error", err)
		}
		return c.Status(code).JSON(fiber.Map{"message": message})
	}
}

// NewApp builds the HTTP application.
func NewApp(deps Deps) *fiber.App {
	cfg, log := deps.Config, deps.Log

	userRepo := repositories.NewGORMUserRepository(deps.DB)
	tokenRepo := repositories.NewGORMTokenRepository(deps.DB)
	tagRepo := repositories.NewGORMAttributeRepository[models.Tag](deps.DB)
	ingredientRepo := repositories.NewGORMAttributeRepository[models.Ingredient](deps.DB)
	recipeRepo := repositories.NewGORMRecipeRepository(deps.DB)

	userService := services.NewUserService(userRepo, log.Named("users"))
	authService := services.NewAuthService(userRepo, tokenRepo, cfg.AdminSecret, cfg.AdminSessionTTL, log.Named("auth"))
	tagService := services.NewTagService(tagRepo, log.Named("tags"))
	ingredientService := services.NewIngredientService(ingredientRepo, log.Named("ingredients"))
	recipeService := services.NewRecipeService(recipeRepo, tagService, ingredientService, deps.Images, deps.Events, log.Named("recipes"))

	userHandler := handlers.NewUserHandler(userService, authService, log)
	tagHandler := handlers.NewTagHandler(tagService, log)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService, log)
	recipeHandler := handlers.NewRecipeHandler(recipeService, int64(cfg.MaxUploadBytes), log)
	adminHandler := handlers.NewAdminHandler(userService, authService, cfg.AdminSessionTTL, log.Named("admin"))

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler(log),
		// Room for the multipart envelope around the largest accepted image.
		BodyLimit: cfg.MaxUploadBytes + 1024*1024,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx, deps.DB); err != nil {
			log.Warnw("health check failed", "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "unhealthy",
				"database": "unreachable",
			})
		}
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "connected",
			"events":   deps.Events != nil,
		})
	})

	if cfg.StorageBackend == config.StorageLocal && strings.HasPrefix(cfg.MediaURL, "/") {
		app.Static(cfg.MediaURL, cfg.MediaRoot)
	}

	requireToken := middleware.TokenAuth(authService, log)
	userHandler.RegisterRoutes(app, requireToken)

	recipeRoutes := app.Group("/recipe", requireToken)
	tagHandler.RegisterRoutes(recipeRoutes, "/tags")
	ingredientHandler.RegisterRoutes(recipeRoutes, "/ingredients")
	recipeHandler.RegisterRoutes(recipeRoutes)

	adminHandler.RegisterRoutes(app)

	return app
}
