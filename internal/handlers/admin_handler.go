package handlers

import (
	"embed"
	"errors"
	"html/template"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"recipeapi/internal/errs"
	"recipeapi/internal/middleware"
	"recipeapi/internal/models"
	"recipeapi/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

var adminTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const adminLoginPath = "/admin/login"

// adminPage is the data every admin template renders.
type adminPage struct {
	Title  string
	User   *models.User
	Errors []string
	Form   map[string]string
	Users  []models.User
	Target *models.User
}

// AdminHandler serves the server-rendered account administration.
type AdminHandler struct {
	users      *services.UserService
	auth       *services.AuthService
	sessionTTL time.Duration
	log        *zap.SugaredLogger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(users *services.UserService, auth *services.AuthService, sessionTTL time.Duration, log *zap.SugaredLogger) *AdminHandler {
	return &AdminHandler{users: users, auth: auth, sessionTTL: sessionTTL, log: log}
}

// RegisterRoutes registers the admin pages under /admin.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	admin := router.Group("/admin")
	admin.Get("/login", h.HandleLoginForm)
	admin.Post("/login", h.HandleLogin)
	admin.Post("/logout", h.HandleLogout)

	staff := admin.Group("", middleware.AdminSession(h.auth, adminLoginPath, h.log))
	staff.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/admin/users", fiber.StatusFound) })
	staff.Get("/users", h.HandleUsers)
	staff.Get("/users/new", h.HandleAddForm)
	staff.Post("/users/new", h.HandleAdd)
	staff.Get("/users/:id", h.HandleChangeForm)
	staff.Post("/users/:id", h.HandleChange)
}

func (h *AdminHandler) render(c *fiber.Ctx, status int, name string, page adminPage) error {
	if page.User == nil {
		page.User = middleware.CurrentUser(c)
	}
	c.Status(status).Type("html", "utf-8")
	if err := adminTemplates.ExecuteTemplate(c.Response().BodyWriter(), name, page); err != nil {
		h.log.Errorw("failed to render admin page", "template", name, "error", err)
		return fiber.ErrInternalServerError
	}
	return nil
}

// HandleLoginForm shows the login page.
func (h *AdminHandler) HandleLoginForm(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "login.html", adminPage{Title: "Log in"})
}

// HandleLogin starts a staff session.
func (h *AdminHandler) HandleLogin(c *fiber.Ctx) error {
	email := c.FormValue("email")
	page := adminPage{Title: "Log in", Form: map[string]string{"email": email}}

	session, err := h.auth.StartSession(c.UserContext(), email, c.FormValue("password"))
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		page.Errors = []string{"Please enter the correct email and password for a staff account."}
		return h.render(c, fiber.StatusOK, "login.html", page)
	case errors.Is(err, errs.ErrPermission):
		page.Errors = []string{"You do not have permission to access the admin site."}
		return h.render(c, fiber.StatusForbidden, "login.html", page)
	case err != nil:
		h.log.Errorw("admin login failed", "error", err)
		return fiber.ErrInternalServerError
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AdminCookie,
		Value:    session,
		Path:     "/admin",
		Expires:  time.Now().Add(h.sessionTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect("/admin/users", fiber.StatusFound)
}

// HandleLogout ends the session.
func (h *AdminHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AdminCookie,
		Value:    "",
		Path:     "/admin",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
	})
	return c.Redirect(adminLoginPath, fiber.StatusFound)
}

// HandleUsers lists every account.
func (h *AdminHandler) HandleUsers(c *fiber.Ctx) error {
	users, err := h.users.ListUsers(c.UserContext())
	if err != nil {
		h.log.Errorw("failed to list users", "error", err)
		return fiber.ErrInternalServerError
	}
	return h.render(c, fiber.StatusOK, "users.html", adminPage{Title: "Users", Users: users})
}

// HandleAddForm shows the add-user page.
func (h *AdminHandler) HandleAddForm(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "user_add.html", adminPage{Title: "Add user"})
}

// HandleAdd creates an account from the add-user form.
func (h *AdminHandler) HandleAdd(c *fiber.Ctx) error {
	form := map[string]string{"email": c.FormValue("email"), "name": c.FormValue("name")}
	page := adminPage{Title: "Add user", Form: form}

	password := c.FormValue("password1")
	if password != c.FormValue("password2") {
		page.Errors = []string{"The two password fields didn't match."}
		return h.render(c, fiber.StatusBadRequest, "user_add.html", page)
	}
	if len(password) < services.MinPasswordLength {
		page.Errors = []string{"This password is too short. It must contain at least 5 characters."}
		return h.render(c, fiber.StatusBadRequest, "user_add.html", page)
	}

	user, err := h.users.CreateUser(c.UserContext(), services.NewUser{Email: form["email"], Password: password, Name: form["name"]})
	if err != nil {
		var v *errs.ValidationError
		if errors.As(err, &v) {
			for field, msg := range v.Fields {
				page.Errors = append(page.Errors, field+": "+msg)
			}
			return h.render(c, fiber.StatusBadRequest, "user_add.html", page)
		}
		h.log.Errorw("failed to add user", "error", err)
		return fiber.ErrInternalServerError
	}
	return c.Redirect("/admin/users/"+strconv.FormatUint(uint64(user.ID), 10), fiber.StatusFound)
}

func (h *AdminHandler) target(c *fiber.Ctx) (*models.User, error) {
	id, err := idParam(c)
	if err != nil {
		return nil, fiber.ErrNotFound
	}
	user, err := h.users.GetUser(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fiber.ErrNotFound
		}
		h.log.Errorw("failed to load user", "user_id", id, "error", err)
		return nil, fiber.ErrInternalServerError
	}
	return user, nil
}

// HandleChangeForm shows one account.
func (h *AdminHandler) HandleChangeForm(c *fiber.Ctx) error {
	user, err := h.target(c)
	if err != nil {
		return err
	}
	return h.render(c, fiber.StatusOK, "user_change.html", adminPage{Title: "Change user", Target: user})
}

// HandleChange saves the name and permission flags of one account.
func (h *AdminHandler) HandleChange(c *fiber.Ctx) error {
	user, err := h.target(c)
	if err != nil {
		return err
	}
	_, err = h.users.UpdateFlags(c.UserContext(), user.ID, services.AccountFlags{
		Name:        c.FormValue("name"),
		IsActive:    c.FormValue("is_active") != "",
		IsStaff:     c.FormValue("is_staff") != "",
		IsSuperuser: c.FormValue("is_superuser") != "",
	})
	if err != nil {
		h.log.Errorw("failed to change user", "user_id", user.ID, "error", err)
		return fiber.ErrInternalServerError
	}
	return c.Redirect("/admin/users", fiber.StatusFound)
}
